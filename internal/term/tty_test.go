// The test is skipped when stdin is not a terminal (ErrNoTTY). Notably, this
// includes when run with "go test" because it redirects the test binary's
// standard streams. Exercise it directly with:
//
//	$ go test -c && ./term.test
package term_test

import (
	"errors"
	"os"
	"testing"

	"github.com/kestrely/lc3vm/internal/term"
)

func TestConsole_readWrite(tt *testing.T) {
	cons, err := term.NewConsole(os.Stdin, os.Stdout)
	if errors.Is(err, term.ErrNoTTY) {
		tt.Skipf("not a tty: %s", err)
	}

	if err != nil {
		tt.Fatalf("new console: %s", err)
	}

	defer func() { _ = cons.Restore() }()

	n, err := cons.Write([]byte("."))
	if err != nil {
		tt.Errorf("write: %s", err)
	}

	if n != 1 {
		tt.Errorf("wrote %d bytes, want 1", n)
	}
}
