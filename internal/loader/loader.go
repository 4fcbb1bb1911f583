// Package loader reads LC-3 object files: a big-endian origin word followed
// by the program image, with no header or checksum (spec.md-equivalent
// external object format).
package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kestrely/lc3vm/internal/log"
	"github.com/kestrely/lc3vm/internal/vm"
)

// ErrObjectLoader is wrapped by every error this package returns.
var ErrObjectLoader = errors.New("loader error")

// Load reads the object file at path and returns its program image and
// origin address, ready for (*vm.LC3).LoadImage.
func Load(path string) ([]vm.Word, vm.Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrObjectLoader, err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses an object file from r: a two-byte origin, big-endian, then
// the program image as a sequence of big-endian words.
func Read(r io.Reader) ([]vm.Word, vm.Word, error) {
	logger := log.DefaultLogger()

	var origin vm.Word

	if err := binary.Read(r, binary.BigEndian, &origin); err != nil {
		return nil, 0, fmt.Errorf("%w: reading origin: %w", ErrObjectLoader, err)
	}

	var words []vm.Word

	for {
		var w vm.Word

		err := binary.Read(r, binary.BigEndian, &w)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, 0, fmt.Errorf("%w: reading image: %w", ErrObjectLoader, err)
		}

		words = append(words, w)
	}

	if len(words) == 0 {
		return nil, 0, fmt.Errorf("%w: object has no code", ErrObjectLoader)
	}

	logger.Debug("loaded object", "origin", origin, "words", len(words))

	return words, origin, nil
}
