package loader_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/kestrely/lc3vm/internal/loader"
	"github.com/kestrely/lc3vm/internal/vm"
)

type readCase struct {
	name      string
	bytes     []byte
	expOrigin vm.Word
	expWords  []vm.Word
	expErr    error
}

func TestRead(tt *testing.T) {
	tt.Parallel()

	tcs := []readCase{{
		name: "ok",
		bytes: []byte{
			0x30, 0x00,
			0x12, 0x34,
			0x56, 0x78,
		},
		expOrigin: 0x3000,
		expWords:  []vm.Word{0x1234, 0x5678},
	}, {
		name:   "empty",
		bytes:  nil,
		expErr: loader.ErrObjectLoader,
	}, {
		name:   "origin only, no code",
		bytes:  []byte{0x30, 0x00},
		expErr: loader.ErrObjectLoader,
	}, {
		name:   "truncated word",
		bytes:  []byte{0x30, 0x00, 0x12},
		expErr: loader.ErrObjectLoader,
	}}

	for _, tc := range tcs {
		tc := tc

		tt.Run(tc.name, func(tt *testing.T) {
			tt.Parallel()

			words, origin, err := loader.Read(bytes.NewReader(tc.bytes))

			switch {
			case tc.expErr == nil && err != nil:
				tt.Fatalf("unexpected error: %s", err)
			case tc.expErr != nil:
				if !errors.Is(err, tc.expErr) {
					tt.Fatalf("err = %v, want %v", err, tc.expErr)
				}

				return
			}

			if origin != tc.expOrigin {
				tt.Errorf("origin = %s, want %s", origin, tc.expOrigin)
			}

			if len(words) != len(tc.expWords) {
				tt.Fatalf("words = %d, want %d", len(words), len(tc.expWords))
			}

			for i := range words {
				if words[i] != tc.expWords[i] {
					tt.Errorf("words[%d] = %s, want %s", i, words[i], tc.expWords[i])
				}
			}
		})
	}
}

func TestLoad_missingFile(tt *testing.T) {
	tt.Parallel()

	_, _, err := loader.Load("/nonexistent/path/does/not/exist.obj")
	if !errors.Is(err, loader.ErrObjectLoader) {
		tt.Fatalf("err = %v, want %v", err, loader.ErrObjectLoader)
	}
}
