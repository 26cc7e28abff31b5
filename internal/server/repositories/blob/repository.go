// Package blob stores attachment payloads addressed by a relative path
// such as "attachments/<userID>/<observationID>/<file>".
package blob

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrInvalidPath is returned when a key is empty, absolute or tries to
// escape the store root.
var ErrInvalidPath = errors.New("blob: invalid path")

// Store is a byte-level backend for attachment files.
// Delete is idempotent: removing a missing key is not an error.
type Store interface {
	Write(ctx context.Context, key string, r io.Reader) error
	Read(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects keys that could resolve outside the store root.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidPath
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return ErrInvalidPath
		}
	}
	return nil
}
