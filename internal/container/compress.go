// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// CorruptBodyError is returned when a record body cannot be inflated.
// It wraps ErrCorruptBody for errors.Is() compatibility.
type CorruptBodyError struct {
	Index int
	Name  string
	Err   error
}

// Error implements the error interface for CorruptBodyError.
func (e *CorruptBodyError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("corrupt record body: %v", e.Err)
	}
	return fmt.Sprintf("corrupt record body: record %d (%q): %v", e.Index, e.Name, e.Err)
}

// Unwrap returns both ErrCorruptBody and the underlying zlib error.
func (e *CorruptBodyError) Unwrap() []error {
	return []error{ErrCorruptBody, e.Err}
}

// Inflate decompresses a record body.
func Inflate(body []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, &CorruptBodyError{Index: -1, Err: err}
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &CorruptBodyError{Index: -1, Err: err}
	}
	return out, nil
}

// Deflate compresses data at the best compression level. The output is not
// guaranteed to be byte-identical to other zlib implementations.
func Deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("create deflater: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	return buf.Bytes(), nil
}

// InflateRecord decompresses the body of r, attributing failures to the
// record at index i.
func InflateRecord(i int, r Record) ([]byte, error) {
	out, err := Inflate(r.Body)
	if err != nil {
		var cbe *CorruptBodyError
		if errors.As(err, &cbe) {
			cbe.Index = i
			cbe.Name = r.Name
		}
		return nil, err
	}
	return out, nil
}
