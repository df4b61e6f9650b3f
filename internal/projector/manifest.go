// SPDX-License-Identifier: MPL-2.0

package projector

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

const (
	// DefaultManifestFile is the manifest file name under the tree root.
	DefaultManifestFile = "manifest.txt"

	utf8BOM          = "\ufeff"
	maxManifestLine  = 1 << 20
	initialLineAlloc = 4096
)

// EncodeManifest writes one name per line, each terminated by '\n'.
// Sentinels are written as empty lines. When the first name itself starts
// with U+FEFF, a BOM is written ahead of it so DecodeManifest strips only
// the BOM.
func EncodeManifest(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	if len(names) > 0 && strings.HasPrefix(names[0], utf8BOM) {
		if _, err := bw.WriteString(utf8BOM); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	}
	for i, name := range names {
		if strings.ContainsAny(name, "\r\n") {
			return &InvalidNameError{Index: i, Name: name}
		}
		if _, err := bw.WriteString(name); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// DecodeManifest reads names written by EncodeManifest. A leading UTF-8 BOM
// and CRLF line endings, as left behind by some editors, are tolerated.
func DecodeManifest(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialLineAlloc), maxManifestLine)

	var names []string
	for sc.Scan() {
		line := sc.Text()
		if len(names) == 0 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		names = append(names, strings.TrimSuffix(line, "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return names, nil
}

// WriteManifest persists names to path, replacing any previous manifest.
func WriteManifest(path string, names []string) error {
	var buf bytes.Buffer
	if err := EncodeManifest(&buf, names); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads the manifest at path. A missing file is reported as
// *MissingManifestError.
func ReadManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &MissingManifestError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	return DecodeManifest(f)
}
