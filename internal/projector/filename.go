// SPDX-License-Identifier: MPL-2.0

package projector

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// reservedNames are device names Windows refuses as a file or directory
// stem, whatever the extension and case.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// FileName maps a record name to a single path element. Bytes that are not
// portable in file names are percent-escaped, as is '%' itself, so distinct
// names always map to distinct file names. The mapping is one-way; import
// recomputes it from the manifest instead of reversing it.
func FileName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))

	i := 0
	if isReservedName(name) {
		// Escaping the first letter is enough to leave the device namespace.
		escapeByte(&sb, name[0])
		i = 1
	}
	for i < len(name) {
		r, size := utf8.DecodeRuneInString(name[i:])
		last := i+size == len(name)
		switch {
		case r == utf8.RuneError && size == 1:
			escapeByte(&sb, name[i])
		case r < 0x20 || r == 0x7f || strings.ContainsRune(`<>:"/\|?*%`, r):
			escapeByte(&sb, byte(r))
		case last && (r == '.' || r == ' '):
			// Windows strips trailing dots and spaces; this also covers "." and "..".
			escapeByte(&sb, byte(r))
		default:
			sb.WriteString(name[i : i+size])
		}
		i += size
	}
	return sb.String()
}

// isReservedName reports whether the stem of name, up to its first dot, is
// a Windows device name.
func isReservedName(name string) bool {
	stem, _, _ := strings.Cut(name, ".")
	return reservedNames[strings.ToUpper(stem)]
}

func escapeByte(sb *strings.Builder, b byte) {
	fmt.Fprintf(sb, "%%%02X", b)
}
