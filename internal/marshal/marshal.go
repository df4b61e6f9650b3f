// SPDX-License-Identifier: MPL-2.0

// Package marshal reads and writes the subset of the Ruby Marshal 4.8 format
// used by RPG Maker script containers.
//
// The supported value model is deliberately small: nil, booleans, integers,
// strings (raw or UTF-8 tagged), symbols and arrays. Anything else found in the
// input is rejected with ErrUnsupportedType rather than skipped, so a container
// that does not have the expected shape is never silently reinterpreted.
package marshal

import (
	"errors"
	"fmt"
)

const (
	// MajorVersion is the first byte of every Marshal 4.8 stream.
	MajorVersion byte = 4
	// MinorVersion is the second byte of every Marshal 4.8 stream.
	MinorVersion byte = 8

	typeNil     byte = '0'
	typeTrue    byte = 'T'
	typeFalse   byte = 'F'
	typeFixnum  byte = 'i'
	typeBignum  byte = 'l'
	typeString  byte = '"'
	typeIvar    byte = 'I'
	typeSymbol  byte = ':'
	typeSymlink byte = ';'
	typeArray   byte = '['
	typeLink    byte = '@'

	// encodingFlag is the instance variable Ruby attaches to UTF-8 strings.
	encodingFlag = "E"
	// encodingName is the instance variable Ruby attaches to strings in other
	// named encodings.
	encodingName = "encoding"

	maxDepth = 64
)

var (
	// ErrVersion is returned when the stream header is not Marshal 4.8.
	ErrVersion = errors.New("unsupported marshal version")
	// ErrTruncated is returned when the stream ends before a value is complete.
	ErrTruncated = errors.New("truncated marshal data")
	// ErrUnsupportedType is returned for type bytes outside the supported subset.
	ErrUnsupportedType = errors.New("unsupported marshal type")
	// ErrInvalidLink is returned when a symbol or object link points nowhere.
	ErrInvalidLink = errors.New("invalid marshal link")
	// ErrOutOfRange is returned for integers that do not fit in an int64.
	ErrOutOfRange = errors.New("marshal integer out of range")
	// ErrTooDeep is returned when nesting exceeds the decoder limit.
	ErrTooDeep = errors.New("marshal nesting too deep")
)

type (
	// Value is one decoded Marshal value.
	Value interface {
		// Kind names the value type for error messages.
		Kind() string
	}

	// Nil is Ruby's nil.
	Nil struct{}

	// Bool is Ruby's true or false.
	Bool bool

	// Int is a Ruby Integer that fits in 64 bits.
	Int int64

	// String is a Ruby String. UTF8 reports whether the string carried the
	// UTF-8 encoding flag; strings without it are treated as binary.
	String struct {
		Bytes []byte
		UTF8  bool
	}

	// Symbol is a Ruby Symbol.
	Symbol string

	// Array is a Ruby Array.
	Array []Value

	// SyntaxError describes where in the stream decoding failed.
	// It wraps one of the package sentinel errors.
	SyntaxError struct {
		Offset int
		Detail string
		Err    error
	}
)

// Kind implements Value.
func (Nil) Kind() string { return "nil" }

// Kind implements Value.
func (Bool) Kind() string { return "bool" }

// Kind implements Value.
func (Int) Kind() string { return "integer" }

// Kind implements Value.
func (String) Kind() string { return "string" }

// Kind implements Value.
func (Symbol) Kind() string { return "symbol" }

// Kind implements Value.
func (Array) Kind() string { return "array" }

// RawString returns a binary String value.
func RawString(b []byte) String { return String{Bytes: b} }

// UTF8String returns a String value tagged as UTF-8.
func UTF8String(s string) String { return String{Bytes: []byte(s), UTF8: true} }

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("marshal: offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("marshal: offset %d: %v: %s", e.Offset, e.Err, e.Detail)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *SyntaxError) Unwrap() error { return e.Err }
