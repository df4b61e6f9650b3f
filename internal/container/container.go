// SPDX-License-Identifier: MPL-2.0

// Package container encodes and decodes RPG Maker script containers: an
// ordered list of (tag, name, body) records where every body is a zlib
// stream. It performs pure byte transforms; file helpers live in file.go.
package container

import (
	"errors"
	"fmt"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/marshal"
)

// recordArity is the number of fields in every record: tag, name, body.
const recordArity = 3

var (
	// ErrMalformedContainer is returned when the container cannot be parsed as an
	// ordered list of (integer, string, string) records.
	ErrMalformedContainer = errors.New("malformed container")
	// ErrCorruptBody is returned when a record body is not a valid zlib stream.
	ErrCorruptBody = errors.New("corrupt record body")
)

type (
	// Record is one script container entry. An empty Name marks a sentinel.
	// Body is always compressed.
	Record struct {
		Tag  int64
		Name string
		Body []byte
	}

	// Stream is the ordered record list held by a container.
	Stream []Record

	// MalformedContainerError is returned when the container envelope or its
	// record shape is invalid. Index is -1 when the failure is not tied to a
	// single record. It wraps ErrMalformedContainer for errors.Is() compatibility.
	MalformedContainerError struct {
		Index  int
		Reason string
		Err    error
	}
)

// Names returns the record names in stream order.
func (s Stream) Names() []string {
	names := make([]string, len(s))
	for i, r := range s {
		names[i] = r.Name
	}
	return names
}

// Error implements the error interface for MalformedContainerError.
func (e *MalformedContainerError) Error() string {
	msg := "malformed container"
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s: record %d", msg, e.Index)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns both ErrMalformedContainer and the underlying cause.
func (e *MalformedContainerError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedContainer}
	}
	return []error{ErrMalformedContainer, e.Err}
}

// Decode parses container bytes into a record stream.
func Decode(data []byte) (Stream, error) {
	v, err := marshal.Unmarshal(data)
	if err != nil {
		return nil, &MalformedContainerError{Index: -1, Err: err}
	}

	list, ok := v.(marshal.Array)
	if !ok {
		return nil, &MalformedContainerError{Index: -1, Reason: fmt.Sprintf("top-level value is %s, want array", v.Kind())}
	}

	stream := make(Stream, 0, len(list))
	for i, item := range list {
		rec, err := decodeRecord(i, item)
		if err != nil {
			return nil, err
		}
		stream = append(stream, rec)
	}
	return stream, nil
}

func decodeRecord(i int, item marshal.Value) (Record, error) {
	fields, ok := item.(marshal.Array)
	if !ok {
		return Record{}, &MalformedContainerError{Index: i, Reason: fmt.Sprintf("record is %s, want array", item.Kind())}
	}
	if len(fields) != recordArity {
		return Record{}, &MalformedContainerError{Index: i, Reason: fmt.Sprintf("record has %d fields, want %d", len(fields), recordArity)}
	}

	tag, ok := fields[0].(marshal.Int)
	if !ok {
		return Record{}, &MalformedContainerError{Index: i, Reason: fmt.Sprintf("tag is %s, want integer", fields[0].Kind())}
	}
	name, ok := fields[1].(marshal.String)
	if !ok {
		return Record{}, &MalformedContainerError{Index: i, Reason: fmt.Sprintf("name is %s, want string", fields[1].Kind())}
	}
	body, ok := fields[2].(marshal.String)
	if !ok {
		return Record{}, &MalformedContainerError{Index: i, Reason: fmt.Sprintf("body is %s, want string", fields[2].Kind())}
	}

	return Record{
		Tag:  int64(tag),
		Name: string(name.Bytes),
		Body: body.Bytes,
	}, nil
}

// Encode serializes a record stream. Field order is always tag, name, body;
// names are written as UTF-8 strings and bodies as binary strings, the way
// the RPG Maker editor saves them.
func Encode(stream Stream) ([]byte, error) {
	list := make(marshal.Array, len(stream))
	for i, r := range stream {
		list[i] = marshal.Array{
			marshal.Int(r.Tag),
			marshal.UTF8String(r.Name),
			marshal.RawString(r.Body),
		}
	}

	data, err := marshal.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode container: %w", err)
	}
	return data, nil
}
