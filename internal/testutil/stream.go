// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/leaf2fire/RPG-Maker-Scripts/internal/container"
)

// Script describes one fixture record: a name and its uncompressed body.
type Script struct {
	Name string
	Text string
}

// MustDeflate compresses s or fails the test.
func MustDeflate(t testing.TB, s string) []byte {
	t.Helper()
	b, err := container.Deflate([]byte(s))
	if err != nil {
		t.Fatalf("failed to deflate %q: %v", s, err)
	}
	return b
}

// BuildStream returns a record stream with every record tagged tag.
func BuildStream(t testing.TB, tag int64, scripts ...Script) container.Stream {
	t.Helper()
	stream := make(container.Stream, len(scripts))
	for i, s := range scripts {
		stream[i] = container.Record{Tag: tag, Name: s.Name, Body: MustDeflate(t, s.Text)}
	}
	return stream
}

// SampleStream is the two-folder stream used across package tests:
// UI/Main.rb holds "puts 1" and Core/Init.rb holds "puts 2".
func SampleStream(t testing.TB, tag int64) container.Stream {
	t.Helper()
	return BuildStream(t, tag,
		Script{Name: ""},
		Script{Name: "UI"},
		Script{Name: "Main", Text: "puts 1"},
		Script{Name: ""},
		Script{Name: "Core"},
		Script{Name: "Init", Text: "puts 2"},
	)
}

// MustWriteContainer encodes stream to path or fails the test.
func MustWriteContainer(t testing.TB, path string, stream container.Stream) {
	t.Helper()
	if err := container.WriteFile(context.Background(), path, stream, container.WriteOptions{}); err != nil {
		t.Fatalf("failed to write container %s: %v", path, err)
	}
}

// AssertStreamsEqual compares two streams by tag, name and decompressed body.
func AssertStreamsEqual(t testing.TB, got, want container.Stream) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("stream has %d records, want %d (got names %q, want %q)", len(got), len(want), got.Names(), want.Names())
	}
	for i := range want {
		if got[i].Tag != want[i].Tag {
			t.Errorf("record %d tag = %d, want %d", i, got[i].Tag, want[i].Tag)
		}
		if got[i].Name != want[i].Name {
			t.Errorf("record %d name = %q, want %q", i, got[i].Name, want[i].Name)
		}
		gotBody, err := container.Inflate(got[i].Body)
		if err != nil {
			t.Errorf("record %d body: %v", i, err)
			continue
		}
		wantBody, err := container.Inflate(want[i].Body)
		if err != nil {
			t.Errorf("record %d expected body: %v", i, err)
			continue
		}
		if !bytes.Equal(gotBody, wantBody) {
			t.Errorf("record %d body = %q, want %q", i, gotBody, wantBody)
		}
	}
}
