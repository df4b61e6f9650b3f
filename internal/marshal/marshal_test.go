// SPDX-License-Identifier: MPL-2.0

package marshal

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestMarshal_IntegerEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   int64
		want []byte
	}{
		{"zero", 0, []byte{4, 8, 'i', 0x00}},
		{"one", 1, []byte{4, 8, 'i', 0x06}},
		{"minus one", -1, []byte{4, 8, 'i', 0xfa}},
		{"largest short form", 122, []byte{4, 8, 'i', 0x7f}},
		{"first one-byte form", 123, []byte{4, 8, 'i', 0x01, 0x7b}},
		{"smallest short form", -123, []byte{4, 8, 'i', 0x80}},
		{"negative one-byte form", -124, []byte{4, 8, 'i', 0xff, 0x84}},
		{"two bytes", 256, []byte{4, 8, 'i', 0x02, 0x00, 0x01}},
		{"negative two bytes", -256, []byte{4, 8, 'i', 0xff, 0x00}},
		{"bignum", 1 << 40, []byte{4, 8, 'l', '+', 0x08, 0, 0, 0, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Marshal(Int(tt.in))
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Marshal(%d) = % x, want % x", tt.in, got, tt.want)
			}

			back, err := Unmarshal(got)
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if back != Int(tt.in) {
				t.Errorf("Unmarshal() = %v, want %d", back, tt.in)
			}
		})
	}
}

func TestInteger_RoundTripBoundaries(t *testing.T) {
	t.Parallel()

	for _, n := range []int64{
		math.MaxInt32, math.MinInt32, math.MaxInt32 + 1, math.MinInt32 - 1,
		math.MaxInt64, math.MinInt64, 65535, -65536, 1 << 24, -(1 << 24),
	} {
		data, err := Marshal(Int(n))
		if err != nil {
			t.Fatalf("Marshal(%d) error = %v", n, err)
		}
		got, err := Unmarshal(data)
		if err != nil {
			t.Fatalf("Unmarshal(%d) error = %v", n, err)
		}
		if got != Int(n) {
			t.Errorf("round trip of %d = %v", n, got)
		}
	}
}

func TestMarshal_UTF8StringMatchesRuby(t *testing.T) {
	t.Parallel()

	// Marshal.dump("abc") on Ruby 1.9+.
	want := []byte("\x04\x08I\"\x08abc\x06:\x06ET")
	got, err := Marshal(UTF8String("abc"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = %q, want %q", got, want)
	}
}

func TestMarshal_SymbolLinkReuse(t *testing.T) {
	t.Parallel()

	// Marshal.dump(["a", "b"]) reuses the :E symbol through a symlink.
	want := []byte("\x04\x08[\x07I\"\x06a\x06:\x06ETI\"\x06b\x06;\x00T")
	got, err := Marshal(Array{UTF8String("a"), UTF8String("b")})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = %q, want %q", got, want)
	}
}

func TestUnmarshal_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want Value
	}{
		{"nil", "\x04\x080", Nil{}},
		{"true", "\x04\x08T", Bool(true)},
		{"false", "\x04\x08F", Bool(false)},
		{"raw string", "\x04\x08\"\x08x\x00y", RawString([]byte("x\x00y"))},
		{"utf8 string", "\x04\x08I\"\x07hi\x06:\x06ET", UTF8String("hi")},
		{"symbol", "\x04\x08:\x08foo", Symbol("foo")},
		{
			"named encoding string",
			"\x04\x08I\"\x07hi\x06:\x0dencoding\"\x0eShift_JIS",
			RawString([]byte("hi")),
		},
		{
			"object link",
			"\x04\x08[\x07\"\x06a@\x06",
			Array{RawString([]byte("a")), RawString([]byte("a"))},
		},
		{"trailing bytes ignored", "\x04\x080garbage", Nil{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Unmarshal([]byte(tt.in))
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"empty", "", ErrTruncated},
		{"wrong version", "\x04\x070", ErrVersion},
		{"missing value", "\x04\x08", ErrTruncated},
		{"short string", "\x04\x08\"\x0aab", ErrTruncated},
		{"hash", "\x04\x08{\x00", ErrUnsupportedType},
		{"object", "\x04\x08o:\x08Foo\x00", ErrUnsupportedType},
		{"dangling symlink", "\x04\x08;\x00", ErrInvalidLink},
		{"dangling object link", "\x04\x08@\x00", ErrInvalidLink},
		{"huge array length", "\x04\x08[\x04\xff\xff\xff\x7f", ErrTruncated},
		{"bignum overflow", "\x04\x08l+\x0a\x00\x00\x00\x00\x00\x00\x00\x00\x01\x00", ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Unmarshal([]byte(tt.in))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Errorf("error %T is not a *SyntaxError", err)
			}
		})
	}
}

func TestUnmarshal_TooDeep(t *testing.T) {
	t.Parallel()

	in := []byte{4, 8}
	for range maxDepth + 1 {
		in = append(in, '[', 0x06)
	}
	in = append(in, '0')

	if _, err := Unmarshal(in); !errors.Is(err, ErrTooDeep) {
		t.Errorf("Unmarshal() error = %v, want ErrTooDeep", err)
	}
}

func TestMarshal_NestedRoundTrip(t *testing.T) {
	t.Parallel()

	in := Array{
		Array{Int(42), UTF8String("Main"), RawString([]byte{0x78, 0xda, 0x00})},
		Array{Int(-7), UTF8String("▼ Materials"), RawString(nil)},
		Nil{}, Bool(true), Symbol("E"),
	}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	// Empty byte slices decode as zero-length, non-nil slices.
	want := in
	want[1].(Array)[2] = RawString([]byte{})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %#v, want %#v", got, want)
	}
}
