// SPDX-License-Identifier: MPL-2.0

package marshal

import (
	"bytes"
	"fmt"
	"math"
)

type encoder struct {
	buf     bytes.Buffer
	symbols map[Symbol]int
}

// Marshal encodes v as a Marshal 4.8 stream.
func Marshal(v Value) ([]byte, error) {
	e := &encoder{symbols: make(map[Symbol]int)}
	e.buf.WriteByte(MajorVersion)
	e.buf.WriteByte(MinorVersion)
	if err := e.value(v, 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

func (e *encoder) value(v Value, depth int) error {
	if depth > maxDepth {
		return ErrTooDeep
	}
	switch val := v.(type) {
	case nil, Nil:
		e.buf.WriteByte(typeNil)
	case Bool:
		if val {
			e.buf.WriteByte(typeTrue)
		} else {
			e.buf.WriteByte(typeFalse)
		}
	case Int:
		e.integer(int64(val))
	case String:
		e.string(val)
	case Symbol:
		e.symbol(val)
	case Array:
		e.buf.WriteByte(typeArray)
		e.long(int64(len(val)))
		for _, elem := range val {
			if err := e.value(elem, depth+1); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: cannot encode %T", ErrUnsupportedType, v)
	}
	return nil
}

// integer writes a Fixnum when the value fits in 31 bits plus sign, and a
// Bignum otherwise, matching what Ruby emits on 64-bit hosts.
func (e *encoder) integer(n int64) {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		e.buf.WriteByte(typeFixnum)
		e.long(n)
		return
	}

	e.buf.WriteByte(typeBignum)
	var mag uint64
	if n < 0 {
		e.buf.WriteByte('-')
		mag = uint64(-(n + 1)) + 1
	} else {
		e.buf.WriteByte('+')
		mag = uint64(n)
	}
	var raw []byte
	for mag > 0 {
		raw = append(raw, byte(mag))
		mag >>= 8
	}
	if len(raw)%2 == 1 {
		raw = append(raw, 0)
	}
	e.long(int64(len(raw) / 2))
	e.buf.Write(raw)
}

func (e *encoder) string(s String) {
	if s.UTF8 {
		e.buf.WriteByte(typeIvar)
	}
	e.buf.WriteByte(typeString)
	e.long(int64(len(s.Bytes)))
	e.buf.Write(s.Bytes)
	if s.UTF8 {
		e.long(1)
		e.symbol(encodingFlag)
		e.buf.WriteByte(typeTrue)
	}
}

func (e *encoder) symbol(sym Symbol) {
	if idx, ok := e.symbols[sym]; ok {
		e.buf.WriteByte(typeSymlink)
		e.long(int64(idx))
		return
	}
	e.symbols[sym] = len(e.symbols)
	e.buf.WriteByte(typeSymbol)
	e.long(int64(len(sym)))
	e.buf.WriteString(string(sym))
}

// long writes Ruby's variable-length w_long encoding. Callers guarantee n
// fits in 32 bits.
func (e *encoder) long(n int64) {
	switch {
	case n == 0:
		e.buf.WriteByte(0)
		return
	case n > 0 && n < 123:
		e.buf.WriteByte(byte(n + 5))
		return
	case n < 0 && n > -124:
		e.buf.WriteByte(byte((n - 5) & 0xff))
		return
	}

	var raw [4]byte
	for i := 1; i <= 4; i++ {
		raw[i-1] = byte(n & 0xff)
		n >>= 8
		if n == 0 {
			e.buf.WriteByte(byte(i))
			e.buf.Write(raw[:i])
			return
		}
		if n == -1 {
			e.buf.WriteByte(byte(-i))
			e.buf.Write(raw[:i])
			return
		}
	}
	// Unreachable for 32-bit inputs.
	e.buf.WriteByte(4)
	e.buf.Write(raw[:])
}
