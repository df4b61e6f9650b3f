// SPDX-License-Identifier: MPL-2.0

package marshal

import (
	"fmt"
	"math"
)

type decoder struct {
	data    []byte
	pos     int
	depth   int
	symbols []Symbol
	objects []Value
}

// Unmarshal decodes a single Marshal value from data. Bytes after the first
// complete value are ignored, as Ruby's Marshal.load does.
func Unmarshal(data []byte) (Value, error) {
	d := &decoder{data: data}
	if len(data) < 2 {
		return nil, d.fail(ErrTruncated, "missing version header")
	}
	if data[0] != MajorVersion || data[1] != MinorVersion {
		return nil, d.fail(ErrVersion, fmt.Sprintf("got %d.%d", data[0], data[1]))
	}
	d.pos = 2
	return d.value()
}

func (d *decoder) fail(err error, detail string) *SyntaxError {
	return &SyntaxError{Offset: d.pos, Detail: detail, Err: err}
}

func (d *decoder) byte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, d.fail(ErrTruncated, "")
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, d.fail(ErrTruncated, fmt.Sprintf("negative length %d", n))
	}
	if n > len(d.data)-d.pos {
		return nil, d.fail(ErrTruncated, fmt.Sprintf("need %d bytes, have %d", n, len(d.data)-d.pos))
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// long reads Ruby's variable-length w_long integer encoding.
func (d *decoder) long() (int64, error) {
	b, err := d.byte()
	if err != nil {
		return 0, err
	}
	c := int64(int8(b))
	switch {
	case c == 0:
		return 0, nil
	case c > 4:
		return c - 5, nil
	case c < -4:
		return c + 5, nil
	case c > 0:
		raw, err := d.bytes(int(c))
		if err != nil {
			return 0, err
		}
		var x int64
		for i, v := range raw {
			x |= int64(v) << (8 * i)
		}
		return x, nil
	default:
		raw, err := d.bytes(int(-c))
		if err != nil {
			return 0, err
		}
		x := int64(-1)
		for i, v := range raw {
			x &^= int64(0xff) << (8 * i)
			x |= int64(v) << (8 * i)
		}
		return x, nil
	}
}

func (d *decoder) length() (int, error) {
	n, err := d.long()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > int64(len(d.data)) {
		return 0, d.fail(ErrTruncated, fmt.Sprintf("implausible length %d", n))
	}
	return int(n), nil
}

func (d *decoder) value() (Value, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxDepth {
		return nil, d.fail(ErrTooDeep, "")
	}

	t, err := d.byte()
	if err != nil {
		return nil, err
	}

	switch t {
	case typeNil:
		return Nil{}, nil
	case typeTrue:
		return Bool(true), nil
	case typeFalse:
		return Bool(false), nil
	case typeFixnum:
		n, err := d.long()
		if err != nil {
			return nil, err
		}
		return Int(n), nil
	case typeBignum:
		return d.bignum()
	case typeString:
		return d.string()
	case typeIvar:
		return d.ivar()
	case typeSymbol, typeSymlink:
		d.pos--
		return d.symbol()
	case typeArray:
		return d.array()
	case typeLink:
		idx, err := d.long()
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= int64(len(d.objects)) || d.objects[idx] == nil {
			return nil, d.fail(ErrInvalidLink, fmt.Sprintf("object %d", idx))
		}
		return d.objects[idx], nil
	default:
		d.pos--
		return nil, d.fail(ErrUnsupportedType, fmt.Sprintf("type byte %q", t))
	}
}

func (d *decoder) register(v Value) int {
	d.objects = append(d.objects, v)
	return len(d.objects) - 1
}

func (d *decoder) bignum() (Value, error) {
	idx := d.register(nil)
	sign, err := d.byte()
	if err != nil {
		return nil, err
	}
	if sign != '+' && sign != '-' {
		return nil, d.fail(ErrUnsupportedType, fmt.Sprintf("bignum sign %q", sign))
	}
	shorts, err := d.length()
	if err != nil {
		return nil, err
	}
	raw, err := d.bytes(shorts * 2)
	if err != nil {
		return nil, err
	}
	var mag uint64
	for i, v := range raw {
		if v == 0 {
			continue
		}
		if i >= 8 {
			return nil, d.fail(ErrOutOfRange, "bignum wider than 64 bits")
		}
		mag |= uint64(v) << (8 * i)
	}
	var n int64
	switch {
	case sign == '+' && mag <= math.MaxInt64:
		n = int64(mag)
	case sign == '-' && mag <= math.MaxInt64:
		n = -int64(mag)
	case sign == '-' && mag == 1<<63:
		n = math.MinInt64
	default:
		return nil, d.fail(ErrOutOfRange, "bignum exceeds int64")
	}
	d.objects[idx] = Int(n)
	return Int(n), nil
}

func (d *decoder) string() (String, error) {
	n, err := d.length()
	if err != nil {
		return String{}, err
	}
	raw, err := d.bytes(n)
	if err != nil {
		return String{}, err
	}
	s := String{Bytes: raw}
	d.register(s)
	return s, nil
}

func (d *decoder) ivar() (Value, error) {
	idx := len(d.objects)
	inner, err := d.value()
	if err != nil {
		return nil, err
	}
	count, err := d.length()
	if err != nil {
		return nil, err
	}
	s, isString := inner.(String)
	for range count {
		key, err := d.symbol()
		if err != nil {
			return nil, err
		}
		val, err := d.value()
		if err != nil {
			return nil, err
		}
		if !isString {
			continue
		}
		switch key {
		case encodingFlag:
			if b, ok := val.(Bool); ok {
				s.UTF8 = bool(b)
			}
		case encodingName:
			s.UTF8 = false
		}
	}
	if !isString {
		return inner, nil
	}
	if idx < len(d.objects) {
		d.objects[idx] = s
	}
	return s, nil
}

func (d *decoder) symbol() (Symbol, error) {
	t, err := d.byte()
	if err != nil {
		return "", err
	}
	switch t {
	case typeSymbol:
		n, err := d.length()
		if err != nil {
			return "", err
		}
		raw, err := d.bytes(n)
		if err != nil {
			return "", err
		}
		sym := Symbol(raw)
		d.symbols = append(d.symbols, sym)
		return sym, nil
	case typeSymlink:
		idx, err := d.long()
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= int64(len(d.symbols)) {
			return "", d.fail(ErrInvalidLink, fmt.Sprintf("symbol %d", idx))
		}
		return d.symbols[idx], nil
	default:
		d.pos--
		return "", d.fail(ErrUnsupportedType, fmt.Sprintf("expected symbol, got type byte %q", t))
	}
}

func (d *decoder) array() (Array, error) {
	idx := d.register(nil)
	n, err := d.length()
	if err != nil {
		return nil, err
	}
	arr := make(Array, 0, n)
	for range n {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	d.objects[idx] = arr
	return arr, nil
}
