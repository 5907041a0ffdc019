package api

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is a value with a protobuf binary encoding.
type Message interface {
	MarshalProto(b []byte) []byte
	UnmarshalProto(b []byte) error
}

var errWireType = errors.New("unexpected wire type")

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.MarshalProto(nil))
}

// appendTime writes t in the google.protobuf.Timestamp layout. The zero
// time is left out.
func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	return appendMessage(b, num, &timestamp{seconds: t.Unix(), nanos: int32(t.Nanosecond())})
}

// field is one decoded tag and the bytes following it.
type field struct {
	num  protowire.Number
	typ  protowire.Type
	rest []byte
}

// consumeFields walks b and hands every field to fn, which returns how
// many bytes of the value it read. A zero count skips the value.
func consumeFields(b []byte, fn func(f field) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		used, err := fn(field{num: num, typ: typ, rest: b})
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if used == 0 {
			used = protowire.ConsumeFieldValue(num, typ, b)
			if used < 0 {
				return protowire.ParseError(used)
			}
		}
		b = b[used:]
	}
	return nil
}

func consumeString(f field, v *string) (int, error) {
	if f.typ != protowire.BytesType {
		return 0, errWireType
	}
	s, n := protowire.ConsumeString(f.rest)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*v = s
	return n, nil
}

func consumeBool(f field, v *bool) (int, error) {
	if f.typ != protowire.VarintType {
		return 0, errWireType
	}
	x, n := protowire.ConsumeVarint(f.rest)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*v = protowire.DecodeBool(x)
	return n, nil
}

func consumeMessage(f field, m Message) (int, error) {
	if f.typ != protowire.BytesType {
		return 0, errWireType
	}
	raw, n := protowire.ConsumeBytes(f.rest)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	if err := m.UnmarshalProto(raw); err != nil {
		return 0, err
	}
	return n, nil
}

func consumeTime(f field, v *time.Time) (int, error) {
	var ts timestamp
	n, err := consumeMessage(f, &ts)
	if err != nil {
		return 0, err
	}
	*v = time.Unix(ts.seconds, int64(ts.nanos)).UTC()
	return n, nil
}

type timestamp struct {
	seconds int64
	nanos   int32
}

func (ts *timestamp) MarshalProto(b []byte) []byte {
	if ts.seconds != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(ts.seconds))
	}
	if ts.nanos != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(ts.nanos))
	}
	return b
}

func (ts *timestamp) UnmarshalProto(b []byte) error {
	return consumeFields(b, func(f field) (int, error) {
		if f.num != 1 && f.num != 2 {
			return 0, nil
		}
		if f.typ != protowire.VarintType {
			return 0, errWireType
		}
		x, n := protowire.ConsumeVarint(f.rest)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		if f.num == 1 {
			ts.seconds = int64(x)
		} else {
			ts.nanos = int32(x)
		}
		return n, nil
	})
}
