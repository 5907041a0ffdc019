package api

import "fmt"

// CodecName is the gRPC content-subtype of the protobuf codec.
const CodecName = "proto"

// Codec marshals Message values in the protobuf binary format. Both ends
// force it on the connection, so it is not registered globally.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("marshal %T: not a protobuf message", v)
	}
	return m.MarshalProto(nil), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("unmarshal %T: not a protobuf message", v)
	}
	if err := m.UnmarshalProto(data); err != nil {
		return fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return nil
}

func (Codec) Name() string { return CodecName }
