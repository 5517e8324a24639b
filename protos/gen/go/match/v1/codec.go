package matchv1

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
)

// CodecName is the content-subtype the codec announces, so requests go out
// as application/grpc+proto like any protoc-generated client.
const CodecName = "proto"

// wireMessage is implemented by the messages of this package. Their proto
// encoding is written by hand in wire.go.
type wireMessage interface {
	marshalWire() []byte
	unmarshalWire(b []byte) error
}

// Codec encodes the match messages in the protobuf wire format and falls
// back to google.golang.org/protobuf for generated messages.
type Codec struct{}

var _ encoding.Codec = Codec{}

func (Codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case wireMessage:
		return m.marshalWire(), nil
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, fmt.Errorf("match codec: cannot marshal %T", v)
	}
}

func (Codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case wireMessage:
		if err := m.unmarshalWire(data); err != nil {
			return fmt.Errorf("match codec: unmarshal %T: %w", v, err)
		}
		return nil
	case proto.Message:
		return proto.Unmarshal(data, m)
	default:
		return fmt.Errorf("match codec: cannot unmarshal into %T", v)
	}
}

func (Codec) Name() string {
	return CodecName
}

// ServerCodecOption makes a grpc.Server decode the match messages. Clients
// built with NewMatchServiceClient select the codec per call.
func ServerCodecOption() grpc.ServerOption {
	return grpc.ForceServerCodec(Codec{})
}
