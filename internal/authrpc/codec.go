// Package authrpc is the wire contract of the auth service: request and
// response messages, the gRPC service descriptor, and a typed client.
//
// Messages travel as JSON through a gRPC codec registered under the "json"
// content subtype. The client selects it on every call, so a server only
// needs to import this package.
package authrpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype carrying JSON messages.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
