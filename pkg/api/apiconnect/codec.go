// Package apiconnect wires the api messages into Connect handlers and
// clients.
package apiconnect

import (
	"connectrpc.com/connect"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// codec encodes plain api structs as JSON. It is registered under the name
// "json" so it replaces Connect's protobuf JSON codec.
type codec struct{}

func (codec) Name() string { return "json" }

func (codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (codec) Unmarshal(data []byte, msg any) error {
	return json.Unmarshal(data, msg)
}

// Codec returns the codec used by all handlers and clients of this package.
func Codec() connect.Codec {
	return codec{}
}
