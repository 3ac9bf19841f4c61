// Package apiconnect wires the SplitMate services to Connect. It follows the
// layout of protoc-gen-connect-go output: procedure constants, handler and
// client interfaces, and constructors, with messages from package api carried
// by a JSON codec.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// CodecName is the Connect codec name, giving the application/json content type.
const CodecName = "json"

// jsonCodec marshals plain Go structs with encoding/json.
type jsonCodec struct {
	name string
}

func (c jsonCodec) Name() string { return c.name }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	// An empty body is an empty message.
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// codecOption is applied to every handler and client built by this package.
var codecOption = connect.WithCodec(jsonCodec{name: CodecName})

// Replaces Connect's protojson codec for "application/json; charset=utf-8".
var charsetCodecOption = connect.WithCodec(jsonCodec{name: CodecName + "; charset=utf-8"})

func handlerOptions(opts []connect.HandlerOption) connect.HandlerOption {
	base := []connect.HandlerOption{codecOption, charsetCodecOption}
	return connect.WithHandlerOptions(append(base, opts...)...)
}

func clientOptions(opts []connect.ClientOption) connect.ClientOption {
	return connect.WithClientOptions(append([]connect.ClientOption{codecOption}, opts...)...)
}
