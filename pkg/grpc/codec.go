package grpc

import (
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName content-subtype，wire 上為 application/grpc+json
const CodecName = "json"

// jsonCodec 以 JSON 編碼 gRPC 訊息，訊息型別是一般的 Go struct
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// JSONCallOption 讓單次呼叫使用 JSON codec
func JSONCallOption() grpc.CallOption {
	return grpc.CallContentSubtype(CodecName)
}
