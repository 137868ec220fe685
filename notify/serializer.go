package notify

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// 序列化格式
const (
	SerializerJSON    = "json"
	SerializerMsgpack = "msgpack"
)

// Serializer 事件负载编码器
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

func newSerializer(name string) Serializer {
	if name == SerializerMsgpack {
		return msgpackSerializer{}
	}
	return jsonSerializer{}
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonSerializer) Unmarshal(d []byte, v any) error { return json.Unmarshal(d, v) }

func (jsonSerializer) Name() string { return SerializerJSON }

type msgpackSerializer struct{}

func (msgpackSerializer) Marshal(v any) ([]byte, error) { return msgpack.Marshal(v) }

func (msgpackSerializer) Unmarshal(d []byte, v any) error { return msgpack.Unmarshal(d, v) }

func (msgpackSerializer) Name() string { return SerializerMsgpack }
