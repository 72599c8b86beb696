package normalize

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Payload is what a successful call resolves with: either raw JSON data or the
// acknowledgement of an operation that succeeded without data. The zero value is no
// payload at all and reads as JSON null, which is what failed calls return.
type Payload struct {
	raw []byte
	ack bool
}

// Acknowledgement is the payload of delete/action style endpoints. It reads as JSON true.
func Acknowledgement() Payload {
	return Payload{ack: true}
}

func payloadOf(raw string) Payload {
	if raw == "" {
		return Acknowledgement()
	}
	return Payload{raw: []byte(raw)}
}

func textPayload(body Body) Payload {
	if body.Value.Exists() {
		return payloadOf(body.Value.Raw)
	}
	quoted, _ := json.Marshal(body.Text)
	return Payload{raw: quoted}
}

func (p Payload) Acknowledged() bool {
	return p.ack
}

// Empty reports the zero Payload.
func (p Payload) Empty() bool {
	return !p.ack && p.raw == nil
}

func (p Payload) Raw() json.RawMessage {
	switch {
	case p.ack:
		return json.RawMessage("true")
	case p.raw == nil:
		return json.RawMessage("null")
	}
	return json.RawMessage(p.raw)
}

func (p Payload) Result() gjson.Result {
	return gjson.ParseBytes(p.Raw())
}

// Get reads a gjson path out of the payload.
func (p Payload) Get(path string) gjson.Result {
	return gjson.GetBytes(p.Raw(), path)
}

func (p Payload) Decode(v any) error {
	return json.Unmarshal(p.Raw(), v)
}

func (p Payload) String() string {
	return string(p.Raw())
}

func (p Payload) MarshalJSON() ([]byte, error) {
	return p.Raw(), nil
}

func Decode[T any](p Payload) (T, error) {
	var v T
	err := p.Decode(&v)
	return v, err
}
