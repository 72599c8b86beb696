package normalize

import (
	"bytes"

	"github.com/tidwall/gjson"
)

type BodyKind uint8

const (
	// Empty is an absent body, whitespace or a JSON null.
	Empty BodyKind = iota
	// Envelope is a JSON object carrying a "success" key.
	Envelope
	// Bare is any other JSON value, handed to the caller verbatim.
	Bare
	// Text is a JSON string or bytes that are not JSON at all.
	Text
)

func (k BodyKind) String() string {
	switch k {
	case Envelope:
		return "envelope"
	case Bare:
		return "bare"
	case Text:
		return "text"
	default:
		return "empty"
	}
}

// EnvelopeBody is the backend's standard wrapper.
type EnvelopeBody struct {
	Success   bool
	Message   string
	Error     string
	Timestamp string
	Data      gjson.Result
	HasData   bool
}

// Body is the result of classifying a response body exactly once.
// Value holds the parsed JSON for Envelope, Bare and JSON-string Text bodies.
type Body struct {
	Kind     BodyKind
	Envelope EnvelopeBody
	Value    gjson.Result
	Text     string
}

func Classify(body []byte) Body {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Body{Kind: Empty}
	}
	if !gjson.ValidBytes(trimmed) {
		return Body{Kind: Text, Text: string(trimmed)}
	}
	value := gjson.ParseBytes(trimmed)
	switch value.Type {
	case gjson.Null:
		return Body{Kind: Empty}
	case gjson.String:
		return Body{Kind: Text, Text: value.Str, Value: value}
	}
	if value.IsObject() {
		if success := value.Get("success"); success.Exists() {
			return Body{Kind: Envelope, Envelope: envelopeOf(value, success), Value: value}
		}
	}
	return Body{Kind: Bare, Value: value}
}

func envelopeOf(value, success gjson.Result) EnvelopeBody {
	data := value.Get("data")
	return EnvelopeBody{
		// only a literal false marks an application failure
		Success:   success.Type != gjson.False,
		Message:   text(value.Get("message")),
		Error:     text(value.Get("error")),
		Timestamp: text(value.Get("timestamp")),
		Data:      data,
		HasData:   data.Exists(),
	}
}

// text returns strings and numbers as text, anything else as "".
func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	}
	return ""
}

func firstText(value gjson.Result, keys ...string) string {
	for _, key := range keys {
		if s := text(value.Get(key)); s != "" {
			return s
		}
	}
	return ""
}
