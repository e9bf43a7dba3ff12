package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/lvyanru/actctl/internal/cli/types"
)

var errMalformedBody = errors.New("response body is not valid JSON")

// envelopeKind tags the response shapes the backend produces
type envelopeKind int

const (
	// envelopeBare is a plain payload, or any shape without known markers
	envelopeBare envelopeKind = iota
	// envelopeFlagged is {success, message, data}
	envelopeFlagged
	// envelopeDetail is the error shape {detail}
	envelopeDetail
)

func (k envelopeKind) String() string {
	switch k {
	case envelopeFlagged:
		return "flagged"
	case envelopeDetail:
		return "detail"
	default:
		return "bare"
	}
}

type envelope struct {
	kind   envelopeKind
	body   json.RawMessage
	fields map[string]json.RawMessage // set for JSON objects only
}

// decodeEnvelope parses body and discriminates its shape by which known field is present
func decodeEnvelope(body []byte) (envelope, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !sonic.Valid(body) {
		return envelope{}, errMalformedBody
	}

	env := envelope{kind: envelopeBare, body: body}
	if body[0] != '{' {
		return env, nil
	}

	if err := sonic.Unmarshal(body, &env.fields); err != nil {
		return envelope{}, fmt.Errorf("failed to decode response object: %w", err)
	}

	if _, ok := env.fields["success"]; ok {
		env.kind = envelopeFlagged
	} else if _, ok := env.fields["detail"]; ok {
		env.kind = envelopeDetail
	}
	return env, nil
}

// normalize maps a parsed response onto the single result shape
func normalize(status int, env envelope) types.Result {
	httpOK := status >= 200 && status < 300
	res := types.Result{Status: status}

	switch env.kind {
	case envelopeFlagged:
		res.Success = httpOK && truthy(env.fields["success"])
		res.Message = messageText(env.fields["message"])
		if data, ok := env.fields["data"]; ok {
			res.Data = nullable(data)
		} else {
			res.Data = env.body
		}
	case envelopeDetail:
		res.Success = httpOK
		res.Message = messageText(env.fields["detail"])
		res.Data = env.body
	default:
		res.Success = httpOK
		res.Data = nullable(env.body)
	}

	return res
}

// truthy applies JavaScript truthiness to a JSON value
func truthy(raw json.RawMessage) bool {
	var v interface{}
	if err := sonic.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

// messageText renders a message field. Strings are used as-is, null or
// missing yields "", anything else (FastAPI validation lists) is kept as JSON text.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := sonic.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := string(bytes.TrimSpace(raw))
	if text == "null" {
		return ""
	}
	return text
}

func nullable(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	return trimmed
}
