package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Outcome is the canonical result of a backend job call. Exactly one of
// Data or Message carries meaning: Data on success, Message on failure.
type Outcome struct {
	Success bool
	// Data holds the raw success payload. May be empty on jobs that
	// report success without a body.
	Data json.RawMessage
	// Message is the backend's human-readable failure reason.
	Message string
	// Code is an optional structured failure code, if the backend
	// provides one (e.g. "NOT_FOUND").
	Code string
}

// envelope is the wrapped response convention: a result discriminator plus
// a data or error payload. The backend's jobs are independently versioned
// scripts, so some respond wrapped and some respond with the bare resource.
type envelope struct {
	Result  string          `json:"result"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

const (
	resultSuccess = "SUCCESS"
	resultFailure = "FAILURE"
)

// Normalize interprets a raw backend body into an Outcome. A top-level
// "result" key selects the wrapped convention; any other valid JSON body is
// direct success data. Normalize is pure and idempotent with respect to the
// body bytes; it never fabricates data for a failure.
func Normalize(body []byte) (Outcome, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Outcome{Success: true}, nil
	}
	if !json.Valid(trimmed) {
		return Outcome{}, fmt.Errorf("body is not valid JSON")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		// Not an object (array, string, number): direct success data.
		return Outcome{Success: true, Data: trimmed}, nil
	}
	if _, wrapped := fields["result"]; !wrapped {
		return Outcome{Success: true, Data: trimmed}, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Outcome{}, fmt.Errorf("decode envelope: %w", err)
	}
	switch strings.ToUpper(env.Result) {
	case resultSuccess:
		return Outcome{Success: true, Data: successPayload(env, fields)}, nil
	case resultFailure:
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = "backend reported failure without a reason"
		}
		return Outcome{Message: msg, Code: env.Code}, nil
	default:
		return Outcome{}, fmt.Errorf("unknown result discriminator %q", env.Result)
	}
}

// successPayload picks the data out of a wrapped success. Most jobs use a
// "data" key, but some older ones nest the payload under a resource-named
// key (e.g. "credential"); when exactly one such key exists, use it.
func successPayload(env envelope, fields map[string]json.RawMessage) json.RawMessage {
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		return env.Data
	}
	var candidate json.RawMessage
	count := 0
	for key, raw := range fields {
		switch key {
		case "result", "data", "error", "message", "code":
			continue
		}
		candidate = raw
		count++
	}
	if count == 1 {
		return candidate
	}
	return nil
}
