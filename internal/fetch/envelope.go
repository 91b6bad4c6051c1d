package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EnvelopeError is a response whose status field differs from the expected one.
type EnvelopeError struct {
	Want int
	Got  int
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("unexpected response status %d (want %d)", e.Got, e.Want)
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// DecodeEnvelope parses a {status, data} body, checks status against want and
// decodes data into dst. dst may be nil when the payload is not needed.
func DecodeEnvelope(body []byte, want int, dst interface{}) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	if env.Status != want {
		return &EnvelopeError{Want: want, Got: env.Status}
	}
	if dst == nil {
		return nil
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid response data: %w", err)
	}
	return nil
}
