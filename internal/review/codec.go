package review

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxPayloadSize is the hard ceiling Telegram enforces on inline button
// callback data. Encode must never exceed it; the short JSON keys below keep
// the worst case (two maximum-width int64 values) at 58 bytes.
const MaxPayloadSize = 64

// ErrInvalidPayload is returned by DecodePayload for anything that is not a
// well-formed decision payload. Callers treat it as "ignore this callback".
var ErrInvalidPayload = errors.New("invalid decision payload")

// DecisionPayload is the minimal tuple carried by a review button. Only this
// struct ever goes on the wire; the full Suggestion/Review records stay in the
// store.
type DecisionPayload struct {
	SuggestionID int64  `json:"Id"`
	SubmitterID  int64  `json:"By"`
	Result       Result `json:"R"`
}

// EncodePayload serializes p into compact JSON for use as callback data.
// It fails if the encoded form would exceed MaxPayloadSize.
func EncodePayload(p DecisionPayload) (string, error) {
	if p.SuggestionID <= 0 {
		return "", fmt.Errorf("encode: suggestion id %d is not positive", p.SuggestionID)
	}
	if !p.Result.Valid() {
		return "", fmt.Errorf("encode: result code %d out of range", p.Result)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	if len(data) > MaxPayloadSize {
		return "", fmt.Errorf("encode: payload is %d bytes, limit %d", len(data), MaxPayloadSize)
	}
	return string(data), nil
}

// DecodePayload parses callback data produced by EncodePayload. It fails
// closed: oversized input, malformed JSON, unknown fields, trailing data, a
// non-positive suggestion id or an out-of-range result code all yield
// ErrInvalidPayload.
func DecodePayload(data string) (DecisionPayload, error) {
	var p DecisionPayload
	if len(data) == 0 || len(data) > MaxPayloadSize {
		return p, fmt.Errorf("%w: %d bytes", ErrInvalidPayload, len(data))
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return DecisionPayload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	// Decode stops at the end of the first JSON value; anything after it makes
	// the payload malformed as a whole.
	if _, err := dec.Token(); err != io.EOF {
		return DecisionPayload{}, fmt.Errorf("%w: trailing data", ErrInvalidPayload)
	}
	if p.SuggestionID <= 0 {
		return DecisionPayload{}, fmt.Errorf("%w: suggestion id %d", ErrInvalidPayload, p.SuggestionID)
	}
	if !p.Result.Valid() {
		return DecisionPayload{}, fmt.Errorf("%w: result code %d", ErrInvalidPayload, p.Result)
	}
	return p, nil
}
