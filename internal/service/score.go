package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Score is a grade value that accepts a JSON number or a numeric string.
// Malformed input is kept as not numeric instead of failing the decode, so the
// recorder can report it as a validation error.
type Score struct {
	Value   float64
	Present bool
	Numeric bool
}

// NewScore builds a numeric score.
func NewScore(v float64) Score {
	return Score{Value: v, Present: true, Numeric: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(data []byte) error {
	*s = Score{}
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	s.Present = true

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
		text = strings.TrimSpace(text)
		if text == "" {
			s.Present = false
			return nil
		}
	} else {
		text = string(raw)
	}

	if !decimalText(text) {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	s.Value = v
	s.Numeric = true
	return nil
}

// decimalText rejects the hex-float and digit-separator forms ParseFloat accepts.
func decimalText(text string) bool {
	return !strings.ContainsAny(text, "_xXpP")
}

// MarshalJSON implements json.Marshaler.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Present || !s.Numeric {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}
