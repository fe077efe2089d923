package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CoalesceStr returns the first non-blank string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// BoolFromPtrWithDefault returns the first non-nil *bool value, or the fallback.
func BoolFromPtrWithDefault(fallback bool, ptrs ...*bool) bool {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// StrFromPtr returns *p, or "" for nil.
func StrFromPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Number is a payload number that tolerates strings, nulls, and garbage.
// Anything that does not parse to a finite value decodes as 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number(CoerceNumber(json.RawMessage(data)))
	return nil
}

// Int truncates toward zero.
func (n Number) Int() int {
	return int(n)
}

// CoerceNumber converts loosely typed input to a finite float64, defaulting to 0.
func CoerceNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case Number:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case json.RawMessage:
		return coerceRaw(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func coerceRaw(raw json.RawMessage) float64 {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0
		}
		return CoerceNumber(str)
	}
	return CoerceNumber(s)
}

// ClampPercent bounds v to [0, 100].
func ClampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
