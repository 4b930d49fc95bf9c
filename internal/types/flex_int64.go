package types

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/forma-studio/forma-portal/internal/fa"
)

// FlexInt64 is an int64 that can be unmarshaled from either a JSON number or
// a JSON string. String input may carry Persian/Arabic-Indic digits and
// thousands separators, as produced by the portal forms.
type FlexInt64 int64

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// Try unmarshaling as a number first
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt64(n)
		return nil
	}

	// Fall back to a localized numeric string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		normalized := fa.NormalizeNumericInput(s)
		if normalized == "" {
			*f = 0
			return nil
		}
		val, err := strconv.ParseInt(normalized, 10, 64)
		if err != nil {
			return fmt.Errorf("FlexInt64: invalid int64 string %q: %w", s, err)
		}
		*f = FlexInt64(val)
		return nil
	}

	return fmt.Errorf("FlexInt64: unexpected type, expected number or string")
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexInt64) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(f))
}

// Int64 converts FlexInt64 back to int64.
func (f FlexInt64) Int64() int64 {
	return int64(f)
}

// Ptr returns a pointer to the underlying value, or nil when zero.
// Zero means the form field was left empty.
func (f FlexInt64) Ptr() *int64 {
	if f == 0 {
		return nil
	}
	v := int64(f)
	return &v
}
