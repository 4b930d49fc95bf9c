package types

import (
	"encoding/json"
	"testing"
)

func TestFlexInt64Unmarshal(t *testing.T) {
	cases := map[string]int64{
		`123`:           123,
		`"123"`:         123,
		`"۲۵۰"`:         250,
		`"۱٬۲۳۴٬۵۶۷"`:   1234567,
		`"1,000"`:       1000,
		`""`:            0,
		`null`:          0,
	}
	for in, want := range cases {
		var f FlexInt64
		if err := json.Unmarshal([]byte(in), &f); err != nil {
			t.Errorf("Unmarshal(%s) failed: %v", in, err)
			continue
		}
		if f.Int64() != want {
			t.Errorf("Unmarshal(%s) = %d, want %d", in, f.Int64(), want)
		}
	}
}

func TestFlexInt64UnmarshalRejectsGarbage(t *testing.T) {
	var f FlexInt64
	if err := json.Unmarshal([]byte(`"12.5.3"`), &f); err == nil {
		t.Error("Malformed numeric string accepted")
	}
	if err := json.Unmarshal([]byte(`true`), &f); err == nil {
		t.Error("Boolean accepted")
	}
}

func TestFlexInt64Ptr(t *testing.T) {
	var zero FlexInt64
	if zero.Ptr() != nil {
		t.Error("Zero value should map to nil")
	}
	v := FlexInt64(42)
	if p := v.Ptr(); p == nil || *p != 42 {
		t.Errorf("Ptr() = %v", p)
	}
}
