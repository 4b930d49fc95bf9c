package ratelimit

import (
	"testing"
	"time"
)

func TestCheckAllowsBurstThenRejects(t *testing.T) {
	l := NewMemoryLimiter()

	for i := 0; i < 5; i++ {
		if res := l.Check("k", 5, time.Minute); !res.OK {
			t.Fatalf("Request %d rejected inside burst", i)
		}
	}

	res := l.Check("k", 5, time.Minute)
	if res.OK {
		t.Fatal("Sixth request allowed")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want > 0", res.RetryAfter)
	}
}

func TestCheckKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter()

	for i := 0; i < 3; i++ {
		l.Check("a", 3, time.Minute)
	}
	if res := l.Check("a", 3, time.Minute); res.OK {
		t.Fatal("Exhausted key still allowed")
	}
	if res := l.Check("b", 3, time.Minute); !res.OK {
		t.Fatal("Fresh key rejected")
	}
}

func TestCheckDisabledLimits(t *testing.T) {
	l := NewMemoryLimiter()
	if res := l.Check("k", 0, time.Minute); !res.OK {
		t.Error("max=0 should disable the check")
	}
	if res := l.Check("k", 5, 0); !res.OK {
		t.Error("window=0 should disable the check")
	}
}
