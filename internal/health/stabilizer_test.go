package health

import "testing"

func observeN(s *Stabilizer, id string, raw bool, n int) bool {
	last := false
	for i := 0; i < n; i++ {
		last = s.Observe(id, raw)
	}
	return last
}

func TestStabilizer_FirstSamplesPassThrough(t *testing.T) {
	s := NewStabilizer()
	if got := s.Observe("f3-ac-01", true); !got {
		t.Fatalf("first sample should pass through raw=true")
	}
	if got := s.Observe("f3-ac-01", false); got {
		t.Fatalf("second sample should pass through raw=false")
	}
}

func TestStabilizer_StickyWhenRawAgrees(t *testing.T) {
	s := NewStabilizer()
	observeN(s, "dev", true, 5)
	for i := 0; i < 10; i++ {
		if got := s.Observe("dev", true); !got {
			t.Fatalf("stable must stay true while raw agrees (iteration %d)", i)
		}
	}
}

func TestStabilizer_HealthyToUnhealthy_NeedsFiveConsecutive(t *testing.T) {
	s := NewStabilizer()
	observeN(s, "dev", true, 6) // healthy baseline, history >= 5

	// 4 consecutive failures: not enough, ratio still below 0.70.
	if got := observeN(s, "dev", false, 4); got == false {
		t.Fatalf("stable flipped after only 4 consecutive failures")
	}
	// 5th consecutive failure trips the streak rule.
	if got := s.Observe("dev", false); got != false {
		t.Fatalf("stable should flip after 5 consecutive failures")
	}
}

func TestStabilizer_HealthyToUnhealthy_RatioRule(t *testing.T) {
	s := NewStabilizer()
	observeN(s, "dev", true, 3) // stable true, short history

	// A lone healthy sample keeps the failure streak under 5, but the window
	// ends at [t t f f f f t f f f]: 7/10 failures = 0.70.
	seq := []bool{false, false, false, false, true, false, false, false}
	var got bool
	for i, raw := range seq[:len(seq)-1] {
		got = s.Observe("dev", raw)
		if !got {
			t.Fatalf("flipped early at sample %d: ratio not yet at threshold", i)
		}
	}
	got = s.Observe("dev", seq[len(seq)-1])
	if got {
		t.Fatalf("failure ratio 0.70 over the window should flip stable to false")
	}
}

func TestStabilizer_UnhealthyToHealthy_NeedsSixConsecutive(t *testing.T) {
	s := NewStabilizer()
	observeN(s, "dev", false, 10) // firmly unhealthy, full window

	// 5 consecutive healthy: streak short of 6, ratio 5/10 < 0.80.
	if got := observeN(s, "dev", true, 5); got {
		t.Fatalf("stable flipped after only 5 consecutive healthy samples")
	}
	// 6th consecutive healthy trips the streak rule.
	if got := s.Observe("dev", true); !got {
		t.Fatalf("stable should flip after 6 consecutive healthy samples")
	}
}

func TestStabilizer_UnhealthyToHealthy_RatioRule(t *testing.T) {
	s := NewStabilizer()
	observeN(s, "dev", false, 3)

	// Healthy with one interruption: streak resets but the window ratio
	// reaches 8/10 = 0.80 on the last sample.
	seq := []bool{true, true, true, true, false, true, true, true, true}
	var got bool
	for _, raw := range seq {
		got = s.Observe("dev", raw)
	}
	if !got {
		t.Fatalf("success ratio 0.80 over the window should flip stable to true")
	}
}

func TestStabilizer_HistoryBounded(t *testing.T) {
	s := NewStabilizer()
	observeN(s, "dev", true, 50)
	h := s.devices["dev"]
	if len(h.samples) != historyCap {
		t.Fatalf("history len=%d, want %d", len(h.samples), historyCap)
	}
}

func TestStabilizer_LastChangeRecorded(t *testing.T) {
	s := NewStabilizer()
	observeN(s, "dev", true, 6)
	if !s.LastChange("dev").IsZero() {
		t.Fatalf("no transition yet, lastChange should be zero")
	}
	observeN(s, "dev", false, 5)
	if s.LastChange("dev").IsZero() {
		t.Fatalf("transition should record lastChange")
	}
	if s.Stable("dev") {
		t.Fatalf("expected stable=false after transition")
	}
}
