package visibility

import "testing"

func TestClassifyThresholdIsStrict(t *testing.T) {
	// 16 * 0.75 == 12 exactly.
	at := Classify(12, 16, 0.75)
	if at.InView {
		t.Error("12/16 is exactly at the threshold and must not be in view")
	}
	if at.Percentage != 75 {
		t.Errorf("12/16: expected 75%%, got %d", at.Percentage)
	}
	above := Classify(13, 16, 0.75)
	if !above.InView {
		t.Error("13/16 should be in view")
	}
}

func TestClassifyPercentage(t *testing.T) {
	tests := []struct {
		visible, total int
		want           int
	}{
		{0, 16, 0},
		{16, 16, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds half away from zero
		{1, 1, 100},
	}
	for _, tc := range tests {
		got := Classify(tc.visible, tc.total, DefaultViewThreshold).Percentage
		if got != tc.want {
			t.Errorf("Classify(%d, %d) = %d%%, want %d%%", tc.visible, tc.total, got, tc.want)
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	for total := 1; total <= 100; total++ {
		prev := -1
		wasIn := false
		for v := 0; v <= total; v++ {
			c := Classify(v, total, DefaultViewThreshold)
			if c.Percentage < prev {
				t.Fatalf("%d/%d: percentage dropped from %d to %d", v, total, prev, c.Percentage)
			}
			if wasIn && !c.InView {
				t.Fatalf("%d/%d: classification flipped back to not in view", v, total)
			}
			if c.Percentage < 0 || c.Percentage > 100 {
				t.Fatalf("%d/%d: percentage %d out of range", v, total, c.Percentage)
			}
			prev, wasIn = c.Percentage, c.InView
		}
	}
}

func TestClassifyZeroTotal(t *testing.T) {
	c := Classify(0, 0, DefaultViewThreshold)
	if c.InView || c.Percentage != 0 {
		t.Errorf("zero total: expected 0%% not in view, got %+v", c)
	}
}

func TestLabel(t *testing.T) {
	if got := Classify(13, 16, 0.75).Label(); got != "81%" {
		t.Errorf("expected 81%%, got %q", got)
	}
	if got := (Classification{}).Label(); got != "" {
		t.Errorf("unsampled label: expected empty, got %q", got)
	}
}
