package reward

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

func TestCalculate_LadderValues(t *testing.T) {
	calc := NewCalculatorWithOverrides(nil)

	cases := []struct {
		count int
		total int64
	}{
		{0, 0},
		{1, 10},
		{2, 10},
		{3, 25},
		{4, 25},
		{5, 55},
		{9, 55},
		{10, 110},
		{11, 115},
		{25, 185},
	}

	for _, tc := range cases {
		record, err := calc.Calculate(tc.count, "creator@example.com")
		if err != nil {
			t.Fatalf("Calculate(%d) failed: %v", tc.count, err)
		}
		want := decimal.NewFromInt(tc.total)
		if !record.TotalDollars.Equal(want) {
			t.Errorf("Calculate(%d): expected total $%s, got $%s", tc.count, want, record.TotalDollars)
		}
	}
}

func TestCalculate_NegativeCountRejected(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.Calculate(-1, "creator@example.com")
	if !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("Expected ErrInvalidCount for negative count, got: %v", err)
	}
}

func TestCalculate_StatusLabels(t *testing.T) {
	calc := NewCalculatorWithOverrides(nil)

	cases := []struct {
		count      int
		label      string
		suppressed bool
	}{
		{0, StatusLocked, true},
		{1, "2 more to unlock $25", true},
		{2, "1 more to unlock $25", true},
		{3, StatusEligible, false},
		{12, StatusEligible, false},
	}

	for _, tc := range cases {
		record, err := calc.Calculate(tc.count, "creator@example.com")
		if err != nil {
			t.Fatalf("Calculate(%d) failed: %v", tc.count, err)
		}
		if record.StatusLabel != tc.label {
			t.Errorf("Calculate(%d): expected label %q, got %q", tc.count, tc.label, record.StatusLabel)
		}
		if record.Suppressed != tc.suppressed {
			t.Errorf("Calculate(%d): expected suppressed %v, got %v", tc.count, tc.suppressed, record.Suppressed)
		}
	}
}

func TestCalculate_OverrideFloor(t *testing.T) {
	calc := NewCalculator()
	const overridden = "beautifullycourt@gmail.com"

	atTwo, err := calc.Calculate(2, overridden)
	if err != nil {
		t.Fatalf("Calculate(2) failed: %v", err)
	}
	atThree, err := calc.Calculate(3, overridden)
	if err != nil {
		t.Fatalf("Calculate(3) failed: %v", err)
	}

	if !atTwo.TotalDollars.Equal(atThree.TotalDollars) {
		t.Errorf("Override invariant broken: Calculate(2) = $%s, Calculate(3) = $%s",
			atTwo.TotalDollars, atThree.TotalDollars)
	}
	if atTwo.StatusLabel != atThree.StatusLabel {
		t.Errorf("Override invariant broken: labels %q vs %q", atTwo.StatusLabel, atThree.StatusLabel)
	}
	if atTwo.EffectiveCount != 3 {
		t.Errorf("Expected effective count 3 under override, got %d", atTwo.EffectiveCount)
	}
	if atTwo.ApprovedCount != 2 {
		t.Errorf("Override must not rewrite the raw count, got %d", atTwo.ApprovedCount)
	}
}

func TestCalculate_OverrideDoesNotLowerCount(t *testing.T) {
	calc := NewCalculator()

	record, err := calc.Calculate(7, "beautifullycourt@gmail.com")
	if err != nil {
		t.Fatalf("Calculate(7) failed: %v", err)
	}
	if record.EffectiveCount != 7 {
		t.Errorf("Floor must not lower a higher count, got effective %d", record.EffectiveCount)
	}
}

func TestCalculate_OverrideOnlyNamedIdentity(t *testing.T) {
	calc := NewCalculator()

	record, err := calc.Calculate(2, "someoneelse@example.com")
	if err != nil {
		t.Fatalf("Calculate(2) failed: %v", err)
	}
	if record.EffectiveCount != 2 {
		t.Errorf("Override leaked to unlisted identity, got effective %d", record.EffectiveCount)
	}
}

// TestProperty_OverflowFormula checks that for any count at or above the last
// tier, total = 110 + 5*(count-10).
func TestProperty_OverflowFormula(t *testing.T) {
	calc := NewCalculatorWithOverrides(nil)

	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(10, 100000).Draw(rt, "count")

		record, err := calc.Calculate(count, "creator@example.com")
		if err != nil {
			t.Fatalf("Calculate(%d) failed: %v", count, err)
		}

		want := decimal.NewFromInt(110 + 5*int64(count-10))
		if !record.TotalDollars.Equal(want) {
			t.Fatalf("PROPERTY VIOLATION: Calculate(%d) = $%s, expected $%s",
				count, record.TotalDollars, want)
		}
	})
}

// TestProperty_LadderMonotonic checks that the total never decreases as the
// approved count grows.
func TestProperty_LadderMonotonic(t *testing.T) {
	calc := NewCalculatorWithOverrides(nil)

	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(0, 1000).Draw(rt, "count")

		lower, err := calc.Calculate(count, "creator@example.com")
		if err != nil {
			t.Fatalf("Calculate(%d) failed: %v", count, err)
		}
		higher, err := calc.Calculate(count+1, "creator@example.com")
		if err != nil {
			t.Fatalf("Calculate(%d) failed: %v", count+1, err)
		}

		if higher.TotalDollars.LessThan(lower.TotalDollars) {
			t.Fatalf("PROPERTY VIOLATION: total decreased from $%s at %d to $%s at %d",
				lower.TotalDollars, count, higher.TotalDollars, count+1)
		}
	})
}
