package reward

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Service errors
var (
	ErrInvalidCount = errors.New("approved count must be non-negative")
)

// Tier is one rung of the cumulative reward ladder: once the approved count
// reaches Threshold, Amount is added to the total.
type Tier struct {
	Threshold int
	Amount    decimal.Decimal
}

// ladder is the tiered reward schedule. Above the last tier every
// additional approved unit pays a flat per-unit amount.
var ladder = []Tier{
	{Threshold: 1, Amount: decimal.NewFromInt(10)},
	{Threshold: 3, Amount: decimal.NewFromInt(15)},
	{Threshold: 5, Amount: decimal.NewFromInt(30)},
	{Threshold: 10, Amount: decimal.NewFromInt(55)},
}

var perUnitOverflow = decimal.NewFromInt(5)

// unlockThreshold is the count at which rewards become visible. Below it the
// accumulated total is suppressed and shown as not yet eligible.
const unlockThreshold = 3

// Status labels
const (
	StatusLocked   = "Locked"
	StatusEligible = "Eligible"
)

// Record is the computed reward state for one creator. Recomputed on demand;
// never cached beyond a single admin view.
type Record struct {
	Identifier     string          `json:"identifier"`
	ApprovedCount  int             `json:"approved_count"`
	EffectiveCount int             `json:"effective_count"`
	TotalDollars   decimal.Decimal `json:"total_dollars"`
	Suppressed     bool            `json:"suppressed"`
	StatusLabel    string          `json:"status_label"`
}

// Calculator computes reward records from approved content counts. The
// override table maps a creator identifier to a minimum effective count
// applied before the ladder; it exists so per-identity exceptions stay out
// of the ladder logic.
type Calculator struct {
	overrides map[string]int
}

// DefaultOverrides is the known set of per-identity count floors. The single
// entry is a longstanding manual exception carried over from support
// history; it is intentional, not a bug.
var DefaultOverrides = map[string]int{
	"beautifullycourt@gmail.com": 3,
}

// NewCalculator creates a calculator with the default override table
func NewCalculator() *Calculator {
	return NewCalculatorWithOverrides(DefaultOverrides)
}

// NewCalculatorWithOverrides creates a calculator with an explicit override
// table
func NewCalculatorWithOverrides(overrides map[string]int) *Calculator {
	table := make(map[string]int, len(overrides))
	for id, floor := range overrides {
		table[id] = floor
	}
	return &Calculator{overrides: table}
}

// Calculate computes the reward record for a creator's approved count.
// The count is validated, the override floor applied, then the ladder
// evaluated: every satisfied tier adds its amount, and each unit past the
// last tier adds the per-unit overflow.
func (c *Calculator) Calculate(approvedCount int, identifier string) (Record, error) {
	if approvedCount < 0 {
		return Record{}, ErrInvalidCount
	}

	effective := approvedCount
	if floor, ok := c.overrides[identifier]; ok && effective < floor {
		effective = floor
	}

	total := decimal.Zero
	for _, tier := range ladder {
		if effective >= tier.Threshold {
			total = total.Add(tier.Amount)
		}
	}
	lastThreshold := ladder[len(ladder)-1].Threshold
	if effective > lastThreshold {
		overflow := decimal.NewFromInt(int64(effective - lastThreshold))
		total = total.Add(perUnitOverflow.Mul(overflow))
	}

	return Record{
		Identifier:     identifier,
		ApprovedCount:  approvedCount,
		EffectiveCount: effective,
		TotalDollars:   total,
		Suppressed:     effective < unlockThreshold,
		StatusLabel:    statusLabel(effective),
	}, nil
}

// statusLabel maps an effective count to its display label. The advertised
// milestone is the sum of the first two tiers, surfaced as a single amount
// even though it pays out as two increments.
func statusLabel(effective int) string {
	switch {
	case effective <= 0:
		return StatusLocked
	case effective < unlockThreshold:
		milestone := ladder[0].Amount.Add(ladder[1].Amount)
		return fmt.Sprintf("%d more to unlock $%s", unlockThreshold-effective, milestone.StringFixed(0))
	default:
		return StatusEligible
	}
}
