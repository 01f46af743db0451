package referral

import "math"

// Result is the outcome of validating a referral code.
type Result struct {
	IsValid            bool    `json:"isValid"`
	DiscountPercentage float64 `json:"discountPercentage"`
}

// codes is the compiled-in referral table. Matching is exact and
// case-sensitive; there is no lifecycle, codes change with a deploy.
var codes = map[string]float64{
	"MENTOR10": 0.10,
}

// Validate looks up a referral code. Unknown codes (including the empty
// string and case variants) return {false, 0}.
func Validate(code string) Result {
	pct, ok := codes[code]
	if !ok {
		return Result{}
	}
	return Result{IsValid: true, DiscountPercentage: pct}
}

// ApplyDiscount returns the amount after the discount, in whole currency
// units, never below zero.
func ApplyDiscount(amount int, pct float64) int {
	discounted := amount - int(math.Round(float64(amount)*pct))
	if discounted < 0 {
		return 0
	}
	return discounted
}

// Session enforces the at-most-once application of a referral code within a
// single enrollment. The flag lives with the caller, not the validator.
type Session struct {
	applied bool
	pct     float64
}

// Apply validates code and, on the first valid application, returns the
// discounted amount. Invalid codes and repeat applications leave the amount
// unchanged.
func (s *Session) Apply(amount int, code string) int {
	if s.applied {
		return amount
	}
	res := Validate(code)
	if !res.IsValid {
		return amount
	}
	s.applied = true
	s.pct = res.DiscountPercentage
	return ApplyDiscount(amount, res.DiscountPercentage)
}

// Applied reports whether a referral has been consumed by this session.
func (s *Session) Applied() bool { return s.applied }

// DiscountPercentage returns the percentage applied by this session, zero if
// none.
func (s *Session) DiscountPercentage() float64 { return s.pct }
