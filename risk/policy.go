// Package risk checks rebalance orders against position sizing limits
// before they reach the ledger.
package risk

import "fmt"

// Policy holds the sizing limits applied to every order.
type Policy struct {
	// MaxOrderWeight caps the portfolio fraction a single buy may commit.
	// Zero disables the cap.
	MaxOrderWeight float64
}

type Violation struct {
	Code string
	Msg  string
}

// Decision is the outcome of evaluating one order. Fraction carries the
// order size after any trimming; callers must use it instead of the
// fraction they passed in.
type Decision struct {
	Allowed    bool
	Fraction   float64
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Evaluate checks a proposed order against the policy. The fraction is the
// share of current portfolio value the order commits. Oversized buys are
// trimmed to the cap rather than rejected; sells always pass the cap since
// they reduce exposure.
func Evaluate(p Policy, action string, fraction float64) Decision {
	d := Decision{Allowed: true, Fraction: fraction}

	if fraction <= 0 {
		d.add("NO_SIZE", fmt.Sprintf("order fraction %.4f must be positive", fraction))
		return d
	}
	if fraction > 1 {
		d.Fraction = 1
	}

	if p.MaxOrderWeight > 0 && action == "buy" && d.Fraction > p.MaxOrderWeight {
		d.Fraction = p.MaxOrderWeight
	}
	return d
}
