// Package commission splits a service total between the stylist and the salon.
//
// Every place that derives or aggregates the two shares goes through this
// package, so the entry form and the reports always agree.
package commission

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	MinRate = decimal.Zero
	MaxRate = hundred
)

// Split is the result of applying a commission rate to a total.
type Split struct {
	Total          decimal.Decimal `json:"total_amount"`
	Rate           decimal.Decimal `json:"commission_percentage"`
	EmployeeAmount decimal.Decimal `json:"employee_amount"`
	CompanyAmount  decimal.Decimal `json:"company_amount"`
}

// Calculate returns the employee share (rounded to cents) and the company
// remainder. EmployeeAmount + CompanyAmount always equals total.
func Calculate(total, rate decimal.Decimal) Split {
	employee := total.Mul(rate).Div(hundred).Round(2)
	return Split{
		Total:          total,
		Rate:           rate,
		EmployeeAmount: employee,
		CompanyAmount:  total.Sub(employee),
	}
}

// Compute is the lenient form of Calculate used while a form is being filled
// in. It reports false when the total is missing, not a number or negative,
// or when the rate falls outside [0,100]. An unparseable rate counts as 0.
func Compute(total, rate string) (Split, bool) {
	t, ok := ParseAmount(total)
	if !ok || t.IsNegative() {
		return Split{}, false
	}
	r := ParseRate(rate)
	if !ValidRate(r) {
		return Split{}, false
	}
	return Calculate(t, r), true
}

// ParseAmount parses a decimal typed by a user; both "10.5" and "10,5" are
// accepted.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseRate parses a commission percentage, defaulting to 0.
func ParseRate(s string) decimal.Decimal {
	d, ok := ParseAmount(s)
	if !ok {
		return decimal.Zero
	}
	return d
}

func ValidRate(rate decimal.Decimal) bool {
	return !rate.LessThan(MinRate) && !rate.GreaterThan(MaxRate)
}

// Totals accumulates revenue, stylist payout and salon share.
type Totals struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Payout  decimal.Decimal `json:"payout"`
	Company decimal.Decimal `json:"company"`
}

func (t *Totals) Add(total, employee, company decimal.Decimal) {
	t.Count++
	t.Revenue = t.Revenue.Add(total)
	t.Payout = t.Payout.Add(employee)
	t.Company = t.Company.Add(company)
}
