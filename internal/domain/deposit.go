package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Deposit is a fixed-term holding owned by one savings account. At most one
// exists per account. The principal compounds by 2% of the whole-zloty part
// for every full month elapsed since the start date.
type Deposit struct {
	amount Amount
	begin  time.Time
}

// NewDeposit creates a deposit of the given principal starting at begin.
func NewDeposit(amount Amount, begin time.Time) *Deposit {
	return &Deposit{amount: amount, begin: begin}
}

// Amount returns the principal.
func (d *Deposit) Amount() Amount { return d.amount }

// BeginTime returns the start date.
func (d *Deposit) BeginTime() time.Time { return d.begin }

// EndValue returns the payout when the deposit is closed at now: the
// principal compounded once per elapsed whole month.
func (d *Deposit) EndValue(now time.Time) Amount {
	months := monthsBetween(d.begin, now)
	value := d.amount
	for i := 0; i < months; i++ {
		value = value.Add(NewAmount(value.Zloty()/50, 0))
	}
	return value
}

func (d *Deposit) String() string {
	return fmt.Sprintf("Amount: %s Start date: %s", d.amount, d.begin.Format("2006-Jan-02"))
}

// depositDocument omits the day of the start date; only year and month
// matter for the compounding arithmetic.
type depositDocument struct {
	BeginTime struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	} `json:"beginTime"`
	Amount Amount `json:"amount"`
}

func (d *Deposit) MarshalJSON() ([]byte, error) {
	var doc depositDocument
	doc.BeginTime.Year = d.begin.Year()
	doc.BeginTime.Month = int(d.begin.Month())
	doc.Amount = d.amount
	return json.Marshal(doc)
}

func (d *Deposit) UnmarshalJSON(data []byte) error {
	var doc depositDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	d.amount = doc.Amount
	// Day is not preserved on disk; the first of the month keeps the
	// year/month arithmetic intact.
	d.begin = time.Date(doc.BeginTime.Year, time.Month(doc.BeginTime.Month), 1, 0, 0, 0, 0, time.Local)
	return nil
}

// monthsBetween counts whole calendar months from one date to another,
// ignoring the day of month.
func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
