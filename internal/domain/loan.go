package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Loan is owned by a client and charged against an operational account,
// referenced by account number only (resolved through the account manager on
// demand, never an ownership edge). The flat monthly payment is
// principal x (1 + 0.1 x years) / months, computed at disbursement.
type Loan struct {
	months         int
	paidMonths     int
	amount         Amount
	monthlyPayment Amount
	begin          time.Time
	accountNumber  string
}

// NewLoan describes a loan before disbursement. Create computes the payment
// and moves the principal.
func NewLoan(months int, amount Amount, begin time.Time, accountNumber string) *Loan {
	return &Loan{months: months, amount: amount, begin: begin, accountNumber: accountNumber}
}

// restoredLoan rebuilds a persisted loan, monthly payment included.
func restoredLoan(months int, amount Amount, begin time.Time, accountNumber string, monthlyPayment Amount) *Loan {
	return &Loan{
		months:         months,
		amount:         amount,
		begin:          begin,
		accountNumber:  accountNumber,
		monthlyPayment: monthlyPayment,
	}
}

func (l *Loan) Months() int            { return l.months }
func (l *Loan) PaidMonths() int        { return l.paidMonths }
func (l *Loan) Amount() Amount         { return l.amount }
func (l *Loan) MonthlyPayment() Amount { return l.monthlyPayment }
func (l *Loan) BeginTime() time.Time   { return l.begin }
func (l *Loan) AccountNumber() string  { return l.accountNumber }

// Create disburses the loan: it fixes the monthly payment, debits the ledger
// by the principal and credits the operational account. A ledger that cannot
// cover the principal fails with ErrBankruptcy.
func (l *Loan) Create(account Account, ledger Ledger) error {
	years := float64(l.months) / 12.0
	addition := NewAmount(
		uint64(float64(l.amount.Zloty())*0.1*years),
		uint64(float64(l.amount.Grosz())*0.1*years),
	)
	full := l.amount.Add(addition)
	l.monthlyPayment = NewAmount(
		uint64(float64(full.Zloty())/float64(l.months)),
		uint64(float64(full.Grosz())/float64(l.months)),
	)

	if err := ledger.DecreaseBalance(l.amount); err != nil {
		return err
	}
	account.SetBalance(account.Balance().Add(l.amount))
	return nil
}

// RemainingMonths is the loan term minus the whole months elapsed since the
// start date. The loan is finished once this reaches zero.
func (l *Loan) RemainingMonths(now time.Time) int {
	return l.months - monthsBetween(l.begin, now)
}

// Collect charges the operational account one installment per elapsed but
// unpaid month, crediting the ledger. It stops and reports false on the
// first installment the account cannot cover; installments already applied
// are not rolled back.
func (l *Loan) Collect(account Account, ledger Ledger, now time.Time) bool {
	passed := monthsBetween(l.begin, now)
	if passed > l.months {
		passed = l.months
	}

	for l.paidMonths < passed {
		newBalance, err := account.Balance().Sub(l.monthlyPayment)
		if err != nil {
			return false
		}
		account.SetBalance(newBalance)
		ledger.IncreaseBalance(l.monthlyPayment)
		l.paidMonths++
	}
	return true
}

func (l *Loan) String() string {
	return fmt.Sprintf(
		"Loan taken for: %s, for %d months, monthly payment: %s, paid months: %d, months remaining to pay: %d",
		l.amount, l.months, l.monthlyPayment, l.paidMonths, l.months-l.paidMonths,
	)
}

type loanDocument struct {
	Months    int    `json:"months"`
	Amount    Amount `json:"amount"`
	BeginTime struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Day   int `json:"day"`
	} `json:"beginTime"`
	OperationalAccount string `json:"operationalAccount"`
	MonthlyPayment     Amount `json:"monthlyPayment"`
}

func (l *Loan) MarshalJSON() ([]byte, error) {
	var doc loanDocument
	doc.Months = l.months
	doc.Amount = l.amount
	doc.BeginTime.Year = l.begin.Year()
	doc.BeginTime.Month = int(l.begin.Month())
	doc.BeginTime.Day = l.begin.Day()
	doc.OperationalAccount = l.accountNumber
	doc.MonthlyPayment = l.monthlyPayment
	return json.Marshal(doc)
}

func (l *Loan) UnmarshalJSON(data []byte) error {
	var doc loanDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	begin := time.Date(doc.BeginTime.Year, time.Month(doc.BeginTime.Month), doc.BeginTime.Day, 0, 0, 0, 0, time.Local)
	*l = *restoredLoan(doc.Months, doc.Amount, begin, doc.OperationalAccount, doc.MonthlyPayment)
	return nil
}
