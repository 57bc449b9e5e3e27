package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ============================================================
// Clients
// ============================================================

// MaxIncorrectLogins is the attempt count at which a client is locked out.
const MaxIncorrectLogins = 5

// Client is a bank customer identified by personal id. The client owns its
// loans; accounts reference the client by id and are stored separately.
type Client struct {
	name            string
	lastName        string
	personalID      string
	login           string
	password        string
	loans           []*Loan
	incorrectLogins int
}

// NewClient registers a fresh client with no loans and a clean login record.
func NewClient(name, lastName, personalID, login, password string) *Client {
	return &Client{
		name:       name,
		lastName:   lastName,
		personalID: personalID,
		login:      login,
		password:   password,
	}
}

func (c *Client) ID() string         { return c.personalID }
func (c *Client) Name() string       { return c.name }
func (c *Client) LastName() string   { return c.lastName }
func (c *Client) PersonalID() string { return c.personalID }
func (c *Client) Login() string      { return c.login }

func (c *Client) String() string {
	return fmt.Sprintf("Client: %s %s, personal id: %s", c.name, c.lastName, c.personalID)
}

// CheckPassword compares the candidate against the stored password.
func (c *Client) CheckPassword(candidate string) bool { return c.password == candidate }

// SetPassword replaces the stored password.
func (c *Client) SetPassword(password string) { c.password = password }

// IsLocked reports whether the client has exhausted their login attempts.
func (c *Client) IsLocked() bool { return c.incorrectLogins >= MaxIncorrectLogins }

// RecordFailedLogin bumps the failure counter and reports whether the
// client is now locked.
func (c *Client) RecordFailedLogin() bool {
	c.incorrectLogins++
	return c.IsLocked()
}

// ResetFailedLogins clears the failure counter after a successful login.
func (c *Client) ResetFailedLogins() { c.incorrectLogins = 0 }

// FailedLogins returns the number of failed logins in a row.
func (c *Client) FailedLogins() int { return c.incorrectLogins }

// Loans returns the client's open loans.
func (c *Client) Loans() []*Loan { return c.loans }

// TakeLoan opens a loan against the given account. The principal moves from
// the central balance onto the account through the ledger.
func (c *Client) TakeLoan(amount Amount, months int, account Account, ledger Ledger, now time.Time) error {
	loan := NewLoan(months, amount, now, account.Number())
	if err := loan.Create(account, ledger); err != nil {
		return err
	}
	c.loans = append(c.loans, loan)
	return nil
}

// AccountResolver finds the account a loan is serviced from.
type AccountResolver func(number string) (Account, bool)

// PayForLoans collects the due installments on every open loan and drops
// loans that are fully repaid. It returns the number of installments
// collected and whether every due installment could be charged; a loan whose
// operational account is gone or cannot cover an installment makes the
// second result false and stays open.
func (c *Client) PayForLoans(resolve AccountResolver, ledger Ledger, now time.Time) (int, bool) {
	collected := 0
	current := true
	remaining := c.loans[:0]
	for _, loan := range c.loans {
		account, ok := resolve(loan.AccountNumber())
		if !ok {
			current = false
			remaining = append(remaining, loan)
			continue
		}
		before := loan.PaidMonths()
		charged := loan.Collect(account, ledger, now)
		collected += loan.PaidMonths() - before
		if !charged {
			current = false
		}
		if !charged || loan.PaidMonths() < loan.Months() {
			remaining = append(remaining, loan)
		}
	}
	c.loans = remaining
	return collected, current
}

// ============================================================
// JSON codec
// ============================================================

type clientDocument struct {
	Name            string  `json:"name"`
	LastName        string  `json:"lastName"`
	PersonalID      string  `json:"personalId"`
	Login           string  `json:"login"`
	Password        string  `json:"password"`
	Loans           []*Loan `json:"loans"`
	IncorrectLogins int     `json:"incorrectLogins"`
}

func (c *Client) MarshalJSON() ([]byte, error) {
	loans := c.loans
	if loans == nil {
		loans = []*Loan{}
	}
	return json.Marshal(clientDocument{
		Name:            c.name,
		LastName:        c.lastName,
		PersonalID:      c.personalID,
		Login:           c.login,
		Password:        c.password,
		Loans:           loans,
		IncorrectLogins: c.incorrectLogins,
	})
}

func (c *Client) UnmarshalJSON(data []byte) error {
	var doc clientDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	c.name = doc.Name
	c.lastName = doc.LastName
	c.personalID = doc.PersonalID
	c.login = doc.Login
	c.password = doc.Password
	c.loans = doc.Loans
	c.incorrectLogins = doc.IncorrectLogins
	return nil
}
