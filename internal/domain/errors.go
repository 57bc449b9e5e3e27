package domain

import "fmt"

// Error types for consistent error handling across the bank.

// ErrInvalidAmount indicates money arithmetic that would go negative, or a
// string that failed to parse as money.
type ErrInvalidAmount struct {
	Reason string
}

func (e *ErrInvalidAmount) Error() string {
	return "invalid amount: " + e.Reason
}

// ErrNotEnoughMoney indicates an account could not cover a transfer or a
// gold purchase. Always recoverable by the caller.
type ErrNotEnoughMoney struct {
	Operation string
}

func (e *ErrNotEnoughMoney) Error() string {
	return fmt.Sprintf("not enough money to perform %s", e.Operation)
}

// ErrGold indicates buying gold while already holding some, or selling with
// none held.
type ErrGold struct {
	Reason string
}

func (e *ErrGold) Error() string {
	return e.Reason
}

// ErrLoginFailed indicates an authentication failure. The Reason is the
// human-readable message shown to the user; unknown login, wrong password
// and locked account each produce a distinct one.
type ErrLoginFailed struct {
	Reason string
}

func (e *ErrLoginFailed) Error() string {
	return "login failed: " + e.Reason
}

// ErrRegisterFailed indicates a registration precondition violation
// (duplicate personal id or duplicate login).
type ErrRegisterFailed struct {
	Reason string
}

func (e *ErrRegisterFailed) Error() string {
	return "registration failed: " + e.Reason
}

// ErrInvalidAccount indicates an operation referencing a nonexistent or
// non-owned account.
type ErrInvalidAccount struct {
	Reason string
}

func (e *ErrInvalidAccount) Error() string {
	return e.Reason
}

// ErrStorage indicates a file read, write or parse failure in the object
// store.
type ErrStorage struct {
	Path string
	Err  error
}

func (e *ErrStorage) Error() string {
	return fmt.Sprintf("storage error [%s]: %v", e.Path, e.Err)
}

func (e *ErrStorage) Unwrap() error {
	return e.Err
}

// ErrBankruptcy indicates the central bank balance would go negative. It is
// unrecoverable and ends the session.
type ErrBankruptcy struct{}

func (e *ErrBankruptcy) Error() string {
	return "the bank has declared bankruptcy, goodbye"
}
