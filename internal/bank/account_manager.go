// Package bank provides the business logic layer: the managers that own the
// clients, accounts and transfers, and the Bank aggregate that ties them to
// the central balance.
package bank

import (
	"context"
	"fmt"

	"github.com/pmarczak/zloty-bank-go/internal/domain"
	"github.com/pmarczak/zloty-bank-go/internal/infra/random"
	"github.com/pmarczak/zloty-bank-go/internal/repository"
	"github.com/pmarczak/zloty-bank-go/internal/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var accountTracer = otel.Tracer("bank/accounts")

// AccountManager owns every account in the bank.
type AccountManager struct {
	accounts *repository.Repository[domain.Account]
	handler  *storage.Handler
	rng      *random.Generator
	logger   *zap.Logger
}

// NewAccountManager creates an account manager persisting into handler.
func NewAccountManager(handler *storage.Handler, rng *random.Generator, logger *zap.Logger) *AccountManager {
	return &AccountManager{
		accounts: repository.New[domain.Account](),
		handler:  handler,
		rng:      rng,
		logger:   logger,
	}
}

// Open creates an account of the given type for the owner, under a freshly
// generated IBAN.
func (m *AccountManager) Open(ctx context.Context, ownerID string, accountType domain.AccountType) (domain.Account, error) {
	_, span := accountTracer.Start(ctx, "AccountManager.Open")
	defer span.End()
	span.SetAttributes(attribute.String("account.type", accountType.String()))

	number := m.rng.IBAN()

	var account domain.Account
	switch accountType {
	case domain.AccountMain:
		account = domain.NewMainAccount(number, ownerID)
	case domain.AccountSavings:
		account = domain.NewSavingsAccount(number, ownerID)
	case domain.AccountInvestment:
		account = domain.NewInvestmentAccount(number, ownerID)
	case domain.AccountCrypto:
		account = domain.NewCryptoAccount(number, ownerID)
	default:
		return nil, &domain.ErrInvalidAccount{Reason: fmt.Sprintf("unknown account type %d", accountType)}
	}

	m.accounts.Add(account)
	m.logger.Info("account opened",
		zap.String("number", number),
		zap.String("type", accountType.String()),
	)
	return account, nil
}

// Close removes the account from the bank. The on-disk file disappears with
// the next save.
func (m *AccountManager) Close(account domain.Account) {
	m.accounts.Remove(account)
	m.logger.Info("account closed", zap.String("number", account.Number()))
}

// ByNumber finds the account with the given number.
func (m *AccountManager) ByNumber(number string) (domain.Account, bool) {
	return m.accounts.FindFirst(func(a domain.Account) bool {
		return a.Number() == number
	})
}

// Owned returns every account belonging to the client with the given
// personal id.
func (m *AccountManager) Owned(ownerID string) []domain.Account {
	return m.accounts.FindAll(func(a domain.Account) bool {
		return a.OwnerID() == ownerID
	})
}

// IsClientsAccount reports whether the account with the given number exists
// and belongs to the client.
func (m *AccountManager) IsClientsAccount(ownerID, number string) bool {
	account, found := m.ByNumber(number)
	return found && account.OwnerID() == ownerID
}

// SavingsOf returns the client's savings accounts.
func (m *AccountManager) SavingsOf(ownerID string) []*domain.SavingsAccount {
	var found []*domain.SavingsAccount
	for _, account := range m.Owned(ownerID) {
		if savings, ok := account.(*domain.SavingsAccount); ok {
			found = append(found, savings)
		}
	}
	return found
}

// InvestmentOf returns the client's investment accounts.
func (m *AccountManager) InvestmentOf(ownerID string) []*domain.InvestmentAccount {
	var found []*domain.InvestmentAccount
	for _, account := range m.Owned(ownerID) {
		if investment, ok := account.(*domain.InvestmentAccount); ok {
			found = append(found, investment)
		}
	}
	return found
}

// All returns every account.
func (m *AccountManager) All() []domain.Account { return m.accounts.All() }

// Size returns the number of accounts.
func (m *AccountManager) Size() int { return m.accounts.Size() }

// Save rewrites the storage directory from the in-memory state.
func (m *AccountManager) Save() error {
	if err := m.handler.RemoveAll(); err != nil {
		return err
	}
	for _, account := range m.accounts.All() {
		if err := m.handler.SaveEntity(account); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the in-memory state with the storage directory's contents.
func (m *AccountManager) Load() error {
	objects, err := m.handler.AllObjects()
	if err != nil {
		return err
	}

	m.accounts.RemoveAll()
	for name, data := range objects {
		account, err := domain.AccountFromJSON(data)
		if err != nil {
			return &domain.ErrStorage{Path: name, Err: err}
		}
		m.accounts.Add(account)
	}

	m.logger.Info("accounts loaded", zap.Int("count", m.accounts.Size()))
	return nil
}
