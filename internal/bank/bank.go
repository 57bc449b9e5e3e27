package bank

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/pmarczak/zloty-bank-go/internal/domain"
	"github.com/pmarczak/zloty-bank-go/internal/infra/observability"
	"github.com/pmarczak/zloty-bank-go/internal/infra/random"
	"github.com/pmarczak/zloty-bank-go/internal/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var bankTracer = otel.Tracer("bank")

// defaultBalance is the central balance a brand-new bank starts with.
var defaultBalance = domain.NewAmount(10_000_000, 0)

// bankObjectName is the file the central balance lives in, under global/.
const bankObjectName = "bank"

// Bank ties the managers to the central balance. Every fee, card price and
// loan installment flows into the balance; loan principals and deposit
// payouts flow out. When an outflow cannot be covered the bank is bankrupt
// and the error aborts the session.
type Bank struct {
	balance   domain.Amount
	clients   *ClientManager
	accounts  *AccountManager
	transfers *TransferManager

	global  *storage.Handler
	metrics *observability.Metrics
	logger  *zap.Logger

	// now is the clock used for loans, deposits and gold. Tests replace it.
	now func() time.Time
}

// New creates a bank persisting under dataDir, with one subdirectory per
// entity kind.
func New(dataDir string, metrics *observability.Metrics, logger *zap.Logger) (*Bank, error) {
	dirs := make(map[string]*storage.Handler, 6)
	for _, name := range []string{
		"clients", "accounts", "transfers",
		"outcoming_external_transfers", "incoming_external_transfers",
		"global",
	} {
		handler, err := storage.NewHandler(filepath.Join(dataDir, name))
		if err != nil {
			return nil, err
		}
		dirs[name] = handler
	}

	rng := random.New()
	return &Bank{
		balance:  defaultBalance,
		clients:  NewClientManager(dirs["clients"], metrics, logger),
		accounts: NewAccountManager(dirs["accounts"], rng, logger),
		transfers: NewTransferManager(
			dirs["transfers"],
			dirs["outcoming_external_transfers"],
			dirs["incoming_external_transfers"],
			rng, metrics, logger,
		),
		global:  dirs["global"],
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Clients exposes the client manager.
func (b *Bank) Clients() *ClientManager { return b.clients }

// Accounts exposes the account manager.
func (b *Bank) Accounts() *AccountManager { return b.accounts }

// Transfers exposes the transfer manager.
func (b *Bank) Transfers() *TransferManager { return b.transfers }

// Balance returns the central balance.
func (b *Bank) Balance() domain.Amount { return b.balance }

// ============================================================
// Ledger
// ============================================================

// IncreaseBalance credits the central balance.
func (b *Bank) IncreaseBalance(amount domain.Amount) {
	b.balance = b.balance.Add(amount)
	b.metrics.SetBankBalance(float64(b.balance.Zloty()))
}

// DecreaseBalance debits the central balance. An outflow the balance cannot
// cover means the bank is bankrupt.
func (b *Bank) DecreaseBalance(amount domain.Amount) error {
	newBalance, err := b.balance.Sub(amount)
	if err != nil {
		return &domain.ErrBankruptcy{}
	}
	b.balance = newBalance
	b.metrics.SetBankBalance(float64(b.balance.Zloty()))
	return nil
}

// ============================================================
// Client operations
// ============================================================

// Register creates a new client.
func (b *Bank) Register(ctx context.Context, name, lastName, personalID, login, password string) (*domain.Client, error) {
	return b.clients.Register(ctx, name, lastName, personalID, login, password)
}

// Login authenticates a client.
func (b *Bank) Login(ctx context.Context, login, password string) (*domain.Client, error) {
	return b.clients.Login(ctx, login, password)
}

// CollectLoanPayments charges every due installment on the client's open
// loans and drops loans that are fully repaid. It reports whether every due
// installment could be charged; callers end the session otherwise.
func (b *Bank) CollectLoanPayments(ctx context.Context, client *domain.Client) bool {
	_, span := bankTracer.Start(ctx, "Bank.CollectLoanPayments")
	defer span.End()

	collected, current := client.PayForLoans(b.accounts.ByNumber, b, b.now())
	for i := 0; i < collected; i++ {
		b.metrics.IncrLoanInstallment()
	}
	return current
}

// ============================================================
// Account operations
// ============================================================

// OpenAccount opens an account of the given type for the client.
func (b *Bank) OpenAccount(ctx context.Context, client *domain.Client, accountType domain.AccountType) (domain.Account, error) {
	return b.accounts.Open(ctx, client.PersonalID(), accountType)
}

// OrderNewCard attaches a fresh card of the given type to the account. The
// card price moves from the account to the central balance.
func (b *Bank) OrderNewCard(ctx context.Context, accountNumber string, cardType domain.CardType) error {
	_, span := bankTracer.Start(ctx, "Bank.OrderNewCard")
	defer span.End()
	span.SetAttributes(attribute.String("card.type", cardType.String()))

	account, found := b.accounts.ByNumber(accountNumber)
	if !found {
		return &domain.ErrInvalidAccount{Reason: "account " + accountNumber + " does not exist"}
	}

	card, err := domain.NewCard(cardType)
	if err != nil {
		return err
	}
	if err := account.AddCard(card); err != nil {
		return &domain.ErrNotEnoughMoney{Operation: "card order"}
	}

	b.IncreaseBalance(card.Price())
	return nil
}

// Transaction pays amount from one account to another using the sender's
// best card. The card fee goes to the central balance.
func (b *Bank) Transaction(ctx context.Context, fromNumber, toNumber string, amount domain.Amount) error {
	_, span := bankTracer.Start(ctx, "Bank.Transaction")
	defer span.End()

	start := time.Now()
	defer func() { b.metrics.RecordOperationDuration("card_transaction", time.Since(start)) }()

	from, found := b.accounts.ByNumber(fromNumber)
	if !found {
		return &domain.ErrInvalidAccount{Reason: "account " + fromNumber + " does not exist"}
	}
	to, found := b.accounts.ByNumber(toNumber)
	if !found {
		return &domain.ErrInvalidAccount{Reason: "account " + toNumber + " does not exist"}
	}

	fee, ok := from.Transaction(amount, to)
	if !ok {
		return &domain.ErrNotEnoughMoney{Operation: "card transaction"}
	}
	b.IncreaseBalance(fee)
	return nil
}

// MakeTransfer sends amount from the account to the given number, inside or
// outside the bank.
func (b *Bank) MakeTransfer(ctx context.Context, fromNumber, toNumber string, amount domain.Amount) (*domain.Transfer, error) {
	start := time.Now()
	defer func() { b.metrics.RecordOperationDuration("transfer", time.Since(start)) }()

	sender, found := b.accounts.ByNumber(fromNumber)
	if !found {
		return nil, &domain.ErrInvalidAccount{Reason: "account " + fromNumber + " does not exist"}
	}
	return b.transfers.Create(ctx, sender, toNumber, amount, b.accounts, b)
}

// HandleIncomingExternalTransfers settles everything other banks dropped in
// the inbox since the last run.
func (b *Bank) HandleIncomingExternalTransfers(ctx context.Context) error {
	return b.transfers.HandleIncoming(ctx, b.accounts)
}

// ============================================================
// Loans
// ============================================================

// TakeLoan opens a loan for the client, paid out onto the given account
// from the central balance.
func (b *Bank) TakeLoan(ctx context.Context, client *domain.Client, amount domain.Amount, months int, accountNumber string) error {
	_, span := bankTracer.Start(ctx, "Bank.TakeLoan")
	defer span.End()
	span.SetAttributes(attribute.Int("loan.months", months))

	account, found := b.accounts.ByNumber(accountNumber)
	if !found {
		return &domain.ErrInvalidAccount{Reason: "account " + accountNumber + " does not exist"}
	}
	return client.TakeLoan(amount, months, account, b, b.now())
}

// LoanInfo describes the client's open loans, one per line.
func (b *Bank) LoanInfo(client *domain.Client) string {
	loans := client.Loans()
	if len(loans) == 0 {
		return "No loans taken"
	}

	lines := make([]string, 0, len(loans))
	for _, loan := range loans {
		lines = append(lines, loan.String())
	}
	return strings.Join(lines, "\n")
}

// ============================================================
// Deposits
// ============================================================

// CreateDeposit moves amount from the savings account into a new deposit.
// The money is held by the bank until the deposit ends.
func (b *Bank) CreateDeposit(ctx context.Context, accountNumber string, amount domain.Amount) error {
	_, span := bankTracer.Start(ctx, "Bank.CreateDeposit")
	defer span.End()

	savings, err := b.savingsAccount(accountNumber)
	if err != nil {
		return err
	}
	if !savings.CreateDeposit(amount, b.now()) {
		return &domain.ErrInvalidAccount{Reason: "the account already holds a deposit or cannot cover the amount"}
	}

	b.IncreaseBalance(amount)
	return nil
}

// EndDeposit pays the deposit out with interest. The whole payout comes
// from the central balance.
func (b *Bank) EndDeposit(ctx context.Context, accountNumber string) error {
	_, span := bankTracer.Start(ctx, "Bank.EndDeposit")
	defer span.End()

	savings, err := b.savingsAccount(accountNumber)
	if err != nil {
		return err
	}
	deposit := savings.Deposit()
	if deposit == nil {
		return &domain.ErrInvalidAccount{Reason: "the account does not hold a deposit"}
	}

	payout := deposit.EndValue(b.now())
	if err := b.DecreaseBalance(payout); err != nil {
		return err
	}

	savings.SetBalance(savings.Balance().Add(payout))
	savings.ClearDeposit()
	return nil
}

// DepositInfo describes the deposit on the account, or reports there is
// none.
func (b *Bank) DepositInfo(accountNumber string) (string, error) {
	savings, err := b.savingsAccount(accountNumber)
	if err != nil {
		return "", err
	}
	deposit := savings.Deposit()
	if deposit == nil {
		return "No deposit on this account", nil
	}
	return deposit.String(), nil
}

func (b *Bank) savingsAccount(accountNumber string) (*domain.SavingsAccount, error) {
	account, found := b.accounts.ByNumber(accountNumber)
	if !found {
		return nil, &domain.ErrInvalidAccount{Reason: "account " + accountNumber + " does not exist"}
	}
	savings, ok := account.(*domain.SavingsAccount)
	if !ok {
		return nil, &domain.ErrInvalidAccount{Reason: "account " + accountNumber + " is not a savings account"}
	}
	return savings, nil
}

// ============================================================
// Gold
// ============================================================

// BuyGold sells count gold coins to the investment account at their current
// value. The purchase only moves money on the account side.
func (b *Bank) BuyGold(ctx context.Context, accountNumber string, count int) error {
	_, span := bankTracer.Start(ctx, "Bank.BuyGold")
	defer span.End()
	span.SetAttributes(attribute.Int("gold.count", count))

	investment, err := b.investmentAccount(accountNumber)
	if err != nil {
		return err
	}
	return investment.BuyGold(count, b.now())
}

// SellGold buys the account's gold back at its current value, minus a 2%
// fee the bank keeps.
func (b *Bank) SellGold(ctx context.Context, accountNumber string) error {
	_, span := bankTracer.Start(ctx, "Bank.SellGold")
	defer span.End()

	investment, err := b.investmentAccount(accountNumber)
	if err != nil {
		return err
	}

	_, fee, err := investment.SellGold(b.now())
	if err != nil {
		return err
	}
	b.IncreaseBalance(fee)
	return nil
}

func (b *Bank) investmentAccount(accountNumber string) (*domain.InvestmentAccount, error) {
	account, found := b.accounts.ByNumber(accountNumber)
	if !found {
		return nil, &domain.ErrInvalidAccount{Reason: "account " + accountNumber + " does not exist"}
	}
	investment, ok := account.(*domain.InvestmentAccount)
	if !ok {
		return nil, &domain.ErrInvalidAccount{Reason: "account " + accountNumber + " is not an investment account"}
	}
	return investment, nil
}

// Snapshot is the point-in-time state reported on the operational surface.
type Snapshot struct {
	Balance  domain.Amount
	Clients  int
	Accounts int
}

// Snapshot returns the current state of the bank.
func (b *Bank) Snapshot() Snapshot {
	return Snapshot{
		Balance:  b.balance,
		Clients:  b.clients.Size(),
		Accounts: b.accounts.Size(),
	}
}

// ============================================================
// Persistence
// ============================================================

type bankDocument struct {
	Balance domain.Amount `json:"balance"`
}

// LoadAll restores the whole bank from disk: the central balance and every
// client, account and transfer. A missing or unreadable balance file means a
// fresh bank with the default balance.
func (b *Bank) LoadAll(ctx context.Context) error {
	_, span := bankTracer.Start(ctx, "Bank.LoadAll")
	defer span.End()

	b.balance = defaultBalance
	data, err := b.global.ObjectData(bankObjectName)
	if err == nil {
		var doc bankDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			b.logger.Warn("saved balance unreadable, starting fresh",
				zap.String("balance", b.balance.String()),
				zap.Error(err),
			)
		} else {
			b.balance = doc.Balance
		}
	} else {
		b.logger.Info("no saved balance, starting fresh",
			zap.String("balance", b.balance.String()),
		)
	}
	b.metrics.SetBankBalance(float64(b.balance.Zloty()))

	if err := b.clients.Load(); err != nil {
		return err
	}
	if err := b.accounts.Load(); err != nil {
		return err
	}
	return b.transfers.Load()
}

// SaveAll writes the whole bank to disk, replacing the previous state.
func (b *Bank) SaveAll(ctx context.Context) error {
	_, span := bankTracer.Start(ctx, "Bank.SaveAll")
	defer span.End()

	if err := b.clients.Save(); err != nil {
		return err
	}
	if err := b.accounts.Save(); err != nil {
		return err
	}
	if err := b.transfers.Save(); err != nil {
		return err
	}
	return b.global.SaveObject(bankObjectName, bankDocument{Balance: b.balance})
}
