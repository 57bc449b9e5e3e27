package bank

import (
	"context"
	"encoding/json"

	"github.com/pmarczak/zloty-bank-go/internal/domain"
	"github.com/pmarczak/zloty-bank-go/internal/infra/observability"
	"github.com/pmarczak/zloty-bank-go/internal/infra/random"
	"github.com/pmarczak/zloty-bank-go/internal/repository"
	"github.com/pmarczak/zloty-bank-go/internal/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var transferTracer = otel.Tracer("bank/transfers")

// TransferManager owns the transfer history and the two external exchange
// directories: the outbox read by other banks and the inbox they write into.
type TransferManager struct {
	transfers *repository.Repository[*domain.Transfer]
	handler   *storage.Handler
	outbox    *storage.Handler
	inbox     *storage.Handler
	rng       *random.Generator
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewTransferManager creates a transfer manager over the three directories.
func NewTransferManager(handler, outbox, inbox *storage.Handler, rng *random.Generator, metrics *observability.Metrics, logger *zap.Logger) *TransferManager {
	return &TransferManager{
		transfers: repository.New[*domain.Transfer](),
		handler:   handler,
		outbox:    outbox,
		inbox:     inbox,
		rng:       rng,
		metrics:   metrics,
		logger:    logger,
	}
}

// classify determines the transfer type from the endpoints: both accounts of
// one client, two clients of this bank, or a recipient we do not know.
func classify(sender domain.Account, recipient domain.Account) domain.TransferType {
	if recipient == nil {
		return domain.TransferOutcomingExternal
	}
	if recipient.OwnerID() == sender.OwnerID() {
		return domain.TransferOwn
	}
	return domain.TransferInternal
}

// Create moves amount from the sender to the account with the given number.
// The sender pays the transfer fee on top; for transfers settled inside the
// bank the fee goes to the central balance through the ledger. Transfers to
// unknown account numbers leave the bank: the money is debited, fee
// included, and the transfer lands in the outbox.
func (m *TransferManager) Create(ctx context.Context, sender domain.Account, recipientNumber string, amount domain.Amount, accounts *AccountManager, ledger domain.Ledger) (*domain.Transfer, error) {
	_, span := transferTracer.Start(ctx, "TransferManager.Create")
	defer span.End()

	recipient, _ := accounts.ByNumber(recipientNumber)
	transferType := classify(sender, recipient)
	span.SetAttributes(attribute.String("transfer.type", transferType.String()))

	id := m.rng.TransferID(m.idTaken)
	transfer := domain.NewTransfer(id, sender.Number(), recipientNumber, amount, sender.TransferFee(), transferType)

	newBalance, err := sender.Balance().Sub(transfer.SentAmount())
	if err != nil {
		return nil, &domain.ErrNotEnoughMoney{Operation: "transfer"}
	}
	sender.SetBalance(newBalance)

	if recipient != nil {
		ledger.IncreaseBalance(transfer.Fee())
		recipient.SetBalance(recipient.Balance().Add(transfer.ReceivedAmount()))
	} else if err := m.outbox.SaveEntity(transfer); err != nil {
		return nil, err
	}

	m.transfers.Add(transfer)
	m.metrics.IncrTransfer(transferType.String())
	m.logger.Info("transfer created",
		zap.String("id", id),
		zap.String("type", transferType.String()),
		zap.String("amount", amount.String()),
	)
	return transfer, nil
}

// HandleIncoming drains the inbox, crediting each transfer to its recipient
// account. Transfers addressed to accounts this bank does not hold are
// dropped with a warning.
func (m *TransferManager) HandleIncoming(ctx context.Context, accounts *AccountManager) error {
	_, span := transferTracer.Start(ctx, "TransferManager.HandleIncoming")
	defer span.End()

	objects, err := m.inbox.AllObjects()
	if err != nil {
		return err
	}

	for name, data := range objects {
		transfer := &domain.Transfer{}
		if err := json.Unmarshal(data, transfer); err != nil {
			return &domain.ErrStorage{Path: name, Err: err}
		}

		recipient, found := accounts.ByNumber(transfer.RecipientID())
		if found {
			recipient.SetBalance(recipient.Balance().Add(transfer.ReceivedAmount()))
			m.transfers.Add(transfer)
			m.metrics.IncrTransfer(domain.TransferIncomingExternal.String())
			m.logger.Info("incoming transfer settled", zap.String("id", transfer.ID()))
		} else {
			m.logger.Warn("incoming transfer for unknown account dropped",
				zap.String("id", transfer.ID()),
				zap.String("recipient", transfer.RecipientID()),
			)
		}

		if err := m.inbox.RemoveObject(name); err != nil {
			return err
		}
	}
	return nil
}

// For returns every transfer that touches the account number, in creation
// order.
func (m *TransferManager) For(accountNumber string) []*domain.Transfer {
	return m.transfers.FindAll(func(t *domain.Transfer) bool {
		return t.ConcernsAccount(accountNumber)
	})
}

// ForClient returns every transfer touching any account the client owns, in
// creation order.
func (m *TransferManager) ForClient(personalID string, accounts *AccountManager) []*domain.Transfer {
	owned := make(map[string]bool)
	for _, account := range accounts.Owned(personalID) {
		owned[account.Number()] = true
	}
	return m.transfers.FindAll(func(t *domain.Transfer) bool {
		return owned[t.SenderID()] || owned[t.RecipientID()]
	})
}

// ByID finds a transfer by its identifier.
func (m *TransferManager) ByID(id string) (*domain.Transfer, bool) {
	return m.transfers.FindFirst(func(t *domain.Transfer) bool {
		return t.ID() == id
	})
}

// Size returns the number of recorded transfers.
func (m *TransferManager) Size() int { return m.transfers.Size() }

func (m *TransferManager) idTaken(id string) bool {
	_, found := m.ByID(id)
	return found
}

// Save rewrites the history directory from the in-memory state. The outbox
// is not touched: its files belong to the receiving bank.
func (m *TransferManager) Save() error {
	if err := m.handler.RemoveAll(); err != nil {
		return err
	}
	for _, transfer := range m.transfers.All() {
		if err := m.handler.SaveEntity(transfer); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the in-memory history with the directory's contents.
func (m *TransferManager) Load() error {
	objects, err := m.handler.AllObjects()
	if err != nil {
		return err
	}

	m.transfers.RemoveAll()
	for name, data := range objects {
		transfer := &domain.Transfer{}
		if err := json.Unmarshal(data, transfer); err != nil {
			return &domain.ErrStorage{Path: name, Err: err}
		}
		m.transfers.Add(transfer)
	}

	m.logger.Info("transfers loaded", zap.Int("count", m.transfers.Size()))
	return nil
}
