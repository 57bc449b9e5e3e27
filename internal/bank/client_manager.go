package bank

import (
	"context"
	"fmt"

	"github.com/pmarczak/zloty-bank-go/internal/domain"
	"github.com/pmarczak/zloty-bank-go/internal/infra/observability"
	"github.com/pmarczak/zloty-bank-go/internal/repository"
	"github.com/pmarczak/zloty-bank-go/internal/storage"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var clientTracer = otel.Tracer("bank/clients")

// ClientManager owns every registered client and the login state machine.
type ClientManager struct {
	clients *repository.Repository[*domain.Client]
	handler *storage.Handler
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewClientManager creates a client manager persisting into handler.
func NewClientManager(handler *storage.Handler, metrics *observability.Metrics, logger *zap.Logger) *ClientManager {
	return &ClientManager{
		clients: repository.New[*domain.Client](),
		handler: handler,
		metrics: metrics,
		logger:  logger,
	}
}

// Register creates a new client. A personal id or login already in use is
// rejected.
func (m *ClientManager) Register(ctx context.Context, name, lastName, personalID, login, password string) (*domain.Client, error) {
	_, span := clientTracer.Start(ctx, "ClientManager.Register")
	defer span.End()

	if _, found := m.ByPersonalID(personalID); found {
		return nil, &domain.ErrRegisterFailed{Reason: "client with provided personal id already exists"}
	}
	if _, found := m.ByLogin(login); found {
		return nil, &domain.ErrRegisterFailed{Reason: "client with provided login already exists"}
	}

	client := domain.NewClient(name, lastName, personalID, login, password)
	m.clients.Add(client)
	m.logger.Info("client registered", zap.String("login", login))
	return client, nil
}

// Login authenticates the client. After five failed attempts the client is
// locked and stays locked until the record is reset out of band; the lock
// survives restarts. Each failure path carries its own message.
func (m *ClientManager) Login(ctx context.Context, login, password string) (*domain.Client, error) {
	_, span := clientTracer.Start(ctx, "ClientManager.Login")
	defer span.End()

	client, found := m.ByLogin(login)
	if !found {
		m.metrics.IncrLogin("unknown_login")
		return nil, &domain.ErrLoginFailed{Reason: "client with provided login does not exist"}
	}

	if client.IsLocked() {
		m.metrics.IncrLogin("locked")
		return nil, &domain.ErrLoginFailed{Reason: "your account has been locked"}
	}

	if !client.CheckPassword(password) {
		if client.RecordFailedLogin() {
			m.metrics.IncrLogin("locked")
			m.logger.Warn("client locked out", zap.String("login", login))
			return nil, &domain.ErrLoginFailed{Reason: "provided password is not correct, your account has been locked"}
		}
		m.metrics.IncrLogin("wrong_password")
		reason := fmt.Sprintf(
			"provided password is not correct, %d failed attempts in a row; after %d the account will be locked",
			client.FailedLogins(), domain.MaxIncorrectLogins,
		)
		return nil, &domain.ErrLoginFailed{Reason: reason}
	}

	client.ResetFailedLogins()
	m.metrics.IncrLogin("success")
	m.logger.Info("client logged in", zap.String("login", login))
	return client, nil
}

// Unregister removes the client. Their file disappears at the next save.
func (m *ClientManager) Unregister(client *domain.Client) {
	m.clients.Remove(client)
	m.logger.Info("client unregistered", zap.String("login", client.Login()))
}

// ByPersonalID finds the client with the given personal id.
func (m *ClientManager) ByPersonalID(personalID string) (*domain.Client, bool) {
	return m.clients.FindFirst(func(c *domain.Client) bool {
		return c.PersonalID() == personalID
	})
}

// ByLogin finds the client with the given login.
func (m *ClientManager) ByLogin(login string) (*domain.Client, bool) {
	return m.clients.FindFirst(func(c *domain.Client) bool {
		return c.Login() == login
	})
}

// All returns every client.
func (m *ClientManager) All() []*domain.Client { return m.clients.All() }

// Size returns the number of clients.
func (m *ClientManager) Size() int { return m.clients.Size() }

// Save rewrites the storage directory from the in-memory state.
func (m *ClientManager) Save() error {
	if err := m.handler.RemoveAll(); err != nil {
		return err
	}
	for _, client := range m.clients.All() {
		if err := m.handler.SaveEntity(client); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the in-memory state with the storage directory's contents.
func (m *ClientManager) Load() error {
	objects, err := m.handler.AllObjects()
	if err != nil {
		return err
	}

	m.clients.RemoveAll()
	for name, data := range objects {
		client := &domain.Client{}
		if err := client.UnmarshalJSON(data); err != nil {
			return &domain.ErrStorage{Path: name, Err: err}
		}
		m.clients.Add(client)
	}

	m.logger.Info("clients loaded", zap.Int("count", m.clients.Size()))
	return nil
}
