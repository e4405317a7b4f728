package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verdigris-systems/ledgerd/internal/ledger/domain"
	"github.com/verdigris-systems/ledgerd/internal/ledger/store"
	"github.com/verdigris-systems/ledgerd/pkg/cryptox"
	"github.com/verdigris-systems/ledgerd/pkg/slogx"
)

// maxIDAttempts bounds the identifier retry loop. With 192 bits of entropy
// per candidate a collision is vanishingly rare; exhausting the loop means
// something is broken, not unlucky.
const maxIDAttempts = 10

var ErrIDExhausted = errors.New("service: could not allocate a unique client identifier")

// RegistrationService allocates client identifiers and persists new client
// records transactionally.
type RegistrationService struct {
	Store store.Store

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() (string, error)
}

// NewRegistrationService creates a registration service with production
// time and identifier sources.
func NewRegistrationService(s store.Store) *RegistrationService {
	return &RegistrationService{
		Store: s,
		Now:   time.Now,
		NewID: func() (string, error) {
			return cryptox.GenerateToken(cryptox.TokenSize192)
		},
	}
}

// RegisterClient allocates a fresh unique identifier and inserts the client
// record inside a transaction. A candidate identifier that turns out to be
// taken (pre-check or constraint violation at insert) triggers a fresh
// candidate, up to maxIDAttempts.
func (s *RegistrationService) RegisterClient(ctx context.Context, publicKey, comment string) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	now := s.Now().UTC()

	for attempt := range maxIDAttempts {
		id, err := s.NewID()
		if err != nil {
			return domain.Client{}, fmt.Errorf("service: generate client id: %w", err)
		}

		// Cheap pre-check before opening a write transaction. The insert
		// below still carries the authoritative uniqueness guarantee.
		_, err = s.Store.Clients().GetClientByID(ctx, id)
		if err == nil {
			l.Warn("client id collision on pre-check", "attempt", attempt+1)
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, fmt.Errorf("service: check client id: %w", err)
		}

		client := domain.Client{
			ID:         id,
			PublicKey:  publicKey,
			Comment:    comment,
			IsAdmin:    false,
			CreatedAt:  now,
			ModifiedAt: now,
		}

		err = s.Store.WithTx(ctx, func(tx store.Tx) error {
			return tx.Clients().CreateClient(ctx, client)
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			l.Warn("client id collision on insert", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return domain.Client{}, fmt.Errorf("service: create client: %w", err)
		}

		l.Info("client registered", "client_id", id)
		return client, nil
	}

	l.Error("client id space exhausted after retries", "attempts", maxIDAttempts)
	return domain.Client{}, ErrIDExhausted
}

// ListClients returns all registered clients, newest first.
func (s *RegistrationService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.Store.Clients().ListClients(ctx)
}
