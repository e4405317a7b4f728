package service

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/verdigris-systems/ledgerd/internal/ledger/chain"
	"github.com/verdigris-systems/ledgerd/internal/ledger/domain"
	"github.com/verdigris-systems/ledgerd/internal/ledger/metrics"
	"github.com/verdigris-systems/ledgerd/internal/ledger/store"
	"github.com/verdigris-systems/ledgerd/pkg/cryptox"
	"github.com/verdigris-systems/ledgerd/pkg/idx"
	"github.com/verdigris-systems/ledgerd/pkg/slogx"
)

// RegistrationEvent is the canonical chain payload recorded when a new
// client is published. Field order is fixed by the struct definition;
// encoding/json preserves it, which makes the serialization canonical.
type RegistrationEvent struct {
	ServerAction string `json:"server-action"`
	Now          string `json:"now"`
	ClientID     string `json:"clientid"`
	PublicKey    string `json:"publickey"`
}

// ServerActionNewClient is the action string recorded for registration
// events.
const ServerActionNewClient = "New Client Registration"

// ChainPublisher appends signed entries to the hash chain. A single writer
// lock serializes the read-tip / compute-link / insert sequence so entries
// are totally ordered even under concurrent registrations.
type ChainPublisher struct {
	Store   store.Store
	Key     ed25519.PrivateKey
	Metrics *metrics.Metrics

	// Now is replaceable for tests.
	Now func() time.Time

	mu sync.Mutex
}

// NewChainPublisher creates a publisher signing with the given server key.
func NewChainPublisher(s store.Store, key ed25519.PrivateKey, m *metrics.Metrics) *ChainPublisher {
	return &ChainPublisher{
		Store:   s,
		Key:     key,
		Metrics: m,
		Now:     time.Now,
	}
}

// PublishRegistration serializes a RegistrationEvent, signs it with the
// server key and appends it as one chain entry.
func (p *ChainPublisher) PublishRegistration(ctx context.Context, clientID, publicKey string) (domain.Entry, error) {
	event := RegistrationEvent{
		ServerAction: ServerActionNewClient,
		Now:          p.Now().UTC().Format(time.RFC3339),
		ClientID:     clientID,
		PublicKey:    publicKey,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("service: serialize registration event: %w", err)
	}

	return p.Append(ctx, string(payload))
}

// Append signs the payload and links it onto the chain tip. The whole
// read-compute-insert sequence holds the writer lock and runs inside one
// transaction, so concurrent appends serialize cleanly and a failed commit
// leaves no partial entry.
func (p *ChainPublisher) Append(ctx context.Context, payload string) (domain.Entry, error) {
	l := slogx.FromContext(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	signature := cryptox.SignDetached(p.Key, []byte(payload))
	signerKey := cryptox.EncodePublicKey(p.Key.Public().(ed25519.PublicKey))

	var entry domain.Entry
	err := p.Store.WithTx(ctx, func(tx store.Tx) error {
		prevHash := ""
		index := int64(0)

		tip, err := tx.Entries().GetTip(ctx)
		switch {
		case err == nil:
			prevHash = tip.Hash
			index = tip.Index + 1
		case errors.Is(err, store.ErrNotFound):
			// genesis entry
		default:
			return fmt.Errorf("read tip: %w", err)
		}

		entry = domain.Entry{
			ID:        idx.New().String(),
			Index:     index,
			PrevHash:  prevHash,
			Hash:      chain.EntryHash(prevHash, payload, signature),
			Payload:   payload,
			Signature: signature,
			SignerKey: signerKey,
			CreatedAt: p.Now().UTC(),
		}

		return tx.Entries().CreateEntry(ctx, entry)
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("service: append chain entry: %w", err)
	}

	p.Metrics.IncrementAppend()
	l.Info("chain entry appended", "index", entry.Index, "hash", entry.Hash)

	return entry, nil
}

// Tip returns the newest chain entry plus the chain length. A zero-value
// entry with count 0 means the chain is empty.
func (p *ChainPublisher) Tip(ctx context.Context) (domain.Entry, int64, error) {
	count, err := p.Store.Entries().CountEntries(ctx)
	if err != nil {
		return domain.Entry{}, 0, fmt.Errorf("service: count entries: %w", err)
	}

	tip, err := p.Store.Entries().GetTip(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Entry{}, 0, nil
	}
	if err != nil {
		return domain.Entry{}, 0, fmt.Errorf("service: read tip: %w", err)
	}

	return tip, count, nil
}

// ListEntries returns the newest entries, at most limit (limit <= 0 means
// no cap).
func (p *ChainPublisher) ListEntries(ctx context.Context, limit int64) ([]domain.Entry, error) {
	return p.Store.Entries().ListEntries(ctx, limit)
}
