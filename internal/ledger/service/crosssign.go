package service

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/verdigris-systems/ledgerd/internal/ledger/domain"
	"github.com/verdigris-systems/ledgerd/internal/ledger/metrics"
	"github.com/verdigris-systems/ledgerd/internal/ledger/store"
	"github.com/verdigris-systems/ledgerd/pkg/cryptox"
	"github.com/verdigris-systems/ledgerd/pkg/idx"
	"github.com/verdigris-systems/ledgerd/pkg/ledgersdk"
	"github.com/verdigris-systems/ledgerd/pkg/slogx"
)

// CounterSignEnvelope is the dated message a ledger signs when attesting to
// another ledger's chain tip. Field order is fixed; the JSON serialization
// is the signed payload.
type CounterSignEnvelope struct {
	Action   string `json:"action"`
	Datetime string `json:"datetime"`
	TipHash  string `json:"tip-hash"`
	TipIndex int64  `json:"tip-index"`
	Origin   string `json:"origin,omitempty"`
}

// ActionCrossSign is the action string of counter-sign envelopes.
const ActionCrossSign = "Cross Sign"

// crossSignPeer is the slice of the SDK client the scheduler needs.
// Injectable for tests.
type crossSignPeer interface {
	CrossSign(ctx context.Context, req ledgersdk.CrossSignRequest) (*ledgersdk.CrossSignResponse, error)
}

// CrossSignService gets the local chain tip counter-signed by configured
// peer ledgers and serves counter-sign requests from peers in turn.
type CrossSignService struct {
	Store     store.Store
	Publisher *ChainPublisher
	Key       ed25519.PrivateKey
	Metrics   *metrics.Metrics

	// Origin identifies this ledger in envelopes it signs, typically the
	// issuer URL.
	Origin string

	// Peers are the base URLs asked to counter-sign our tip.
	Peers []string

	// Interval gates how often the scheduler actually runs. MaybeCrossSign
	// is cheap to call; it no-ops inside the interval.
	Interval time.Duration

	// Now and newPeer are replaceable for tests.
	Now     func() time.Time
	newPeer func(baseURL string) crossSignPeer

	mu      sync.Mutex
	lastRun time.Time
}

// NewCrossSignService creates the scheduler with production peers and clock.
func NewCrossSignService(
	s store.Store,
	publisher *ChainPublisher,
	key ed25519.PrivateKey,
	m *metrics.Metrics,
	origin string,
	peers []string,
	interval time.Duration,
) *CrossSignService {
	return &CrossSignService{
		Store:     s,
		Publisher: publisher,
		Key:       key,
		Metrics:   m,
		Origin:    origin,
		Peers:     peers,
		Interval:  interval,
		Now:       time.Now,
		newPeer: func(baseURL string) crossSignPeer {
			return ledgersdk.NewClient(baseURL)
		},
	}
}

// MaybeCrossSign runs a cross-sign cycle when one is due. Callers invoke it
// after every chain append and let the service decide; inside the interval
// it returns immediately. Peer failures are logged and counted, never
// propagated — a peer being down must not fail a registration.
func (s *CrossSignService) MaybeCrossSign(ctx context.Context) {
	l := slogx.FromContext(ctx)

	if len(s.Peers) == 0 || s.Interval <= 0 {
		return
	}

	s.mu.Lock()
	now := s.Now()
	if now.Sub(s.lastRun) < s.Interval {
		s.mu.Unlock()
		return
	}
	s.lastRun = now
	s.mu.Unlock()

	tip, count, err := s.Publisher.Tip(ctx)
	if err != nil {
		l.Error("cross-sign: read tip failed", "error", err)
		return
	}
	if count == 0 {
		// nothing to attest yet
		return
	}

	req := ledgersdk.CrossSignRequest{
		TipHash:  tip.Hash,
		TipIndex: tip.Index,
		Origin:   s.Origin,
	}

	for _, peer := range s.Peers {
		if err := s.crossSignWith(ctx, peer, req); err != nil {
			l.Error("cross-sign: peer failed", "peer", peer, "error", err)
			s.Metrics.IncrementCrossSign("error")
			continue
		}
		s.Metrics.IncrementCrossSign("ok")
		l.Info("cross-sign: tip attested", "peer", peer, "tip", tip.Hash)
	}
}

// crossSignWith asks one peer to counter-sign the tip, verifies the
// returned signature and stores the attestation.
func (s *CrossSignService) crossSignWith(ctx context.Context, peer string, req ledgersdk.CrossSignRequest) error {
	resp, err := s.newPeer(peer).CrossSign(ctx, req)
	if err != nil {
		return fmt.Errorf("request counter-sign: %w", err)
	}

	peerKey, err := cryptox.ParseEd25519PublicKey(resp.PublicKey)
	if err != nil {
		return fmt.Errorf("parse peer key: %w", err)
	}
	if !cryptox.VerifyDetached(peerKey, []byte(resp.Payload), resp.Signature) {
		return fmt.Errorf("peer signature does not verify")
	}

	// The attestation must actually cover our tip.
	var envelope CounterSignEnvelope
	if err := json.Unmarshal([]byte(resp.Payload), &envelope); err != nil {
		return fmt.Errorf("decode counter-sign envelope: %w", err)
	}
	if envelope.TipHash != req.TipHash {
		return fmt.Errorf("counter-sign envelope covers wrong tip %q", envelope.TipHash)
	}

	cs := domain.CrossSign{
		ID:        idx.New().String(),
		TipHash:   req.TipHash,
		PeerURL:   peer,
		PeerKey:   resp.PublicKey,
		Signature: resp.Signature,
		CreatedAt: s.Now().UTC(),
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.CrossSigns().CreateCrossSign(ctx, cs)
	})
}

// CounterSign serves a peer's request: wrap the presented tip hash in a
// dated envelope and sign it with our server key.
func (s *CrossSignService) CounterSign(ctx context.Context, req ledgersdk.CrossSignRequest) (ledgersdk.CrossSignResponse, error) {
	now := s.Now().UTC().Format(time.RFC3339)

	envelope := CounterSignEnvelope{
		Action:   ActionCrossSign,
		Datetime: now,
		TipHash:  req.TipHash,
		TipIndex: req.TipIndex,
		Origin:   req.Origin,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return ledgersdk.CrossSignResponse{}, fmt.Errorf("service: serialize counter-sign envelope: %w", err)
	}

	return ledgersdk.CrossSignResponse{
		Payload:   string(payload),
		Signature: cryptox.SignDetached(s.Key, payload),
		PublicKey: cryptox.EncodePublicKey(s.Key.Public().(ed25519.PublicKey)),
		Datetime:  now,
	}, nil
}

// ListCrossSigns returns stored attestations, newest first.
func (s *CrossSignService) ListCrossSigns(ctx context.Context) ([]domain.CrossSign, error) {
	return s.Store.CrossSigns().ListCrossSigns(ctx)
}
