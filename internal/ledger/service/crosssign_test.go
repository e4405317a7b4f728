package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/verdigris-systems/ledgerd/pkg/cryptox"
	"github.com/verdigris-systems/ledgerd/pkg/ledgersdk"
)

// fakePeer counter-signs requests with its own key, like a real remote
// ledger would.
type fakePeer struct {
	svc   *CrossSignService
	calls int
	fail  bool
}

func (p *fakePeer) CrossSign(ctx context.Context, req ledgersdk.CrossSignRequest) (*ledgersdk.CrossSignResponse, error) {
	p.calls++
	if p.fail {
		return nil, errors.New("peer unreachable")
	}
	resp, err := p.svc.CounterSign(ctx, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func newCrossSignFixture(t *testing.T, peers []string, interval time.Duration) (*CrossSignService, *ChainPublisher, map[string]*fakePeer) {
	t.Helper()

	s := newTestStore(t)
	key := newTestKey(t)

	publisher := NewChainPublisher(s, key, sharedMetrics())
	svc := NewCrossSignService(s, publisher, key, sharedMetrics(), "https://ledger-a.example.com", peers, interval)

	// Every fake peer runs its own signing service with its own key.
	fakes := make(map[string]*fakePeer, len(peers))
	for _, peer := range peers {
		peerStore := newTestStore(t)
		peerKey := newTestKey(t)
		peerPublisher := NewChainPublisher(peerStore, peerKey, sharedMetrics())
		peerSvc := NewCrossSignService(peerStore, peerPublisher, peerKey, sharedMetrics(), peer, nil, 0)
		fakes[peer] = &fakePeer{svc: peerSvc}
	}
	svc.newPeer = func(baseURL string) crossSignPeer { return fakes[baseURL] }

	return svc, publisher, fakes
}

func TestCounterSignEnvelope(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCrossSignFixture(t, nil, 0)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	resp, err := svc.CounterSign(ctx, ledgersdk.CrossSignRequest{
		TipHash:  "tip-hash-xyz",
		TipIndex: 41,
		Origin:   "https://ledger-b.example.com",
	})
	require.NoError(t, err)

	var envelope CounterSignEnvelope
	require.NoError(t, json.Unmarshal([]byte(resp.Payload), &envelope))
	require.Equal(t, ActionCrossSign, envelope.Action)
	require.Equal(t, "tip-hash-xyz", envelope.TipHash)
	require.EqualValues(t, 41, envelope.TipIndex)
	require.Equal(t, "https://ledger-b.example.com", envelope.Origin)
	require.Equal(t, now.Format(time.RFC3339), envelope.Datetime)

	pub, err := cryptox.ParseEd25519PublicKey(resp.PublicKey)
	require.NoError(t, err)
	require.True(t, cryptox.VerifyDetached(pub, []byte(resp.Payload), resp.Signature))
}

func TestMaybeCrossSignContactsEveryPeerOnceWhenDue(t *testing.T) {
	ctx := context.Background()
	peers := []string{"https://peer-1.example.com", "https://peer-2.example.com"}
	svc, publisher, fakes := newCrossSignFixture(t, peers, time.Hour)

	_, err := publisher.Append(ctx, "some-payload")
	require.NoError(t, err)

	svc.MaybeCrossSign(ctx)

	for peer, fake := range fakes {
		require.Equal(t, 1, fake.calls, "peer %s", peer)
	}

	stored, err := svc.ListCrossSigns(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	tip, _, err := publisher.Tip(ctx)
	require.NoError(t, err)
	for _, cs := range stored {
		require.Equal(t, tip.Hash, cs.TipHash)

		pub, err := cryptox.ParseEd25519PublicKey(cs.PeerKey)
		require.NoError(t, err)
		require.NotEmpty(t, pub)
	}
}

func TestMaybeCrossSignIsNoOpInsideInterval(t *testing.T) {
	ctx := context.Background()
	peers := []string{"https://peer-1.example.com"}
	svc, publisher, fakes := newCrossSignFixture(t, peers, time.Hour)

	_, err := publisher.Append(ctx, "some-payload")
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	svc.MaybeCrossSign(ctx)
	require.Equal(t, 1, fakes[peers[0]].calls)

	// Within the interval: no contact.
	svc.Now = func() time.Time { return now.Add(30 * time.Minute) }
	svc.MaybeCrossSign(ctx)
	require.Equal(t, 1, fakes[peers[0]].calls)

	// Past the interval: due again.
	svc.Now = func() time.Time { return now.Add(2 * time.Hour) }
	svc.MaybeCrossSign(ctx)
	require.Equal(t, 2, fakes[peers[0]].calls)
}

func TestMaybeCrossSignSkipsEmptyChain(t *testing.T) {
	ctx := context.Background()
	peers := []string{"https://peer-1.example.com"}
	svc, _, fakes := newCrossSignFixture(t, peers, time.Hour)

	svc.MaybeCrossSign(ctx)
	require.Zero(t, fakes[peers[0]].calls)
}

func TestMaybeCrossSignSurvivesPeerFailure(t *testing.T) {
	ctx := context.Background()
	peers := []string{"https://peer-1.example.com", "https://peer-2.example.com"}
	svc, publisher, fakes := newCrossSignFixture(t, peers, time.Hour)

	fakes[peers[0]].fail = true

	_, err := publisher.Append(ctx, "some-payload")
	require.NoError(t, err)

	svc.MaybeCrossSign(ctx)

	// The healthy peer was still asked and its attestation stored.
	require.Equal(t, 1, fakes[peers[1]].calls)

	stored, err := svc.ListCrossSigns(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, peers[1], stored[0].PeerURL)
}

func TestMaybeCrossSignWithoutPeersIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, publisher, _ := newCrossSignFixture(t, nil, time.Hour)

	_, err := publisher.Append(ctx, "some-payload")
	require.NoError(t, err)

	// Must not panic or store anything.
	svc.MaybeCrossSign(ctx)

	stored, err := svc.ListCrossSigns(ctx)
	require.NoError(t, err)
	require.Empty(t, stored)
}
