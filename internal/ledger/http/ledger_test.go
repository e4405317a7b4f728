package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	ledgerhttp "github.com/verdigris-systems/ledgerd/internal/ledger/http"
	"github.com/verdigris-systems/ledgerd/internal/ledger/service"
	"github.com/verdigris-systems/ledgerd/pkg/cryptox"
	"github.com/verdigris-systems/ledgerd/pkg/ledgersdk"
)

// seedChain registers count clients with publication enabled so the chain
// has entries to read back.
func seedChain(t *testing.T, f *fixture, count int) []string {
	t.Helper()

	token := f.mintToken(t, "admin", ledgerhttp.AdminScope)
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		resp := f.postClients(t, token, registerBody(t, newClientPublicKey(t), ""), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var envelope ledgersdk.RegisterClientResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
		ids = append(ids, envelope.Results.ClientID)
	}
	return ids
}

func TestLedgerList(t *testing.T) {
	f := newFixture(t, func(r *ledgerhttp.Router) {
		r.PublishNewClients = true
	})
	seedChain(t, f, 3)

	t.Run("newest first", func(t *testing.T) {
		sdk := ledgersdk.NewClient(f.server.URL)
		list, err := sdk.GetLedger(context.Background())
		require.NoError(t, err)
		require.EqualValues(t, 3, list.Count)
		require.Len(t, list.Entries, 3)

		require.EqualValues(t, 2, list.Entries[0].Index)
		require.EqualValues(t, 1, list.Entries[1].Index)
		require.EqualValues(t, 0, list.Entries[2].Index)

		// Adjacent entries link by hash.
		require.Equal(t, list.Entries[1].Hash, list.Entries[0].PreviousHash)
		require.Equal(t, list.Entries[2].Hash, list.Entries[1].PreviousHash)
		require.Empty(t, list.Entries[2].PreviousHash)
	})

	t.Run("limit pages the result", func(t *testing.T) {
		resp, err := f.server.Client().Get(f.server.URL + "/v1/ledger?limit=1")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list ledgersdk.LedgerListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		require.Len(t, list.Entries, 1)
		require.EqualValues(t, 2, list.Entries[0].Index)
		require.EqualValues(t, 3, list.Count) // count reflects the whole chain
	})

	t.Run("invalid limit rejected", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "-5"} {
			resp, err := f.server.Client().Get(f.server.URL + "/v1/ledger?limit=" + raw)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, http.StatusNotAcceptable, resp.StatusCode, "limit=%s", raw)
		}
	})
}

func TestLedgerTip(t *testing.T) {
	t.Run("empty chain", func(t *testing.T) {
		f := newFixture(t, nil)
		sdk := ledgersdk.NewClient(f.server.URL)

		tip, err := sdk.GetTip(context.Background())
		require.NoError(t, err)
		require.EqualValues(t, 0, tip.Count)
		require.Empty(t, tip.Hash)
	})

	t.Run("tracks the newest entry", func(t *testing.T) {
		f := newFixture(t, func(r *ledgerhttp.Router) {
			r.PublishNewClients = true
		})
		seedChain(t, f, 2)

		sdk := ledgersdk.NewClient(f.server.URL)
		tip, err := sdk.GetTip(context.Background())
		require.NoError(t, err)
		require.EqualValues(t, 1, tip.Index)
		require.EqualValues(t, 2, tip.Count)

		entry, err := f.store.Entries().GetTip(context.Background())
		require.NoError(t, err)
		require.Equal(t, entry.Hash, tip.Hash)
	})
}

func TestCrossSignEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	sdk := ledgersdk.NewClient(f.server.URL)

	t.Run("counter-signs a tip", func(t *testing.T) {
		resp, err := sdk.CrossSign(context.Background(), ledgersdk.CrossSignRequest{
			TipHash:  "peer-tip-hash",
			TipIndex: 7,
			Origin:   "https://peer.example.com",
		})
		require.NoError(t, err)

		var envelope service.CounterSignEnvelope
		require.NoError(t, json.Unmarshal([]byte(resp.Payload), &envelope))
		require.Equal(t, service.ActionCrossSign, envelope.Action)
		require.Equal(t, "peer-tip-hash", envelope.TipHash)
		require.EqualValues(t, 7, envelope.TipIndex)
		require.Equal(t, "https://peer.example.com", envelope.Origin)

		_, err = time.Parse(time.RFC3339, envelope.Datetime)
		require.NoError(t, err)

		pub, err := cryptox.ParseEd25519PublicKey(resp.PublicKey)
		require.NoError(t, err)
		require.True(t, cryptox.VerifyDetached(pub, []byte(resp.Payload), resp.Signature))
	})

	t.Run("missing tip-hash rejected", func(t *testing.T) {
		resp, err := f.server.Client().Post(f.server.URL+"/v1/cross-sign",
			"application/json", strings.NewReader(`{"origin":"https://peer.example.com"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotAcceptable, resp.StatusCode)

		env := decodeErrorEnvelope(t, resp)
		require.Equal(t, "POST body missing tip-hash field", env.Message)
	})

	t.Run("invalid body rejected", func(t *testing.T) {
		resp, err := f.server.Client().Post(f.server.URL+"/v1/cross-sign",
			"application/json", strings.NewReader("{broken"))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotAcceptable, resp.StatusCode)
	})
}

func TestServerKeyEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	sdk := ledgersdk.NewClient(f.server.URL)

	key, err := sdk.GetServerKey(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ed25519", key.Algorithm)
	require.Equal(t, f.router.Signer.PublicKey(), key.PublicKey)
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	t.Run("livez", func(t *testing.T) {
		resp, err := f.server.Client().Get(f.server.URL + "/livez")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var health ledgersdk.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		require.Equal(t, "ok", health.Status)
		require.Equal(t, "test", health.Version)
	})

	t.Run("readyz healthy", func(t *testing.T) {
		sdk := ledgersdk.NewClient(f.server.URL)
		require.NoError(t, sdk.Healthy(context.Background()))
	})

	t.Run("readyz degraded without signing key", func(t *testing.T) {
		h := ledgerhttp.ReadyzHandler(time.Now(), "test", f.store, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var health ledgersdk.HealthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
		require.Equal(t, "degraded", health.Status)
		require.Equal(t, "ok", health.Checks.Database)
		require.Contains(t, health.Checks.Signer, "signing key not loaded")
	})
}
