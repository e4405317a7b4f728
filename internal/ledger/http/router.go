package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/verdigris-systems/ledgerd/internal/ledger/metrics"
	"github.com/verdigris-systems/ledgerd/internal/ledger/replay"
	"github.com/verdigris-systems/ledgerd/internal/ledger/service"
	"github.com/verdigris-systems/ledgerd/internal/ledger/store"
	"github.com/verdigris-systems/ledgerd/pkg/httpx"
	"github.com/verdigris-systems/ledgerd/pkg/jwtx"
	"github.com/verdigris-systems/ledgerd/pkg/slogx"

	_ "github.com/verdigris-systems/ledgerd/api/ledger" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// AdminScope marks a caller as administrator; ReadScope grants access to
// the read endpoints.
const (
	AdminScope = "ledger:admin"
	ReadScope  = "ledger:read"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	Registration *service.RegistrationService
	Publisher    *service.ChainPublisher
	CrossSign    *service.CrossSignService
	Replay       *replay.Validator
	Signer       *ResponseSigner
	Metrics      *metrics.Metrics

	// PublishNewClients toggles hash-chain publication of registrations.
	PublishNewClients bool
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerClients()
	r.registerLedger()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Ledger Service API
//	@version		0.1.0
//	@description	Signed ledger service: admin-gated client registration with unique identifier
//	@description	issuance, optional publication onto a signed hash chain, and peer cross-signing.
//	@description
//	@description				All responses to registration are signed with the server's Ed25519 key; verify
//	@description				the body against the X-Ledger-Signature and X-Ledger-Key headers or the key
//	@description				served at /v1/server-key.
//
//	@contact.name				Verdigris Systems
//	@contact.url				https://github.com/verdigris-systems/ledgerd
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerClients() {
	registerHandler := &RegisterHandler{
		Registration:      r.Registration,
		Publisher:         r.Publisher,
		CrossSign:         r.CrossSign,
		Replay:            r.Replay,
		Signer:            r.Signer,
		Metrics:           r.Metrics,
		PublishNewClients: r.PublishNewClients,
	}

	// POST /v1/clients - admin operation, strict rate limit. The authn
	// middleware only records the caller's attributes; the handler itself
	// enforces the 401/403 gate so the pipeline owns the status mapping.
	r.Mux.Handle("POST /v1/clients",
		httpx.Chain(registerHandler,
			httpx.AuthnMiddleware(r.verifier, AdminScope),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)

	// GET /v1/clients - read operation (requires read scope)
	listHandler := &ClientsHandler{Registration: r.Registration}
	r.Mux.Handle("GET /v1/clients",
		httpx.Chain(http.HandlerFunc(listHandler.HandleList),
			httpx.AuthnMiddleware(r.verifier, AdminScope),
			httpx.RequireAnyScope(ReadScope, AdminScope),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerLedger() {
	ledgerHandler := &LedgerHandler{Publisher: r.Publisher}

	// Public read endpoints - high limit
	r.Mux.Handle("GET /v1/ledger",
		httpx.Chain(http.HandlerFunc(ledgerHandler.HandleList),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /v1/ledger/tip",
		httpx.Chain(http.HandlerFunc(ledgerHandler.HandleTip),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// POST /v1/cross-sign - peer operation, strict rate limit by IP
	crossSignHandler := &CrossSignHandler{CrossSign: r.CrossSign}
	r.Mux.Handle("POST /v1/cross-sign",
		httpx.Chain(crossSignHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /v1/server-key - public key discovery
	r.Mux.Handle("GET /v1/server-key",
		httpx.Chain(ServerKeyHandler(r.Signer),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Signer.Key))
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
