package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/reelhub/internal/connector/service"
	"github.com/aussiebroadwan/reelhub/internal/connector/store"
	"github.com/aussiebroadwan/reelhub/pkg/cryptox"
	"github.com/aussiebroadwan/reelhub/pkg/httpx"
	"github.com/aussiebroadwan/reelhub/pkg/jwtx"
	"github.com/aussiebroadwan/reelhub/pkg/slogx"

	_ "github.com/aussiebroadwan/reelhub/api/connector" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	ScopeAccountsRead  = "accounts:read"
	ScopeAccountsWrite = "accounts:write"
	ScopeTokensRead    = "tokens:read"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store  store.Store
	cipher *cryptox.Cipher

	Lifecycle      *service.TokenLifecycleService
	ConnectService *service.ConnectService

	// LockBackend is pinged by /readyz. Nil when refreshes are only
	// serialized in-process.
	LockBackend Pinger

	// ConnectReturnURL is optional; see ConnectHandler.ReturnURL.
	ConnectReturnURL string
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	cipher *cryptox.Cipher,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cipher:       cipher,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerConnect()
	r.registerAccounts()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Reelhub Connector API
//	@version		0.1.0
//	@description	Connects operator owned TikTok and Instagram accounts and hands out valid platform access tokens.
//	@description
//	@description				Platform tokens are stored encrypted and refreshed on demand.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/reelhub
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
//	@description				Operator JWT (HS256). Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) secured(h http.HandlerFunc, scope string, limit httpx.Middleware) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(scope),
		limit,
	)
}

func (r *Router) registerConnect() {
	h := &ConnectHandler{
		ConnectService: r.ConnectService,
		ReturnURL:      r.ConnectReturnURL,
	}

	r.Mux.Handle("POST /v1/connect/{platform}",
		r.secured(h.HandleBegin, ScopeAccountsWrite, httpx.RateLimitByOperator(httpx.ModerateLimit)),
	)

	// Public: the platform redirects the account owner's browser here.
	r.Mux.Handle("GET /v1/oauth/{platform}/callback",
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{Lifecycle: r.Lifecycle}

	r.Mux.Handle("GET /v1/accounts",
		r.secured(h.HandleList, ScopeAccountsRead, httpx.RateLimitByOperator(httpx.LenientLimit)))
	r.Mux.Handle("GET /v1/accounts/{id}",
		r.secured(h.HandleGet, ScopeAccountsRead, httpx.RateLimitByOperator(httpx.LenientLimit)))
	r.Mux.Handle("DELETE /v1/accounts/{id}",
		r.secured(h.HandleDisconnect, ScopeAccountsWrite, httpx.RateLimitByOperator(httpx.ModerateLimit)))

	// Forced refreshes hit the platform every time; limit per account.
	r.Mux.Handle("POST /v1/accounts/{id}/refresh",
		r.secured(h.HandleRefresh, ScopeAccountsWrite, httpx.RateLimitByOperatorAndPath(httpx.StrictLimit, "id")))

	r.Mux.Handle("DELETE /v1/accounts/{id}/token",
		r.secured(h.HandleRevoke, ScopeAccountsWrite, httpx.RateLimitByOperator(httpx.ModerateLimit)))
	r.Mux.Handle("GET /v1/accounts/{id}/token",
		r.secured(h.HandleToken, ScopeTokensRead, httpx.RateLimitByOperator(httpx.LenientLimit)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.cipher, r.LockBackend),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
