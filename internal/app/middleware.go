package app

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/firmbooks/firmbooks/internal/observability"
	"github.com/firmbooks/firmbooks/internal/platform/httpx"
	"github.com/firmbooks/firmbooks/internal/shared"
)

// Tenant resolution headers set by the auth gateway in front of the
// service. A request without a firm association is a client error.
const (
	HeaderFirmID = "X-Firm-ID"
	HeaderUserID = "X-User-ID"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
}

// TenantMiddleware resolves the firm and user identity from gateway
// headers and rejects requests without one. The ledger core trusts but
// validates this value on every call.
func TenantMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, err := strconv.ParseInt(r.Header.Get(HeaderFirmID), 10, 64)
			if err != nil || tenantID <= 0 {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", shared.ErrNoTenant.Error())
				return
			}
			userID, _ := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
			ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{TenantID: tenantID, UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MiddlewareStack installs the FirmBooks middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        cfg.Config != nil && cfg.Config.IsProduction(),
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}
	rate := 120
	if cfg.Config != nil && cfg.Config.RateLimit > 0 {
		rate = cfg.Config.RateLimit
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(rate, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, func(next http.Handler) http.Handler {
			return cfg.Metrics.Middleware(next)
		})
	}
	return middlewares
}
