package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"rediscoveru/internal/infra/logging"
	"rediscoveru/internal/usecase"
)

// RateLimiter bounds how often a caller may hit the purchase endpoint.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	purchaseUC usecase.PurchaseUseCase
	couponUC   usecase.CouponUseCase
	settingsUC usecase.SettingsUseCase
	userUC     usecase.UserUseCase

	verifier  *TokenVerifier
	limiter   RateLimiter
	rateLimit int
	rateWin   time.Duration
	keyFn     func(userID string) string

	apiKey string
	log    *zerolog.Logger
}

func NewServer(
	purchaseUC usecase.PurchaseUseCase,
	couponUC usecase.CouponUseCase,
	settingsUC usecase.SettingsUseCase,
	userUC usecase.UserUseCase,
	verifier *TokenVerifier,
	limiter RateLimiter,
	rateLimit int,
	rateWindow time.Duration,
	keyFn func(userID string) string,
	apiKey string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		purchaseUC: purchaseUC,
		couponUC:   couponUC,
		settingsUC: settingsUC,
		userUC:     userUC,
		verifier:   verifier,
		limiter:    limiter,
		rateLimit:  rateLimit,
		rateWin:    rateWindow,
		keyFn:      keyFn,
		apiKey:     apiKey,
		log:        logger,
	}
}

// Router assembles the full HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(traceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Member-facing purchase surface. Authenticated by the auth service's JWT.
	r.Route("/api/payment", func(r chi.Router) {
		r.Use(s.jwtMiddleware)
		r.With(s.rateLimitMiddleware).Post("/order", initiateHandler(s.purchaseUC, s.log))
		r.Get("/history", historyHandler(s.purchaseUC))
	})

	// Gateway callback. Unauthenticated route; the HMAC signature over the raw
	// body is the authentication.
	r.Post("/api/webhooks/razorpay", webhookHandler(s.purchaseUC, s.log))

	// Admin surface, behind the static API key.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.adminMiddleware)
		r.Get("/coupons", couponsListHandler(s.couponUC))
		r.Post("/coupons", couponsCreateHandler(s.couponUC))
		r.Patch("/coupons/{id}/toggle", couponsToggleHandler(s.couponUC))
		r.Get("/payments", paymentsListHandler(s.purchaseUC))
		r.Get("/users", usersListHandler(s.userUC))
		r.Patch("/settings/price", settingsPriceHandler(s.settingsUC))
	})

	return r
}

// traceMiddleware copies the chi request id into the log field context.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reqID := chimw.GetReqID(ctx); reqID != "" {
			ctx = logging.WithTraceID(ctx, reqID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// jwtMiddleware resolves the bearer token into a user id on the context.
func (s *Server) jwtMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.verifier.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := logging.WithUserID(withUserID(r.Context(), userID), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimitMiddleware applies the per-user fixed window. A Redis outage fails
// open so checkout keeps working.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		userID, _ := UserIDFromContext(r.Context())
		ok, err := s.limiter.Allow(r.Context(), s.keyFn(userID), s.rateLimit, s.rateWin)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable, failing open")
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminMiddleware provides simple Bearer token authentication for the admin API.
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("Admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
