package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"rediscoveru/internal/domain"
	"rediscoveru/internal/domain/model"
	"rediscoveru/internal/infra/logging"
	"rediscoveru/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// paymentResponse is the wire shape of a payment row. Amounts go out as
// fixed-point strings so clients never see float artifacts.
type paymentResponse struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	OriginalAmount     string    `json:"original_amount"`
	DiscountPercentage int       `json:"discount_percentage"`
	FinalAmount        string    `json:"final_amount"`
	OrderID            *string   `json:"order_id,omitempty"`
	PaymentID          *string   `json:"payment_id,omitempty"`
	CouponCode         *string   `json:"coupon_code,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

func toPaymentResponse(p *model.Payment) paymentResponse {
	return paymentResponse{
		ID:                 p.ID,
		UserID:             p.UserID,
		OriginalAmount:     p.OriginalAmount.StringFixed(2),
		DiscountPercentage: p.DiscountPercentage,
		FinalAmount:        p.FinalAmount.StringFixed(2),
		OrderID:            p.OrderID,
		PaymentID:          p.PaymentID,
		CouponCode:         p.CouponCode,
		Status:             string(p.Status),
		CreatedAt:          p.CreatedAt,
	}
}

func toPaymentResponses(ps []*model.Payment) []paymentResponse {
	out := make([]paymentResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPaymentResponse(p))
	}
	return out
}

type initiateRequest struct {
	CouponCode string `json:"coupon_code"`
}

type initiateResponse struct {
	FreeAccess         bool   `json:"free_access"`
	Message            string `json:"message,omitempty"`
	OriginalAmount     string `json:"original_amount"`
	DiscountPercentage int    `json:"discount_percentage"`
	DiscountAmount     string `json:"discount_amount"`
	FinalAmount        string `json:"final_amount"`
	OrderID            string `json:"order_id,omitempty"`
	Amount             int64  `json:"amount,omitempty"` // minor units
	Currency           string `json:"currency,omitempty"`
	KeyID              string `json:"key_id,omitempty"`
}

// initiateHandler starts a lifetime purchase for the authenticated user.
func initiateHandler(purchaseUC usecase.PurchaseUseCase, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := UserIDFromContext(ctx)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req initiateRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
		}

		res, err := purchaseUC.Initiate(ctx, userID, req.CouponCode)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUserNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			case errors.Is(err, domain.ErrUserNotEnabled):
				http.Error(w, err.Error(), http.StatusForbidden)
			case errors.Is(err, domain.ErrAlreadyPaid):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, domain.ErrCouponNotFound),
				errors.Is(err, domain.ErrCouponInactive),
				errors.Is(err, domain.ErrCouponExhausted):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domain.ErrGateway):
				logging.With(ctx, log).Error().Err(err).Msg("gateway order creation failed")
				http.Error(w, "Payment gateway unavailable", http.StatusBadGateway)
			default:
				logging.With(ctx, log).Error().Err(err).Msg("purchase initiation failed")
				http.Error(w, "Failed to initiate payment", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, initiateResponse{
			FreeAccess:         res.FreeAccess,
			Message:            res.Message,
			OriginalAmount:     res.OriginalAmount.StringFixed(2),
			DiscountPercentage: res.DiscountPercent,
			DiscountAmount:     res.DiscountAmount.StringFixed(2),
			FinalAmount:        res.FinalAmount.StringFixed(2),
			OrderID:            res.OrderID,
			Amount:             res.AmountMinor,
			Currency:           res.Currency,
			KeyID:              res.KeyID,
		})
	}
}

// signatureHeader carries the gateway's HMAC digest of the request body.
const signatureHeader = "X-Razorpay-Signature"

// webhookHandler applies a gateway callback. The body must reach the use case
// byte for byte, so it is read raw and never re-encoded.
func webhookHandler(purchaseUC usecase.PurchaseUseCase, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read body", http.StatusBadRequest)
			return
		}

		err = purchaseUC.HandleWebhook(r.Context(), body, r.Header.Get(signatureHeader))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidSignature):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domain.ErrInvalidArgument):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domain.ErrPaymentNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			default:
				logging.With(r.Context(), log).Error().Err(err).Msg("webhook processing failed")
				http.Error(w, "Failed to process webhook", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// historyHandler returns the authenticated user's payment rows, newest first.
func historyHandler(purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := UserIDFromContext(ctx)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		payments, err := purchaseUC.ListByUser(ctx, userID)
		if err != nil {
			http.Error(w, "Failed to list payments", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Data []paymentResponse `json:"data"`
		}{Data: toPaymentResponses(payments)})
	}
}

type couponResponse struct {
	ID                 int64     `json:"id"`
	Code               string    `json:"code"`
	DiscountPercentage int       `json:"discount_percentage"`
	MaxUsage           *int      `json:"max_usage,omitempty"`
	UsageCount         int       `json:"usage_count"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}

func toCouponResponse(c *model.Coupon) couponResponse {
	return couponResponse{
		ID:                 c.ID,
		Code:               c.Code,
		DiscountPercentage: c.DiscountPercentage,
		MaxUsage:           c.MaxUsage,
		UsageCount:         c.UsageCount,
		Active:             c.Active,
		CreatedAt:          c.CreatedAt,
	}
}

type couponCreateRequest struct {
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discount_percentage"`
	MaxUsage           *int   `json:"max_usage"`
}

func couponsCreateHandler(couponUC usecase.CouponUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req couponCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		c, err := couponUC.Create(ctx, req.Code, req.DiscountPercentage, req.MaxUsage)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidArgument):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domain.ErrAlreadyExists):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "Failed to create coupon", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toCouponResponse(c))
	}
}

func couponsListHandler(couponUC usecase.CouponUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coupons, err := couponUC.List(r.Context())
		if err != nil {
			http.Error(w, "Failed to list coupons", http.StatusInternalServerError)
			return
		}

		data := make([]couponResponse, 0, len(coupons))
		for _, c := range coupons {
			data = append(data, toCouponResponse(c))
		}
		writeJSON(w, http.StatusOK, struct {
			Data []couponResponse `json:"data"`
		}{Data: data})
	}
}

func couponsToggleHandler(couponUC usecase.CouponUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid coupon id", http.StatusBadRequest)
			return
		}

		c, err := couponUC.Toggle(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "Failed to toggle coupon", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toCouponResponse(c))
	}
}

func paymentsListHandler(purchaseUC usecase.PurchaseUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payments, err := purchaseUC.ListAll(r.Context())
		if err != nil {
			http.Error(w, "Failed to list payments", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Data []paymentResponse `json:"data"`
		}{Data: toPaymentResponses(payments)})
	}
}

type userResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Enabled            bool      `json:"enabled"`
	Role               string    `json:"role"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// usersListHandler returns a paginated list of users.
// It accepts 'offset' and 'limit' query parameters.
func usersListHandler(userUC usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50 // Default page size
		}
		if offset < 0 {
			offset = 0
		}

		users, err := userUC.List(ctx, offset, limit)
		if err != nil {
			http.Error(w, "Failed to list users", http.StatusInternalServerError)
			return
		}

		total, err := userUC.Count(ctx)
		if err != nil {
			http.Error(w, "Failed to count users", http.StatusInternalServerError)
			return
		}

		data := make([]userResponse, 0, len(users))
		for _, u := range users {
			data = append(data, userResponse{
				ID:                 u.ID,
				Email:              u.Email,
				Name:               u.Name,
				Enabled:            u.Enabled,
				Role:               string(u.Role),
				SubscriptionStatus: string(u.SubscriptionStatus),
				CreatedAt:          u.CreatedAt,
			})
		}

		writeJSON(w, http.StatusOK, struct {
			Data   []userResponse `json:"data"`
			Total  int            `json:"total"`
			Limit  int            `json:"limit"`
			Offset int            `json:"offset"`
		}{Data: data, Total: total, Limit: limit, Offset: offset})
	}
}

type priceUpdateRequest struct {
	LifetimePrice string `json:"lifetime_price"`
}

func settingsPriceHandler(settingsUC usecase.SettingsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req priceUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		price, err := decimal.NewFromString(req.LifetimePrice)
		if err != nil {
			http.Error(w, "Invalid price", http.StatusBadRequest)
			return
		}

		if err := settingsUC.UpdatePrice(ctx, price); err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				http.Error(w, "Price must not be negative", http.StatusBadRequest)
				return
			}
			http.Error(w, "Failed to update price", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"lifetime_price": price.Round(2).StringFixed(2)})
	}
}
