package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Register mounts every POS endpoint on r.
func (a *API) Register(r chi.Router) {
	r.Post("/auth/login", a.login)

	r.Group(func(r chi.Router) {
		r.Use(a.Authenticate)
		r.Post("/auth/logout", a.logout)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(auth.RoleCashier))
			r.Get("/me", a.me)
			r.Post("/auth/password", a.changePassword)

			r.Get("/products", a.listProducts)
			r.Get("/products/{id}", a.getProduct)

			r.Post("/checkout", a.checkout)
			r.Post("/checkout/quote", a.quote)

			r.Get("/transactions", a.listTransactions)
			r.Get("/transactions/{id}", a.getTransaction)
			r.Get("/transactions/{id}/receipt", a.receipt)
			r.Get("/transactions/{id}/receipt.pdf", a.receiptPDF)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(auth.RoleAdmin))
			r.Get("/inventory/low-stock", a.lowStock)
			r.Post("/products", a.createProduct)
			r.Put("/products/{id}", a.updateProduct)
			r.Delete("/products/{id}", a.deleteProduct)
			r.Post("/products/{id}/remove-stock", a.removeStock)

			r.Delete("/transactions/{id}", a.deleteTransaction)

			r.Get("/analytics/summary", a.salesSummary)
			r.Get("/analytics/top-products", a.topProducts)
			r.Get("/analytics/daily", a.dailySeries)
			r.Get("/analytics/hourly", a.hourlySeries)
			r.Get("/analytics/categories", a.categoryPerformance)
			r.Get("/analytics/dashboard", a.dashboard)
			r.Get("/analytics/chart/{kind}", a.chart)
			r.Get("/reports/export", a.export)

			r.Get("/users", a.listUsers)
			r.Post("/users", a.addUser)
			r.Put("/users/{id}", a.editUser)
			r.Post("/users/{id}/toggle", a.toggleUser)
		})
	})
}

type errorBody struct {
	Error   string       `json:"error"`
	Details *stockDetail `json:"details,omitempty"`
}

type stockDetail struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps an error kind to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrInsufficientPayment):
		return http.StatusPaymentRequired
	case errors.Is(err, apperr.ErrInsufficientStock),
		errors.Is(err, apperr.ErrDuplicateName),
		errors.Is(err, apperr.ErrProductInUse),
		errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: apperr.Message(err)}
	var se *apperr.StockError
	if errors.As(err, &se) {
		body.Details = &stockDetail{ProductID: se.ProductID, Name: se.Name, Required: se.Required, Available: se.Available}
	}
	writeJSON(w, statusOf(err), body)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("Data yang dimasukkan tidak valid")
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("id tidak valid")
	}
	return id, nil
}

// intQuery reads a positive integer query parameter, falling back to def.
func intQuery(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, apperr.Validation("%s tidak valid", key)
	}
	return n, nil
}
