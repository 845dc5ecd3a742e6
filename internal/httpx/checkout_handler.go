package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/checkout"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	"github.com/ariefcatur/go-kasir-pos.git/internal/receipt"
	"github.com/ariefcatur/go-kasir-pos.git/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	idemPending       = "pending"
)

type checkoutReq struct {
	Cart    []checkout.Line `json:"cart"`
	Payment decimal.Decimal `json:"payment"`
}

type checkoutResp struct {
	Transaction ledger.Transaction `json:"transaction"`
	Receipt     receipt.View       `json:"receipt"`
	Idempotent  bool               `json:"idempotent"`
}

func (a *API) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.checkoutTimeout())
	defer cancel()
	cashier := IdentityFrom(r.Context())

	// Idempotency via Redis (opsional, DB tetap jadi kebenaran), per kasir
	idemKey := ""
	if k := strings.TrimSpace(r.Header.Get(IdempotencyHeader)); k != "" && a.Redis != nil {
		idemKey = fmt.Sprintf(redisx.KeyIdemCheckout, cashier.UserID, k)
		t, replay, err := a.replay(ctx, idemKey)
		if err != nil {
			writeError(w, err)
			return
		}
		if replay {
			writeJSON(w, http.StatusOK, checkoutResp{Transaction: t, Receipt: receipt.Build(t, a.loc()), Idempotent: true})
			return
		}
	}

	t, err := a.Checkout.Checkout(ctx, req.Cart, req.Payment, cashier)
	if idemKey != "" {
		a.settle(r.Context(), idemKey, t.ID, err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkoutResp{Transaction: t, Receipt: receipt.Build(t, a.loc())})
}

// settle records the committed id under key, or releases key when the checkout
// failed. It runs on its own deadline since ctx of the checkout may be spent.
func (a *API) settle(parent context.Context, key, id string, checkoutErr error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), time.Second)
	defer cancel()
	if checkoutErr != nil {
		if err := a.Redis.Del(ctx, key).Err(); err != nil {
			log.Printf("checkout: release idempotency key %s: %v", key, err)
		}
		return
	}
	if err := a.Redis.Set(ctx, key, id, redisx.TTLIdempotency).Err(); err != nil {
		log.Printf("checkout: store idempotency key %s: %v", key, err)
	}
}

// replay claims key for a new checkout, or returns the transaction an earlier
// request with the same key already committed.
func (a *API) replay(ctx context.Context, key string) (ledger.Transaction, bool, error) {
	claimed, err := redisx.Claim(ctx, a.Redis, key, idemPending, redisx.TTLIdempotency)
	if err != nil {
		return ledger.Transaction{}, false, apperr.System("idempotency claim", err)
	}
	if claimed {
		return ledger.Transaction{}, false, nil
	}
	id, err := a.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return a.replay(ctx, key)
	}
	if err != nil {
		return ledger.Transaction{}, false, apperr.System("idempotency lookup", err)
	}
	if id == idemPending {
		return ledger.Transaction{}, false, apperr.New(apperr.ErrConflict, "Transaksi dengan kunci yang sama sedang diproses")
	}
	t, err := a.Ledger.Get(ctx, id)
	if err != nil {
		return ledger.Transaction{}, false, err
	}
	return t, true, nil
}

// quote previews cart totals at the submitted prices without touching stock.
func (a *API) quote(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.Pricing.Quote(req.Cart))
}

func (a *API) listTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", ledger.RecentLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	ts, err := a.Ledger.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (a *API) getTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := a.Ledger.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := a.Ledger.Delete(r.Context(), IdentityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "Transaksi berhasil dihapus"})
}

func (a *API) receipt(w http.ResponseWriter, r *http.Request) {
	t, err := a.Ledger.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt.Build(t, a.loc()))
}

func (a *API) receiptPDF(w http.ResponseWriter, r *http.Request) {
	t, err := a.Ledger.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := receipt.RenderPDF(&buf, receipt.Build(t, a.loc())); err != nil {
		log.Printf("receipt %s: %v", t.ID, err)
		writeError(w, apperr.System("render receipt", err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", receipt.FileName(t.ID)))
	_, _ = w.Write(buf.Bytes())
}
