package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/vikasavnish/flowguide/internal/currency"
)

// RateFetcher looks up an exchange rate; ok is false when none is available.
type RateFetcher interface {
	FetchRate(ctx context.Context, from, to string) (decimal.Decimal, bool)
}

type CurrencyHandler struct {
	rates RateFetcher
}

func NewCurrencyHandler(rates RateFetcher) *CurrencyHandler {
	return &CurrencyHandler{rates: rates}
}

func (h *CurrencyHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/currency/rate", h.GetRate).Methods("GET")
}

// GetRate converts ?amount= (default 1) from ?from= to ?to=. When no rate
// is available the amount comes back unconverted with a null rate.
func (h *CurrencyHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" {
		from = currency.DefaultFrom
	}
	if to == "" {
		to = currency.DefaultTo
	}

	amount := decimal.NewFromInt(1)
	if raw := q.Get("amount"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "Invalid amount")
			return
		}
		amount = parsed
	}

	rate, ok := h.rates.FetchRate(r.Context(), from, to)
	converted := currency.Convert(amount, rate, ok)
	display := to
	if !ok || rate.IsZero() {
		display = from
	}

	resp := map[string]any{
		"from":      from,
		"to":        to,
		"rate":      nil,
		"amount":    amount,
		"converted": converted,
		"formatted": currency.Format(converted, display),
	}
	if ok {
		resp["rate"] = rate
	}
	respondJSON(w, http.StatusOK, resp)
}
