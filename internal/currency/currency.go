package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DefaultFrom = "USD"
	DefaultTo   = "INR"
)

// Client fetches exchange rates from an exchangerate.host style API and
// keeps them for the cache TTL.
type Client struct {
	baseURL    string
	ttl        time.Duration
	httpClient *http.Client
	now        func() time.Time

	mu    sync.Mutex
	cache map[string]cachedRate
}

type cachedRate struct {
	rate    decimal.Decimal
	expires time.Time
}

func NewClient(baseURL string, ttl time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		ttl:        ttl,
		httpClient: httpClient,
		now:        time.Now,
		cache:      make(map[string]cachedRate),
	}
}

// FetchRate returns the from->to rate. ok is false on any failure: bad
// response, missing rate or transport error.
func (c *Client) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	from, to = normalize(from, DefaultFrom), normalize(to, DefaultTo)
	key := from + "/" + to

	c.mu.Lock()
	if cached, hit := c.cache[key]; hit && c.now().Before(cached.expires) {
		c.mu.Unlock()
		return cached.rate, true
	}
	c.mu.Unlock()

	rate, err := c.fetch(ctx, from, to)
	if err != nil {
		zap.L().Warn("Exchange rate unavailable", zap.String("pair", key), zap.Error(err))
		return decimal.Zero, false
	}

	c.mu.Lock()
	c.cache[key] = cachedRate{rate: rate, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return rate, true
}

func (c *Client) fetch(ctx context.Context, from, to string) (decimal.Decimal, error) {
	u, err := url.Parse(c.baseURL + "/latest")
	if err != nil {
		return decimal.Zero, err
	}
	q := u.Query()
	q.Set("base", from)
	q.Set("symbols", to)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rates API returned %s", resp.Status)
	}

	var payload struct {
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("decode: %w", err)
	}
	rate, ok := payload.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s rate in response", to)
	}
	return rate, nil
}

// Convert applies rate to amount. A missing or zero rate leaves the amount
// unchanged.
func Convert(amount decimal.Decimal, rate decimal.Decimal, ok bool) decimal.Decimal {
	if !ok || rate.IsZero() {
		return amount
	}
	return amount.Mul(rate)
}

// Format renders amount with the currency symbol, two decimals at most.
// Unknown codes fall back to a dollar sign, or the rupee sign for INR.
func Format(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(normalize(code, DefaultFrom))
	if err != nil {
		symbol := "$"
		if strings.EqualFold(code, "INR") {
			symbol = "₹"
		}
		return symbol + amount.StringFixed(2)
	}
	value, _ := amount.Round(2).Float64()
	p := message.NewPrinter(language.English)
	return p.Sprint(currency.Symbol(unit.Amount(value)))
}

func normalize(code, fallback string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fallback
	}
	return code
}
