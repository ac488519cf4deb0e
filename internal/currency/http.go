package currency

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPSource fetches historical rates from a Frankfurter-compatible API:
//
//	GET {base}/{YYYY-MM-DD}?from=USD&to=EUR
//	{"amount":1.0,"base":"USD","date":"2024-03-01","rates":{"EUR":0.92}}
type HTTPSource struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPSource creates an HTTPSource. Outbound requests are limited to
// perSecond with the given burst.
func NewHTTPSource(baseURL string, timeout time.Duration, perSecond float64, burst int) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Rate implements Source.
func (s *HTTPSource) Rate(ctx context.Context, from, to string, day time.Time) (float64, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: rate limiter: %w", ErrUnavailable, err)
	}

	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	endpoint := fmt.Sprintf("%s/%s?%s", s.baseURL, day.Format(time.DateOnly), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: rate service returned %s", ErrUnavailable, resp.Status)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: failed to decode rates: %w", ErrUnavailable, err)
	}

	r, ok := body.Rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: no %s rate in response for %s", ErrUnavailable, to, from)
	}
	return r, nil
}
