// Package currency normalizes amounts between currencies using historical
// exchange rates.
package currency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	xcurrency "golang.org/x/text/currency"
)

// ErrUnavailable is wrapped by every conversion failure.
var ErrUnavailable = errors.New("exchange rate unavailable")

// Source provides the exchange rate from one currency to another on a
// calendar day: 1 unit of from = rate units of to.
type Source interface {
	Rate(ctx context.Context, from, to string, day time.Time) (float64, error)
}

// Observer is notified about cache lookups and failed conversions.
// Implementations must be safe for concurrent use.
type Observer interface {
	RateLookup(cached bool)
	ConversionFailed(from, to string)
}

// Converter converts amounts using a rate Source, caching rates per day.
type Converter struct {
	source   Source
	rates    *cache.Cache
	observer Observer
}

// Option configures a Converter.
type Option func(*Converter)

// WithObserver reports cache hits and failures to o.
func WithObserver(o Observer) Option {
	return func(c *Converter) { c.observer = o }
}

// NewConverter creates a Converter over source. Rates are cached for ttl.
func NewConverter(source Source, ttl time.Duration, opts ...Option) *Converter {
	c := &Converter{
		source: source,
		rates:  cache.New(ttl, 2*ttl),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converts amount from one currency into another using the rate of
// the calendar day (UTC) of at.
func (c *Converter) Convert(ctx context.Context, from, to string, amount float64, at time.Time) (float64, error) {
	fromCode, err := Normalize(from)
	if err != nil {
		c.failed(from, to)
		return 0, err
	}
	toCode, err := Normalize(to)
	if err != nil {
		c.failed(from, to)
		return 0, err
	}
	if fromCode == toCode {
		return amount, nil
	}

	rate, err := c.rate(ctx, fromCode, toCode, Day(at))
	if err != nil {
		c.failed(fromCode, toCode)
		return 0, err
	}
	return amount * rate, nil
}

func (c *Converter) rate(ctx context.Context, from, to string, day time.Time) (float64, error) {
	key := cacheKey(from, to, day)
	if cached, found := c.rates.Get(key); found {
		c.lookup(true)
		return cached.(float64), nil
	}
	c.lookup(false)

	rate, err := c.source.Rate(ctx, from, to, day)
	if err != nil {
		slog.Warn("Exchange rate lookup failed", "from", from, "to", to, "date", day.Format(time.DateOnly), "error", err)
		if errors.Is(err, ErrUnavailable) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %s to %s on %s: %w", ErrUnavailable, from, to, day.Format(time.DateOnly), err)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("%w: non-positive rate %v for %s to %s", ErrUnavailable, rate, from, to)
	}

	c.rates.Set(key, rate, cache.DefaultExpiration)
	return rate, nil
}

func (c *Converter) lookup(cached bool) {
	if c.observer != nil {
		c.observer.RateLookup(cached)
	}
}

func (c *Converter) failed(from, to string) {
	if c.observer != nil {
		c.observer.ConversionFailed(from, to)
	}
}

// Normalize validates an ISO-4217 code and returns it in canonical
// upper-case form.
func Normalize(code string) (string, error) {
	unit, err := xcurrency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", fmt.Errorf("%w: unknown currency %q", ErrUnavailable, code)
	}
	return unit.String(), nil
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cacheKey(from, to string, day time.Time) string {
	return from + ":" + to + ":" + day.Format(time.DateOnly)
}
