// Package oracle provides the mark price source for the risk engine.
package oracle

import (
	"errors"
	"time"
)

// ErrPriceUnavailable is returned when no mark price is known for an
// instrument.
var ErrPriceUnavailable = errors.New("price unavailable")

// ErrInvalidPrice rejects non-positive prices before they reach the store.
var ErrInvalidPrice = errors.New("price must be positive")

// Quote is the latest known mark price for an instrument.
type Quote struct {
	Instrument string
	Price      float64
	Time       time.Time
}

// Oracle supplies current mark prices. Reads must be cheap and side-effect
// free; callers poll on every tick.
type Oracle interface {
	Price(instrument string) (Quote, error)
}
