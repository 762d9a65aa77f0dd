package oracle

import (
	"sync"
	"time"
)

// Store is an in-memory Oracle fed by a price stream. It also supports
// timed operator overrides: a pinned price wins over feed updates until
// its expiry, after which the latest feed price shows through again.
type Store struct {
	mu        sync.RWMutex
	quotes    map[string]Quote
	overrides map[string]override
}

type override struct {
	quote   Quote
	expires time.Time
}

func NewStore() *Store {
	return &Store{
		quotes:    make(map[string]Quote),
		overrides: make(map[string]override),
	}
}

// Set records the latest feed price for an instrument.
func (s *Store) Set(instrument string, price float64, at time.Time) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	if at.IsZero() {
		at = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[instrument] = Quote{Instrument: instrument, Price: price, Time: at}
	return nil
}

// Override pins an instrument's price for the given duration. Feed updates
// keep accumulating underneath and take effect again once the override
// expires.
func (s *Store) Override(instrument string, price float64, d time.Duration) error {
	if price <= 0 {
		return ErrInvalidPrice
	}

	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[instrument] = override{
		quote:   Quote{Instrument: instrument, Price: price, Time: now},
		expires: now.Add(d),
	}
	return nil
}

// ClearOverride drops any pinned price for the instrument.
func (s *Store) ClearOverride(instrument string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, instrument)
}

// Price returns the effective mark price: an unexpired override if one is
// pinned, otherwise the latest feed price.
func (s *Store) Price(instrument string) (Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ov, ok := s.overrides[instrument]; ok && time.Now().Before(ov.expires) {
		return ov.quote, nil
	}

	q, ok := s.quotes[instrument]
	if !ok {
		return Quote{}, ErrPriceUnavailable
	}
	return q, nil
}
