// Package account holds trading balances and serializes their mutation.
package account

import (
	"errors"
	"sync"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Store is the balance backend the engine debits and credits against.
// Implementations must serialize mutation per account: Debit checks and
// subtracts atomically.
type Store interface {
	Balance(accountID string) (float64, error)
	Debit(accountID string, amount float64) error
	Credit(accountID string, amount float64) error
}

// MemoryStore is an in-process Store. A single mutex guards the balance
// map, which serializes all debits and credits.
type MemoryStore struct {
	mu       sync.Mutex
	balances map[string]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{balances: make(map[string]float64)}
}

// Create registers an account with a starting balance. Creating an
// existing account resets its balance.
func (s *MemoryStore) Create(accountID string, balance float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[accountID] = balance
}

func (s *MemoryStore) Balance(accountID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bal, ok := s.balances[accountID]
	if !ok {
		return 0, ErrAccountNotFound
	}
	return bal, nil
}

// Debit subtracts amount from the account, failing without mutation when
// the balance does not cover it.
func (s *MemoryStore) Debit(accountID string, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bal, ok := s.balances[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	if bal < amount {
		return ErrInsufficientBalance
	}
	s.balances[accountID] = bal - amount
	return nil
}

// Credit adds amount to the account. A zero amount is a no-op so that
// liquidations, which credit nothing back, still go through one path.
func (s *MemoryStore) Credit(accountID string, amount float64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bal, ok := s.balances[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	s.balances[accountID] = bal + amount
	return nil
}
