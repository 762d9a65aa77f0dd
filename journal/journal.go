// journal/journal.go
package journal

import "time"

// PositionRecord is the audit entry appended when a position leaves the
// open state.
type PositionRecord struct {
	PositionID  string
	AccountID   string
	Instrument  string
	Side        string
	Margin      float64
	Leverage    int
	EntryPrice  float64
	ClosePrice  float64
	OpenTime    time.Time
	CloseTime   time.Time
	RealizedPnL float64
	Credited    float64
	Reason      string
}

// BalanceSnapshot is appended after every balance-changing transition.
type BalanceSnapshot struct {
	Time      time.Time
	AccountID string
	Balance   float64
}

type Journal interface {
	RecordPosition(PositionRecord) error
	RecordBalance(BalanceSnapshot) error
	Close() error
}

// Discard is a Journal that drops everything. Useful when a caller wants
// engine semantics without an audit trail.
type Discard struct{}

func (Discard) RecordPosition(PositionRecord) error { return nil }
func (Discard) RecordBalance(BalanceSnapshot) error { return nil }
func (Discard) Close() error                        { return nil }
