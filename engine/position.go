package engine

import "time"

// Side is the direction of a leveraged bet.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// Status is the lifecycle state of a position. Open transitions exactly
// once, to closed or liquidated; both are terminal.
type Status string

const (
	StatusOpen       Status = "open"
	StatusClosed     Status = "closed"
	StatusLiquidated Status = "liquidated"
)

// CloseReason records what drove a position out of the open state.
type CloseReason string

const (
	ReasonManual     CloseReason = "ManualClose"
	ReasonTakeProfit CloseReason = "TakeProfit"
	ReasonStopLoss   CloseReason = "StopLoss"
	ReasonLiquidated CloseReason = "Liquidation"
)

// Position is a leveraged bet on one instrument. Margin, leverage, side
// and entry price are fixed at open; only the engine mutates status and
// the close fields. Closed positions are kept for the audit trail, never
// deleted.
type Position struct {
	ID         string   `json:"id"`
	AccountID  string   `json:"account_id"`
	Instrument string   `json:"instrument"`
	Side       Side     `json:"side"`
	Margin     float64  `json:"margin"`
	Leverage   int      `json:"leverage"`
	EntryPrice float64  `json:"entry_price"`
	TakeProfit *float64 `json:"take_profit"`
	StopLoss   *float64 `json:"stop_loss"`
	Status     Status   `json:"status"`

	OpenTime time.Time `json:"open_time"`

	// Set only on close or liquidation.
	ClosePrice  float64     `json:"close_price,omitempty"`
	CloseTime   time.Time   `json:"close_time,omitempty"`
	RealizedPnL float64     `json:"realized_pnl,omitempty"`
	CloseReason CloseReason `json:"close_reason,omitempty"`
}

// Notional is the exposure the position controls: margin scaled by
// leverage. Profit and loss move with this value, not raw margin.
func (p *Position) Notional() float64 {
	return p.Margin * float64(p.Leverage)
}

// View is a position annotated with live valuation for display. Field
// names follow the JSON contract the web client consumes.
type View struct {
	Position
	MarkPrice        float64 `json:"current_price"`
	Equity           float64 `json:"current_profit_loss"`
	ChangePct        float64 `json:"price_change_percentage"`
	LiquidationPrice float64 `json:"liquidation_price"`
}
