// engine/risk.go
package engine

// Pure valuation of a position against a mark price. Nothing here
// mutates state; the engine decides what to do with the answers.

// ChangeRatio is the signed relative price move since entry: positive in
// the profitable direction for the position's side. Entry prices of zero
// are rejected at open, so the division is safe here.
func ChangeRatio(p *Position, mark float64) float64 {
	delta := mark - p.EntryPrice
	if p.Side == Short {
		delta = -delta
	}
	return delta / p.EntryPrice
}

// Equity is the position's total worth at the mark price: the committed
// margin plus the leveraged gain or loss. At mark == entry it equals the
// margin exactly; it reaches zero at the liquidation price and goes
// negative beyond it.
func Equity(p *Position, mark float64) float64 {
	return p.Margin + p.Notional()*ChangeRatio(p, mark)
}

// LiquidationPrice is the mark at which equity collapses to zero, i.e.
// where the price has moved -1/leverage against the position.
func LiquidationPrice(p *Position) float64 {
	lev := float64(p.Leverage)
	if p.Side == Long {
		return p.EntryPrice * (1 - 1/lev)
	}
	return p.EntryPrice * (1 + 1/lev)
}

// CheckTrigger decides whether the mark price forces the position closed
// and why. Priority is fixed so gapped prices resolve deterministically:
// liquidation beats take-profit beats stop-loss.
func CheckTrigger(p *Position, mark float64) (CloseReason, bool) {
	if Equity(p, mark) <= 0 {
		return ReasonLiquidated, true
	}
	if hitTakeProfit(p, mark) {
		return ReasonTakeProfit, true
	}
	if hitStopLoss(p, mark) {
		return ReasonStopLoss, true
	}
	return "", false
}

func hitTakeProfit(p *Position, mark float64) bool {
	if p.TakeProfit == nil {
		return false
	}
	if p.Side == Long {
		return mark >= *p.TakeProfit
	}
	return mark <= *p.TakeProfit
}

func hitStopLoss(p *Position, mark float64) bool {
	if p.StopLoss == nil {
		return false
	}
	if p.Side == Long {
		return mark <= *p.StopLoss
	}
	return mark >= *p.StopLoss
}

// validTakeProfit reports whether tp lies strictly beyond entry in the
// profitable direction for the side.
func validTakeProfit(side Side, entry, tp float64) bool {
	if side == Long {
		return tp > entry
	}
	return tp < entry
}

// validStopLoss reports whether sl lies strictly beyond entry in the loss
// direction for the side.
func validStopLoss(side Side, entry, sl float64) bool {
	if side == Long {
		return sl < entry
	}
	return sl > entry
}
