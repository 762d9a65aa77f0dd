package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/neonchange/riskengine/account"
	"github.com/neonchange/riskengine/journal"
	"github.com/neonchange/riskengine/market"
	"github.com/neonchange/riskengine/metrics"
	"github.com/neonchange/riskengine/oracle"
	"github.com/neonchange/riskengine/pkg/id"
)

// ClosedListener is notified when the engine closes a position on its
// own: take-profit, stop-loss or liquidation. Manual closes report back
// through the Close return value instead.
type ClosedListener interface {
	OnPositionClosed(positionID string, reason CloseReason)
}

// Engine owns the position ledger and is the only writer of position
// state and the resulting balance changes. One mutex serializes every
// transition, so a position leaves the open state at most once and no
// observer sees a balance updated without its position, or the reverse.
type Engine struct {
	mu       sync.Mutex
	oracle   oracle.Oracle
	accounts account.Store
	journal  journal.Journal
	log      zerolog.Logger

	positions map[string]*Position
	listener  ClosedListener
}

func New(o oracle.Oracle, accts account.Store, j journal.Journal, log zerolog.Logger) *Engine {
	return &Engine{
		oracle:    o,
		accounts:  accts,
		journal:   j,
		log:       log,
		positions: make(map[string]*Position),
	}
}

// SetClosedListener sets an optional listener for auto-closed positions.
// It is called after the engine lock is released to avoid deadlocks.
func (e *Engine) SetClosedListener(l ClosedListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// OpenRequest carries everything needed to open a position. TakeProfit
// and StopLoss are optional.
type OpenRequest struct {
	AccountID  string
	Instrument string
	Side       Side
	Margin     float64
	Leverage   int
	TakeProfit *float64
	StopLoss   *float64
}

// Open validates the request, debits the margin and creates an open
// position at the oracle's current mark price. Nothing mutates on any
// validation failure.
func (e *Engine) Open(ctx context.Context, req OpenRequest) (*Position, error) {
	_ = ctx // reserved for future cancellation checks

	meta, ok := market.Lookup(req.Instrument)
	if !ok {
		metrics.OpensRejected.WithLabelValues("instrument").Inc()
		return nil, fmt.Errorf("open position: %q: %w", req.Instrument, ErrUnknownInstrument)
	}
	if req.Side != Long && req.Side != Short {
		metrics.OpensRejected.WithLabelValues("side").Inc()
		return nil, fmt.Errorf("open position: invalid side %q", req.Side)
	}
	if req.Margin <= 0 {
		metrics.OpensRejected.WithLabelValues("margin").Inc()
		return nil, fmt.Errorf("open position: %w", ErrInvalidMargin)
	}
	if req.Leverage < 1 || req.Leverage > meta.MaxLeverage {
		metrics.OpensRejected.WithLabelValues("leverage").Inc()
		return nil, fmt.Errorf("open position: leverage %d not in [1, %d]: %w",
			req.Leverage, meta.MaxLeverage, ErrInvalidLeverage)
	}

	quote, err := e.oracle.Price(req.Instrument)
	if err != nil {
		metrics.OpensRejected.WithLabelValues("price").Inc()
		return nil, fmt.Errorf("open position: %w", err)
	}
	if quote.Price <= 0 {
		// The oracle contract forbids this; treat it as unavailable
		// rather than letting a zero entry price into the evaluator.
		metrics.OpensRejected.WithLabelValues("price").Inc()
		return nil, fmt.Errorf("open position: non-positive mark for %q: %w",
			req.Instrument, oracle.ErrPriceUnavailable)
	}

	if req.TakeProfit != nil && !validTakeProfit(req.Side, quote.Price, *req.TakeProfit) {
		metrics.OpensRejected.WithLabelValues("tp_sl").Inc()
		return nil, fmt.Errorf("open position: tp %.4f vs entry %.4f: %w",
			*req.TakeProfit, quote.Price, ErrInvalidTakeProfit)
	}
	if req.StopLoss != nil && !validStopLoss(req.Side, quote.Price, *req.StopLoss) {
		metrics.OpensRejected.WithLabelValues("tp_sl").Inc()
		return nil, fmt.Errorf("open position: sl %.4f vs entry %.4f: %w",
			*req.StopLoss, quote.Price, ErrInvalidStopLoss)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Debit is the commit point: it checks and subtracts atomically, so
	// a failure here leaves the account untouched.
	if err := e.accounts.Debit(req.AccountID, req.Margin); err != nil {
		metrics.OpensRejected.WithLabelValues("balance").Inc()
		return nil, fmt.Errorf("open position: %w", err)
	}

	now := quote.Time
	if now.IsZero() {
		now = time.Now()
	}

	p := &Position{
		ID:         id.New(),
		AccountID:  req.AccountID,
		Instrument: req.Instrument,
		Side:       req.Side,
		Margin:     req.Margin,
		Leverage:   req.Leverage,
		EntryPrice: quote.Price,
		TakeProfit: req.TakeProfit,
		StopLoss:   req.StopLoss,
		Status:     StatusOpen,
		OpenTime:   now,
	}
	e.positions[p.ID] = p

	if err := e.recordBalanceLocked(req.AccountID, now); err != nil {
		return nil, err
	}

	metrics.PositionsOpened.WithLabelValues(p.Instrument, string(p.Side)).Inc()
	e.log.Info().
		Str("position_id", p.ID).
		Str("account_id", p.AccountID).
		Str("instrument", p.Instrument).
		Str("side", string(p.Side)).
		Float64("margin", p.Margin).
		Int("leverage", p.Leverage).
		Float64("entry_price", p.EntryPrice).
		Msg("position opened")

	snapshot := *p
	return &snapshot, nil
}

// Close closes an open position at the oracle's current mark price,
// crediting the resulting equity back to the account. Equity at or below
// zero marks the position liquidated and credits nothing: a single
// position can never drive the account negative.
func (e *Engine) Close(ctx context.Context, positionID string) (*Position, error) {
	_ = ctx // reserved for future cancellation checks

	e.mu.Lock()

	p, ok := e.positions[positionID]
	if !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("close position: %q: %w", positionID, ErrPositionNotFound)
	}
	if p.Status != StatusOpen {
		e.mu.Unlock()
		return nil, fmt.Errorf("close position: %q: %w", positionID, ErrPositionAlreadyClosed)
	}

	quote, err := e.oracle.Price(p.Instrument)
	if err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("close position: %q: %w", positionID, err)
	}

	closeTime := quote.Time
	if closeTime.IsZero() {
		closeTime = time.Now()
	}

	if err := e.closeLocked(p, quote.Price, closeTime, ReasonManual); err != nil {
		e.mu.Unlock()
		return nil, err
	}

	snapshot := *p
	e.mu.Unlock()
	return &snapshot, nil
}

// EvaluateTick runs the trigger logic for every open position against
// the given mark prices and auto-closes those whose liquidation,
// take-profit or stop-loss condition holds. The marks map is the single
// consistent view of prices for the whole pass. Positions already in a
// terminal state are skipped, so re-delivering a tick is a no-op.
func (e *Engine) EvaluateTick(at time.Time, marks map[string]float64) error {
	start := time.Now()
	defer func() { metrics.TickEvaluation.Observe(time.Since(start).Seconds()) }()

	if at.IsZero() {
		at = start
	}

	type closedEvent struct {
		id     string
		reason CloseReason
	}
	var closed []closedEvent

	e.mu.Lock()
	for _, p := range e.positions {
		if p.Status != StatusOpen {
			continue
		}
		mark, ok := marks[p.Instrument]
		if !ok || mark <= 0 {
			continue
		}

		reason, hit := CheckTrigger(p, mark)
		if !hit {
			continue
		}

		if err := e.closeLocked(p, mark, at, reason); err != nil {
			e.mu.Unlock()
			return err
		}
		// closeLocked may upgrade the reason to liquidation.
		closed = append(closed, closedEvent{p.ID, p.CloseReason})
	}
	listener := e.listener
	e.mu.Unlock()

	if listener != nil {
		for _, c := range closed {
			listener.OnPositionClosed(c.id, c.reason)
		}
	}
	return nil
}

// Get returns a copy of the position, open or terminal.
func (e *Engine) Get(positionID string) (*Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, ok := e.positions[positionID]
	if !ok {
		return nil, fmt.Errorf("get position: %q: %w", positionID, ErrPositionNotFound)
	}
	snapshot := *p
	return &snapshot, nil
}

// List returns the account's open positions annotated with the current
// mark price, live equity and the leveraged price-change percentage,
// ordered by open time. When no mark is available the entry price stands
// in, which values the position at exactly its margin.
func (e *Engine) List(accountID string) []View {
	e.mu.Lock()
	defer e.mu.Unlock()

	var views []View
	for _, p := range e.positions {
		if p.Status != StatusOpen || p.AccountID != accountID {
			continue
		}

		mark := p.EntryPrice
		if q, err := e.oracle.Price(p.Instrument); err == nil && q.Price > 0 {
			mark = q.Price
		}

		views = append(views, View{
			Position:         *p,
			MarkPrice:        mark,
			Equity:           Equity(p, mark),
			ChangePct:        ChangeRatio(p, mark) * float64(p.Leverage) * 100,
			LiquidationPrice: LiquidationPrice(p),
		})
	}

	// ULIDs sort by creation time.
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

// closeLocked performs the terminal transition. The account credit and
// the position mutation happen under the engine lock, so no caller can
// observe one without the other. Equity at or below zero turns any close
// into a liquidation with a clamped credit of zero.
func (e *Engine) closeLocked(p *Position, mark float64, at time.Time, reason CloseReason) error {
	equity := Equity(p, mark)

	status := StatusClosed
	credited := equity
	if equity <= 0 {
		status = StatusLiquidated
		reason = ReasonLiquidated
		credited = 0
	}

	if err := e.accounts.Credit(p.AccountID, credited); err != nil {
		return fmt.Errorf("close position: credit %q: %w", p.AccountID, err)
	}

	p.Status = status
	p.ClosePrice = mark
	p.CloseTime = at
	p.RealizedPnL = equity
	p.CloseReason = reason

	metrics.PositionsClosed.WithLabelValues(string(reason)).Inc()
	e.log.Info().
		Str("position_id", p.ID).
		Str("account_id", p.AccountID).
		Str("instrument", p.Instrument).
		Str("reason", string(reason)).
		Float64("close_price", mark).
		Float64("realized_pnl", equity).
		Float64("credited", credited).
		Msg("position closed")

	if err := e.journal.RecordPosition(journal.PositionRecord{
		PositionID:  p.ID,
		AccountID:   p.AccountID,
		Instrument:  p.Instrument,
		Side:        string(p.Side),
		Margin:      p.Margin,
		Leverage:    p.Leverage,
		EntryPrice:  p.EntryPrice,
		ClosePrice:  mark,
		OpenTime:    p.OpenTime,
		CloseTime:   at,
		RealizedPnL: equity,
		Credited:    credited,
		Reason:      string(reason),
	}); err != nil {
		return err
	}

	return e.recordBalanceLocked(p.AccountID, at)
}

func (e *Engine) recordBalanceLocked(accountID string, at time.Time) error {
	bal, err := e.accounts.Balance(accountID)
	if err != nil {
		return err
	}
	return e.journal.RecordBalance(journal.BalanceSnapshot{
		Time:      at,
		AccountID: accountID,
		Balance:   bal,
	})
}
