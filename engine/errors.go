package engine

import "errors"

var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrInvalidMargin     = errors.New("margin must be positive")
	ErrInvalidLeverage   = errors.New("leverage out of range")
	ErrInvalidTakeProfit = errors.New("take profit must be beyond entry in the profitable direction")
	ErrInvalidStopLoss   = errors.New("stop loss must be beyond entry in the loss direction")

	ErrPositionNotFound      = errors.New("position not found")
	ErrPositionAlreadyClosed = errors.New("position already closed")
)
