// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	positions *csv.Writer
	balances  *csv.Writer
	pf, bf    *os.File
}

func NewCSV(positionsPath, balancesPath string) (*CSVJournal, error) {
	pf, err := os.Create(positionsPath)
	if err != nil {
		return nil, err
	}
	bf, err := os.Create(balancesPath)
	if err != nil {
		pf.Close()
		return nil, err
	}

	pw := csv.NewWriter(pf)
	bw := csv.NewWriter(bf)

	if err := pw.Write([]string{"position_id", "account_id", "instrument", "side", "margin", "leverage", "entry_price", "close_price", "open_time", "close_time", "realized_pnl", "credited", "reason"}); err != nil {
		return nil, err
	}
	if err := bw.Write([]string{"time", "account_id", "balance"}); err != nil {
		return nil, err
	}

	pw.Flush()
	if err := pw.Error(); err != nil {
		return nil, err
	}
	bw.Flush()
	if err := bw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{pw, bw, pf, bf}, nil
}

func (j *CSVJournal) RecordPosition(r PositionRecord) error {
	err := j.positions.Write([]string{
		r.PositionID,
		r.AccountID,
		r.Instrument,
		r.Side,
		f(r.Margin),
		strconv.Itoa(r.Leverage),
		f(r.EntryPrice),
		f(r.ClosePrice),
		r.OpenTime.Format(time.RFC3339),
		r.CloseTime.Format(time.RFC3339),
		f(r.RealizedPnL),
		f(r.Credited),
		r.Reason,
	})
	if err != nil {
		return err
	}

	j.positions.Flush()
	return j.positions.Error()
}

func (j *CSVJournal) RecordBalance(s BalanceSnapshot) error {
	err := j.balances.Write([]string{
		s.Time.Format(time.RFC3339),
		s.AccountID,
		f(s.Balance),
	})
	if err != nil {
		return err
	}

	j.balances.Flush()
	return j.balances.Error()
}

func (j *CSVJournal) Close() error {
	j.positions.Flush()
	if err := j.positions.Error(); err != nil {
		return err
	}
	j.balances.Flush()
	if err := j.balances.Error(); err != nil {
		return err
	}

	if err := j.pf.Close(); err != nil {
		return err
	}
	return j.bf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
