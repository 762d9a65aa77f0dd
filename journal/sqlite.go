package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordPosition(r PositionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO positions
		(position_id, account_id, instrument, side, margin, leverage,
		 entry_price, close_price, open_time, close_time, realized_pnl, credited, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.PositionID, r.AccountID, r.Instrument, r.Side, r.Margin, r.Leverage,
		r.EntryPrice, r.ClosePrice, r.OpenTime, r.CloseTime, r.RealizedPnL, r.Credited, r.Reason,
	)
	return err
}

func (j *SQLite) RecordBalance(s BalanceSnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO balances (time, account_id, balance)
		VALUES (?, ?, ?)`,
		s.Time, s.AccountID, s.Balance,
	)
	return err
}

// ListPositions returns the recorded transitions for an account in
// insertion order.
func (j *SQLite) ListPositions(accountID string) ([]PositionRecord, error) {
	rows, err := j.db.Query(`
		SELECT position_id, account_id, instrument, side, margin, leverage,
		       entry_price, close_price, open_time, close_time, realized_pnl, credited, reason
		FROM positions WHERE account_id = ? ORDER BY position_id`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []PositionRecord
	for rows.Next() {
		var r PositionRecord
		if err := rows.Scan(
			&r.PositionID, &r.AccountID, &r.Instrument, &r.Side, &r.Margin, &r.Leverage,
			&r.EntryPrice, &r.ClosePrice, &r.OpenTime, &r.CloseTime, &r.RealizedPnL, &r.Credited, &r.Reason,
		); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
