package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCSV(t *testing.T) (*CSVJournal, string, string) {
	t.Helper()

	dir := t.TempDir()
	pPath := filepath.Join(dir, "positions.csv")
	bPath := filepath.Join(dir, "balances.csv")

	j, err := NewCSV(pPath, bPath)
	assert.NoError(t, err)

	return j, pPath, bPath
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	fh, err := os.Open(path)
	assert.NoError(t, err)
	defer fh.Close()

	rows, err := csv.NewReader(fh).ReadAll()
	assert.NoError(t, err)
	return rows
}

func TestCSVHeaders(t *testing.T) {
	t.Parallel()

	j, pPath, bPath := newTestCSV(t)
	assert.NoError(t, j.Close())

	pRows := readCSV(t, pPath)
	assert.Len(t, pRows, 1)
	assert.Equal(t, "position_id", pRows[0][0])
	assert.Equal(t, "reason", pRows[0][len(pRows[0])-1])

	bRows := readCSV(t, bPath)
	assert.Len(t, bRows, 1)
	assert.Equal(t, []string{"time", "account_id", "balance"}, bRows[0])
}

func TestCSVRecordPosition(t *testing.T) {
	t.Parallel()

	j, pPath, _ := newTestCSV(t)

	open := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	closed := open.Add(time.Hour)

	assert.NoError(t, j.RecordPosition(PositionRecord{
		PositionID:  "pos-1",
		AccountID:   "acct-1",
		Instrument:  "BTC",
		Side:        "long",
		Margin:      50,
		Leverage:    10,
		EntryPrice:  100,
		ClosePrice:  90,
		OpenTime:    open,
		CloseTime:   closed,
		RealizedPnL: 0,
		Credited:    0,
		Reason:      "Liquidation",
	}))
	assert.NoError(t, j.Close())

	rows := readCSV(t, pPath)
	assert.Len(t, rows, 2)
	assert.Equal(t, "pos-1", rows[1][0])
	assert.Equal(t, "10", rows[1][5])
	assert.Equal(t, "Liquidation", rows[1][12])
}

func TestCSVRecordBalance(t *testing.T) {
	t.Parallel()

	j, _, bPath := newTestCSV(t)

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, j.RecordBalance(BalanceSnapshot{Time: at, AccountID: "acct-1", Balance: 1234.5}))
	assert.NoError(t, j.Close())

	rows := readCSV(t, bPath)
	assert.Len(t, rows, 2)
	assert.Equal(t, "acct-1", rows[1][1])
	assert.Equal(t, "1234.500000", rows[1][2])
}
