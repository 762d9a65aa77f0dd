// market/instruments.go
package market

type InstrumentMeta struct {
	Symbol         string
	BaseCurrency   string
	QuoteCurrency  string
	MaxLeverage    int
	PricePrecision int
}

// Pair returns the quoted form used by the price feed, e.g. "BTC/USDT".
func (m InstrumentMeta) Pair() string {
	return m.Symbol + "/" + m.QuoteCurrency
}

// Instruments is the static registry of tradable symbols. BTC carries a
// higher leverage cap than the rest of the book.
var Instruments = map[string]InstrumentMeta{
	"BTC":  usdt("BTC", 500),
	"ETH":  usdt("ETH", 250),
	"BNB":  usdt("BNB", 250),
	"SOL":  usdt("SOL", 250),
	"DOGE": usdt("DOGE", 250),
	"AVAX": usdt("AVAX", 250),
	"ADA":  usdt("ADA", 250),
	"LTC":  usdt("LTC", 250),
	"TRX":  usdt("TRX", 250),
	"PEPE": usdt("PEPE", 250),
}

func usdt(symbol string, maxLeverage int) InstrumentMeta {
	return InstrumentMeta{
		Symbol:         symbol,
		BaseCurrency:   symbol,
		QuoteCurrency:  "USDT",
		MaxLeverage:    maxLeverage,
		PricePrecision: 2,
	}
}

// Lookup returns the metadata for a symbol, if it is listed.
func Lookup(symbol string) (InstrumentMeta, bool) {
	m, ok := Instruments[symbol]
	return m, ok
}

// MaxLeverage returns the leverage cap for a symbol, or 0 if unlisted.
func MaxLeverage(symbol string) int {
	return Instruments[symbol].MaxLeverage
}
