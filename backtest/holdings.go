package backtest

// EqualCapitalHoldings splits capital evenly across the symbols that have a
// positive price and converts each slice to shares at that price. It is the
// usual way to seed a backtest universe when no real holdings exist yet.
func EqualCapitalHoldings(capital float64, prices map[string]float64) map[string]float64 {
	valid := make([]string, 0, len(prices))
	for sym, price := range prices {
		if price > 0 {
			valid = append(valid, sym)
		}
	}
	if capital <= 0 || len(valid) == 0 {
		return map[string]float64{}
	}

	perSymbol := capital / float64(len(valid))
	out := make(map[string]float64, len(valid))
	for _, sym := range valid {
		out[sym] = perSymbol / prices[sym]
	}
	return out
}
