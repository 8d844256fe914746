package pricing

// Source supplies price histories for stocks entered without one, and new
// prices when a running portfolio is refreshed.
//
//go:generate mockgen -package=scheduler -destination=../scheduler/mock_source_test.go -source=source.go Source
type Source interface {
	// History returns n prices for symbol, oldest first.
	History(symbol string, n int) ([]float64, error)
	// Next returns the price that follows last for symbol.
	Next(symbol string, last float64) (float64, error)
	Name() string
}
