package feed

// SeriesAt returns the synthetic bid/ask prices and sizes for a sequence
// number. The series is fully determined by the sequence, so independent
// runs (and downstream consumers) can reproduce it exactly: the base price
// walks 100.00..100.99 in cent steps, with a fixed 10-cent spread.
func SeriesAt(seq uint64) (bidPrice, askPrice float64, bidSize, askSize uint64) {
	basePrice := 100.0 + float64(seq%100)*0.01
	bidPrice = basePrice - 0.05
	askPrice = basePrice + 0.05
	bidSize = 1000 + seq%500
	askSize = 1000 + (seq+1)%500
	return bidPrice, askPrice, bidSize, askSize
}
