package models

// OrderBookUpdate represents one best bid/ask snapshot for a symbol.
// It is built fresh for every send and never mutated afterwards.
type OrderBookUpdate struct {
	Timestamp uint64  // nanoseconds since unix epoch
	Symbol    string  // at most 4 ASCII chars on the wire
	BidPrice  float64 // 2 decimal places survive the wire format
	BidSize   uint64  // must fit in uint32
	AskPrice  float64
	AskSize   uint64 // must fit in uint32
	Sequence  uint64 // strictly increasing per run, must fit in uint32
}

// RunStats is the cumulative result of one feed run. Emitted periodically
// as a progress report and once more (Done=true) when the run ends.
type RunStats struct {
	Symbol     string  `json:"symbol"`
	Attempted  uint64  `json:"attempted"`   // encode+send iterations
	Sent       uint64  `json:"sent"`        // sends the transport accepted
	SendErrors uint64  `json:"send_errors"` // transient send failures (not retried)
	ElapsedSec float64 `json:"elapsed_sec"`
	Rate       float64 `json:"rate"` // sent / elapsed, 0 for near-zero elapsed
	Done       bool    `json:"done"`
}
