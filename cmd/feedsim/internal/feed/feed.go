// Package feed implements the rate-paced UDP multicast send loop that
// drives synthetic order book update traffic at a target message rate.
package feed

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jalsol/feedsim/pkg/codec"
	"github.com/jalsol/feedsim/pkg/models"
)

// Feed owns one send endpoint, one sequence counter and one pacing clock.
// Instances are fully independent; run one per symbol.
type Feed struct {
	logger    *zap.Logger
	conn      PacketConn
	clock     Clock
	symbol    string
	rate      int
	duration  time.Duration
	mirror    Mirror // optional, may be nil
	reporters []StatsReporter
}

func NewFeed(
	logger *zap.Logger,
	conn PacketConn,
	clock Clock,
	symbol string,
	rate int,
	duration time.Duration,
	mirror Mirror,
	reporters ...StatsReporter,
) *Feed {
	return &Feed{
		logger:    logger,
		conn:      conn,
		clock:     clock,
		symbol:    symbol,
		rate:      rate,
		duration:  duration,
		mirror:    mirror,
		reporters: reporters,
	}
}

// Run drives the send loop until the configured duration elapses or ctx is
// cancelled. Both are normal exits and return the accumulated statistics;
// the only error exit is an encoding failure, since a message the codec
// rejects must never reach the wire. The endpoint is closed on every path.
func (f *Feed) Run(ctx context.Context) (models.RunStats, error) {
	defer f.conn.Close()

	rate := f.rate
	if rate <= 0 {
		rate = 1
	}
	interval := time.Second / time.Duration(rate)
	if interval <= 0 {
		interval = time.Nanosecond
	}

	f.logger.Info("Feed started",
		zap.String("symbol", f.symbol),
		zap.Int("rate", f.rate),
		zap.Duration("duration", f.duration))

	start := f.clock.Now()
	var attempted, sent, sendErrs uint64
	var buf [codec.MessageSize]byte

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("Feed cancelled, stopping...")
			return f.finish(start, attempted, sent, sendErrs), nil
		default:
		}

		now := f.clock.Now()
		if now.Sub(start) >= f.duration {
			return f.finish(start, attempted, sent, sendErrs), nil
		}

		bidPrice, askPrice, bidSize, askSize := SeriesAt(attempted)
		update := models.OrderBookUpdate{
			Timestamp: uint64(now.UnixNano()),
			Symbol:    f.symbol,
			BidPrice:  bidPrice,
			BidSize:   bidSize,
			AskPrice:  askPrice,
			AskSize:   askSize,
			Sequence:  attempted,
		}

		if err := codec.EncodeTo(buf[:], update); err != nil {
			f.logger.Error("Encoding failed, aborting run", zap.Error(err))
			return f.finish(start, attempted, sent, sendErrs), err
		}

		if _, err := f.conn.Write(buf[:]); err != nil {
			// Best-effort transport: count and move on. The message is not
			// retried, so no duplicate sequence ever appears on the wire.
			sendErrs++
			f.logger.Debug("Send error", zap.Uint64("sequence", attempted), zap.Error(err))
		} else {
			sent++
			if f.mirror != nil {
				if err := f.mirror.Mirror(ctx, buf[:]); err != nil {
					f.logger.Debug("Mirror error", zap.Uint64("sequence", attempted), zap.Error(err))
				}
			}
		}
		attempted++

		// Progress once per nominal second, outside the per-message path
		if attempted%uint64(rate) == 0 {
			stats := f.snapshot(start, attempted, sent, sendErrs, false)
			f.logger.Info("Progress",
				zap.Uint64("sent", stats.Sent),
				zap.Float64("elapsed_sec", stats.ElapsedSec),
				zap.Float64("rate", stats.Rate))
			f.report(ctx, stats)
		}

		// Sleep to the absolute deadline start + n*interval rather than a
		// fixed interval, so per-iteration overhead cannot accumulate drift
		next := start.Add(time.Duration(attempted) * interval)
		if d := next.Sub(f.clock.Now()); d > 0 {
			f.clock.Sleep(d)
		}
	}
}

func (f *Feed) finish(start time.Time, attempted, sent, sendErrs uint64) models.RunStats {
	stats := f.snapshot(start, attempted, sent, sendErrs, true)

	// Background context: a cancelled run must still flush its final report
	f.report(context.Background(), stats)

	f.logger.Info("Feed finished",
		zap.String("symbol", f.symbol),
		zap.Uint64("sent", stats.Sent),
		zap.Uint64("send_errors", stats.SendErrors),
		zap.Float64("elapsed_sec", stats.ElapsedSec),
		zap.Float64("avg_rate", stats.Rate))
	return stats
}

func (f *Feed) snapshot(start time.Time, attempted, sent, sendErrs uint64, done bool) models.RunStats {
	elapsed := f.clock.Now().Sub(start).Seconds()
	stats := models.RunStats{
		Symbol:     f.symbol,
		Attempted:  attempted,
		Sent:       sent,
		SendErrors: sendErrs,
		ElapsedSec: elapsed,
		Done:       done,
	}
	if elapsed > 0 {
		stats.Rate = float64(sent) / elapsed
	}
	return stats
}

func (f *Feed) report(ctx context.Context, stats models.RunStats) {
	for _, r := range f.reporters {
		r.Report(ctx, stats)
	}
}
