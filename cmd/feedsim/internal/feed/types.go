package feed

import (
	"context"
	"time"

	"github.com/jalsol/feedsim/pkg/models"
)

// Clock abstracts wall-clock time for deterministic testing
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// PacketConn is the send side of the UDP endpoint. *net.UDPConn satisfies it.
type PacketConn interface {
	Write(b []byte) (int, error)
	Close() error
}

// Mirror receives a copy of every record that reached the wire
// (e.g. the Kafka capture mirror). Failures are advisory.
type Mirror interface {
	Mirror(ctx context.Context, record []byte) error
}

// StatsReporter consumes progress and final run statistics. Reporters run
// outside the per-message hot path: once per nominal second and once at exit.
type StatsReporter interface {
	Report(ctx context.Context, stats models.RunStats)
}

type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }
