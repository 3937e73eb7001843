package testutils

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jalsol/feedsim/cmd/feedsim/internal/mirror"
	"github.com/jalsol/feedsim/pkg/models"
)

// MockClock advances instantly on Sleep so paced loops run at CPU speed
// while still observing deterministic timestamps.
type MockClock struct {
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time        { return m.CurrentTime }
func (m *MockClock) Sleep(d time.Duration) { m.CurrentTime = m.CurrentTime.Add(d) }

// MockConn records every packet written to it. The first FailFirst writes
// return an error to simulate transient send failures.
type MockConn struct {
	Mu        sync.Mutex
	Packets   [][]byte
	FailFirst int
	Closed    bool

	writes int
}

func (m *MockConn) Write(b []byte) (int, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	m.writes++
	if m.writes <= m.FailFirst {
		return 0, errors.New("send error")
	}
	pkt := make([]byte, len(b))
	copy(pkt, b)
	m.Packets = append(m.Packets, pkt)
	return len(b), nil
}

func (m *MockConn) Close() error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
	return nil
}

type MockKafkaWriter struct {
	Messages   []kafka.Message
	Mu         sync.Mutex
	ShouldFail bool
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.ShouldFail {
		return errors.New("kafka error")
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func (m *MockKafkaWriter) Close() error { return nil }

type MockKafkaConn struct {
	CreatedTopics []string
}

func (m *MockKafkaConn) Controller() (kafka.Broker, error) {
	return kafka.Broker{Host: "localhost", Port: 9092}, nil
}
func (m *MockKafkaConn) Close() error { return nil }
func (m *MockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	for _, t := range topics {
		m.CreatedTopics = append(m.CreatedTopics, t.Topic)
	}
	return nil
}
func (m *MockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	// Simulate "Ready" state immediately
	return []kafka.Partition{{ID: 0}}, nil
}

type MockKafkaDialer struct {
	ConnSpy *MockKafkaConn
}

func (m *MockKafkaDialer) DialContext(ctx context.Context, network, address string) (mirror.KafkaConn, error) {
	if m.ConnSpy == nil {
		m.ConnSpy = &MockKafkaConn{}
	}
	return m.ConnSpy, nil
}

// SpyReporter records every stats report it receives.
type SpyReporter struct {
	Mu      sync.Mutex
	Reports []models.RunStats
}

func (s *SpyReporter) Report(ctx context.Context, stats models.RunStats) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.Reports = append(s.Reports, stats)
}
