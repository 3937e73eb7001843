package mirror_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jalsol/feedsim/cmd/feedsim/internal/mirror"
	"github.com/jalsol/feedsim/cmd/feedsim/internal/testutils"
)

func TestKafkaMirror_CopiesRecord(t *testing.T) {
	writer := &testutils.MockKafkaWriter{}
	m := mirror.NewKafkaMirror(zap.NewNop(), writer, "AAPL")

	record := []byte{1, 2, 3, 4}
	if err := m.Mirror(context.Background(), record); err != nil {
		t.Fatalf("Mirror failed: %v", err)
	}

	// The driver reuses its buffer; the mirrored value must be a copy
	record[0] = 0xFF

	writer.Mu.Lock()
	defer writer.Mu.Unlock()
	if len(writer.Messages) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(writer.Messages))
	}
	msg := writer.Messages[0]
	if string(msg.Key) != "AAPL" {
		t.Errorf("Expected key AAPL, got %s", msg.Key)
	}
	if !bytes.Equal(msg.Value, []byte{1, 2, 3, 4}) {
		t.Errorf("Mirrored value aliases the driver buffer: % x", msg.Value)
	}
}

func TestKafkaMirror_PropagatesWriterError(t *testing.T) {
	writer := &testutils.MockKafkaWriter{ShouldFail: true}
	m := mirror.NewKafkaMirror(zap.NewNop(), writer, "AAPL")

	if err := m.Mirror(context.Background(), []byte{1}); err == nil {
		t.Error("Expected writer error to propagate")
	}
}

func TestTopicCreator_Flow(t *testing.T) {
	mockDialer := &testutils.MockKafkaDialer{} // Will auto-create ConnSpy
	mockClock := &testutils.MockClock{CurrentTime: time.Unix(0, 0)}

	tc := mirror.NewTopicCreator(zap.NewNop(), mockDialer, mockClock)
	tc.Create([]string{"broker:9092"}, "market_ticks")

	if mockDialer.ConnSpy == nil {
		t.Fatal("Dialer was never called")
	}
	if len(mockDialer.ConnSpy.CreatedTopics) == 0 {
		t.Fatal("No topics created")
	}
	if mockDialer.ConnSpy.CreatedTopics[0] != "market_ticks" {
		t.Errorf("Expected topic 'market_ticks', got %s", mockDialer.ConnSpy.CreatedTopics[0])
	}
}
