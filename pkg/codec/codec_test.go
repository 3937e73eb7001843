package codec_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/jalsol/feedsim/pkg/codec"
	"github.com/jalsol/feedsim/pkg/models"
)

func validUpdate() models.OrderBookUpdate {
	return models.OrderBookUpdate{
		Timestamp: 1700000000123456789,
		Symbol:    "AAPL",
		BidPrice:  99.95,
		BidSize:   1000,
		AskPrice:  100.05,
		AskSize:   1001,
		Sequence:  42,
	}
}

func TestEncode_FixedSize(t *testing.T) {
	buf, err := codec.Encode(validUpdate())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(buf) != codec.MessageSize {
		t.Errorf("Expected %d bytes, got %d", codec.MessageSize, len(buf))
	}
}

func TestEncode_Layout(t *testing.T) {
	buf, err := codec.Encode(validUpdate())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// timestamp, big-endian u64 at offset 0
	want := []byte{0x17, 0x97, 0x9c, 0xfe, 0x3d, 0x85, 0xcd, 0x15}
	if !bytes.Equal(buf[0:8], want) {
		t.Errorf("Timestamp bytes = % x, want % x", buf[0:8], want)
	}
	// symbol at offset 8
	if !bytes.Equal(buf[8:12], []byte("AAPL")) {
		t.Errorf("Symbol bytes = % x", buf[8:12])
	}
	// bid 99.95 -> 9995 cents = 0x270B at offset 12
	if !bytes.Equal(buf[12:16], []byte{0x00, 0x00, 0x27, 0x0b}) {
		t.Errorf("Bid price bytes = % x", buf[12:16])
	}
	// bid size 1000 = 0x3E8 at offset 16
	if !bytes.Equal(buf[16:20], []byte{0x00, 0x00, 0x03, 0xe8}) {
		t.Errorf("Bid size bytes = % x", buf[16:20])
	}
	// ask 100.05 -> 10005 cents = 0x2715 at offset 20
	if !bytes.Equal(buf[20:24], []byte{0x00, 0x00, 0x27, 0x15}) {
		t.Errorf("Ask price bytes = % x", buf[20:24])
	}
	// sequence 42 at offset 28
	if !bytes.Equal(buf[28:32], []byte{0x00, 0x00, 0x00, 0x2a}) {
		t.Errorf("Sequence bytes = % x", buf[28:32])
	}
}

func TestRoundTrip(t *testing.T) {
	in := validUpdate()
	buf, err := codec.Encode(in)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := codec.Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out != in {
		t.Errorf("Round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}
}

func TestRoundTrip_SubCentIsLossy(t *testing.T) {
	in := validUpdate()
	in.BidPrice = 99.954 // rounds to 99.95 on the wire

	buf, err := codec.Encode(in)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := codec.Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.BidPrice != 99.95 {
		t.Errorf("Expected sub-cent fraction rounded to 99.95, got %v", out.BidPrice)
	}
}

func TestEncode_SymbolPadding(t *testing.T) {
	u := validUpdate()
	u.Symbol = "A"
	buf, err := codec.Encode(u)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(buf[8:12], []byte{0x41, 0x00, 0x00, 0x00}) {
		t.Errorf("Expected NUL-padded symbol, got % x", buf[8:12])
	}

	out, err := codec.Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Symbol != "A" {
		t.Errorf("Expected symbol A after round trip, got %q", out.Symbol)
	}
}

func TestEncode_SymbolTruncation(t *testing.T) {
	u := validUpdate()
	u.Symbol = "ABCDE"
	buf, err := codec.Encode(u)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(buf[8:12], []byte("ABCD")) {
		t.Errorf("Expected symbol truncated to ABCD, got % x", buf[8:12])
	}
}

func TestEncode_NonASCIISymbol(t *testing.T) {
	u := validUpdate()
	u.Symbol = "AÄPL"

	_, err := codec.Encode(u)
	var encErr *codec.EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("Expected EncodingError, got %v", err)
	}
	if encErr.Field != "symbol" {
		t.Errorf("Expected symbol field error, got %q", encErr.Field)
	}
}

func TestEncode_FieldBoundaries(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.OrderBookUpdate)
		ok     bool
	}{
		{"sequence max", func(u *models.OrderBookUpdate) { u.Sequence = math.MaxUint32 }, true},
		{"sequence overflow", func(u *models.OrderBookUpdate) { u.Sequence = math.MaxUint32 + 1 }, false},
		{"bid size max", func(u *models.OrderBookUpdate) { u.BidSize = math.MaxUint32 }, true},
		{"bid size overflow", func(u *models.OrderBookUpdate) { u.BidSize = math.MaxUint32 + 1 }, false},
		{"ask size max", func(u *models.OrderBookUpdate) { u.AskSize = math.MaxUint32 }, true},
		{"ask size overflow", func(u *models.OrderBookUpdate) { u.AskSize = math.MaxUint32 + 1 }, false},
		// 42949672.95 * 100 is the largest representable cents value (2^32 - 1)
		{"bid price max", func(u *models.OrderBookUpdate) { u.BidPrice = 42949672.95 }, true},
		{"bid price overflow", func(u *models.OrderBookUpdate) { u.BidPrice = 42949672.96 }, false},
		{"ask price overflow", func(u *models.OrderBookUpdate) { u.AskPrice = 42949672.96 }, false},
		{"negative bid", func(u *models.OrderBookUpdate) { u.BidPrice = -0.01 }, false},
		{"nan ask", func(u *models.OrderBookUpdate) { u.AskPrice = math.NaN() }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := validUpdate()
			tc.mutate(&u)
			_, err := codec.Encode(u)

			if tc.ok && err != nil {
				t.Errorf("Expected success, got %v", err)
			}
			if !tc.ok {
				var encErr *codec.EncodingError
				if !errors.As(err, &encErr) {
					t.Errorf("Expected EncodingError, got %v", err)
				}
			}
		})
	}
}

func TestEncodeTo_ShortBuffer(t *testing.T) {
	buf := make([]byte, codec.MessageSize-1)
	err := codec.EncodeTo(buf, validUpdate())
	var encErr *codec.EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("Expected EncodingError for short buffer, got %v", err)
	}
}

func TestDecode_BadLength(t *testing.T) {
	for _, n := range []int{0, 31, 33, 64} {
		_, err := codec.Decode(make([]byte, n))
		var decErr *codec.DecodingError
		if !errors.As(err, &decErr) {
			t.Errorf("len=%d: expected DecodingError, got %v", n, err)
		}
	}
}
