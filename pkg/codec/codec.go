// Package codec implements the fixed 32-byte binary wire format for
// order book updates. Encoding is the production path; decoding exists
// so receivers and tests can verify what went on the wire.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode"

	"github.com/jalsol/feedsim/pkg/models"
)

// MessageSize is the exact length of every encoded message.
const MessageSize = 32

// SymbolSize is the fixed width of the symbol field.
const SymbolSize = 4

// Field offsets within the 32-byte message (big-endian, no padding):
// timestamp u64 | symbol 4B | bid_cents u32 | bid_size u32 |
// ask_cents u32 | ask_size u32 | sequence u32.
const (
	offTimestamp = 0
	offSymbol    = 8
	offBidPrice  = 12
	offBidSize   = 16
	offAskPrice  = 20
	offAskSize   = 24
	offSequence  = 28
)

// EncodingError reports a field value the wire format cannot represent.
type EncodingError struct {
	Field  string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("codec: cannot encode %s: %s", e.Field, e.Reason)
}

// DecodingError reports input that is not a valid encoded message.
type DecodingError struct {
	Reason string
}

func (e *DecodingError) Error() string {
	return "codec: cannot decode message: " + e.Reason
}

// Encode serializes an update into a freshly allocated 32-byte buffer.
func Encode(u models.OrderBookUpdate) ([]byte, error) {
	buf := make([]byte, MessageSize)
	if err := EncodeTo(buf, u); err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeTo serializes an update into dst, which must hold at least
// MessageSize bytes. It allocates nothing, so the send loop can reuse
// one buffer for the whole run. dst is untouched on error.
func EncodeTo(dst []byte, u models.OrderBookUpdate) error {
	if len(dst) < MessageSize {
		return &EncodingError{Field: "buffer", Reason: fmt.Sprintf("need %d bytes, have %d", MessageSize, len(dst))}
	}

	for i := 0; i < len(u.Symbol); i++ {
		if u.Symbol[i] > unicode.MaxASCII {
			return &EncodingError{Field: "symbol", Reason: fmt.Sprintf("non-ASCII byte %#x at index %d", u.Symbol[i], i)}
		}
	}
	bidCents, err := priceToCents("bid_price", u.BidPrice)
	if err != nil {
		return err
	}
	askCents, err := priceToCents("ask_price", u.AskPrice)
	if err != nil {
		return err
	}
	if u.BidSize > math.MaxUint32 {
		return &EncodingError{Field: "bid_size", Reason: "exceeds uint32 range"}
	}
	if u.AskSize > math.MaxUint32 {
		return &EncodingError{Field: "ask_size", Reason: "exceeds uint32 range"}
	}
	if u.Sequence > math.MaxUint32 {
		return &EncodingError{Field: "sequence", Reason: "exceeds uint32 range"}
	}

	binary.BigEndian.PutUint64(dst[offTimestamp:], u.Timestamp)
	sym := dst[offSymbol : offSymbol+SymbolSize]
	n := copy(sym, u.Symbol) // longer symbols are truncated to 4 chars
	for ; n < SymbolSize; n++ {
		sym[n] = 0 // shorter symbols are right-padded with NULs
	}
	binary.BigEndian.PutUint32(dst[offBidPrice:], bidCents)
	binary.BigEndian.PutUint32(dst[offBidSize:], uint32(u.BidSize))
	binary.BigEndian.PutUint32(dst[offAskPrice:], askCents)
	binary.BigEndian.PutUint32(dst[offAskSize:], uint32(u.AskSize))
	binary.BigEndian.PutUint32(dst[offSequence:], uint32(u.Sequence))
	return nil
}

// Decode is the inverse of Encode. Round-trips are exact for prices
// already quantized to 2 decimal places; sub-cent fractions were lost
// at encode time and cannot come back.
func Decode(b []byte) (models.OrderBookUpdate, error) {
	if len(b) != MessageSize {
		return models.OrderBookUpdate{}, &DecodingError{Reason: fmt.Sprintf("length %d, want %d", len(b), MessageSize)}
	}

	sym := b[offSymbol : offSymbol+SymbolSize]
	end := SymbolSize
	for end > 0 && sym[end-1] == 0 {
		end--
	}

	return models.OrderBookUpdate{
		Timestamp: binary.BigEndian.Uint64(b[offTimestamp:]),
		Symbol:    string(sym[:end]),
		BidPrice:  float64(binary.BigEndian.Uint32(b[offBidPrice:])) / 100,
		BidSize:   uint64(binary.BigEndian.Uint32(b[offBidSize:])),
		AskPrice:  float64(binary.BigEndian.Uint32(b[offAskPrice:])) / 100,
		AskSize:   uint64(binary.BigEndian.Uint32(b[offAskSize:])),
		Sequence:  uint64(binary.BigEndian.Uint32(b[offSequence:])),
	}, nil
}

// priceToCents converts a price to integer cents, rounding half away
// from zero. Rounding (rather than truncation) keeps 2-decimal prices
// exact despite float64 representation error; this is the fixed policy.
func priceToCents(field string, p float64) (uint32, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, &EncodingError{Field: field, Reason: "not a finite number"}
	}
	if p < 0 {
		return 0, &EncodingError{Field: field, Reason: "negative price"}
	}
	cents := math.Round(p * 100)
	if cents >= 1<<32 {
		return 0, &EncodingError{Field: field, Reason: "cents exceed uint32 range"}
	}
	return uint32(cents), nil
}
