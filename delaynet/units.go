package delaynet

import (
	"fmt"
	"math"
)

// BitsPerSec is a link bandwidth, in bits per second.
type BitsPerSec uint64

// Bytes is a size in bytes, used for both flow sizes and packet sizes.
type Bytes uint64

// Nanosecs is a duration in nanoseconds, used for delays and timestamps.
type Nanosecs uint64

func (b BitsPerSec) String() string { return fmt.Sprintf("%dbps", uint64(b)) }
func (b Bytes) String() string      { return fmt.Sprintf("%dB", uint64(b)) }
func (n Nanosecs) String() string   { return fmt.Sprintf("%dns", uint64(n)) }

// Into returns the value as a float64, for use in rate/ratio arithmetic.
func (b Bytes) Into() float64      { return float64(b) }
func (n Nanosecs) Into() float64   { return float64(n) }
func (b BitsPerSec) Into() float64 { return float64(b) }

// Scale multiplies a byte count by a factor, rounding to the nearest byte.
func (b Bytes) Scale(factor float64) Bytes {
	return Bytes(math.Round(float64(b) * factor))
}

// Scale multiplies a duration by a factor, rounding to the nearest nanosecond.
func (n Nanosecs) Scale(factor float64) Nanosecs {
	return Nanosecs(math.Round(float64(n) * factor))
}

// Scale multiplies a bandwidth by a factor, rounding to the nearest bit/sec.
func (b BitsPerSec) Scale(factor float64) BitsPerSec {
	return BitsPerSec(math.Round(float64(b) * factor))
}

// Sub returns n - m, saturating at zero instead of wrapping (both are
// unsigned); this is the Go analogue of the original Rust derive_more::Sub,
// which for these domain types should never go negative in practice but
// must not panic or wrap if rounding ever nudges it below zero.
func (n Nanosecs) Sub(m Nanosecs) Nanosecs {
	if m >= n {
		return 0
	}
	return n - m
}

// CeilDiv returns ceil(size / chunk), used for packet counts
// (ceil(size / max_packet_size)) and ACK-byte bookkeeping.
func (b Bytes) CeilDiv(chunk Bytes) uint64 {
	if chunk == 0 {
		return 0
	}
	return (uint64(b) + uint64(chunk) - 1) / uint64(chunk)
}

// BitsPerSecFromGbps converts a gigabit-per-second value to BitsPerSec.
func BitsPerSecFromGbps(gbps float64) BitsPerSec {
	return BitsPerSec(math.Round(gbps * 1e9))
}
