// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

import (
	"io"
	"log/slog"
)

// MaxHistoryLog2 is the largest legal history order (a 512-byte history).
// At that order the accumulator needs max(8,k)+1 more bits than its 7-bit
// minimum (spec §4.B), 17 bits in all, which its uint32 holds.
const MaxHistoryLog2 = 9

// Options configures a Decoder or Encoder. The zero value selects k=0 (a
// one-byte history); use DefaultOptions for the canonical configuration and
// override fields, mirroring the teacher package's Default*Options()
// constructors.
type Options struct {
	// HistoryLog2 is k: history capacity is 1<<HistoryLog2. Must satisfy
	// 0 <= HistoryLog2 <= MaxHistoryLog2. Encoder and decoder for the same
	// stream must agree on this value.
	HistoryLog2 uint

	// LenientZeroLength maps a decoded copy length of 0 to 1 instead of
	// rejecting it as StatusBadInput, matching historical encoder behaviour
	// some reference decompressors rely on (spec §9 Open Question). Off by
	// default: this codec is stricter than that reference decoder.
	LenientZeroLength bool

	// AllowMostRecentByteAsSource disables the δ=1 exclusion in the
	// encoder's match search (spec §4.E), letting the byte just written be
	// used as a copy source. Off by default (the canonical δ=1 behaviour).
	AllowMostRecentByteAsSource bool

	// Allocator, if set, is used for the codec's buffer allocations: the
	// history ring, and for an Encoder also its pending-input lookahead
	// (spec §5's dependency-injection point for simulating exhaustion in
	// tests). If Allocator returns nil, construction fails with
	// ErrAllocFailed and leaves no partial object behind.
	Allocator func(size int) []byte

	// Logger receives coarse finish/abort trace lines at slog.LevelDebug.
	// Defaults to a handler that discards everything.
	Logger *slog.Logger
}

// DefaultOptions returns the canonical configuration: k=9 (512-byte
// history), strict zero-length rejection, δ=1, default allocator, no
// logging.
func DefaultOptions() Options {
	return Options{
		HistoryLog2: MaxHistoryLog2,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o *Options) allocate(size int) ([]byte, error) {
	if o.Allocator == nil {
		return make([]byte, size), nil
	}

	buf := o.Allocator(size)
	if buf == nil {
		return nil, ErrAllocFailed
	}
	if len(buf) != size {
		buf = buf[:size]
	}

	return buf, nil
}

func (o *Options) validate() {
	if o.HistoryLog2 > MaxHistoryLog2 {
		panic("gkey: HistoryLog2 out of range [0,9]")
	}
}
