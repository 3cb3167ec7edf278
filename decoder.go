// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

// decState is one state of the decoder's token-level state machine
// (spec §3, §4.D). The zero value, decStateProgress, is the initial state.
type decState uint8

const (
	decStateProgress decState = iota
	decStateGetType
	decStateGetOffset
	decStateGetSize
	decStateCopyData
	decStateGetByte
	decStatePutByte
)

// Decoder is the suspendable decompression state machine (spec §4.D). It
// owns exactly one historyRing and is not safe for concurrent use.
type Decoder struct {
	opts Options
	k    uint
	ring *historyRing
	bits bitAccumulator

	state      decState
	readOffset uint
	readSize   uint
	literal    byte

	inTotal  int64
	outTotal int64

	isDone     bool
	doneStatus Status
}

// NewDecoder constructs a Decoder for the given Options. It returns
// ErrAllocFailed if opts.Allocator returns nil, leaving no
// partial object behind (spec §5).
func NewDecoder(opts Options) (*Decoder, error) {
	opts.validate()

	ring, err := newHistoryRing(opts.HistoryLog2, &opts)
	if err != nil {
		return nil, err
	}

	return &Decoder{opts: opts, k: opts.HistoryLog2, ring: ring}, nil
}

// Reset returns the decoder to its initial state without reallocating.
func (d *Decoder) Reset() {
	d.ring.reset()
	d.bits = bitAccumulator{}
	d.state = decStateProgress
	d.readOffset, d.readSize = 0, 0
	d.literal = 0
	d.inTotal, d.outTotal = 0, 0
	d.isDone = false
	d.doneStatus = StatusOK
}

// InTotal returns the running count of compressed bytes consumed so far.
func (d *Decoder) InTotal() int64 { return d.inTotal }

// OutTotal returns the running count of decompressed bytes produced (or,
// in sizing mode, that would have been produced) so far.
func (d *Decoder) OutTotal() int64 { return d.outTotal }

// DecompressedSize runs compressed fully through the decoder in sizing mode
// (spec Glossary) and returns the total decompressed size. It consumes the
// decoder's state; call Reset before reusing it for a real Decompress.
func (d *Decoder) DecompressedSize(compressed []byte) (int64, Status) {
	p := &Params{In: compressed}
	status := d.Decompress(p)
	return d.outTotal, status
}

// Decompress drives the state machine against p until it either suspends
// (needs more input or output room), aborts, finishes, or rejects the
// stream as malformed. See Status for the full meaning of each outcome.
//
// Once a terminal Status (BadInput, Aborted, Finished) has been returned,
// further calls return the same Status again without touching p; call
// Reset to use the instance again.
func (d *Decoder) Decompress(p *Params) Status {
	if d.isDone {
		return d.doneStatus
	}

	for {
		switch d.state {
		case decStateProgress:
			if p.Progress != nil && !p.Progress(d.inTotal, d.outTotal) {
				d.opts.logger().Debug("gkey: decompress aborted", "inTotal", d.inTotal, "outTotal", d.outTotal)
				return d.finish(StatusAborted)
			}
			d.state = decStateGetType

		case decStateGetType:
			bit, ok := d.readBits(p, 1)
			if !ok {
				if d.bits.residualZero() {
					d.opts.logger().Debug("gkey: decompress finished", "inTotal", d.inTotal, "outTotal", d.outTotal)
					return d.finish(StatusFinished)
				}
				return StatusTruncatedInput
			}
			if bit == 0 {
				d.state = decStateGetByte
			} else {
				d.state = decStateGetOffset
			}

		case decStateGetOffset:
			v, ok := d.readBits(p, d.k)
			if !ok {
				return StatusTruncatedInput
			}
			d.readOffset = uint(v)
			d.state = decStateGetSize

		case decStateGetSize:
			v, ok := d.readBits(p, sizeBits(d.k, d.readOffset))
			if !ok {
				return StatusTruncatedInput
			}

			size := uint(v)
			if size == 0 {
				if !d.opts.LenientZeroLength {
					return d.finish(StatusBadInput)
				}
				size = 1
			}
			if d.readOffset+size > maxReadOffset(d.k) {
				return d.finish(StatusBadInput)
			}

			d.readSize = size
			d.state = decStateCopyData

		case decStateCopyData:
			sink := &outputSink{p: p, total: &d.outTotal}
			copied := d.ring.copy(sink, d.readOffset, d.readSize)
			if copied < d.readSize {
				d.readSize -= copied
				return StatusBufferOverflow
			}
			d.state = decStateProgress

		case decStateGetByte:
			v, ok := d.readBits(p, 8)
			if !ok {
				if d.bits.residualZero() {
					d.opts.logger().Debug("gkey: decompress finished", "inTotal", d.inTotal, "outTotal", d.outTotal)
					return d.finish(StatusFinished)
				}
				return StatusTruncatedInput
			}
			d.literal = byte(v)
			d.state = decStatePutByte

		case decStatePutByte:
			sink := &outputSink{p: p, total: &d.outTotal}
			if !sink.writeByte(d.literal) {
				return StatusBufferOverflow
			}
			d.ring.write([]byte{d.literal})
			d.state = decStateProgress

		default:
			panicInvariant("Decoder.Decompress", "unknown state %d", d.state)
		}
	}
}

// readBits is readBits on the embedded accumulator, instrumented to keep
// inTotal in lockstep with bytes actually pulled from p.In regardless of
// whether this particular extraction succeeds.
func (d *Decoder) readBits(p *Params, n uint) (uint32, bool) {
	before := len(p.In)
	v, ok := d.bits.readBits(&p.In, n)
	d.inTotal += int64(before - len(p.In))
	return v, ok
}

func (d *Decoder) finish(s Status) Status {
	if s.Terminal() {
		d.isDone = true
		d.doneStatus = s
	}
	return s
}
