// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

// encState is one state of the encoder's token-level state machine
// (spec §3, §4.E). The zero value, encStateNextSequence, is the initial
// state and is also the canonical re-entry point after each emitted token.
type encState uint8

const (
	encStateNextSequence encState = iota
	encStateProgress
	encStateFindSequence
	encStatePutOffset
	encStatePutSize
	encStatePutByte
	encStatePutBytes
	encStateFlush
)

// Encoder is the suspendable compression state machine (spec §4.E). It
// owns exactly one historyRing plus a small pending-bytes lookahead (bytes
// already pulled from the caller's input but not yet committed to history
// or emitted), and is not safe for concurrent use.
type Encoder struct {
	opts  Options
	k     uint
	delta uint // 1 normally; 0 if Options.AllowMostRecentByteAsSource
	ring  *historyRing
	bits  bitAccumulator

	pending     []byte
	pendingHead int

	state encState

	// match-search scratch (spec §4.E "search working set"), persisted
	// across stalled calls so FindSequence resumes exactly where it left
	// off.
	searchPos      uint
	extending      bool
	extendLen      uint
	bestReadOffset uint
	bestReadSize   uint

	// committed sequence, published by FindSequence for the emit states.
	readOffset uint
	readSize   uint

	flushing bool

	inTotal  int64
	outTotal int64

	isDone     bool
	doneStatus Status
}

// NewEncoder constructs an Encoder for the given Options. It returns
// ErrAllocFailed if opts.Allocator returns nil, leaving no
// partial object behind (spec §5).
func NewEncoder(opts Options) (*Encoder, error) {
	opts.validate()

	ring, err := newHistoryRing(opts.HistoryLog2, &opts)
	if err != nil {
		return nil, err
	}

	lookahead, err := opts.allocate(int(maxReadOffset(opts.HistoryLog2)))
	if err != nil {
		return nil, err
	}

	delta := uint(1)
	if opts.AllowMostRecentByteAsSource {
		delta = 0
	}

	return &Encoder{
		opts:    opts,
		k:       opts.HistoryLog2,
		delta:   delta,
		ring:    ring,
		pending: lookahead[:0],
	}, nil
}

// Reset returns the encoder to its initial state without reallocating.
func (e *Encoder) Reset() {
	e.ring.reset()
	e.bits = bitAccumulator{}
	e.pending = e.pending[:0]
	e.pendingHead = 0
	e.state = encStateNextSequence
	e.searchPos, e.extending, e.extendLen = 0, false, 0
	e.bestReadOffset, e.bestReadSize = 0, 0
	e.readOffset, e.readSize = 0, 0
	e.flushing = false
	e.inTotal, e.outTotal = 0, 0
	e.isDone = false
	e.doneStatus = StatusOK
}

// InTotal returns the running count of input bytes consumed so far.
func (e *Encoder) InTotal() int64 { return e.inTotal }

// OutTotal returns the running count of compressed bytes produced (or, in
// sizing mode, that would have been produced) so far.
func (e *Encoder) OutTotal() int64 { return e.outTotal }

// Compress drives the state machine against p, consuming as much of p.In
// as it can and producing compressed tokens into p.Out (or just counting
// them, in sizing mode). It never reaches StatusFinished on its own — call
// Flush once no more input will ever arrive.
func (e *Encoder) Compress(p *Params) Status {
	return e.run(p, false)
}

// Flush tells the encoder no more input will ever arrive: any pending
// partial match search is resolved with whatever input is already
// buffered, remaining pending bytes are emitted, and the bit accumulator
// is padded to a byte boundary and drained. On success the encoder becomes
// Finished and further Compress/Flush calls are no-ops returning Finished.
func (e *Encoder) Flush(p *Params) Status {
	return e.run(p, true)
}

// CompressedSize runs data fully through the encoder in sizing mode (spec
// Glossary) and returns the total compressed size including the flush
// padding. It consumes the encoder's state; call Reset before reusing it
// for a real Compress/Flush sequence.
func (e *Encoder) CompressedSize(data []byte) (int64, Status) {
	p := &Params{In: data}
	for {
		status := e.Compress(p)
		if status != StatusOK {
			return e.outTotal, status
		}
		if len(p.In) == 0 {
			status = e.Flush(p)
			return e.outTotal, status
		}
	}
}

func (e *Encoder) run(p *Params, flushing bool) Status {
	if e.isDone {
		return e.doneStatus
	}
	e.flushing = flushing

	for {
		switch e.state {
		case encStateNextSequence:
			e.readOffset, e.readSize = 0, 0
			e.bestReadOffset, e.bestReadSize = 0, 0
			e.searchPos = 0
			e.extending = false
			e.state = encStateProgress

		case encStateProgress:
			if p.Progress != nil && !p.Progress(e.inTotal, e.outTotal) {
				e.opts.logger().Debug("gkey: compress aborted", "inTotal", e.inTotal, "outTotal", e.outTotal)
				return e.finish(StatusAborted)
			}
			e.state = encStateFindSequence

		case encStateFindSequence:
			if !e.findSequence(p) {
				return StatusOK
			}

			e.readOffset, e.readSize = e.bestReadOffset, e.bestReadSize

			if e.readSize == 0 {
				if _, ok := e.peekPending(p, 0); ok {
					e.state = encStatePutByte
				} else if e.flushing {
					e.state = encStateFlush
				} else {
					return StatusOK
				}
				continue
			}

			literalBits := e.readSize * 9
			copyBits := 1 + e.k + sizeBits(e.k, e.readOffset)
			if literalBits < copyBits {
				e.state = encStatePutBytes
			} else {
				e.state = encStatePutOffset
			}

		case encStatePutOffset:
			if !e.bits.writeBits(e.emitter(p), 1+e.k, (uint32(e.readOffset)<<1)|1) {
				return StatusBufferOverflow
			}
			e.state = encStatePutSize

		case encStatePutSize:
			if !e.bits.writeBits(e.emitter(p), sizeBits(e.k, e.readOffset), uint32(e.readSize)) {
				return StatusBufferOverflow
			}
			e.ring.copy(nil, e.readOffset, e.readSize)
			e.dropPending(e.readSize)
			e.state = encStateNextSequence

		case encStatePutByte:
			b, ok := e.peekPending(p, 0)
			if !ok {
				panicInvariant("Encoder.Compress", "PutByte entered without a pending byte")
			}
			if !e.bits.writeBits(e.emitter(p), 9, uint32(b)<<1) {
				return StatusBufferOverflow
			}
			e.ring.write([]byte{b})
			e.dropPending(1)
			e.state = encStateNextSequence

		case encStatePutBytes:
			sink := &literalSink{enc: e, p: p}
			copied := e.ring.copy(sink, e.readOffset, e.readSize)
			e.dropPending(copied)
			if copied < e.readSize {
				e.readSize -= copied
				return StatusBufferOverflow
			}
			e.state = encStateNextSequence

		case encStateFlush:
			if !e.bits.flush(e.emitter(p)) {
				return StatusBufferOverflow
			}
			e.opts.logger().Debug("gkey: compress finished", "inTotal", e.inTotal, "outTotal", e.outTotal)
			return e.finish(StatusFinished)

		default:
			panicInvariant("Encoder.Compress", "unknown state %d", e.state)
		}
	}
}

// emitter returns a byteEmitter bound to p's output window, counted into
// e.outTotal the same way for every emission path (PutOffset/PutSize,
// PutByte, PutBytes' literalSink, and Flush's padding).
func (e *Encoder) emitter(p *Params) byteEmitter {
	sink := &outputSink{p: p, total: &e.outTotal}
	return sink.writeByte
}

// literalSink implements ringSink by re-encoding each accepted history byte
// as a tagged literal token (spec §4.E PutBytes) instead of copying it
// verbatim — it is the encoder-side counterpart of the decoder's
// outputSink, and the two are the only implementations of ringSink.
type literalSink struct {
	enc *Encoder
	p   *Params
}

func (s *literalSink) accept(chunk []byte) int {
	for i, b := range chunk {
		if !s.enc.bits.writeBits(s.enc.emitter(s.p), 9, uint32(b)<<1) {
			return i
		}
	}
	return len(chunk)
}

func (e *Encoder) finish(s Status) Status {
	if s.Terminal() {
		e.isDone = true
		e.doneStatus = s
	}
	return s
}

// pendingLen reports how many fetched-but-uncommitted input bytes are
// currently buffered.
func (e *Encoder) pendingLen() int {
	return len(e.pending) - e.pendingHead
}

// peekPending returns the i-th not-yet-committed input byte (0-indexed
// from the oldest buffered byte), pulling more bytes out of p.In as needed.
// Pulling a byte here is the "consume one input byte" spec §4.E refers to:
// it advances p.In and InTotal immediately, regardless of whether the byte
// ultimately ends up inside a literal or a superseded copy match. Calling
// this again with the same i is idempotent and free once i is buffered,
// which is what lets the match-finding algorithm re-derive the same target
// byte across outer-loop iterations without re-consuming input.
func (e *Encoder) peekPending(p *Params, i int) (byte, bool) {
	for e.pendingLen() <= i {
		if len(p.In) == 0 {
			return 0, false
		}
		e.pending = append(e.pending, p.In[0])
		p.In = p.In[1:]
		e.inTotal++
	}
	return e.pending[e.pendingHead+i], true
}

// dropPending discards n bytes from the front of the pending buffer: they
// have been committed, either emitted directly (literal) or superseded by
// a copy match that regenerates identical content from history.
func (e *Encoder) dropPending(n uint) {
	e.pendingHead += int(n)
	switch {
	case e.pendingHead == len(e.pending):
		e.pending = e.pending[:0]
		e.pendingHead = 0
	case e.pendingHead > 64 && e.pendingHead*2 > cap(e.pending):
		copy(e.pending, e.pending[e.pendingHead:])
		e.pending = e.pending[:len(e.pending)-e.pendingHead]
		e.pendingHead = 0
	}
}
