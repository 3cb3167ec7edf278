// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

// bitAccumulator is the LSB-first bit-packed stream reader/writer shared by
// Decoder and Encoder (spec §4.B). It is value-typed and lives embedded in
// the owning codec's state so suspension is just "stop calling methods on
// it" — there is nothing else to save or restore.
//
// Newly-read input bytes enter acc in its higher currently-empty bits;
// output drains the lowest 8 bits as one byte. Bit 0 of the first emitted
// byte is the first bit of the first token.
//
// A uint32 accumulator is always wide enough: the width requirement is
// max(8,k)+1 bits beyond the 7-bit minimum, i.e. 17 bits when k=9.
type bitAccumulator struct {
	acc   uint32
	nbits uint
}

// readBits pulls whole bytes from *in (reslicing it forward) until it has
// n valid bits buffered or in is exhausted, then extracts the low n bits.
// On failure the bytes already pulled into acc remain buffered, so the
// call is resumable: the next readBits with more input picks up where this
// one left off, without re-reading anything.
func (a *bitAccumulator) readBits(in *[]byte, n uint) (value uint32, ok bool) {
	for a.nbits < n && len(*in) > 0 {
		b := (*in)[0]
		*in = (*in)[1:]
		a.acc |= uint32(b) << a.nbits
		a.nbits += 8
	}

	if a.nbits < n {
		return 0, false
	}

	value = a.acc & ((uint32(1) << n) - 1)
	a.acc >>= n
	a.nbits -= n

	return value, true
}

// residualZero reports whether the buffered residue is all-zero bits. A
// decoder at end-of-stream treats a zero residual as a graceful end and a
// non-zero residual as truncated input (spec §4.D).
func (a *bitAccumulator) residualZero() bool {
	return a.acc == 0
}

// byteEmitter accepts one output byte and reports whether it was written.
// false means the output window is exhausted and b was not consumed; the
// accumulator's caller (writeBits) preserves state for a retry.
type byteEmitter func(b byte) bool

// drain writes out every whole byte currently buffered in acc, stopping
// (and leaving acc holding the undrained remainder) the first time emit
// refuses a byte.
func (a *bitAccumulator) drain(emit byteEmitter) bool {
	for a.nbits >= 8 {
		b := byte(a.acc & 0xff)
		if !emit(b) {
			return false
		}
		a.acc >>= 8
		a.nbits -= 8
	}

	return true
}

// writeBits drains any whole buffered bytes first, then appends v's low n
// bits at the top of acc. Pre: v < 1<<n. If draining hits an exhausted
// output window, returns false with acc holding the still-unwritten
// residue and v not yet appended — the caller must retry the exact same
// writeBits call once more output room is available.
func (a *bitAccumulator) writeBits(emit byteEmitter, n uint, v uint32) bool {
	if !a.drain(emit) {
		return false
	}

	a.acc |= (v & ((uint32(1) << n) - 1)) << a.nbits
	a.nbits += n

	return true
}

// flush rounds nbits up to the next multiple of 8, padding with zero bits
// (acc's unused high bits are already zero per invariant), then drains
// everything. Safe to retry: if draining fails partway, nbits is already a
// multiple of 8 on re-entry so no further padding is added.
func (a *bitAccumulator) flush(emit byteEmitter) bool {
	if rem := a.nbits % 8; rem != 0 {
		a.nbits += 8 - rem
	}

	return a.drain(emit)
}
