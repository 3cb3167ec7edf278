// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

import "errors"

// Status is the outcome of one Decoder.Decompress or Encoder.Compress call.
// Unlike a plain error, most Status values (OK, BufferOverflow) are routine
// control flow: the caller is expected to replenish a buffer and re-enter.
// Status implements error so callers that prefer errors.Is-style checks for
// the terminal values can still do so.
type Status uint8

const (
	// StatusOK means progress was made; the caller should re-enter with the
	// same (possibly replenished) Params.
	StatusOK Status = iota
	// StatusBadInput means the decoder found a malformed token. Terminal:
	// further calls on this instance require Reset.
	StatusBadInput
	// StatusTruncatedInput means the bit stream ended mid-token with a
	// non-zero accumulator residue. Recoverable if the caller supplies more
	// input; otherwise indicates a damaged stream.
	StatusTruncatedInput
	// StatusBufferOverflow means the output window was exhausted. State is
	// preserved at bit granularity; re-enter with more output room.
	StatusBufferOverflow
	// StatusAborted means the progress callback vetoed continuation.
	// Terminal: further calls on this instance require Reset.
	StatusAborted
	// StatusFinished means the stream completed. Terminal: further calls on
	// this instance return StatusFinished again without touching Params,
	// until Reset.
	StatusFinished
)

// sentinel errors, one per terminal/recoverable Status, so callers that
// prefer errors.Is over a type switch on Status still have a stable target.
var (
	ErrBadInput        = errors.New("gkey: malformed token")
	ErrTruncatedInput  = errors.New("gkey: bit stream ended mid-token")
	ErrBufferOverflow  = errors.New("gkey: output buffer exhausted")
	ErrAborted         = errors.New("gkey: progress callback aborted")
	ErrAllocFailed     = errors.New("gkey: allocator returned none")
	ErrUseAfterFinish  = errors.New("gkey: codec used after Finished")
	errStatusHasNoCode = errors.New("gkey: status has no associated error")
)

// Error implements the error interface. StatusOK's Error text names the
// status rather than pretending to be a failure, since callers that call
// Error() unconditionally (e.g. via %v) still deserve a readable value.
func (s Status) Error() string {
	switch s {
	case StatusOK:
		return "gkey: ok"
	case StatusBadInput:
		return ErrBadInput.Error()
	case StatusTruncatedInput:
		return ErrTruncatedInput.Error()
	case StatusBufferOverflow:
		return ErrBufferOverflow.Error()
	case StatusAborted:
		return ErrAborted.Error()
	case StatusFinished:
		return "gkey: finished"
	default:
		return "gkey: unknown status"
	}
}

// String implements fmt.Stringer with the same text as Error.
func (s Status) String() string {
	return s.Error()
}

// Unwrap lets errors.Is(status, ErrBadInput) etc. work for the statuses that
// have a matching sentinel. StatusOK and StatusFinished unwrap to an
// internal sentinel that matches none of the exported Err* values.
func (s Status) Unwrap() error {
	switch s {
	case StatusBadInput:
		return ErrBadInput
	case StatusTruncatedInput:
		return ErrTruncatedInput
	case StatusBufferOverflow:
		return ErrBufferOverflow
	case StatusAborted:
		return ErrAborted
	default:
		return errStatusHasNoCode
	}
}

// Terminal reports whether this status means the codec instance must not be
// used again without Reset (spec §7: BadInput, Aborted and Finished are
// unrecoverable on the current stream; TruncatedInput is not, in case the
// caller has more input coming).
func (s Status) Terminal() bool {
	switch s {
	case StatusBadInput, StatusAborted, StatusFinished:
		return true
	default:
		return false
	}
}
