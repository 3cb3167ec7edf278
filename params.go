// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

// ProgressFunc is invoked between tokens with the codec's running totals.
// Returning false vetoes continuation and yields StatusAborted (spec §6).
type ProgressFunc func(inTotal, outTotal int64) bool

// Params is the caller-owned parameter block passed to Decoder.Decompress
// and Encoder.Compress (spec §6). In and Out are re-sliced in place as
// bytes are consumed and written, so the caller observes progress simply by
// checking their post-call length.
//
// Out == nil selects sizing mode: no bytes are written anywhere, but the
// codec's OutTotal still advances by the amount that would have been
// written, letting a caller size a destination buffer up front.
type Params struct {
	In       []byte
	Out      []byte
	Progress ProgressFunc
}

// outputSink implements ringSink over a Params' output window, honouring
// sizing mode and tracking the running output total. It is also reused
// directly (not just via ring.copy) for single-byte literal writes, so
// Decoder.PutByte and Encoder.PutByte share the exact same accounting as
// Decoder.CopyData.
type outputSink struct {
	p     *Params
	total *int64
}

func (s *outputSink) accept(chunk []byte) int {
	if s.p.Out == nil {
		*s.total += int64(len(chunk))
		return len(chunk)
	}

	n := copy(s.p.Out, chunk)
	s.p.Out = s.p.Out[n:]
	*s.total += int64(n)

	return n
}

// writeByte offers a single byte through the same sink path ring.copy uses,
// so output accounting never diverges between the literal and copy paths.
func (s *outputSink) writeByte(b byte) bool {
	return s.accept([]byte{b}) == 1
}
