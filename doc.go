// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

/*
Package gkey implements the "Gordon Key" / Fednet back-reference and literal
compression format used by certain Archimedes-era games
(lzo1x_decompress_safe-adjacent in spirit, but bit-packed rather than
byte-aligned).

The wire format has no byte alignment between tokens: every token is either
a literal (a 0 tag bit followed by 8 bits of data) or a copy (a 1 tag bit,
k bits of source offset, and a length field of k bits, or k-1 bits when the
offset lies in the upper half of the history window).
Bits are packed least-significant-bit first within each byte.

Both Decoder and Encoder are resumable: a call may suspend at any token
boundary, or mid-token on buffer exhaustion, and resumes bit-for-bit
identically on the next call with the same instance. The one exception is
a Decoder that runs out of input while every bit it has buffered is zero:
that is also how a complete stream ends, so it returns StatusFinished.

# Decompress

	dec, err := gkey.NewDecoder(gkey.DefaultOptions())
	if err != nil {
		// allocator exhaustion
	}
	out := make([]byte, expectedSize)
	p := &gkey.Params{In: compressed, Out: out}
	for {
		status := dec.Decompress(p)
		switch status {
		case gkey.StatusFinished:
			// out[:dec.OutTotal()] holds the decompressed bytes
		case gkey.StatusBufferOverflow:
			// grow p.Out and call again
		default:
			// TruncatedInput means re-enter with more input; anything else is terminal
		}
	}

# Compress

	enc, err := gkey.NewEncoder(gkey.DefaultOptions())
	p := &gkey.Params{In: data, Out: dst}
	for len(p.In) > 0 {
		if status := enc.Compress(p); status == gkey.StatusBufferOverflow {
			// give p.Out more room before the next call
		}
	}
	for enc.Flush(p) != gkey.StatusFinished {
		// StatusBufferOverflow: give p.Out more room and call again
	}

Sizing mode (Params.Out == nil) reports how many bytes would have been
written without writing them; see Encoder.CompressedSize and
Decoder.DecompressedSize for convenience wrappers.
*/
package gkey
