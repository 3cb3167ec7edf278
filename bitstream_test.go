// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

import "testing"

func TestBitAccumulator_WriteReadRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		n    uint
		v    uint32
	}{
		{"zero-bits", 0, 0},
		{"one-bit-set", 1, 1},
		{"one-bit-clear", 1, 0},
		{"nine-bits", 9, 0x1AB},
		{"full-k", 9, 0x1FF},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var acc bitAccumulator
			var out []byte
			emit := func(b byte) bool { out = append(out, b); return true }

			if !acc.writeBits(emit, c.n, c.v) {
				t.Fatalf("writeBits failed")
			}
			if !acc.flush(emit) {
				t.Fatalf("flush failed")
			}

			var racc bitAccumulator
			in := out
			got, ok := racc.readBits(&in, c.n)
			if !ok {
				t.Fatalf("readBits failed on %v", out)
			}
			if got != c.v {
				t.Fatalf("round trip mismatch: got=%#x want=%#x", got, c.v)
			}
		})
	}
}

func TestBitAccumulator_ConcatenatedFields(t *testing.T) {
	var acc bitAccumulator
	var out []byte
	emit := func(b byte) bool { out = append(out, b); return true }

	fields := []struct {
		n uint
		v uint32
	}{{1, 1}, {9, 7}, {1, 0}, {8, 0xAB}, {3, 5}}

	for _, f := range fields {
		if !acc.writeBits(emit, f.n, f.v) {
			t.Fatalf("writeBits(%d,%d) failed", f.n, f.v)
		}
	}
	if !acc.flush(emit) {
		t.Fatal("flush failed")
	}

	var racc bitAccumulator
	in := out
	for i, f := range fields {
		got, ok := racc.readBits(&in, f.n)
		if !ok {
			t.Fatalf("field %d: readBits failed", i)
		}
		if got != f.v {
			t.Fatalf("field %d: got=%#x want=%#x", i, got, f.v)
		}
	}
}

func TestBitAccumulator_ResumableAcrossPartialInput(t *testing.T) {
	var acc bitAccumulator
	var out []byte
	emit := func(b byte) bool { out = append(out, b); return true }
	if !acc.writeBits(emit, 9, 0x155) {
		t.Fatal("writeBits failed")
	}
	if !acc.flush(emit) {
		t.Fatal("flush failed")
	}

	var racc bitAccumulator
	in := out[:0]
	if _, ok := racc.readBits(&in, 9); ok {
		t.Fatal("expected failure with no bytes available")
	}

	in = out[:1]
	if _, ok := racc.readBits(&in, 9); ok {
		t.Fatal("expected failure with only one byte available")
	}

	// resume with only the byte not yet pulled into the accumulator.
	in = out[1:]
	got, ok := racc.readBits(&in, 9)
	if !ok || got != 0x155 {
		t.Fatalf("resumed read failed: got=%#x ok=%v", got, ok)
	}
}

func TestBitAccumulator_WriteBitsStallsOnFullOutput(t *testing.T) {
	var acc bitAccumulator
	if !acc.writeBits(func(byte) bool { return true }, 9, 0x1FF) {
		t.Fatal("first writeBits unexpectedly failed")
	}

	calls := 0
	refusing := func(byte) bool { calls++; return false }
	if acc.writeBits(refusing, 1, 1) {
		t.Fatal("expected writeBits to fail when output is exhausted")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one emit attempt, got %d", calls)
	}

	var drained byte
	got := false
	accepting := func(b byte) bool { drained = b; got = true; return true }
	if !acc.writeBits(accepting, 1, 1) {
		t.Fatal("retried writeBits should succeed once output accepts")
	}
	if !got || drained != 0xFF {
		t.Fatalf("unexpected drained byte: %#x (got=%v)", drained, got)
	}
}

func TestBitAccumulator_FlushPadsToByteBoundary(t *testing.T) {
	var acc bitAccumulator
	var out []byte
	emit := func(b byte) bool { out = append(out, b); return true }

	if !acc.writeBits(emit, 3, 0x5) {
		t.Fatal("writeBits failed")
	}
	if !acc.flush(emit) {
		t.Fatal("flush failed")
	}
	if len(out) != 1 {
		t.Fatalf("expected exactly one padded byte, got %d", len(out))
	}
	if out[0]&0x7 != 0x5 {
		t.Fatalf("low 3 bits should be preserved: got %#x", out[0])
	}
	if out[0]>>3 != 0 {
		t.Fatalf("padding bits should be zero: got %#x", out[0])
	}
}

func TestBitAccumulator_ResidualZero(t *testing.T) {
	var acc bitAccumulator
	if !acc.residualZero() {
		t.Fatal("fresh accumulator should have zero residual")
	}

	var in = []byte{0x00}
	if _, ok := acc.readBits(&in, 1); !ok {
		t.Fatal("readBits should succeed")
	}
	if !acc.residualZero() {
		t.Fatal("all-zero residue should report zero")
	}

	var acc2 bitAccumulator
	in2 := []byte{0x02}
	if _, ok := acc2.readBits(&in2, 1); !ok {
		t.Fatal("readBits should succeed")
	}
	if acc2.residualZero() {
		t.Fatal("non-zero residue should not report zero")
	}
}
