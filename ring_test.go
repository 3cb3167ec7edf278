// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

import (
	"bytes"
	"testing"
)

func newTestRing(t *testing.T, k uint) *historyRing {
	t.Helper()
	opts := DefaultOptions()
	opts.HistoryLog2 = k
	r, err := newHistoryRing(k, &opts)
	if err != nil {
		t.Fatalf("newHistoryRing failed: %v", err)
	}
	return r
}

func TestHistoryRing_WriteAndReadChar(t *testing.T) {
	r := newTestRing(t, 4) // capacity 16
	r.write([]byte("abcdefgh"))

	// offsets count forward from writePos (8): offset C-1 is the newest byte,
	// so "abcdefgh" sits at offsets 8..15.
	if got := r.readChar(15); got != 'h' {
		t.Fatalf("readChar(15) = %q, want 'h'", got)
	}
	if got := r.readChar(8); got != 'a' {
		t.Fatalf("readChar(8) = %q, want 'a'", got)
	}
}

func TestHistoryRing_WriteWrapsAndSetsFilled(t *testing.T) {
	r := newTestRing(t, 2) // capacity 4
	if r.filled {
		t.Fatal("fresh ring should not be filled")
	}

	r.write([]byte("abcd"))
	if !r.filled {
		t.Fatal("ring should be filled after writing exactly one capacity's worth")
	}

	r.write([]byte("ef"))
	// buf should now be "efcd" physically: positions 0,1 overwritten.
	if got := r.readChar(3); got != 'f' {
		t.Fatalf("readChar(3) after wrap = %q, want 'f'", got)
	}
}

func TestHistoryRing_FindCharVirginRegionShortcut(t *testing.T) {
	r := newTestRing(t, 4) // capacity 16, all-zero, nothing written yet

	off, ok := r.findChar(0, 16, 0)
	if !ok || off != 0 {
		t.Fatalf("findChar for zero in virgin region = (%d,%v), want (0,true)", off, ok)
	}

	if _, ok := r.findChar(0, 16, 'x'); ok {
		t.Fatal("findChar for non-zero byte in virgin region should fail")
	}
}

func TestHistoryRing_FindCharAfterWrite(t *testing.T) {
	r := newTestRing(t, 4)
	r.write([]byte("hello"))

	// "hello" is the newest five bytes: offsets 11..15.
	off, ok := r.findChar(11, 5, 'l')
	if !ok || off != 13 {
		t.Fatalf("findChar('l') = (%d,%v), want (13,true)", off, ok)
	}

	if _, ok := r.findChar(11, 5, 'z'); ok {
		t.Fatal("findChar for absent byte should fail")
	}
}

func TestHistoryRing_Compare(t *testing.T) {
	r := newTestRing(t, 4)
	r.write([]byte("abcabc01"))

	// "abcabc01" sits at offsets 8..15; offsets 8 and 11 both start "abc" runs.
	if cmp := r.compare(8, 11, 3); cmp != 0 {
		t.Fatalf("compare equal windows = %d, want 0", cmp)
	}
	if cmp := r.compare(8, 14, 1); cmp == 0 {
		t.Fatal("compare of differing windows should be non-zero")
	}
}

func TestHistoryRing_CompareAcrossPhysicalWrap(t *testing.T) {
	r := newTestRing(t, 2) // capacity 4
	r.write([]byte("ab"))
	r.write([]byte("ab")) // now physically wraps; logical content is still "abab"

	if cmp := r.compare(0, 2, 2); cmp != 0 {
		t.Fatalf("compare across wrap = %d, want 0", cmp)
	}
}

type fakeSink struct {
	limit int
	got   []byte
}

func (s *fakeSink) accept(chunk []byte) int {
	n := len(chunk)
	if s.limit >= 0 && n > s.limit {
		n = s.limit
	}
	s.got = append(s.got, chunk[:n]...)
	if s.limit >= 0 {
		s.limit -= n
	}
	return n
}

func TestHistoryRing_CopySelfReferential(t *testing.T) {
	r := newTestRing(t, 4) // capacity 16
	r.write([]byte("abc"))

	// "abc" is at offsets 13..15; copying it back doubles it, and copying the
	// resulting "abcabc" (offsets 10..15) doubles it again.
	sink := &fakeSink{limit: -1}
	copied := r.copy(sink, 13, 3)
	if copied != 3 {
		t.Fatalf("copy returned %d, want 3", copied)
	}
	copied = r.copy(sink, 10, 6)
	if copied != 6 {
		t.Fatalf("copy returned %d, want 6", copied)
	}
	if !bytes.Equal(sink.got, []byte("abcabcabc")) {
		t.Fatalf("copy content = %q, want %q", sink.got, "abcabcabc")
	}

	// the ring's own history should now also hold the expanded content,
	// as its newest twelve bytes (offsets 4..15).
	for i, want := range []byte("abcabcabcabc") {
		if got := r.readChar(uint(4 + i)); got != want {
			t.Fatalf("readChar(%d) = %q, want %q", 4+i, got, want)
		}
	}
}

func TestHistoryRing_CopyNilSinkIsPureHistoryUpdate(t *testing.T) {
	r := newTestRing(t, 4)
	r.write([]byte("xy"))

	// "xy" is at offsets 14..15; after copying it, "xyxy" is at 12..15.
	copied := r.copy(nil, 14, 2)
	if copied != 2 {
		t.Fatalf("copy returned %d, want 2", copied)
	}
	copied = r.copy(nil, 12, 4)
	if copied != 4 {
		t.Fatalf("copy returned %d, want 4", copied)
	}
	for i, want := range []byte("xyxyxyxy") {
		if got := r.readChar(uint(8 + i)); got != want {
			t.Fatalf("readChar(%d) = %q, want %q", 8+i, got, want)
		}
	}
}

func TestHistoryRing_CopyPartialSinkIsResumable(t *testing.T) {
	r := newTestRing(t, 4)
	r.write([]byte("abcabcabc")) // offsets 7..15

	sink := &fakeSink{limit: 4}
	copied := r.copy(sink, 7, 9)
	if copied != 4 {
		t.Fatalf("copy returned %d, want 4 (sink truncation)", copied)
	}
	if !bytes.Equal(sink.got, []byte("abca")) {
		t.Fatalf("partial copy content = %q, want %q", sink.got, "abca")
	}

	// resume: offset is unchanged (ring-relative to writePos), remaining length shrinks.
	sink2 := &fakeSink{limit: -1}
	copied2 := r.copy(sink2, 7, 9-4)
	if copied2 != 5 {
		t.Fatalf("resumed copy returned %d, want 5", copied2)
	}
	if !bytes.Equal(sink2.got, []byte("bcabc")) {
		t.Fatalf("resumed copy content = %q, want %q", sink2.got, "bcabc")
	}
}

func TestHistoryRing_ResetClearsContentAndFilled(t *testing.T) {
	r := newTestRing(t, 2)
	r.write([]byte("abcdXY"))
	if !r.filled {
		t.Fatal("expected filled after wrap")
	}

	r.reset()
	if r.filled {
		t.Fatal("filled should be false after reset")
	}
	if r.writePos != 0 {
		t.Fatalf("writePos after reset = %d, want 0", r.writePos)
	}
	for i := uint(0); i < r.capacity; i++ {
		if got := r.readChar(i); got != 0 {
			t.Fatalf("readChar(%d) after reset = %q, want zero", i, got)
		}
	}
}

func TestHistoryRing_ReadCharOutOfRangePanics(t *testing.T) {
	r := newTestRing(t, 2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range offset")
		}
	}()
	r.readChar(r.capacity)
}
