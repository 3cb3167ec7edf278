// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

import "bytes"

// historyRing is the fixed-capacity circular byte buffer shared by Decoder
// and Encoder (spec §3, §4.A). Capacity is always a power of two, C=1<<k.
//
// Offsets passed to readChar/findChar/compare/copy are measured forward
// from writePos: ring-offset 0 addresses the single oldest byte still held
// (the one writePos is about to overwrite next), and ring-offset C-1
// addresses the most recently written byte. This is the convention the
// wire format's read_offset field uses.
type historyRing struct {
	buf      []byte
	capacity uint
	mask     uint
	writePos uint
	filled   bool
}

// newHistoryRing allocates a ring of capacity 1<<k via opts' allocator.
// The allocated buffer is zero-initialised, which findChar's virgin-region
// shortcut depends on (spec §4.A).
func newHistoryRing(k uint, opts *Options) (*historyRing, error) {
	capacity := uint(1) << k
	buf, err := opts.allocate(int(capacity))
	if err != nil {
		return nil, err
	}

	return &historyRing{
		buf:      buf,
		capacity: capacity,
		mask:     capacity - 1,
	}, nil
}

// reset restores zero content, writePos=0, filled=false without
// reallocating (spec §3 lifecycle).
func (h *historyRing) reset() {
	for i := range h.buf {
		h.buf[i] = 0
	}
	h.writePos = 0
	h.filled = false
}

// write appends src, wrapping modulo capacity. Setting filled on any wrap
// transition is the only way filled becomes true (spec §4.A).
func (h *historyRing) write(src []byte) {
	for len(src) > 0 {
		spaceToEnd := h.capacity - h.writePos
		n := uint(len(src))
		if n > spaceToEnd {
			n = spaceToEnd
		}

		copy(h.buf[h.writePos:h.writePos+n], src[:n])
		h.writePos += n
		if h.writePos == h.capacity {
			h.writePos = 0
			h.filled = true
		}

		src = src[n:]
	}
}

// readChar returns the byte at ring-offset offset past writePos.
func (h *historyRing) readChar(offset uint) byte {
	if offset >= h.capacity {
		panicInvariant("historyRing.readChar", "offset %d >= capacity %d", offset, h.capacity)
	}

	return h.buf[(h.writePos+offset)&h.mask]
}

// findChar searches for byte c starting offset past writePos, looking at
// most n bytes in ring order. Returns the matching ring-offset and true, or
// (0, false) if not found.
//
// When filled is false and the search range lies entirely in the virgin
// region (untouched bytes past writePos, which are zero by construction),
// the answer is known without scanning: the range's start if c==0, else not
// found. This is the optimisation spec §4.A calls for so repeated
// match-finding over fresh history doesn't pay for a byte-wise scan of
// bytes it already knows are zero.
func (h *historyRing) findChar(offset, n uint, c byte) (uint, bool) {
	if offset+n > h.capacity {
		panicInvariant("historyRing.findChar", "offset+n (%d+%d) > capacity %d", offset, n, h.capacity)
	}
	if n == 0 {
		return 0, false
	}

	if !h.filled && h.writePos+offset+n <= h.capacity {
		if c == 0 {
			return offset, true
		}
		return 0, false
	}

	first, second := h.physicalRegion(offset, n)
	if idx := bytes.IndexByte(first, c); idx >= 0 {
		return offset + uint(idx), true
	}
	if idx := bytes.IndexByte(second, c); idx >= 0 {
		return offset + uint(len(first)) + uint(idx), true
	}

	return 0, false
}

// compare lexicographically compares the two length-n windows starting at
// ring-offsets o1 and o2, treating bytes as unsigned (spec §4.A). It walks
// both windows in lockstep, splitting at whichever window's physical end
// comes first, so it never needs to materialise a copy of either window.
func (h *historyRing) compare(o1, o2, n uint) int {
	if o1+n > h.capacity || o2+n > h.capacity {
		panicInvariant("historyRing.compare", "window exceeds capacity: o1=%d o2=%d n=%d cap=%d", o1, o2, n, h.capacity)
	}

	p1 := (h.writePos + o1) & h.mask
	p2 := (h.writePos + o2) & h.mask

	for n > 0 {
		chunk := n
		if avail := h.capacity - p1; avail < chunk {
			chunk = avail
		}
		if avail := h.capacity - p2; avail < chunk {
			chunk = avail
		}

		if cmp := bytes.Compare(h.buf[p1:p1+chunk], h.buf[p2:p2+chunk]); cmp != 0 {
			return cmp
		}

		p1 = wrapAdd(p1, chunk, h.capacity)
		p2 = wrapAdd(p2, chunk, h.capacity)
		n -= chunk
	}

	return 0
}

// ringSink is the closed, two-variant destination ring.copy can splice a
// self-copy into (spec §9): the decoder's output-window writer, or the
// encoder's bit-stream literal-run writer. A nil sink accepts everything
// unconditionally, used for the encoder's pure history update in PutSize.
type ringSink interface {
	accept(chunk []byte) (accepted int)
}

// copy performs a self-copy: it reads n bytes starting at ring-offset
// offset, offers each maximal contiguous physical sub-range to sink, and
// appends exactly the accepted bytes via write. It returns the total
// accepted, which is less than n only if sink truncated (spec §4.A) — the
// call is then resumable, since write has already advanced writePos by the
// accepted amount.
//
// Pre: offset+n <= capacity. This is what guarantees the source area never
// straddles writePos: every source byte this call reads still holds its
// pre-call value when read, because writePos only advances within [0,n)
// relative to its start-of-call position and every source ring-offset is
// offset+j >= j, so write() never catches up to a not-yet-read source byte
// before this call returns.
func (h *historyRing) copy(sink ringSink, offset, n uint) uint {
	if offset+n > h.capacity {
		panicInvariant("historyRing.copy", "offset+n (%d+%d) > capacity %d", offset, n, h.capacity)
	}

	var total uint
	remaining := n
	srcPos := (h.writePos + offset) & h.mask

	for remaining > 0 {
		avail := h.capacity - srcPos
		chunkLen := remaining
		if chunkLen > avail {
			chunkLen = avail
		}

		chunk := h.buf[srcPos : srcPos+chunkLen]

		var accepted int
		if sink != nil {
			accepted = sink.accept(chunk)
		} else {
			accepted = len(chunk)
		}
		if accepted < 0 || uint(accepted) > chunkLen {
			panicInvariant("historyRing.copy", "sink accepted %d of %d offered bytes", accepted, chunkLen)
		}

		if accepted > 0 {
			h.write(chunk[:accepted])
			total += uint(accepted)
		}
		if uint(accepted) < chunkLen {
			return total
		}

		srcPos = wrapAdd(srcPos, chunkLen, h.capacity)
		remaining -= chunkLen
	}

	return total
}

// physicalRegion splits the logical window [offset, offset+n) past
// writePos into at most two physically-contiguous slices of the backing
// array, in order.
func (h *historyRing) physicalRegion(offset, n uint) (first, second []byte) {
	if n == 0 {
		return nil, nil
	}

	start := (h.writePos + offset) & h.mask
	end := start + n
	if end <= h.capacity {
		return h.buf[start:end], nil
	}

	return h.buf[start:h.capacity], h.buf[0 : end-h.capacity]
}

func wrapAdd(pos, n, capacity uint) uint {
	pos += n
	if pos == capacity {
		return 0
	}
	return pos
}
