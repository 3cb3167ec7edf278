// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

// maxLen is max_len(p) from spec §4.E: the longest match that could ever
// start at ring-offset p, given the AllowMostRecentByteAsSource toggle. It
// shrinks monotonically as p grows, which is what lets the outer search
// loop in findSequence recognise "no later candidate could possibly beat
// the current best" just by comparing against it.
func (e *Encoder) maxLen(p uint) uint {
	limit := maxReadOffset(e.k) - e.delta
	if p >= limit {
		return 0
	}
	return limit - p
}

// findSequence runs (or resumes) the longest-match search for the next
// token, updating e.bestReadOffset/e.bestReadSize as it goes. It returns
// true once a match is committed (bestReadSize may be 0, meaning "no match,
// emit a literal"), or false if it had to suspend waiting for more input —
// in which case all search scratch has already been saved on e and the
// next call to findSequence resumes exactly where this one left off.
//
// The search is a straightforward greedy longest-match scan: it walks
// candidate positions p across the whole history window, using findChar to
// skip straight to the next position whose first byte could possibly
// extend the current best match, then verifies and extends from there.
// There is no hash-chain index; every candidate the window could offer is
// visited in ring order, which is appropriate at the window sizes spec §1
// bounds this format to (C <= 512).
func (e *Encoder) findSequence(p *Params) bool {
	for {
		var length uint

		if e.extending {
			length = e.extendLen
			e.extending = false
		} else {
			maxLen := e.maxLen(e.searchPos)
			if e.bestReadSize >= maxLen {
				return true
			}

			target, ok := e.nextTarget(p)
			if !ok {
				if e.flushing {
					return true
				}
				return false
			}

			found, ok := e.ring.findChar(e.searchPos, maxLen-e.bestReadSize, target)
			if !ok {
				return true
			}
			e.searchPos = found

			length = 1
			if e.bestReadSize > 0 {
				if e.bestReadSize > 1 && e.ring.compare(e.searchPos+1, e.bestReadOffset+1, e.bestReadSize-1) != 0 {
					e.searchPos++
					continue
				}
				length = e.bestReadSize
			}
		}

		maxLen := e.maxLen(e.searchPos)
		for length < maxLen {
			nb, ok := e.peekPending(p, int(length))
			if !ok {
				if e.flushing {
					break
				}
				e.extending = true
				e.extendLen = length
				return false
			}
			if e.ring.readChar(e.searchPos+length) != nb {
				break
			}
			length++
		}

		if length > e.bestReadSize {
			e.bestReadOffset = e.searchPos
			e.bestReadSize = length
		}
		e.searchPos++
	}
}

// nextTarget picks the byte candidates at e.searchPos must match next: the
// first byte of the pending input (when no match has been found yet) or
// the first byte of the current best match (when refining it further),
// per spec §4.E step 2.
func (e *Encoder) nextTarget(p *Params) (byte, bool) {
	if e.bestReadSize == 0 {
		return e.peekPending(p, 0)
	}
	return e.ring.readChar(e.bestReadOffset), true
}
