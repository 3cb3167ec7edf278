// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

import "io"

// Compress is a convenience wrapper around Encoder for callers who have the
// whole input in memory and don't need to suspend mid-stream. It sizes the
// output with one pass in sizing mode, then encodes for real into a buffer
// of exactly that size.
func Compress(data []byte, opts Options) ([]byte, error) {
	sizer, err := NewEncoder(opts)
	if err != nil {
		return nil, err
	}
	size, status := sizer.CompressedSize(data)
	if status != StatusFinished {
		return nil, status
	}

	enc, err := NewEncoder(opts)
	if err != nil {
		return nil, err
	}

	out := make([]byte, size)
	p := &Params{In: data, Out: out}
	for {
		status := enc.Compress(p)
		if status != StatusOK {
			return nil, status
		}
		if len(p.In) == 0 {
			break
		}
	}
	if status := enc.Flush(p); status != StatusFinished {
		return nil, status
	}

	return out[:size-int64(len(p.Out))], nil
}

// Decompress is a convenience wrapper around Decoder for callers who have
// the whole compressed stream in memory. It sizes the output with one pass
// in sizing mode, then decodes for real into a buffer of exactly that size.
func Decompress(compressed []byte, opts Options) ([]byte, error) {
	sizer, err := NewDecoder(opts)
	if err != nil {
		return nil, err
	}
	size, status := sizer.DecompressedSize(compressed)
	if status != StatusFinished {
		return nil, status
	}

	dec, err := NewDecoder(opts)
	if err != nil {
		return nil, err
	}

	out := make([]byte, size)
	status = dec.Decompress(&Params{In: compressed, Out: out})
	if status != StatusFinished {
		return nil, status
	}

	return out, nil
}

// DecompressReader reads all of r, then decompresses it with Decompress. It
// does no incremental decoding of its own, matching the read-then-decode
// shape of a one-shot convenience wrapper rather than a true streaming
// io.Reader.
func DecompressReader(r io.Reader, opts Options) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decompress(src, opts)
}

// CompressReader reads all of r, then compresses it with Compress.
func CompressReader(r io.Reader, opts Options) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Compress(src, opts)
}
