// SPDX-License-Identifier: MIT
// Copyright (c) 2026 fednetgo

package gkey

import "sync"

// DecoderPool recycles Decoder instances so callers processing many streams
// back-to-back with the same Options don't pay a fresh ring allocation each
// time. It is safe for concurrent use; individual Decoders it hands out are
// not.
type DecoderPool struct {
	opts Options
	pool sync.Pool
}

// NewDecoderPool returns a pool of Decoders configured with opts. Every
// Decoder it produces shares opts, so streams pulled from different Get
// calls must use a compatible HistoryLog2 to interoperate.
func NewDecoderPool(opts Options) *DecoderPool {
	p := &DecoderPool{opts: opts}
	p.pool.New = func() any {
		d, err := NewDecoder(p.opts)
		if err != nil {
			panicInvariant("DecoderPool.New", "%v", err)
		}
		return d
	}
	return p
}

// Get returns a Decoder ready for a fresh stream (Reset has already been
// called on reused instances).
func (p *DecoderPool) Get() *Decoder {
	d := p.pool.Get().(*Decoder)
	d.Reset()
	return d
}

// Put returns d to the pool for reuse.
func (p *DecoderPool) Put(d *Decoder) {
	if d == nil {
		return
	}
	p.pool.Put(d)
}

// EncoderPool is the Encoder counterpart of DecoderPool.
type EncoderPool struct {
	opts Options
	pool sync.Pool
}

// NewEncoderPool returns a pool of Encoders configured with opts.
func NewEncoderPool(opts Options) *EncoderPool {
	p := &EncoderPool{opts: opts}
	p.pool.New = func() any {
		e, err := NewEncoder(p.opts)
		if err != nil {
			panicInvariant("EncoderPool.New", "%v", err)
		}
		return e
	}
	return p
}

// Get returns an Encoder ready for a fresh stream.
func (p *EncoderPool) Get() *Encoder {
	e := p.pool.Get().(*Encoder)
	e.Reset()
	return e
}

// Put returns e to the pool for reuse.
func (p *EncoderPool) Put(e *Encoder) {
	if e == nil {
		return
	}
	p.pool.Put(e)
}
