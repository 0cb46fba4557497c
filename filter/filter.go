// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package filter provides temporal basis-function kernels for filtering spike
histories in GLM spiking network models.

A kernel is a fixed weighting function over spike lag: row b, column t holds
the weight that basis function b assigns to a spike that occurred t steps ago
(column 0 = most recent step).  Convolving a neuron's time-reversed spiking
history against a kernel yields the per-basis trace that drives the membrane
potential.

Two standard bases are provided: RaisedCosine, the raised cosine bump basis
widely used for GLM point-process models, and Exponential, a bank of
decaying exponentials with time constants spread across the kernel window.
*/
package filter

import (
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// KernelFunc constructs a basis-kernel tensor of shape [nBasis, tau] given
// the kernel window length tau (in timesteps), the number of basis functions,
// and a scale / spacing parameter mu.  This is the contract network
// constructors accept for their feedforward and feedback filters.
type KernelFunc func(tau, nBasis int, mu float32) *etensor.Float32

// Params specifies a basis-function kernel.
type Params struct {
	Tau    int     `def:"1" min:"1" desc:"kernel window length: number of spike-history timesteps the kernel spans"`
	NBasis int     `def:"1" min:"1" desc:"number of basis functions (rows of the kernel)"`
	Mu     float32 `def:"1" min:"0" desc:"scale / spacing parameter: stretches the basis time constants or centers across the window"`
}

func (fp *Params) Defaults() {
	fp.Tau = 1
	fp.NBasis = 1
	fp.Mu = 1
}

func (fp *Params) Update() {
}

// Kernel builds the kernel for these params using the given constructor.
func (fp *Params) Kernel(fn KernelFunc) *etensor.Float32 {
	return fn(fp.Tau, fp.NBasis, fp.Mu)
}

// RaisedCosine returns a raised cosine basis kernel [nBasis, tau].
// Basis b is 0.5*(1+cos(pi*(t-c_b)/w)) within one half-period of its center
// c_b and 0 outside; centers are spread evenly across the window and the
// half-width w grows with mu so that adjacent bases overlap.
func RaisedCosine(tau, nBasis int, mu float32) *etensor.Float32 {
	k := etensor.NewFloat32([]int{nBasis, tau}, nil, []string{"Basis", "Lag"})
	if tau <= 0 || nBasis <= 0 {
		return k
	}
	spread := float32(tau-1) / float32(nBasis) // center-to-center distance
	width := mat32.Max(mu*mat32.Max(spread, 1), 1)
	for b := 0; b < nBasis; b++ {
		ctr := float32(b) * spread
		for t := 0; t < tau; t++ {
			d := (float32(t) - ctr) / width
			if d > -1 && d < 1 {
				k.Set([]int{b, t}, 0.5*(1+mat32.Cos(mat32.Pi*d)))
			}
		}
	}
	return k
}

// Exponential returns a bank of decaying exponential kernels [nBasis, tau].
// Basis b decays as exp(-t/tc_b) with time constants tc_b = mu*tau*(b+1)/nBasis
// spread from fast to slow across the window.
func Exponential(tau, nBasis int, mu float32) *etensor.Float32 {
	k := etensor.NewFloat32([]int{nBasis, tau}, nil, []string{"Basis", "Lag"})
	if tau <= 0 || nBasis <= 0 {
		return k
	}
	for b := 0; b < nBasis; b++ {
		tc := mu * float32(tau) * float32(b+1) / float32(nBasis)
		if tc <= 0 {
			tc = 1
		}
		for t := 0; t < tau; t++ {
			k.Set([]int{b, t}, mat32.Exp(-float32(t)/tc))
		}
	}
	return k
}
