// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
)

// logEps is added inside the logs for numerical stability.
const logEps = 1e-7

// Advance runs one timestep of the network given the input signal for the
// visible neurons (input+output in Train mode, input only in Test mode) and
// returns the per-learnable-neuron log-probability of the new spike state
// under the current membrane potential.
//
// One call performs, strictly in order: trace computation from the current
// history, potential computation, history slide, visible clamp, Bernoulli
// spike sampling for hidden (and, in Test mode, output) neurons,
// log-probability, and (Train mode only) gradient computation.  In Test mode
// the gradients keep their previous values.
func (nt *Network) Advance(input []float32) ([]float32, error) {
	if len(input) != nt.VisibleN() {
		return nil, fmt.Errorf("%w: input signal must have length %d (visible neurons in %v mode), got %d", ErrShape, nt.VisibleN(), nt.Mode, len(input))
	}

	nt.traces()
	nt.potentials()
	col := nt.slideHist()
	nt.clampAndSample(input, col)

	logProba := nt.logProba(col)
	if len(logProba) != nt.NLearnable() {
		return nil, fmt.Errorf("%w: log-probability must have length %d, got %d", ErrShape, nt.NLearnable(), len(logProba))
	}

	if nt.Mode == Train {
		nt.gradients(col)
	}
	return logProba, nil
}

// traces computes the filtered feedforward and feedback traces from the
// current history window: trace[j,b] = sum_t hist[j, last-t] * kernel[b,t],
// with the kernel truncated to the available history length (and the history
// to the kernel length, when the two windows differ).
func (nt *Network) traces() {
	nn := nt.NNeurons()
	last := nt.HistLen - 1
	nt.convolve(nt.FFTrace, nt.FFKernel, nn, last)
	nt.convolve(nt.FBTrace, nt.FBKernel, nn, last)
}

func (nt *Network) convolve(trace, kernel *etensor.Float32, nn, last int) {
	nb := kernel.Dim(0)
	span := kernel.Dim(1)
	if span > nt.HistLen {
		span = nt.HistLen
	}
	for j := 0; j < nn; j++ {
		for b := 0; b < nb; b++ {
			var sum float32
			for t := 0; t < span; t++ {
				sum += nt.Hist.Value([]int{j, last - t}) * kernel.Value([]int{b, t})
			}
			trace.Set([]int{j, b}, sum)
		}
	}
}

// potentials computes the feedforward, feedback, and total membrane
// potentials for each learnable neuron from the current traces.  The mask is
// already folded into FFWts (setter-path invariant), so the feedforward sum
// uses the weights directly.
func (nt *Network) potentials() {
	nl := nt.NLearnable()
	nn := nt.NNeurons()
	nbff := nt.Params.NBasisFF
	nbfb := nt.Params.NBasisFB
	nt.PotStats.Init()
	for i := 0; i < nl; i++ {
		var ff float32
		for j := 0; j < nn; j++ {
			for b := 0; b < nbff; b++ {
				ff += nt.FFWts.Value([]int{i, j, b}) * nt.FFTrace.Value([]int{j, b})
			}
		}
		var fb float32
		gi := nt.LearnIndex(i)
		for b := 0; b < nbfb; b++ {
			fb += nt.FBWts.Value([]int{i, b}) * nt.FBTrace.Value([]int{gi, b})
		}
		pot := ff + fb + nt.Bias.Values[i]
		nt.FFPot.Values[i] = ff
		nt.FBPot.Values[i] = fb
		nt.Pot.Values[i] = pot
		nt.PotStats.UpdateVal(pot, int32(i))
	}
	nt.PotStats.CalcAvg()
}

// slideHist advances the history window by one step: the window grows by one
// column until it reaches MemLen, after which the oldest column is dropped.
// Returns the index of the new (all-zero) column.
func (nt *Network) slideHist() int {
	nn := nt.NNeurons()
	mem := nt.MemLen()
	var col int
	if nt.HistLen < mem {
		nt.HistLen++
		col = nt.HistLen - 1
	} else {
		col = mem - 1
		for j := 0; j < nn; j++ {
			for t := 0; t < col; t++ {
				nt.Hist.Set([]int{j, t}, nt.Hist.Value([]int{j, t + 1}))
			}
		}
	}
	for j := 0; j < nn; j++ {
		nt.Hist.Set([]int{j, col}, 0)
	}
	return col
}

// clampAndSample writes the input signal into the visible rows of the new
// history column and samples the rest from Bernoulli(sigmoid(potential)).
// Visible = input+output in Train mode (the input vector carries both, input
// first), input only in Test mode, where output spikes are sampled instead.
func (nt *Network) clampAndSample(input []float32, col int) {
	for j := 0; j < nt.NInput; j++ {
		nt.Hist.Set([]int{j, col}, input[j])
	}
	if nt.Mode == Train {
		os := nt.OutputStart()
		for j := 0; j < nt.NOutput; j++ {
			nt.Hist.Set([]int{os + j, col}, input[nt.NInput+j])
		}
	}
	nnl := nt.NNonLearnable()
	hs := nt.HiddenStart()
	for j := 0; j < nt.NHidden; j++ {
		g := hs + j
		nt.Hist.Set([]int{g, col}, bernoulli(sigmoid(nt.Pot.Values[g-nnl])))
	}
	if nt.Mode == Test {
		os := nt.OutputStart()
		for j := 0; j < nt.NOutput; j++ {
			g := os + j
			nt.Hist.Set([]int{g, col}, bernoulli(sigmoid(nt.Pot.Values[g-nnl])))
		}
	}
}

// logProba returns the Bernoulli log-likelihood of each learnable neuron's
// new spike value under its current potential.
func (nt *Network) logProba(col int) []float32 {
	nl := nt.NLearnable()
	lp := make([]float32, nl)
	for i := 0; i < nl; i++ {
		spk := nt.Hist.Value([]int{nt.LearnIndex(i), col})
		sig := sigmoid(nt.Pot.Values[i])
		lp[i] = spk*math32.Log(logEps+sig) + (1-spk)*math32.Log(1+logEps-sig)
	}
	return lp
}

// gradients computes the log-likelihood gradients for bias, feedforward, and
// feedback weights.  The bias gradient is the Bernoulli natural-parameter
// score, spike - sigmoid(potential); the weight gradients are the score
// times the corresponding trace, masked for feedforward.
func (nt *Network) gradients(col int) {
	nl := nt.NLearnable()
	nn := nt.NNeurons()
	nbff := nt.Params.NBasisFF
	nbfb := nt.Params.NBasisFB
	for i := 0; i < nl; i++ {
		gi := nt.LearnIndex(i)
		score := nt.Hist.Value([]int{gi, col}) - sigmoid(nt.Pot.Values[i])
		nt.BiasGrad.Values[i] = score
		for j := 0; j < nn; j++ {
			for b := 0; b < nbff; b++ {
				idx := []int{i, j, b}
				nt.FFGrad.Set(idx, nt.FFTrace.Value([]int{j, b})*score*nt.FFMask.Value(idx))
			}
		}
		for b := 0; b < nbfb; b++ {
			nt.FBGrad.Set([]int{i, b}, nt.FBTrace.Value([]int{gi, b})*score)
		}
	}
}

// sigmoid is the logistic spike-probability link function.
func sigmoid(v float32) float32 {
	return 1 / (1 + math32.Exp(-v))
}

// bernoulli samples a binary spike with probability p.
func bernoulli(p float32) float32 {
	if rand.Float32() < p {
		return 1
	}
	return 0
}
