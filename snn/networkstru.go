// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"errors"
	"fmt"

	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
	"github.com/emer/glmsnn/filter"
)

// Error kinds. All are programming errors on the caller's side and propagate
// uncaught: no retry, no recovery.
var (
	// ErrShape reports a tensor whose shape does not exactly match what the
	// network requires (topology at construction, setters, weight import).
	ErrShape = errors.New("snn: shape mismatch")

	// ErrConfig reports an unrecognized mode or task value.
	ErrConfig = errors.New("snn: invalid config")

	// ErrNoPath reports a save with no filename and no default save path.
	ErrNoPath = errors.New("snn: no save path")
)

// NetParams are the scalar hyperparameters of a Network.
type NetParams struct {
	NBasisFF int     `def:"1" min:"1" desc:"number of feedforward basis functions"`
	NBasisFB int     `def:"1" min:"1" desc:"number of feedback basis functions"`
	TauFF    int     `def:"1" min:"1" desc:"feedforward kernel window length in timesteps"`
	TauFB    int     `def:"1" min:"1" desc:"feedback kernel window length in timesteps"`
	Mu       float32 `def:"1" min:"0" desc:"kernel scale / spacing parameter, passed through to the kernel constructors"`
	WtMag    float32 `def:"0.1" min:"0" desc:"weights and biases are initialized ~ Unif[-WtMag, +WtMag]"`
	Task     Tasks   `desc:"which neurons are learnable: Supervised = hidden+output, Unsupervised = all"`
	Mode     Modes   `desc:"initial running mode"`
	SavePath string  `desc:"default filename for SaveWtsJSON when called with an empty name"`
}

func (np *NetParams) Defaults() {
	np.NBasisFF = 1
	np.NBasisFB = 1
	np.TauFF = 1
	np.TauFB = 1
	np.Mu = 1
	np.WtMag = 0.1
	np.Task = Supervised
	np.Mode = Train
}

func (np *NetParams) Update() {
}

// Network is a GLM spiking network: one fused set of neurons partitioned
// into input / hidden / output ranges, with feedforward synapses given by an
// explicit topology matrix and one self-recurrent feedback filter per
// learnable neuron.  It exclusively owns all of its state; callers must
// serialize Advance calls on the same instance (independent instances are
// fully isolated and may run in separate goroutines).
type Network struct {
	Nm      string          `desc:"network name"`
	NInput  int             `desc:"number of input neurons (indices [0, NInput))"`
	NHidden int             `desc:"number of hidden neurons (next NHidden indices)"`
	NOutput int             `desc:"number of output neurons (last NOutput indices)"`
	Task    Tasks           `desc:"learnable-set selection, fixed at construction"`
	Mode    Modes           `desc:"current running mode -- change via SetMode"`
	Params  NetParams       `desc:"scalar hyperparameters, fixed at construction"`
	WtInit  erand.RndParams `view:"inline" desc:"initial weight distribution: Uniform, Mean 0, Var = WtMag"`

	FFKernel *etensor.Float32 `desc:"feedforward basis kernel [NBasisFF, TauFF]"`
	FBKernel *etensor.Float32 `desc:"feedback basis kernel [NBasisFB, TauFB]"`

	FFWts  *etensor.Float32 `desc:"feedforward weights [NLearnable, NNeurons, NBasisFF] -- always 0 where FFMask is 0"`
	FFMask *etensor.Float32 `desc:"connection mask [NLearnable, NNeurons, NBasisFF] from the topology, self-connections zeroed"`
	FBWts  *etensor.Float32 `desc:"feedback weights [NLearnable, NBasisFB], self-recurrent per learnable neuron"`
	Bias   *etensor.Float32 `desc:"bias [NLearnable]"`

	Hist    *etensor.Float32 `desc:"spiking history window [NNeurons, MemLen], column HistLen-1 = most recent step"`
	HistLen int              `desc:"number of valid history columns: grows from 1 up to MemLen, then the window slides"`

	Pot      *etensor.Float32 `desc:"membrane potential [NLearnable] from the last Advance"`
	FFPot    *etensor.Float32 `desc:"feedforward component of the potential [NLearnable]"`
	FBPot    *etensor.Float32 `desc:"feedback component of the potential [NLearnable]"`
	PotStats minmax.AvgMax32  `inactive:"+" desc:"average and max potential from the last Advance"`

	FFTrace *etensor.Float32 `desc:"last filtered feedforward trace [NNeurons, NBasisFF] (independent of the postsynaptic neuron, so computed once and broadcast)"`
	FBTrace *etensor.Float32 `desc:"last filtered feedback trace [NNeurons, NBasisFB]"`

	BiasGrad *etensor.Float32 `desc:"bias gradient [NLearnable] = spike - sigmoid(potential); only updated in Train mode"`
	FFGrad   *etensor.Float32 `desc:"feedforward weight gradient, same shape as FFWts; only updated in Train mode"`
	FBGrad   *etensor.Float32 `desc:"feedback weight gradient, same shape as FBWts; only updated in Train mode"`
}

// NewNetwork constructs a network from neuron counts, a feedforward topology
// matrix of shape [NLearnable, NNeurons] (entry (i,j) != 0 means a synapse
// from neuron j to learnable neuron i), kernel constructors for the
// feedforward and feedback filters, and hyperparameters.  Weights and biases
// are drawn ~ Unif[-WtMag, +WtMag] where the topology permits a connection.
// Fails with ErrConfig for an invalid mode or task, ErrShape for a topology
// of the wrong shape.
func NewNetwork(name string, nInput, nHidden, nOutput int, topo *etensor.Float32, ffk, fbk filter.KernelFunc, par *NetParams) (*Network, error) {
	if par.Mode < 0 || par.Mode >= ModesN {
		return nil, fmt.Errorf("%w: unrecognized mode %d", ErrConfig, par.Mode)
	}
	if par.Task < 0 || par.Task >= TasksN {
		return nil, fmt.Errorf("%w: unrecognized task %d", ErrConfig, par.Task)
	}
	nt := &Network{Nm: name, NInput: nInput, NHidden: nHidden, NOutput: nOutput}
	nt.Params = *par
	nt.Task = par.Task
	nt.Mode = par.Mode

	nn := nt.NNeurons()
	nl := nt.NLearnable()
	if topo.NumDims() != 2 || topo.Dim(0) != nl || topo.Dim(1) != nn {
		return nil, fmt.Errorf("%w: topology must be [%d, %d] (learnable x neurons), got %v", ErrShape, nl, nn, topo.Shp)
	}

	nt.WtInit.Dist = erand.Uniform
	nt.WtInit.Mean = 0
	nt.WtInit.Var = float64(par.WtMag)

	nt.FFKernel = ffk(par.TauFF, par.NBasisFF, par.Mu)
	nt.FBKernel = fbk(par.TauFB, par.NBasisFB, par.Mu)

	nt.FFMask = etensor.NewFloat32([]int{nl, nn, par.NBasisFF}, nil, []string{"Recv", "Send", "Basis"})
	for i := 0; i < nl; i++ {
		for j := 0; j < nn; j++ {
			if topo.Value([]int{i, j}) == 0 || j == nt.LearnIndex(i) {
				continue // self-connections forced off regardless of topology
			}
			for b := 0; b < par.NBasisFF; b++ {
				nt.FFMask.Set([]int{i, j, b}, 1)
			}
		}
	}

	nt.FFWts = etensor.NewFloat32([]int{nl, nn, par.NBasisFF}, nil, []string{"Recv", "Send", "Basis"})
	nt.FBWts = etensor.NewFloat32([]int{nl, par.NBasisFB}, nil, []string{"Recv", "Basis"})
	nt.Bias = etensor.NewFloat32([]int{nl}, nil, []string{"Recv"})

	nt.Hist = etensor.NewFloat32([]int{nn, nt.MemLen()}, nil, []string{"Neuron", "Time"})
	nt.Pot = etensor.NewFloat32([]int{nl}, nil, []string{"Recv"})
	nt.FFPot = etensor.NewFloat32([]int{nl}, nil, []string{"Recv"})
	nt.FBPot = etensor.NewFloat32([]int{nl}, nil, []string{"Recv"})
	nt.FFTrace = etensor.NewFloat32([]int{nn, par.NBasisFF}, nil, []string{"Send", "Basis"})
	nt.FBTrace = etensor.NewFloat32([]int{nn, par.NBasisFB}, nil, []string{"Neuron", "Basis"})
	nt.BiasGrad = etensor.NewFloat32([]int{nl}, nil, []string{"Recv"})
	nt.FFGrad = etensor.NewFloat32([]int{nl, nn, par.NBasisFF}, nil, []string{"Recv", "Send", "Basis"})
	nt.FBGrad = etensor.NewFloat32([]int{nl, par.NBasisFB}, nil, []string{"Recv", "Basis"})

	nt.InitWts()
	nt.ResetState()
	return nt, nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Neuron indexing

// NNeurons returns the total neuron count.
func (nt *Network) NNeurons() int { return nt.NInput + nt.NHidden + nt.NOutput }

// NLearnable returns the number of learnable neurons: hidden+output in
// Supervised task, all neurons in Unsupervised.
func (nt *Network) NLearnable() int {
	if nt.Task == Supervised {
		return nt.NHidden + nt.NOutput
	}
	return nt.NNeurons()
}

// NNonLearnable returns the number of non-learnable neurons, which are
// always the leading input neurons (possibly none).
func (nt *Network) NNonLearnable() int { return nt.NNeurons() - nt.NLearnable() }

// LearnIndex returns the global neuron index of the li-th learnable neuron.
func (nt *Network) LearnIndex(li int) int { return nt.NNonLearnable() + li }

// HiddenStart returns the global index of the first hidden neuron.
func (nt *Network) HiddenStart() int { return nt.NInput }

// OutputStart returns the global index of the first output neuron.
func (nt *Network) OutputStart() int { return nt.NInput + nt.NHidden }

// VisibleN returns the length of the input signal Advance expects in the
// current mode: input+output neurons in Train, input neurons only in Test.
func (nt *Network) VisibleN() int {
	if nt.Mode == Train {
		return nt.NInput + nt.NOutput
	}
	return nt.NInput
}

// MemLen returns the history window length, max(TauFF, TauFB).
func (nt *Network) MemLen() int {
	if nt.Params.TauFF > nt.Params.TauFB {
		return nt.Params.TauFF
	}
	return nt.Params.TauFB
}

// SetMode switches the running mode, which changes the visible-neuron set.
// Fails with ErrConfig for an out-of-range mode.
func (nt *Network) SetMode(mode Modes) error {
	if mode < 0 || mode >= ModesN {
		return fmt.Errorf("%w: unrecognized mode %d", ErrConfig, mode)
	}
	nt.Mode = mode
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init / Reset

// InitWts initializes (or re-initializes) the feedforward weights, feedback
// weights, and bias from the uniform WtInit distribution, respecting the
// feedforward mask.  Does not touch history or potentials.
func (nt *Network) InitWts() {
	for li := range nt.FFWts.Values {
		nt.FFWts.Values[li] = nt.FFMask.Values[li] * float32(nt.WtInit.Gen(-1))
	}
	for li := range nt.FBWts.Values {
		nt.FBWts.Values[li] = float32(nt.WtInit.Gen(-1))
	}
	for li := range nt.Bias.Values {
		nt.Bias.Values[li] = float32(nt.WtInit.Gen(-1))
	}
}

// ResetState zeroes the spiking history (back to a single all-zero column)
// and the potentials.  Does not touch weights or gradients.
func (nt *Network) ResetState() {
	zero(nt.Hist.Values)
	nt.HistLen = 1
	zero(nt.Pot.Values)
	zero(nt.FFPot.Values)
	zero(nt.FBPot.Values)
	nt.PotStats.Init()
}

func zero(vals []float32) {
	for i := range vals {
		vals[i] = 0
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Setters

// SetFFWts replaces the feedforward weights after validating that the new
// tensor's shape exactly matches.  The feedforward mask is applied on the
// way in, maintaining the invariant that weights are 0 wherever the topology
// forbids a connection.  On ErrShape the prior weights are unchanged.
func (nt *Network) SetFFWts(wts *etensor.Float32) error {
	if err := shapeMatch("feedforward weights", wts, nt.FFWts); err != nil {
		return err
	}
	for li := range nt.FFWts.Values {
		nt.FFWts.Values[li] = wts.Values[li] * nt.FFMask.Values[li]
	}
	return nil
}

// SetFBWts replaces the feedback weights after validating shape.
func (nt *Network) SetFBWts(wts *etensor.Float32) error {
	if err := shapeMatch("feedback weights", wts, nt.FBWts); err != nil {
		return err
	}
	copy(nt.FBWts.Values, wts.Values)
	return nil
}

// SetBias replaces the bias after validating shape.
func (nt *Network) SetBias(bias *etensor.Float32) error {
	if err := shapeMatch("bias", bias, nt.Bias); err != nil {
		return err
	}
	copy(nt.Bias.Values, bias.Values)
	return nil
}

// shapeMatch fails with ErrShape unless got has exactly the shape of trg.
func shapeMatch(what string, got, trg *etensor.Float32) error {
	ok := got.NumDims() == trg.NumDims()
	if ok {
		for d := 0; d < trg.NumDims(); d++ {
			if got.Dim(d) != trg.Dim(d) {
				ok = false
				break
			}
		}
	}
	if !ok {
		return fmt.Errorf("%w: %s must be %v, got %v", ErrShape, what, trg.Shp, got.Shp)
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Snapshots

// Parameters returns a snapshot of the current parameters under the
// canonical array names: ff_weights, fb_weights, bias.
func (nt *Network) Parameters() map[string]*etensor.Float32 {
	return map[string]*etensor.Float32{
		ArrFFWts: cloneF32(nt.FFWts),
		ArrFBWts: cloneF32(nt.FBWts),
		ArrBias:  cloneF32(nt.Bias),
	}
}

// Gradients returns a snapshot of the gradients from the last Train-mode
// Advance, under the same names as Parameters.
func (nt *Network) Gradients() map[string]*etensor.Float32 {
	return map[string]*etensor.Float32{
		ArrFFWts: cloneF32(nt.FFGrad),
		ArrFBWts: cloneF32(nt.FBGrad),
		ArrBias:  cloneF32(nt.BiasGrad),
	}
}

// History returns a snapshot of the valid spiking-history window,
// shape [NNeurons, HistLen], column HistLen-1 = most recent step.
func (nt *Network) History() *etensor.Float32 {
	nn := nt.NNeurons()
	h := etensor.NewFloat32([]int{nn, nt.HistLen}, nil, []string{"Neuron", "Time"})
	for j := 0; j < nn; j++ {
		for t := 0; t < nt.HistLen; t++ {
			h.Set([]int{j, t}, nt.Hist.Value([]int{j, t}))
		}
	}
	return h
}

func cloneF32(tsr *etensor.Float32) *etensor.Float32 {
	c := etensor.NewFloat32(tsr.Shp, nil, tsr.Nms)
	copy(c.Values, tsr.Values)
	return c
}

// Describe returns a one-line summary of the network structure for logs.
func (nt *Network) Describe() string {
	return fmt.Sprintf("%s: %d neurons (%d in, %d hid, %d out), %d learnable, %v %v, ff basis %d tau %d, fb basis %d tau %d",
		nt.Nm, nt.NNeurons(), nt.NInput, nt.NHidden, nt.NOutput, nt.NLearnable(), nt.Task, nt.Mode,
		nt.Params.NBasisFF, nt.Params.TauFF, nt.Params.NBasisFB, nt.Params.TauFB)
}
