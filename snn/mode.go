// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"fmt"
	"strings"

	"github.com/goki/ki/kit"
)

//////////////////////////////////////////////////////////////////////////////////////
//  Modes

// Modes are the running modes of the network, which determine the set of
// visible neurons (those whose spikes are clamped from the input signal
// rather than sampled) and whether gradients are computed.
type Modes int

//go:generate stringer -type=Modes

var KiT_Modes = kit.Enums.AddEnum(ModesN, kit.NotBitFlag, nil)

func (ev Modes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Modes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The network running modes
const (
	// Train clamps both input and output neurons from the input signal and
	// computes gradients every step.
	Train Modes = iota

	// Test clamps only the input neurons; output spikes are sampled, and
	// gradients are left untouched (stale from the last Train step).
	Test

	ModesN
)

// FromString sets the mode from a lowercase config string ("train" or "test").
func (ev *Modes) FromString(s string) error {
	switch strings.ToLower(s) {
	case "train":
		*ev = Train
	case "test":
		*ev = Test
	default:
		return fmt.Errorf("%w: mode must be one of train or test, got %q", ErrConfig, s)
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Tasks

// Tasks determine which neurons are learnable: in Supervised mode only the
// hidden and output neurons learn, while in Unsupervised mode all neurons do.
type Tasks int

//go:generate stringer -type=Tasks

var KiT_Tasks = kit.Enums.AddEnum(TasksN, kit.NotBitFlag, nil)

func (ev Tasks) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Tasks) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The learning tasks
const (
	// Supervised excludes the input neurons from the learnable set, avoiding
	// computations with unnecessarily large weight tensors.
	Supervised Tasks = iota

	// Unsupervised makes every neuron learnable.
	Unsupervised

	TasksN
)

// FromString sets the task from a lowercase config string
// ("supervised" or "unsupervised").
func (ev *Tasks) FromString(s string) error {
	switch strings.ToLower(s) {
	case "supervised":
		*ev = Supervised
	case "unsupervised":
		*ev = Unsupervised
	default:
		return fmt.Errorf("%w: task must be one of supervised or unsupervised, got %q", ErrConfig, s)
	}
	return nil
}
