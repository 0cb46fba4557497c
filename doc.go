// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package glmsnn is the overall repository for a generalized linear model (GLM)
spiking neural network implemented in the Go language (golang), trained online
by maximizing the log-likelihood of observed spike trains, without
backpropagation through time.

This top-level of the repository has no functional code -- everything is
organized into the following sub-repositories:

* snn: the core implementation: the network state machine with filtered
feedforward / feedback spike traces, Bernoulli spike sampling from
sigmoid-transformed membrane potentials, and the per-timestep local gradient
rule for the feedforward weights, feedback weights, and biases.

* filter: temporal basis-function kernels (raised cosine, exponential decay)
used to filter the bounded spiking history into the traces that drive the
membrane potential.

* examples: these compile into runnable programs exercising the core.
examples/bernoulli is the place to start: an online maximum-likelihood
training loop over random binary spike patterns.
*/
package glmsnn
