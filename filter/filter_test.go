// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import "testing"

func TestKernelShapes(t *testing.T) {
	for _, fn := range []KernelFunc{RaisedCosine, Exponential} {
		k := fn(10, 3, 1)
		if k.NumDims() != 2 || k.Dim(0) != 3 || k.Dim(1) != 10 {
			t.Errorf("wrong kernel shape: %v", k.Shp)
		}
	}
}

func TestRaisedCosinePeaks(t *testing.T) {
	k := RaisedCosine(9, 3, 1)
	// each basis peaks at its own center, spread across the window
	for b := 0; b < 3; b++ {
		pk := 0
		for lag := 1; lag < 9; lag++ {
			if k.Value([]int{b, lag}) > k.Value([]int{b, pk}) {
				pk = lag
			}
		}
		if b > 0 {
			prev := 0
			for lag := 1; lag < 9; lag++ {
				if k.Value([]int{b - 1, lag}) > k.Value([]int{b - 1, prev}) {
					prev = lag
				}
			}
			if pk <= prev {
				t.Errorf("basis %d peak %d not after basis %d peak %d", b, pk, b-1, prev)
			}
		}
	}
}

func TestExponentialDecay(t *testing.T) {
	k := Exponential(10, 2, 1)
	for b := 0; b < 2; b++ {
		if k.Value([]int{b, 0}) != 1 {
			t.Errorf("basis %d should start at 1, got %g", b, k.Value([]int{b, 0}))
		}
		for lag := 1; lag < 10; lag++ {
			if k.Value([]int{b, lag}) >= k.Value([]int{b, lag - 1}) {
				t.Errorf("basis %d not decaying at lag %d", b, lag)
			}
		}
	}
}

func TestParamsKernel(t *testing.T) {
	fp := Params{}
	fp.Defaults()
	k := fp.Kernel(Exponential)
	if k.Dim(0) != 1 || k.Dim(1) != 1 {
		t.Errorf("default params should make a [1,1] kernel, got %v", k.Shp)
	}
	if k.Value([]int{0, 0}) != 1 {
		t.Errorf("lag-0 weight should be 1, got %g", k.Value([]int{0, 0}))
	}
}
