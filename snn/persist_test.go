// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"bytes"
	"errors"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emer/glmsnn/filter"
	"github.com/goki/gi/gi"
)

func TestWtsRoundTrip(t *testing.T) {
	rand.Seed(20)
	src := MakeTestNet(t)
	dst := MakeTestNet(t) // different random weights

	var buf bytes.Buffer
	if err := src.WriteWtsJSON(&buf); err != nil {
		t.Fatal(err)
	}
	if err := dst.ReadWtsJSON(&buf); err != nil {
		t.Fatal(err)
	}
	want := src.Parameters()
	got := dst.Parameters()
	for _, nm := range []string{ArrFFWts, ArrFBWts, ArrBias} {
		CmprFloats(got[nm].Values, want[nm].Values, nm+" round trip", t)
	}
}

func TestWtsFileRoundTrip(t *testing.T) {
	rand.Seed(21)
	for _, fnm := range []string{"wts.json", "wts.json.gz"} {
		src := MakeTestNet(t)
		dst := MakeTestNet(t)
		path := gi.FileName(filepath.Join(t.TempDir(), fnm))
		if err := src.SaveWtsJSON(path); err != nil {
			t.Fatal(err)
		}
		if err := dst.OpenWtsJSON(path); err != nil {
			t.Fatal(err)
		}
		want := src.Parameters()
		got := dst.Parameters()
		for _, nm := range []string{ArrFFWts, ArrFBWts, ArrBias} {
			CmprFloats(got[nm].Values, want[nm].Values, fnm+" "+nm, t)
		}
	}
}

func TestSaveNoPath(t *testing.T) {
	nt := MakeTestNet(t)
	if err := nt.SaveWtsJSON(""); !errors.Is(err, ErrNoPath) {
		t.Errorf("save with no path and no default should fail with ErrNoPath, got %v", err)
	}
	nt.Params.SavePath = filepath.Join(t.TempDir(), "default.json")
	if err := nt.SaveWtsJSON(""); err != nil {
		t.Errorf("save should fall back to Params.SavePath, got %v", err)
	}
}

func TestReadWtsMissingArray(t *testing.T) {
	src := MakeTestNet(t)
	var buf bytes.Buffer
	if err := src.WriteWtsJSON(&buf); err != nil {
		t.Fatal(err)
	}
	broken := strings.Replace(buf.String(), `"bias"`, `"gain"`, 1)
	dst := MakeTestNet(t)
	if err := dst.ReadWtsJSON(strings.NewReader(broken)); !errors.Is(err, ErrConfig) {
		t.Errorf("container without a bias array should fail with ErrConfig, got %v", err)
	}
}

func TestImportShapeMismatch(t *testing.T) {
	rand.Seed(22)
	src := MakeTestNet(t)
	par := &NetParams{}
	par.Defaults()
	small, err := NewNetwork("Small", 2, 0, 1, fullTopo(1, 3), filter.RaisedCosine, filter.Exponential, par)
	if err != nil {
		t.Fatal(err)
	}
	before := small.Parameters()

	var buf bytes.Buffer
	if err := src.WriteWtsJSON(&buf); err != nil {
		t.Fatal(err)
	}
	if err := small.ReadWtsJSON(&buf); !errors.Is(err, ErrShape) {
		t.Errorf("import into a smaller network should fail with ErrShape, got %v", err)
	}
	after := small.Parameters()
	for _, nm := range []string{ArrFFWts, ArrFBWts, ArrBias} {
		CmprFloats(after[nm].Values, before[nm].Values, nm+" unchanged after failed import", t)
	}
}
