// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snn

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/emer/etable/etensor"
	"github.com/goki/gi/gi"
)

// The persisted weight container holds exactly three named arrays.  An
// earlier implementation of this model wrote the feedforward weights a
// second time under the bias key; files written that way fail the bias
// shape check on import rather than being silently accepted.
const (
	ArrFFWts = "ff_weights"
	ArrFBWts = "fb_weights"
	ArrBias  = "bias"
)

// wtsVersion is the current weight-container format version.
const wtsVersion = 1

// wtsArray is one named array in the container: row-major float32 values
// with an explicit shape.
type wtsArray struct {
	Shape  []int
	Values []float32
}

// wtsFile is the on-disk weight container.
type wtsFile struct {
	Version int
	Arrays  map[string]wtsArray
}

// SaveWtsJSON saves the feedforward weights, feedback weights, and bias to
// the named file (gzipped if the filename ends in .gz).  An empty filename
// falls back to Params.SavePath; if that is also empty, fails with ErrNoPath.
func (nt *Network) SaveWtsJSON(filename gi.FileName) error {
	if filename == "" {
		if nt.Params.SavePath == "" {
			return fmt.Errorf("%w: no filename given and Params.SavePath is empty", ErrNoPath)
		}
		filename = gi.FileName(nt.Params.SavePath)
	}
	fp, err := os.Create(string(filename))
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(string(filename))
	if ext == ".gz" {
		gzr := gzip.NewWriter(fp)
		defer gzr.Close()
		return nt.WriteWtsJSON(gzr)
	}
	return nt.WriteWtsJSON(fp)
}

// OpenWtsJSON opens a weight container written by SaveWtsJSON (gzipped if
// the filename ends in .gz) and applies it via the validated setters, so a
// container whose shapes disagree with this network fails with ErrShape and
// leaves the current weights unchanged.
func (nt *Network) OpenWtsJSON(filename gi.FileName) error {
	fp, err := os.Open(string(filename))
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(string(filename))
	if ext == ".gz" {
		gzr, err := gzip.NewReader(fp)
		defer gzr.Close()
		if err != nil {
			log.Println(err)
			return err
		}
		return nt.ReadWtsJSON(gzr)
	}
	return nt.ReadWtsJSON(fp)
}

// WriteWtsJSON writes the weight container to the given writer.
func (nt *Network) WriteWtsJSON(w io.Writer) error {
	wf := wtsFile{
		Version: wtsVersion,
		Arrays: map[string]wtsArray{
			ArrFFWts: {Shape: nt.FFWts.Shp, Values: nt.FFWts.Values},
			ArrFBWts: {Shape: nt.FBWts.Shp, Values: nt.FBWts.Values},
			ArrBias:  {Shape: nt.Bias.Shp, Values: nt.Bias.Values},
		},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(&wf)
}

// ReadWtsJSON reads a weight container from the given reader and applies it
// through the validated setters.  The container must hold exactly the three
// canonical arrays; anything else is rejected.
func (nt *Network) ReadWtsJSON(r io.Reader) error {
	var wf wtsFile
	if err := json.NewDecoder(r).Decode(&wf); err != nil {
		log.Println(err)
		return err
	}
	if wf.Version != wtsVersion {
		return fmt.Errorf("%w: weight file version %d, want %d", ErrConfig, wf.Version, wtsVersion)
	}
	if len(wf.Arrays) != 3 {
		return fmt.Errorf("%w: weight file must contain exactly the arrays %s, %s, %s", ErrConfig, ArrFFWts, ArrFBWts, ArrBias)
	}
	for _, nm := range []string{ArrFFWts, ArrFBWts, ArrBias} {
		if _, ok := wf.Arrays[nm]; !ok {
			return fmt.Errorf("%w: weight file missing array %q", ErrConfig, nm)
		}
	}
	ff, err := arrTensor(wf.Arrays[ArrFFWts])
	if err != nil {
		return err
	}
	fb, err := arrTensor(wf.Arrays[ArrFBWts])
	if err != nil {
		return err
	}
	bias, err := arrTensor(wf.Arrays[ArrBias])
	if err != nil {
		return err
	}
	// validate all shapes before applying anything, so a mismatch anywhere
	// leaves the current weights fully unchanged
	if err := shapeMatch("feedforward weights", ff, nt.FFWts); err != nil {
		return err
	}
	if err := shapeMatch("feedback weights", fb, nt.FBWts); err != nil {
		return err
	}
	if err := shapeMatch("bias", bias, nt.Bias); err != nil {
		return err
	}
	if err := nt.SetFFWts(ff); err != nil {
		return err
	}
	if err := nt.SetFBWts(fb); err != nil {
		return err
	}
	return nt.SetBias(bias)
}

// arrTensor converts a container array to a tensor, checking that the
// value count matches the declared shape.
func arrTensor(ar wtsArray) (*etensor.Float32, error) {
	ln := 1
	for _, d := range ar.Shape {
		ln *= d
	}
	if ln != len(ar.Values) {
		return nil, fmt.Errorf("%w: array declares shape %v (%d values) but has %d values", ErrShape, ar.Shape, ln, len(ar.Values))
	}
	tsr := etensor.NewFloat32(ar.Shape, nil, nil)
	copy(tsr.Values, ar.Values)
	return tsr, nil
}
