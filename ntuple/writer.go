package ntuple

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"

	"github.com/decibelcooper/etabkg/event"
)

// MCReqPass is the per generator particle acceptance branch written next to
// the ntuple branches: 1 inside the fiducial acceptance, 0 outside.
const MCReqPass = "mc_req_pass"

// Writer writes entries with the branch layout Scan reads. PIDs and indices
// are stored as doubles, like the input ntuples.
type Writer struct {
	path string
	f    *groot.File
	w    rtree.Writer

	vars    [9][]float64
	reqPass []int32
	n       int64
}

// Create creates path and a tree named tree inside it.
func Create(path, tree string) (*Writer, error) {
	f, err := groot.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create %q: %w", path, err)
	}

	wr := &Writer{path: path, f: f}
	names := [9]string{TagPID, PrtPID, PrtIdxGen, PrtIdxMom, MCPID, MCIdxMom, MCPx, MCPy, MCPz}
	wvars := make([]rtree.WriteVar, 0, len(names)+1)
	for i, name := range names {
		wvars = append(wvars, rtree.WriteVar{Name: name, Value: &wr.vars[i]})
	}
	wvars = append(wvars, rtree.WriteVar{Name: MCReqPass, Value: &wr.reqPass})

	wr.w, err = rtree.NewWriter(f, tree, wvars)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not create tree %q in %q: %w", tree, path, err)
	}
	return wr, nil
}

// Write appends one entry. pass holds the acceptance flag of each generator
// particle and may be nil.
func (wr *Writer) Write(raw event.Raw, pass []bool) error {
	for i, src := range [][]int{raw.TagPID, raw.PrtPID, raw.PrtIdxGen, raw.PrtIdxMom, raw.MCPID, raw.MCIdxMom} {
		wr.vars[i] = wr.vars[i][:0]
		for _, v := range src {
			wr.vars[i] = append(wr.vars[i], float64(v))
		}
	}
	wr.vars[6] = append(wr.vars[6][:0], raw.MCPx...)
	wr.vars[7] = append(wr.vars[7][:0], raw.MCPy...)
	wr.vars[8] = append(wr.vars[8][:0], raw.MCPz...)

	wr.reqPass = wr.reqPass[:0]
	for _, ok := range pass {
		var v int32
		if ok {
			v = 1
		}
		wr.reqPass = append(wr.reqPass, v)
	}

	if _, err := wr.w.Write(); err != nil {
		return fmt.Errorf("could not write entry %d to %q: %w", wr.n, wr.path, err)
	}
	wr.n++
	return nil
}

// Entries is the number of entries written so far.
func (wr *Writer) Entries() int64 { return wr.n }

// Close flushes the tree and closes the file.
func (wr *Writer) Close() error {
	if err := wr.w.Close(); err != nil {
		wr.f.Close()
		return fmt.Errorf("could not close tree in %q: %w", wr.path, err)
	}
	if err := wr.f.Close(); err != nil {
		return fmt.Errorf("could not close %q: %w", wr.path, err)
	}
	return nil
}
