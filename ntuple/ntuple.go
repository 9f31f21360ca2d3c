// Package ntuple reads the candidate ntuple TTree from ROOT files and hands
// each entry to the event decoder.
package ntuple

import (
	"errors"
	"fmt"
	"math"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"

	"github.com/decibelcooper/etabkg/event"
)

// Branch names of the ntuple.
const (
	TagPID    = "tag_pid"
	PrtPID    = "prt_pid"
	PrtIdxGen = "prt_idx_gen"
	PrtIdxMom = "prt_idx_mom"
	MCPID     = "mc_pid"
	MCIdxMom  = "mc_idx_mom"
	MCPx      = "mc_px"
	MCPy      = "mc_py"
	MCPz      = "mc_pz"
)

var (
	required = []string{TagPID, PrtPID, PrtIdxGen, PrtIdxMom, MCPID, MCIdxMom}
	optional = []string{MCPx, MCPy, MCPz}
)

// ErrMissingBranch is returned when a required branch is absent.
var ErrMissingBranch = errors.New("missing branch")

// ScanFunc receives one entry. Raw slices are reused between calls.
type ScanFunc func(entry int64, raw event.Raw) error

// ScanFiles scans the tree of every file in turn. Entry numbers continue
// across files.
func ScanFiles(paths []string, tree string, fn ScanFunc) error {
	var offset int64
	for _, path := range paths {
		n, err := scan(path, tree, offset, fn)
		if err != nil {
			return err
		}
		offset += n
	}
	return nil
}

// Scan scans the tree of one file.
func Scan(path, tree string, fn ScanFunc) error {
	_, err := scan(path, tree, 0, fn)
	return err
}

func scan(path, tree string, offset int64, fn ScanFunc) (int64, error) {
	f, err := groot.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open %q: %w", path, err)
	}
	defer f.Close()

	obj, err := f.Get(tree)
	if err != nil {
		return 0, fmt.Errorf("could not retrieve tree %q from %q: %w", tree, path, err)
	}
	t, ok := obj.(rtree.Tree)
	if !ok {
		return 0, fmt.Errorf("object %q in %q is not a tree (%T)", tree, path, obj)
	}

	rvars, err := selectVars(rtree.NewReadVars(t))
	if err != nil {
		return 0, fmt.Errorf("could not read %q: %w", path, err)
	}

	r, err := rtree.NewReader(t, rvars)
	if err != nil {
		return 0, fmt.Errorf("could not create reader for %q: %w", path, err)
	}
	defer r.Close()

	var (
		raw   event.Raw
		nread int64
	)
	err = r.Read(func(ctx rtree.RCtx) error {
		if err := fill(&raw, rvars); err != nil {
			return fmt.Errorf("entry %d: %w", ctx.Entry, err)
		}
		nread++
		return fn(offset+ctx.Entry, raw)
	})
	if err != nil {
		return nread, fmt.Errorf("could not read %q: %w", path, err)
	}
	return nread, nil
}

func selectVars(all []rtree.ReadVar) ([]rtree.ReadVar, error) {
	byName := make(map[string]rtree.ReadVar, len(all))
	for _, rv := range all {
		byName[rv.Name] = rv
	}

	var rvars []rtree.ReadVar
	for _, name := range required {
		rv, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingBranch, name)
		}
		rvars = append(rvars, rv)
	}
	for _, name := range optional {
		if rv, ok := byName[name]; ok {
			rvars = append(rvars, rv)
		}
	}
	return rvars, nil
}

func fill(raw *event.Raw, rvars []rtree.ReadVar) error {
	var err error
	for _, rv := range rvars {
		switch rv.Name {
		case TagPID:
			raw.TagPID, err = Ints(raw.TagPID[:0], rv.Value)
		case PrtPID:
			raw.PrtPID, err = Ints(raw.PrtPID[:0], rv.Value)
		case PrtIdxGen:
			raw.PrtIdxGen, err = Ints(raw.PrtIdxGen[:0], rv.Value)
		case PrtIdxMom:
			raw.PrtIdxMom, err = Ints(raw.PrtIdxMom[:0], rv.Value)
		case MCPID:
			raw.MCPID, err = Ints(raw.MCPID[:0], rv.Value)
		case MCIdxMom:
			raw.MCIdxMom, err = Ints(raw.MCIdxMom[:0], rv.Value)
		case MCPx:
			raw.MCPx, err = Floats(raw.MCPx[:0], rv.Value)
		case MCPy:
			raw.MCPy, err = Floats(raw.MCPy[:0], rv.Value)
		case MCPz:
			raw.MCPz, err = Floats(raw.MCPz[:0], rv.Value)
		}
		if err != nil {
			return fmt.Errorf("branch %q: %w", rv.Name, err)
		}
	}
	return nil
}

type integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type float interface {
	~float32 | ~float64
}

// Ints appends the values behind v to dst. v is a pointer to a slice or a
// scalar of any signed or unsigned integer or floating point leaf type, as
// produced by rtree. Floating point values are rounded: the ntuples store PIDs
// and indices as doubles. Other types, bool and strings included, are an
// error.
func Ints(dst []int, v any) ([]int, error) {
	switch v := v.(type) {
	case *[]float64:
		return appendRounded(dst, *v), nil
	case *[]float32:
		return appendRounded(dst, *v), nil
	case *[]int64:
		return appendInts(dst, *v), nil
	case *[]int32:
		return appendInts(dst, *v), nil
	case *[]int16:
		return appendInts(dst, *v), nil
	case *[]int8:
		return appendInts(dst, *v), nil
	case *[]uint64:
		return appendInts(dst, *v), nil
	case *[]uint32:
		return appendInts(dst, *v), nil
	case *[]uint16:
		return appendInts(dst, *v), nil
	case *[]uint8:
		return appendInts(dst, *v), nil
	case *float64:
		return append(dst, int(math.Round(*v))), nil
	case *float32:
		return append(dst, int(math.Round(float64(*v)))), nil
	case *int64:
		return append(dst, int(*v)), nil
	case *int32:
		return append(dst, int(*v)), nil
	case *int16:
		return append(dst, int(*v)), nil
	case *int8:
		return append(dst, int(*v)), nil
	case *uint64:
		return append(dst, int(*v)), nil
	case *uint32:
		return append(dst, int(*v)), nil
	case *uint16:
		return append(dst, int(*v)), nil
	case *uint8:
		return append(dst, int(*v)), nil
	}
	return dst, fmt.Errorf("unsupported value type %T", v)
}

// Floats is the floating point counterpart of Ints and accepts the same
// leaf types.
func Floats(dst []float64, v any) ([]float64, error) {
	switch v := v.(type) {
	case *[]float64:
		return append(dst, *v...), nil
	case *[]float32:
		return appendFloats(dst, *v), nil
	case *[]int64:
		return appendFloats(dst, *v), nil
	case *[]int32:
		return appendFloats(dst, *v), nil
	case *[]int16:
		return appendFloats(dst, *v), nil
	case *[]int8:
		return appendFloats(dst, *v), nil
	case *[]uint64:
		return appendFloats(dst, *v), nil
	case *[]uint32:
		return appendFloats(dst, *v), nil
	case *[]uint16:
		return appendFloats(dst, *v), nil
	case *[]uint8:
		return appendFloats(dst, *v), nil
	case *float64:
		return append(dst, *v), nil
	case *float32:
		return append(dst, float64(*v)), nil
	case *int64:
		return append(dst, float64(*v)), nil
	case *int32:
		return append(dst, float64(*v)), nil
	case *int16:
		return append(dst, float64(*v)), nil
	case *int8:
		return append(dst, float64(*v)), nil
	case *uint64:
		return append(dst, float64(*v)), nil
	case *uint32:
		return append(dst, float64(*v)), nil
	case *uint16:
		return append(dst, float64(*v)), nil
	case *uint8:
		return append(dst, float64(*v)), nil
	}
	return dst, fmt.Errorf("unsupported value type %T", v)
}

func appendFloats[T integer | float](dst []float64, src []T) []float64 {
	for _, x := range src {
		dst = append(dst, float64(x))
	}
	return dst
}

func appendInts[T integer](dst []int, src []T) []int {
	for _, x := range src {
		dst = append(dst, int(x))
	}
	return dst
}

func appendRounded[T float](dst []int, src []T) []int {
	for _, x := range src {
		dst = append(dst, int(math.Round(float64(x))))
	}
	return dst
}
