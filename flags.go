package etabkg

import (
	"fmt"
	"strconv"
)

// FloatArrayFlags collects repeated float flags. The first Set replaces any
// default values, later ones append.
type FloatArrayFlags struct {
	Array   []float64
	beenSet bool
}

func (f *FloatArrayFlags) Set(valueStr string) error {
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return err
	}

	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	f.Array = append(f.Array, value)
	return nil
}

func (f *FloatArrayFlags) String() string {
	return fmt.Sprint(f.Array)
}

func (f *FloatArrayFlags) Type() string {
	return "float"
}

// Changed reports whether Set was called at least once.
func (f *FloatArrayFlags) Changed() bool {
	return f.beenSet
}

// Window interprets the collected values as an open (low, high) interval.
func (f *FloatArrayFlags) Window() (low, high float64, err error) {
	if len(f.Array) != 2 {
		return 0, 0, fmt.Errorf("expected 2 values, got %d", len(f.Array))
	}
	low, high = f.Array[0], f.Array[1]
	if high <= low {
		return 0, 0, fmt.Errorf("illegal range (%g, %g)", low, high)
	}
	return low, high, nil
}
