package tally

import (
	"cmp"
	"slices"
)

// PIDFreq counts occurrences per PID.
type PIDFreq map[int]int

// Add increments pid by n, allocating the map if needed.
func (f PIDFreq) Add(pid, n int) PIDFreq {
	if f == nil {
		f = make(PIDFreq)
	}
	f[pid] += n
	return f
}

// Total is the sum of all counts.
func (f PIDFreq) Total() int {
	n := 0
	for _, c := range f {
		n += c
	}
	return n
}

// PIDCount is one row of a frequency table.
type PIDCount struct {
	PID   int
	Count int
}

// MostCommon ranks the PIDs by decreasing count, ties by increasing PID.
func (f PIDFreq) MostCommon() []PIDCount {
	rows := make([]PIDCount, 0, len(f))
	for pid, n := range f {
		rows = append(rows, PIDCount{PID: pid, Count: n})
	}
	slices.SortFunc(rows, func(a, b PIDCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.PID, b.PID)
	})
	return rows
}
