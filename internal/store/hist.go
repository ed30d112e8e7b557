package store

import (
	"errors"
	"math"
	"math/bits"
)

var ErrCounterOverflow = errors.New("counter overflow")

func inc(c *uint64) error {
	if *c == math.MaxUint64 {
		return ErrCounterOverflow
	}
	*c++
	return nil
}

// addAll adds src into dst element-wise. dst is left untouched on overflow.
func addAll(dst, src []uint64) error {
	for i := range dst {
		if _, carry := bits.Add64(dst[i], src[i], 0); carry != 0 {
			return ErrCounterOverflow
		}
	}
	for i := range dst {
		dst[i] += src[i]
	}
	return nil
}

// Hist1D counts candidates per pT storage bin (underflow and overflow included).
type Hist1D struct {
	counts []uint64
}

func newHist1D(nbins int) *Hist1D {
	return &Hist1D{counts: make([]uint64, nbins)}
}

func (h *Hist1D) Inc(bin int) error { return inc(&h.counts[bin]) }

func (h *Hist1D) Count(bin int) uint64 { return h.counts[bin] }

func (h *Hist1D) Len() int { return len(h.counts) }

// Counts returns a copy of the per-bin counts.
func (h *Hist1D) Counts() []uint64 { return append([]uint64(nil), h.counts...) }

// Hist2D counts candidates per (pT storage bin, threshold index).
// Threshold index 0 is reserved so that index i+1 maps to grid value i.
type Hist2D struct {
	nx, ny int
	counts []uint64
}

func newHist2D(nx, ny int) *Hist2D {
	return &Hist2D{nx: nx, ny: ny, counts: make([]uint64, nx*ny)}
}

func (h *Hist2D) at(x, y int) int { return x*h.ny + y }

func (h *Hist2D) Inc(x, y int) error { return inc(&h.counts[h.at(x, y)]) }

func (h *Hist2D) Count(x, y int) uint64 { return h.counts[h.at(x, y)] }

// NX is the number of pT storage bins, NY the number of threshold slots
// including the reserved index 0.
func (h *Hist2D) NX() int { return h.nx }
func (h *Hist2D) NY() int { return h.ny }

// ProjectY sums over pT for every threshold index.
func (h *Hist2D) ProjectY() []float64 {
	out := make([]float64, h.ny)
	for x := 0; x < h.nx; x++ {
		for y := 0; y < h.ny; y++ {
			out[y] += float64(h.counts[h.at(x, y)])
		}
	}
	return out
}
