package sink

import (
	"fmt"

	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"

	"hf-selopt/internal/store"
)

// WriteROOT stores every counter of st as TH1D/TH2D in a new ROOT file.
func WriteROOT(path string, st *store.Store) error {
	f, err := riofs.Create(path)
	if err != nil {
		return err
	}

	for _, h := range ToHbook(st) {
		if h.H1 != nil {
			err = f.Put(h.Name, rhist.NewH1DFrom(h.H1))
		} else {
			err = f.Put(h.Name, rhist.NewH2DFrom(h.H2))
		}
		if err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", h.Name, err)
		}
	}
	return f.Close()
}
