package model

import (
	"errors"
	"fmt"
	"math"
)

// Prong is the number of charged daughters of a decay candidate.
type Prong int

const (
	Prong2 Prong = 2
	Prong3 Prong = 3
)

func (p Prong) Valid() bool { return p == Prong2 || p == Prong3 }

func (p Prong) String() string { return fmt.Sprintf("%dProng", int(p)) }

// Origin is the generator-level origin attached by MC matching.
// Values follow the reconstruction tables: 0 none, 1 prompt, 2 non-prompt.
type Origin int8

const (
	OriginNone      Origin = 0
	OriginPrompt    Origin = 1
	OriginNonPrompt Origin = 2
)

// Track carries the track attributes the selection study needs.
// Units:
// - Pt: GeV/c
// - DCAxy: cm, signed transverse impact parameter to the primary vertex
type Track struct {
	ID    int64   `json:"id"`
	Pt    float64 `json:"pt"`
	DCAxy float64 `json:"dca_xy"`
}

// Candidate is one reconstructed 2- or 3-prong decay candidate joined with
// its MC-reconstruction columns.
type Candidate struct {
	Prong Prong   `json:"prong"`
	Pt    float64 `json:"pt"`

	CosPointing float64 `json:"cpa"`
	DecayLength float64 `json:"decay_length"`
	// ImpParProd is only meaningful for 2-prong candidates.
	ImpParProd float64 `json:"imp_par_prod,omitempty"`

	// DecayFlags has bit i set when the candidate passed the preselection
	// of decay channel i for its multiplicity.
	DecayFlags uint32 `json:"hfflag"`
	// MCMatch is the signed reconstruction-level match flag, 0 if unmatched.
	MCMatch int32  `json:"flag_mc_match_rec"`
	Origin  Origin `json:"origin_mc_rec"`

	TrackIDs []int64 `json:"track_ids"`
}

func (c Candidate) Validate() error {
	if !c.Prong.Valid() {
		return fmt.Errorf("unsupported prong multiplicity %d", int(c.Prong))
	}
	if len(c.TrackIDs) != int(c.Prong) {
		return fmt.Errorf("%s candidate references %d tracks", c.Prong, len(c.TrackIDs))
	}
	if math.IsNaN(c.Pt) || c.Pt < 0 {
		return errors.New("candidate pt must be >= 0")
	}
	return nil
}

// HasDecay reports whether decay bit i is set.
func (c Candidate) HasDecay(i int) bool {
	return c.DecayFlags&(1<<uint(i)) != 0
}

// AbsMCMatch is |MCMatch| widened so that math.MinInt32 does not overflow.
func (c Candidate) AbsMCMatch() int64 {
	m := int64(c.MCMatch)
	if m < 0 {
		return -m
	}
	return m
}
