// Command gen writes a toy candidate sample for smoke tests and demos.
// Prompt and non-prompt signal candidates are displaced and well pointed,
// background is spread close to the primary vertex.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"hf-selopt/internal/model"
)

type generator struct {
	rng    *rand.Rand
	nextID int64
	tracks []model.Track
}

func (g *generator) track(pt, dcaSigma float64) int64 {
	g.nextID++
	g.tracks = append(g.tracks, model.Track{
		ID:    g.nextID,
		Pt:    pt,
		DCAxy: g.rng.NormFloat64() * dcaSigma,
	})
	return g.nextID
}

// candidate builds one candidate of the given class. channel is the decay
// bit the candidate is matched to when it is signal.
func (g *generator) candidate(p model.Prong, class model.Class, channel int) model.Candidate {
	pt := g.rng.ExpFloat64() * 3
	c := model.Candidate{Prong: p, Pt: pt}

	var dca float64
	switch class {
	case model.ClassPrompt:
		c.CosPointing = 1 - math.Abs(g.rng.NormFloat64())*0.01
		c.DecayLength = g.rng.ExpFloat64() * 0.03
		dca = 0.005
	case model.ClassNonPrompt:
		c.CosPointing = 1 - math.Abs(g.rng.NormFloat64())*0.02
		c.DecayLength = g.rng.ExpFloat64() * 0.08
		dca = 0.01
	default:
		c.CosPointing = 2*g.rng.Float64() - 1
		c.DecayLength = g.rng.ExpFloat64() * 0.01
		dca = 0.002
	}

	for i := 0; i < int(p); i++ {
		c.TrackIDs = append(c.TrackIDs, g.track(pt/float64(p)*(0.5+g.rng.Float64()), dca))
	}
	if p == model.Prong2 {
		c.ImpParProd = g.rng.NormFloat64() * dca * dca
	}

	c.DecayFlags = 1 << uint(channel)
	switch class {
	case model.ClassPrompt:
		c.MCMatch = int32(1 << uint(channel))
		c.Origin = model.OriginPrompt
	case model.ClassNonPrompt:
		c.MCMatch = -int32(1 << uint(channel))
		c.Origin = model.OriginNonPrompt
	}
	// occasionally flag a second channel to exercise the summary priority
	if g.rng.Float64() < 0.1 {
		c.DecayFlags |= 1 << uint(g.rng.Intn(model.NumChannels(p)))
	}
	return c
}

func pickClass(rng *rand.Rand, signalFrac float64) model.Class {
	x := rng.Float64()
	switch {
	case x < signalFrac/2:
		return model.ClassPrompt
	case x < signalFrac:
		return model.ClassNonPrompt
	default:
		return model.ClassBackground
	}
}

func main() {
	n2 := flag.Int("n2", 1000, "Number of 2-prong candidates")
	n3 := flag.Int("n3", 500, "Number of 3-prong candidates")
	signal := flag.Float64("signal", 0.3, "Fraction of signal candidates (split evenly prompt/non-prompt)")
	seed := flag.Int64("seed", 1, "Random seed")
	out := flag.String("out", "sample.json", "Output sample JSON path")
	flag.Parse()

	if *signal < 0 || *signal > 1 {
		fmt.Fprintln(os.Stderr, "error: --signal must be in [0,1]")
		os.Exit(2)
	}

	g := &generator{rng: rand.New(rand.NewSource(*seed))}
	var s model.Sample
	for i := 0; i < *n2; i++ {
		ch := g.rng.Intn(model.NumChannels(model.Prong2))
		s.Candidates2 = append(s.Candidates2, g.candidate(model.Prong2, pickClass(g.rng, *signal), ch))
	}
	for i := 0; i < *n3; i++ {
		ch := g.rng.Intn(model.NumChannels(model.Prong3))
		s.Candidates3 = append(s.Candidates3, g.candidate(model.Prong3, pickClass(g.rng, *signal), ch))
	}
	s.Tracks = g.tracks

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		panic(err)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		panic(err)
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d tracks, %d 2-prong and %d 3-prong candidates to %s\n",
		len(s.Tracks), len(s.Candidates2), len(s.Candidates3), *out)
}
