package data

import (
	"encoding/json"
	"os"

	"hf-selopt/internal/model"
)

func LoadSampleJSON(path string) (*model.Sample, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeSample(raw)
}

func DecodeSample(raw []byte) (*model.Sample, error) {
	var s model.Sample
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// TrackTable resolves tracks by id. It is read-only once built and may be
// shared between scan workers.
type TrackTable map[int64]model.Track

func NewTrackTable(tracks []model.Track) TrackTable {
	t := make(TrackTable, len(tracks))
	for _, tr := range tracks {
		t[tr.ID] = tr
	}
	return t
}

func (t TrackTable) Track(id int64) (model.Track, bool) {
	tr, ok := t[id]
	return tr, ok
}

// Chunk splits cands into at most n contiguous parts of near-equal size.
func Chunk(cands []model.Candidate, n int) [][]model.Candidate {
	if n <= 1 || len(cands) <= 1 {
		return [][]model.Candidate{cands}
	}
	if n > len(cands) {
		n = len(cands)
	}
	out := make([][]model.Candidate, 0, n)
	size := len(cands) / n
	rem := len(cands) % n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		out = append(out, cands[start:end])
		start = end
	}
	return out
}
