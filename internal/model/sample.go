package model

// Sample matches the JSON shape of a candidate sample file.
//
// Example:
// {
//   "tracks": [{"id": 1, "pt": 1.2, "dca_xy": -0.003}, ...],
//   "candidates_2prong": [ ... ],
//   "candidates_3prong": [ ... ]
// }
type Sample struct {
	Tracks      []Track     `json:"tracks"`
	Candidates2 []Candidate `json:"candidates_2prong"`
	Candidates3 []Candidate `json:"candidates_3prong"`
}

// Candidates returns 2-prong candidates followed by 3-prong candidates,
// the order in which a task over both tables visits them.
func (s *Sample) Candidates() []Candidate {
	out := make([]Candidate, 0, len(s.Candidates2)+len(s.Candidates3))
	for _, c := range s.Candidates2 {
		if c.Prong == 0 {
			c.Prong = Prong2
		}
		out = append(out, c)
	}
	for _, c := range s.Candidates3 {
		if c.Prong == 0 {
			c.Prong = Prong3
		}
		out = append(out, c)
	}
	return out
}
