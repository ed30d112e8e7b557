package data

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"hf-selopt/internal/model"
)

// record is one line of a JSON-lines stream: a track or a candidate.
type record struct {
	Kind string `json:"kind"`
	model.Candidate
	Track *model.Track `json:"track,omitempty"`
}

// JSONLSource streams candidates from JSON lines. Track lines are collected
// as they are read, so a candidate can only reference tracks that appear
// before it. The source doubles as the resolver for the scan.
type JSONLSource struct {
	sc     *bufio.Scanner
	tracks TrackTable
	line   int
}

func NewJSONLSource(r io.Reader) *JSONLSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return &JSONLSource{sc: sc, tracks: TrackTable{}}
}

func (s *JSONLSource) Track(id int64) (model.Track, bool) { return s.tracks.Track(id) }

// Next returns the next candidate. A malformed line ends the stream with an error.
func (s *JSONLSource) Next() (model.Candidate, error) {
	for s.sc.Scan() {
		s.line++
		raw := s.sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return model.Candidate{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		switch rec.Kind {
		case "track":
			if rec.Track == nil {
				return model.Candidate{}, fmt.Errorf("line %d: track record without track", s.line)
			}
			s.tracks[rec.Track.ID] = *rec.Track
		case "candidate", "":
			return rec.Candidate, nil
		default:
			return model.Candidate{}, fmt.Errorf("line %d: unknown record kind %q", s.line, rec.Kind)
		}
	}
	if err := s.sc.Err(); err != nil {
		return model.Candidate{}, err
	}
	return model.Candidate{}, io.EOF
}
