// Package classify assigns candidates to prompt, non-prompt or background
// per decay channel from their MC-reconstruction flags.
package classify

import "hf-selopt/internal/model"

// Outcome is the classification of a candidate for one decay channel.
type Outcome struct {
	Channel model.Channel
	Class   model.Class
}

// Decision is everything the scan needs for one candidate: the per-channel
// outcomes in channel order and at most one summary class.
type Decision struct {
	Outcomes   []Outcome
	Summary    model.Class
	HasSummary bool
}

type flags uint8

const (
	flagPrompt flags = 1 << iota
	flagNonPrompt
	flagBkg
)

// Classify inspects every decay bit of c below the channel count for its
// multiplicity. A bit whose single-bit value equals |MCMatch| is signal and
// takes its class from the origin; any other set bit is background. A matched
// bit with an origin that is neither prompt nor non-prompt produces no outcome.
func Classify(c model.Candidate) Decision {
	var d Decision
	var seen flags
	n := model.NumChannels(c.Prong)
	match := c.AbsMCMatch()
	for i := 0; i < n; i++ {
		if !c.HasDecay(i) {
			continue
		}
		ch := model.Channel(i)
		if match == int64(1)<<uint(i) {
			switch c.Origin {
			case model.OriginPrompt:
				seen |= flagPrompt
				d.Outcomes = append(d.Outcomes, Outcome{Channel: ch, Class: model.ClassPrompt})
			case model.OriginNonPrompt:
				seen |= flagNonPrompt
				d.Outcomes = append(d.Outcomes, Outcome{Channel: ch, Class: model.ClassNonPrompt})
			}
			continue
		}
		seen |= flagBkg
		d.Outcomes = append(d.Outcomes, Outcome{Channel: ch, Class: model.ClassBackground})
	}
	d.Summary, d.HasSummary = seen.summary()
	return d
}

// summary picks one class with priority prompt > non-prompt > background.
func (f flags) summary() (model.Class, bool) {
	switch {
	case f&flagPrompt != 0:
		return model.ClassPrompt, true
	case f&flagNonPrompt != 0:
		return model.ClassNonPrompt, true
	case f&flagBkg != 0:
		return model.ClassBackground, true
	}
	return 0, false
}
