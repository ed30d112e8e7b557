package store

import (
	"hf-selopt/internal/cuts"
	"hf-selopt/internal/model"
)

// Key addresses one counter family.
type Key struct {
	Prong   model.Prong
	Class   model.Class
	Channel model.Channel
}

// IsSummary reports whether k is the per-prong summary slot.
func (k Key) IsSummary() bool { return k.Channel == model.SummaryChannel(k.Prong) }

// Name is the stable identifier of the yield counter, e.g. "hPromptVsPtD0ToPiK".
func (k Key) Name() string {
	return "h" + k.Class.String() + "VsPt" + model.ChannelName(k.Prong, k.Channel)
}

// CutName is the stable identifier of the 2D counter for d,
// e.g. "hBkgMinDCAxyVsPt3Prong".
func (k Key) CutName(d cuts.Dimension) string {
	return "h" + k.Class.String() + d.String() + "VsPt" + model.ChannelName(k.Prong, k.Channel)
}

var prongs = []model.Prong{model.Prong2, model.Prong3}

// AllKeys enumerates every reachable key in storage order.
func AllKeys() []Key {
	var out []Key
	for _, p := range prongs {
		for _, c := range model.Classes() {
			for ch := 0; ch <= model.NumChannels(p); ch++ {
				out = append(out, Key{Prong: p, Class: c, Channel: model.Channel(ch)})
			}
		}
	}
	return out
}

// index flattens a key; ok is false for unreachable keys.
func index(k Key) (int, bool) {
	nch := model.NumChannels(k.Prong)
	if nch == 0 || k.Class < 0 || int(k.Class) >= model.NumClasses || k.Channel < 0 || int(k.Channel) > nch {
		return 0, false
	}
	off := 0
	for _, p := range prongs {
		if p == k.Prong {
			break
		}
		off += model.NumClasses * (model.NumChannels(p) + 1)
	}
	return off + int(k.Class)*(nch+1) + int(k.Channel), true
}
