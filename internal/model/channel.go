package model

// Channel is a decay hypothesis index within one prong multiplicity.
// The value equal to NumChannels(prong) is the per-prong summary slot.
type Channel int

const (
	D0ToPiK  Channel = 0
	JpsiToEE Channel = 1

	N2ProngDecays = 2
)

const (
	DPlusToPiKPi Channel = 0
	LcToPKPi     Channel = 1
	DsToPiKK     Channel = 2
	XicToPKPi    Channel = 3

	N3ProngDecays = 4
)

var channelNames = map[Prong][]string{
	Prong2: {"D0ToPiK", "JpsiToEE"},
	Prong3: {"DPlusToPiKPi", "LcToPKPi", "DsToPiKK", "XicToPKPi"},
}

// NumChannels returns the number of decay channels for p.
func NumChannels(p Prong) int {
	switch p {
	case Prong2:
		return N2ProngDecays
	case Prong3:
		return N3ProngDecays
	}
	return 0
}

// SummaryChannel is the slot that accumulates one entry per candidate
// regardless of how many channel bits it carries.
func SummaryChannel(p Prong) Channel {
	return Channel(NumChannels(p))
}

// ChannelName returns the decay name, or "2Prong"/"3Prong" for the summary slot.
func ChannelName(p Prong, ch Channel) string {
	names := channelNames[p]
	if ch >= 0 && int(ch) < len(names) {
		return names[ch]
	}
	if ch == SummaryChannel(p) {
		return p.String()
	}
	return "Unknown"
}

// ParseChannel is the inverse of ChannelName.
func ParseChannel(p Prong, name string) (Channel, bool) {
	for i, n := range channelNames[p] {
		if n == name {
			return Channel(i), true
		}
	}
	if name == p.String() {
		return SummaryChannel(p), true
	}
	return 0, false
}
