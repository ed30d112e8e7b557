package model

// Class is the origin-based classification of a candidate for one channel.
// Keep the string values stable; they are part of counter names and CSV output.
type Class int

const (
	ClassPrompt Class = iota
	ClassNonPrompt
	ClassBackground

	NumClasses = 3
)

func (c Class) String() string {
	switch c {
	case ClassPrompt:
		return "Prompt"
	case ClassNonPrompt:
		return "NonPrompt"
	case ClassBackground:
		return "Bkg"
	}
	return "Unknown"
}

// Classes lists all classes in storage order.
func Classes() []Class {
	return []Class{ClassPrompt, ClassNonPrompt, ClassBackground}
}

func ParseClass(s string) (Class, bool) {
	for _, c := range Classes() {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}
