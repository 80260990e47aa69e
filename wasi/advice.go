package wasi

// Advice is the access pattern hint passed to fd_advise.
type Advice uint8

const (
	AdviceNormal Advice = iota
	AdviceSequential
	AdviceRandom
	AdviceWillNeed
	AdviceDontNeed
	AdviceNoReuse
)

var adviceNames = [...]string{
	AdviceNormal:     "normal",
	AdviceSequential: "sequential",
	AdviceRandom:     "random",
	AdviceWillNeed:   "will_need",
	AdviceDontNeed:   "dont_need",
	AdviceNoReuse:    "no_reuse",
}

func (a Advice) String() string {
	if int(a) < len(adviceNames) {
		return adviceNames[a]
	}
	return "unknown"
}

// Valid reports whether a is one of the defined hints.
func (a Advice) Valid() bool {
	return int(a) < len(adviceNames)
}
