package mapping

// Hint is a bitmask of optimizer hints carried in query metadata.
type Hint uint16

const (
	HintParallel  Hint = 0x0001
	HintIndexScan Hint = 0x0002
	// HintFullScan overlaps HintParallel|HintIndexScan. The value is frozen
	// by the wire format; test for it with Has, not a plain AND.
	HintFullScan     Hint = 0x0003
	HintCacheResult  Hint = 0x0004
	HintPriorityHigh Hint = 0x0010
	HintPriorityLow  Hint = 0x0020
	HintReadOnly     Hint = 0x0040
)

var hintNames = []struct {
	flag Hint
	name string
}{
	// FullScan before its two constituent bits so Split reports it as one
	// hint instead of PARALLEL+INDEX_SCAN.
	{HintFullScan, "FULL_SCAN"},
	{HintParallel, "PARALLEL"},
	{HintIndexScan, "INDEX_SCAN"},
	{HintCacheResult, "CACHE_RESULT"},
	{HintPriorityHigh, "PRIORITY_HIGH"},
	{HintPriorityLow, "PRIORITY_LOW"},
	{HintReadOnly, "READ_ONLY"},
}

// Has reports whether all bits of flag are set.
func (h Hint) Has(flag Hint) bool {
	return h&flag == flag
}

// Split expands a hint mask into its named components.
func (h Hint) Split() []string {
	var out []string
	rest := h
	for _, e := range hintNames {
		if rest&e.flag == e.flag {
			out = append(out, e.name)
			rest &^= e.flag
		}
	}
	return out
}

func (h Hint) String() string {
	if h == 0 {
		return "none"
	}
	parts := h.Split()
	s := parts[0]
	for _, p := range parts[1:] {
		s += "|" + p
	}
	return s
}
