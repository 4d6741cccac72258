package ledger

// ProcessedSet is an insertion-ordered set of feed item links. Membership is
// what matters; order is kept stable so the persisted encoding does not churn
// between runs.
type ProcessedSet struct {
	order []string
	seen  map[string]struct{}
}

// NewProcessedSet builds a set from the given links, dropping duplicates.
func NewProcessedSet(links ...string) *ProcessedSet {
	s := &ProcessedSet{seen: make(map[string]struct{}, len(links))}
	for _, link := range links {
		s.Add(link)
	}
	return s
}

// Add inserts link and reports whether it was new.
func (s *ProcessedSet) Add(link string) bool {
	if _, ok := s.seen[link]; ok {
		return false
	}
	s.seen[link] = struct{}{}
	s.order = append(s.order, link)
	return true
}

// Contains reports membership.
func (s *ProcessedSet) Contains(link string) bool {
	_, ok := s.seen[link]
	return ok
}

// Missing returns the candidates absent from the set, preserving candidate
// order. A candidate repeated in the input is reported once.
func (s *ProcessedSet) Missing(candidates []string) []string {
	out := make([]string, 0, len(candidates))
	picked := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if s.Contains(c) {
			continue
		}
		if _, ok := picked[c]; ok {
			continue
		}
		picked[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Links returns the members in insertion order.
func (s *ProcessedSet) Links() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of members.
func (s *ProcessedSet) Len() int {
	return len(s.order)
}
