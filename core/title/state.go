package title

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const joiner = " + "

// MorningPrefix qualifies a hold on the day before a morning start. It is
// shown on a hold with a single contribution and ignored by the multiset.
const MorningPrefix = "AM "

var countedToken = regexp.MustCompile(`^(\d+)X\s+(.+)$`)

// State is the multiset of labels behind a merged block-day title.
// The zero value is an empty state ready to use.
type State struct {
	counts map[string]int
}

// Parse tokenizes an existing title. Tokens are split on "+"; a token is
// either a bare label or "<N>X <LABEL>S". Unparseable counts fall back to 1.
func Parse(s string) State {
	var st State
	for _, raw := range strings.Split(s, "+") {
		tok := cleanToken(raw)
		if tok == "" {
			continue
		}
		n := 1
		if m := countedToken.FindStringSubmatch(tok); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
				n = v
				tok = m[2]
			}
		}
		st.addN(Normalize(tok), n)
	}
	return st
}

// Normalize returns the base label: upper-cased, qualifier-free and singular.
func Normalize(label string) string {
	l := cleanToken(label)
	if strings.HasSuffix(l, "S") && len(l) > 1 {
		l = l[:len(l)-1]
	}
	return strings.TrimSpace(l)
}

// Morning reports whether a label carries the morning qualifier.
func Morning(label string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(label)), MorningPrefix)
}

// Add increments the count of a label.
func (s *State) Add(label string) {
	s.addN(Normalize(label), 1)
}

// Remove decrements the count of a label, dropping it at zero.
// It reports whether the label was present.
func (s *State) Remove(label string) bool {
	l := Normalize(label)
	n, ok := s.counts[l]
	if !ok {
		return false
	}
	if n <= 1 {
		delete(s.counts, l)
	} else {
		s.counts[l] = n - 1
	}
	return true
}

// Count returns the number of contributions of a label.
func (s State) Count(label string) int {
	return s.counts[Normalize(label)]
}

// Empty reports whether no label remains; an empty state must not be rendered
// onto a record.
func (s State) Empty() bool {
	return len(s.counts) == 0
}

// Labels returns the base labels in render order.
func (s State) Labels() []string {
	out := make([]string, 0, len(s.counts))
	for l := range s.counts {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Render produces the canonical title.
func (s State) Render() string {
	parts := make([]string, 0, len(s.counts))
	for _, l := range s.Labels() {
		n := s.counts[l]
		if n == 1 {
			parts = append(parts, l)
			continue
		}
		parts = append(parts, fmt.Sprintf("%dX %sS", n, l))
	}
	return strings.Join(parts, joiner)
}

// Equal reports whether two states hold the same multiset.
func (s State) Equal(o State) bool {
	if len(s.counts) != len(o.counts) {
		return false
	}
	for l, n := range s.counts {
		if o.counts[l] != n {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s State) Clone() State {
	var out State
	for l, n := range s.counts {
		out.addN(l, n)
	}
	return out
}

func (s *State) addN(label string, n int) {
	if label == "" || n <= 0 {
		return
	}
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	s.counts[label] += n
}

func cleanToken(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "×", "X")
	s = strings.TrimSpace(strings.TrimPrefix(s, MorningPrefix))
	return strings.Join(strings.Fields(s), " ")
}

// Merge adds a label to an existing title and renders the result.
func Merge(existing, label string) string {
	st := Parse(existing)
	st.Add(label)
	return st.Render()
}

// Unmerge removes one occurrence of a label from a title. It returns the new
// title and false when nothing remains.
func Unmerge(existing, label string) (string, bool) {
	st := Parse(existing)
	st.Remove(label)
	if st.Empty() {
		return "", false
	}
	return st.Render(), true
}
