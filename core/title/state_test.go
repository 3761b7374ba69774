package title_test

import (
	"testing"

	"calendar-agent/core/title"

	"github.com/stretchr/testify/assert"
)

func TestMergeSequence(t *testing.T) {
	var st title.State
	st.Add("EVENT")
	st.Add("PHOTOSHOOT")
	st.Add("PHOTOSHOOT")
	assert.Equal(t, "EVENT + 2X PHOTOSHOOTS", st.Render())

	assert.True(t, st.Remove("PHOTOSHOOT"))
	assert.Equal(t, "EVENT + PHOTOSHOOT", st.Render())

	assert.True(t, st.Remove("EVENT"))
	assert.True(t, st.Remove("PHOTOSHOOT"))
	assert.True(t, st.Empty())
	assert.False(t, st.Remove("PHOTOSHOOT"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		labels map[string]int
		render string
	}{
		{"", map[string]int{}, ""},
		{"EVENT", map[string]int{"EVENT": 1}, "EVENT"},
		{"event + photoshoot", map[string]int{"EVENT": 1, "PHOTOSHOOT": 1}, "EVENT + PHOTOSHOOT"},
		{"2X SHOOTS + EVENT", map[string]int{"SHOOT": 2, "EVENT": 1}, "EVENT + 2X SHOOTS"},
		{"3× PHOTOSHOOTS", map[string]int{"PHOTOSHOOT": 3}, "3X PHOTOSHOOTS"},
		{"AM EVENT+EVENT", map[string]int{"EVENT": 2}, "2X EVENTS"},
		{"SHOOTS", map[string]int{"SHOOT": 1}, "SHOOT"},
		{" + EVENT + ", map[string]int{"EVENT": 1}, "EVENT"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			st := title.Parse(tt.in)
			for l, n := range tt.labels {
				assert.Equal(t, n, st.Count(l), l)
			}
			assert.Len(t, st.Labels(), len(tt.labels))
			assert.Equal(t, tt.render, st.Render())
		})
	}
}

func TestSingularAndPluralAggregate(t *testing.T) {
	st := title.Parse("SHOOT")
	st.Add("SHOOTS")
	assert.Equal(t, "2X SHOOTS", st.Render())
}

func TestMergeThenUnmergeRestores(t *testing.T) {
	for _, start := range []string{"EVENT", "EVENT + 2X PHOTOSHOOTS", "3X SHOOTS"} {
		for _, label := range []string{"EVENT", "PHOTOSHOOT", "SHOOT"} {
			merged := title.Merge(start, label)
			back, ok := title.Unmerge(merged, label)
			assert.True(t, ok)
			assert.Equal(t, start, back, "%s +/- %s", start, label)
		}
	}
}

func TestUnmergeToEmpty(t *testing.T) {
	out, ok := title.Unmerge("PHOTOSHOOT", "PHOTOSHOOT")
	assert.False(t, ok)
	assert.Empty(t, out)
}

func TestCloneIsIndependent(t *testing.T) {
	a := title.Parse("EVENT")
	b := a.Clone()
	b.Add("EVENT")
	assert.Equal(t, 1, a.Count("EVENT"))
	assert.Equal(t, 2, b.Count("EVENT"))
	assert.False(t, a.Equal(b))
}

// Every multiset over a small alphabet survives render -> parse -> render.
func TestRoundTripExhaustive(t *testing.T) {
	alphabet := []string{"EVENT", "PHOTOSHOOT", "SHOOT"}
	const maxCount = 3

	var walk func(i int, st title.State)
	walk = func(i int, st title.State) {
		if i == len(alphabet) {
			rendered := st.Render()
			parsed := title.Parse(rendered)
			assert.True(t, st.Equal(parsed), "state for %q", rendered)
			assert.Equal(t, rendered, parsed.Render())
			return
		}
		for n := 0; n <= maxCount; n++ {
			next := st.Clone()
			for j := 0; j < n; j++ {
				next.Add(alphabet[i])
			}
			walk(i+1, next)
		}
	}
	walk(0, title.State{})
}

func TestMorningQualifier(t *testing.T) {
	assert.True(t, title.Morning("am event"))
	assert.False(t, title.Morning("EVENT"))
	assert.False(t, title.Morning("AMBER"))
	assert.Equal(t, "EVENT", title.Normalize("AM EVENT"))

	st := title.Parse("AM PHOTOSHOOT")
	st.Add("AM PHOTOSHOOT")
	assert.Equal(t, 2, st.Count("PHOTOSHOOT"))
	assert.Equal(t, "2X PHOTOSHOOTS", st.Render())
}
