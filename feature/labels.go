package feature

// Labels tracks a slice of features and their index locations so a column can be
// looked up by name.
type Labels struct {
	idx    map[string]int
	labels []Feature
}

func NewLabels(labels []Feature) *Labels {
	idx := make(map[string]int)
	for i := 0; i < len(labels); i++ {
		idx[labels[i].String()] = i
	}
	return &Labels{
		labels: labels,
		idx:    idx,
	}
}

func (l *Labels) Len() int {
	if l == nil {
		return 0
	}
	return len(l.labels)
}

// Strings returns the string representation of every feature in order
func (l *Labels) Strings() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.labels))
	for _, f := range l.labels {
		out = append(out, f.String())
	}
	return out
}

func (l *Labels) Index(name string) (int, bool) {
	if l == nil {
		return -1, false
	}
	if idx, exists := l.idx[name]; exists {
		return idx, true
	}
	return -1, false
}
