package xlsw

// sharedStrings interns cell text so repeated values are stored once in the
// package. Indices are handed out in first-seen order and referenced from
// cells long before the table itself is written, which is why the table is
// flushed only at document close.
type sharedStrings struct {
	list []string
	idx  map[string]int
}

func newSharedStrings() *sharedStrings {
	return &sharedStrings{idx: map[string]int{}}
}

// Intern returns the index of s, appending it on first sight.
func (t *sharedStrings) Intern(s string) int {
	if i, ok := t.idx[s]; ok {
		return i
	}
	i := len(t.list)
	t.list = append(t.list, s)
	t.idx[s] = i
	return i
}

func (t *sharedStrings) Len() int { return len(t.list) }
