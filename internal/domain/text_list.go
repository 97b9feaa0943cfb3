package domain

// TextList is the flat-file task list: one task per line, identified by
// its position at the time of the operation.
type TextList []string

// Append adds a task line at the end.
func (l TextList) Append(text string) TextList {
	return append(l, text)
}

// InBounds reports whether index addresses an existing line.
func (l TextList) InBounds(index int) bool {
	return index >= 0 && index < len(l)
}

// Replace overwrites the line at index. Out-of-range indexes leave the
// list untouched and report false.
func (l TextList) Replace(index int, text string) (TextList, bool) {
	if !l.InBounds(index) {
		return l, false
	}
	out := make(TextList, len(l))
	copy(out, l)
	out[index] = text
	return out, true
}

// RemoveFirst deletes the first line equal to text. When several lines
// share the same text only the earliest one goes.
func (l TextList) RemoveFirst(text string) (TextList, bool) {
	for i, line := range l {
		if line == text {
			out := make(TextList, 0, len(l)-1)
			out = append(out, l[:i]...)
			return append(out, l[i+1:]...), true
		}
	}
	return l, false
}
