package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Item is the domain model for a todo entry.
// ID is assigned once at creation and never reused; positions shift, IDs don't.
type Item struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// NewItem returns a pending item with a fresh ID and trimmed text.
// Empty text is allowed.
func NewItem(text string) Item {
	return Item{ID: uuid.NewString(), Text: strings.TrimSpace(text)}
}

// List is the ordered sequence of items. Newest is last.
type List []Item

// Clone returns a copy that shares no backing array with l.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// IndexOf returns the position of the item with the given id, or -1.
func (l List) IndexOf(id string) int {
	for i, it := range l {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Append returns a new list with it added at the end.
func Append(l List, it Item) List {
	out := make(List, len(l), len(l)+1)
	copy(out, l)
	return append(out, it)
}

// Toggle returns a new list with the completion flag at i flipped.
func Toggle(l List, i int) List {
	mustIndex(l, i)
	out := l.Clone()
	out[i].Completed = !out[i].Completed
	return out
}

// Remove returns a new list without the item at i.
func Remove(l List, i int) List {
	mustIndex(l, i)
	out := make(List, 0, len(l)-1)
	out = append(out, l[:i]...)
	return append(out, l[i+1:]...)
}

// ReplaceText returns a new list with the text at i replaced by the trimmed text.
func ReplaceText(l List, i int, text string) List {
	mustIndex(l, i)
	out := l.Clone()
	out[i].Text = strings.TrimSpace(text)
	return out
}

// RemoveWhere returns a new list without the items matching pred.
// Relative order of the remaining items is kept.
func RemoveWhere(l List, pred func(Item) bool) List {
	out := make(List, 0, len(l))
	for _, it := range l {
		if !pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// Stats counts completed and pending items.
func Stats(l List) (done, pending int) {
	for _, it := range l {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// An out-of-range index is a caller bug, not user input.
func mustIndex(l List, i int) {
	if i < 0 || i >= len(l) {
		panic(fmt.Sprintf("model: index %d out of range [0,%d)", i, len(l)))
	}
}
