package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/ui"
)

// row adapts model.Item to list.Item.
type row struct {
	item model.Item
}

func (r row) FilterValue() string { return r.item.Text }

// delegate renders one item per line; editing marks the row under edit.
type delegate struct {
	editing string
}

func (d delegate) Height() int                               { return 1 }
func (d delegate) Spacing() int                              { return 0 }
func (d delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d delegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	r, ok := li.(row)
	if !ok {
		return
	}
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnchecked)
	text := ui.Label(r.item.Text)
	if r.item.Text == "" {
		text = t.Muted.Italic(true).Render(text)
	}
	if r.item.Completed {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(t.SymCursor)
	}
	line := fmt.Sprintf("%s%s %s", prefix, box, text)
	if r.item.ID != "" && r.item.ID == d.editing {
		line += " " + t.Accent.Render(t.SymEdit)
	}
	fmt.Fprint(w, line)
}
