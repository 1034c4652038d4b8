// Package session holds the interaction state that sits between a user
// surface and the list store: the new-item buffer, the filter mode and the
// single active edit.
package session

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store/jsonstore"
)

// ErrNotEditing is returned by SaveEdit when id is not the item under edit.
var ErrNotEditing = errors.New("item is not being edited")

// edit is the active edit session; a zero id means none.
type edit struct {
	id    string
	draft string
}

// Session is owned by one UI loop; it is not safe for concurrent use.
type Session struct {
	store  *jsonstore.Store
	log    *zap.Logger
	input  string
	filter model.Filter
	edit   edit
}

// New starts a session over store with filter All and no edit.
func New(store *jsonstore.Store, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{store: store, log: log}
}

func (s *Session) Input() string            { return s.input }
func (s *Session) SetInput(text string)     { s.input = text }
func (s *Session) Filter() model.Filter     { return s.filter }
func (s *Session) SetFilter(f model.Filter) { s.filter = f }

// Items is the full, unfiltered list.
func (s *Session) Items() model.List { return s.store.Items() }

// Visible is the list as the current filter shows it.
func (s *Session) Visible() model.List {
	return model.Apply(s.store.Items(), s.filter)
}

// Stats counts done and pending items over the whole list.
func (s *Session) Stats() (done, pending int) {
	return model.Stats(s.store.Items())
}

// AddTodo appends the trimmed input buffer, even when it is empty,
// and clears the buffer.
func (s *Session) AddTodo() model.Item {
	it := s.store.Add(s.input)
	s.input = ""
	s.log.Debug("added todo", zap.String("id", it.ID))
	return it
}

// ToggleTodo flips completion of the item with id.
func (s *Session) ToggleTodo(id string) error {
	return s.store.Toggle(id)
}

// RemoveTodo deletes the item with id, ending its edit if one is open.
func (s *Session) RemoveTodo(id string) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}
	s.dropStaleEdit()
	return nil
}

// ClearCompleted deletes every completed item and returns how many went.
func (s *Session) ClearCompleted() int {
	n := s.store.ClearCompleted()
	s.dropStaleEdit()
	return n
}

// StartEditing opens an edit on id with its current text as the draft.
// Any other open edit is discarded without saving.
func (s *Session) StartEditing(id string) error {
	items := s.store.Items()
	i := items.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", jsonstore.ErrNotFound, id)
	}
	s.edit = edit{id: id, draft: items[i].Text}
	return nil
}

// Editing returns the id under edit.
func (s *Session) Editing() (string, bool) {
	return s.edit.id, s.edit.id != ""
}

func (s *Session) Draft() string        { return s.edit.draft }
func (s *Session) SetDraft(text string) { s.edit.draft = text }

// SaveEdit writes the trimmed draft back to id and closes the edit.
func (s *Session) SaveEdit(id string) error {
	if s.edit.id == "" || s.edit.id != id {
		return fmt.Errorf("%w: %s", ErrNotEditing, id)
	}
	draft := s.edit.draft
	s.edit = edit{}
	return s.store.Rename(id, draft)
}

// CancelEdit discards the draft without touching the list.
func (s *Session) CancelEdit() {
	s.edit = edit{}
}

// An edit must never outlive its item.
func (s *Session) dropStaleEdit() {
	if s.edit.id == "" {
		return
	}
	if s.store.Items().IndexOf(s.edit.id) < 0 {
		s.log.Debug("edit target removed", zap.String("id", s.edit.id))
		s.edit = edit{}
	}
}
