package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store/jsonstore"
	"github.com/idilsaglam/todolist/internal/store/kv"
)

func newSession(t *testing.T, texts ...string) (*Session, *kv.Memory) {
	t.Helper()
	backend := kv.NewMemory()
	s := New(jsonstore.Open(backend), nil)
	for _, text := range texts {
		s.SetInput(text)
		s.AddTodo()
	}
	return s, backend
}

func TestAddTodoTrimsAndClearsInput(t *testing.T) {
	s, _ := newSession(t, "first")
	s.SetInput("  Buy milk  ")
	it := s.AddTodo()

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, it, items[1], "appended at the end")
	assert.Equal(t, "Buy milk", items[1].Text)
	assert.False(t, items[1].Completed)
	assert.Equal(t, "", s.Input())
}

func TestAddTodoAcceptsEmpty(t *testing.T) {
	for _, in := range []string{"", "   "} {
		s, _ := newSession(t)
		s.SetInput(in)
		s.AddTodo()
		items := s.Items()
		require.Len(t, items, 1, "input %q must not be dropped", in)
		assert.Equal(t, "", items[0].Text)
		assert.False(t, items[0].Completed)
	}
}

func TestToggleTwice(t *testing.T) {
	s, _ := newSession(t, "a", "b", "c")
	before := s.Items()
	id := before[1].ID

	require.NoError(t, s.ToggleTodo(id))
	assert.True(t, s.Items()[1].Completed)
	require.NoError(t, s.ToggleTodo(id))
	assert.Empty(t, cmp.Diff(before, s.Items()))
}

func TestClearCompleted(t *testing.T) {
	s, _ := newSession(t, "A", "B", "C", "D")
	items := s.Items()
	require.NoError(t, s.ToggleTodo(items[1].ID))
	require.NoError(t, s.ToggleTodo(items[3].ID))

	assert.Equal(t, 2, s.ClearCompleted())
	got := s.Items()
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Text)
	assert.Equal(t, "C", got[1].Text)
	assert.False(t, got[0].Completed || got[1].Completed)

	assert.Equal(t, 0, s.ClearCompleted())
	assert.Empty(t, cmp.Diff(got, s.Items()))
}

func TestEditCommit(t *testing.T) {
	s, backend := newSession(t, "X", "Y", "Z")
	id := s.Items()[1].ID

	require.NoError(t, s.StartEditing(id))
	assert.Equal(t, "Y", s.Draft())
	s.SetDraft(" Z2 ")
	require.NoError(t, s.SaveEdit(id))

	texts := []string{}
	for _, it := range s.Items() {
		texts = append(texts, it.Text)
	}
	assert.Equal(t, []string{"X", "Z2", "Z"}, texts)
	_, editing := s.Editing()
	assert.False(t, editing)
	assert.Equal(t, "", s.Draft())

	reloaded := jsonstore.Open(backend).Items()
	assert.Equal(t, "Z2", reloaded[1].Text)
}

func TestEditCancel(t *testing.T) {
	s, backend := newSession(t, "X", "Y", "Z")
	before := s.Items()
	writes := backend.Sets

	require.NoError(t, s.StartEditing(before[1].ID))
	s.SetDraft("something else")
	s.CancelEdit()

	assert.Empty(t, cmp.Diff(before, s.Items()))
	assert.Equal(t, writes, backend.Sets, "cancel must not write")
	_, editing := s.Editing()
	assert.False(t, editing)
}

func TestStartEditingReplacesPriorEdit(t *testing.T) {
	s, _ := newSession(t, "X", "Y")
	items := s.Items()

	require.NoError(t, s.StartEditing(items[0].ID))
	s.SetDraft("lost")
	require.NoError(t, s.StartEditing(items[1].ID))

	id, ok := s.Editing()
	assert.True(t, ok)
	assert.Equal(t, items[1].ID, id)
	assert.Equal(t, "Y", s.Draft())
	assert.Equal(t, "X", s.Items()[0].Text, "prior draft is not saved")
	assert.ErrorIs(t, s.SaveEdit(items[0].ID), ErrNotEditing)
}

func TestSaveEditEmptyDraft(t *testing.T) {
	s, _ := newSession(t, "X")
	id := s.Items()[0].ID
	require.NoError(t, s.StartEditing(id))
	s.SetDraft("   ")
	require.NoError(t, s.SaveEdit(id))
	assert.Equal(t, "", s.Items()[0].Text)
}

func TestRemovingEditedItemClearsEdit(t *testing.T) {
	s, _ := newSession(t, "X", "Y", "Z")
	items := s.Items()
	require.NoError(t, s.ToggleTodo(items[1].ID))
	require.NoError(t, s.StartEditing(items[1].ID))
	s.SetDraft("stale")

	s.ClearCompleted()

	_, editing := s.Editing()
	assert.False(t, editing)
	assert.ErrorIs(t, s.SaveEdit(items[1].ID), ErrNotEditing)
	assert.Equal(t, "Z", s.Items()[1].Text, "shifted item untouched")
}

func TestRemoveOtherItemKeepsEdit(t *testing.T) {
	s, _ := newSession(t, "X", "Y", "Z")
	items := s.Items()
	require.NoError(t, s.StartEditing(items[2].ID))
	s.SetDraft("Z2")

	require.NoError(t, s.RemoveTodo(items[0].ID))
	id, editing := s.Editing()
	require.True(t, editing)
	require.NoError(t, s.SaveEdit(id))
	assert.Equal(t, "Z2", s.Items()[1].Text)
}

func TestRemoveTodoEditedItem(t *testing.T) {
	s, _ := newSession(t, "X")
	id := s.Items()[0].ID
	require.NoError(t, s.StartEditing(id))
	require.NoError(t, s.RemoveTodo(id))
	_, editing := s.Editing()
	assert.False(t, editing)
}

func TestUnknownID(t *testing.T) {
	s, _ := newSession(t, "X")
	assert.ErrorIs(t, s.ToggleTodo("nope"), jsonstore.ErrNotFound)
	assert.ErrorIs(t, s.RemoveTodo("nope"), jsonstore.ErrNotFound)
	assert.ErrorIs(t, s.StartEditing("nope"), jsonstore.ErrNotFound)
}

func TestVisibleFollowsFilter(t *testing.T) {
	s, _ := newSession(t, "A", "B", "C")
	items := s.Items()
	require.NoError(t, s.ToggleTodo(items[1].ID))
	assert.Equal(t, model.FilterAll, s.Filter())

	s.SetFilter(model.FilterActive)
	assert.Equal(t, []string{"A", "C"}, texts(s.Visible()))
	s.SetFilter(model.FilterCompleted)
	assert.Equal(t, []string{"B"}, texts(s.Visible()))
	s.SetFilter(model.FilterAll)
	assert.Equal(t, []string{"A", "B", "C"}, texts(s.Visible()))

	done, pending := s.Stats()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, pending)
}

func TestFilterResetsOnReload(t *testing.T) {
	s, backend := newSession(t, "A")
	s.SetFilter(model.FilterCompleted)
	fresh := New(jsonstore.Open(backend), nil)
	assert.Equal(t, model.FilterAll, fresh.Filter())
	assert.Len(t, fresh.Visible(), 1)
}

func texts(l model.List) []string {
	out := make([]string, len(l))
	for i, it := range l {
		out[i] = it.Text
	}
	return out
}
