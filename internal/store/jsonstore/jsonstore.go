package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store/kv"
)

// JSON-serialized list kept under a single key of a kv.Storage.
// Every mutation writes through; there is no batching and no retry.

// DefaultKey is the storage key the list lives under.
const DefaultKey = "todos"

// ErrNotFound is returned when an id does not name an item in the list.
var ErrNotFound = errors.New("todo not found")

const listSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["text", "completed"],
		"properties": {
			"id":        {"type": "string"},
			"text":      {"type": "string"},
			"completed": {"type": "boolean"}
		}
	}
}`

var schema = jsonschema.MustCompileString("todos.schema.json", listSchema)

// Store owns the in-memory list and its durable mirror.
// It is not safe for concurrent use; one UI loop drives it.
type Store struct {
	kv    kv.Storage
	key   string
	log   *zap.Logger
	items model.List
	dirty bool
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets where swallowed storage failures are reported.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open builds a Store over backend and loads the current list.
func Open(backend kv.Storage, opts ...Option) *Store {
	s := &Store{kv: backend, key: DefaultKey, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	s.Load()
	return s
}

// Key returns the storage key.
func (s *Store) Key() string { return s.key }

// Items returns a copy of the current list.
func (s *Store) Items() model.List { return s.items.Clone() }

// Dirty reports whether the last write failed, leaving the durable
// mirror behind the in-memory list.
func (s *Store) Dirty() bool { return s.dirty }

// Load reads the durable mirror and makes it the current list.
// A missing value yields an empty list. Unreadable or malformed content is
// logged and discarded, also yielding an empty list.
func (s *Store) Load() model.List {
	s.items = s.read()
	s.dirty = false
	return s.Items()
}

func (s *Store) read() model.List {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.log.Warn("read todos", zap.String("key", s.key), zap.Error(err))
		return model.List{}
	}
	if !ok {
		return model.List{}
	}
	items, err := decode(raw)
	if err != nil {
		s.log.Warn("discarding malformed todos", zap.String("key", s.key), zap.Error(err))
		return model.List{}
	}
	return items
}

func decode(raw string) (model.List, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	var items model.List
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		items = model.List{}
	}
	ensureIDs(items)
	return items, nil
}

// ensureIDs gives a fresh id to every item whose id is missing (written
// before items carried ids) or already taken by an earlier item.
func ensureIDs(items model.List) {
	seen := make(map[string]bool, len(items))
	for i := range items {
		if items[i].ID == "" || seen[items[i].ID] {
			items[i].ID = uuid.NewString()
		}
		seen[items[i].ID] = true
	}
}

// Save makes list current and overwrites the durable mirror with it.
// Items without an id, or sharing one, are given fresh ids first, so a
// later Load returns exactly Items().
// A failed write is logged and swallowed; the in-memory list stays
// authoritative for the rest of the session.
func (s *Store) Save(list model.List) {
	s.items = list.Clone()
	ensureIDs(s.items)
	b, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		s.dirty = true
		s.log.Warn("encode todos", zap.String("key", s.key), zap.Error(err))
		return
	}
	if err := s.kv.Set(s.key, string(b)); err != nil {
		s.dirty = true
		s.log.Warn("write todos", zap.String("key", s.key), zap.Int("items", len(s.items)), zap.Error(err))
		return
	}
	s.dirty = false
	s.log.Debug("saved todos", zap.String("key", s.key), zap.Int("items", len(s.items)))
}

// Add appends a new pending item with trimmed text. Empty text is kept.
func (s *Store) Add(text string) model.Item {
	it := model.NewItem(text)
	s.Save(model.Append(s.items, it))
	return it
}

// Toggle flips the completion flag of the item with id.
func (s *Store) Toggle(id string) error {
	i, err := s.index(id)
	if err != nil {
		return err
	}
	s.Save(model.Toggle(s.items, i))
	return nil
}

// Remove deletes the item with id.
func (s *Store) Remove(id string) error {
	i, err := s.index(id)
	if err != nil {
		return err
	}
	s.Save(model.Remove(s.items, i))
	return nil
}

// Rename replaces the text of the item with id by the trimmed text.
func (s *Store) Rename(id, text string) error {
	i, err := s.index(id)
	if err != nil {
		return err
	}
	s.Save(model.ReplaceText(s.items, i, text))
	return nil
}

// RemoveWhere deletes every item matching pred and returns how many went.
func (s *Store) RemoveWhere(pred func(model.Item) bool) int {
	next := model.RemoveWhere(s.items, pred)
	n := len(s.items) - len(next)
	s.Save(next)
	return n
}

// ClearCompleted deletes every completed item.
func (s *Store) ClearCompleted() int {
	return s.RemoveWhere(func(it model.Item) bool { return it.Completed })
}

func (s *Store) index(id string) (int, error) {
	i := s.items.IndexOf(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return i, nil
}
