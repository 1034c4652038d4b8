package kv

// Memory is a map-backed Storage. GetErr and SetErr, when set, are
// returned instead of touching the map, to simulate a broken backend.
type Memory struct {
	Data   map[string]string
	GetErr error
	SetErr error

	Sets int // successful writes
}

func NewMemory() *Memory {
	return &Memory{Data: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool, error) {
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.Data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.Data == nil {
		m.Data = map[string]string{}
	}
	m.Data[key] = value
	m.Sets++
	return nil
}
