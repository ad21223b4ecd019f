package store

import (
	"context"
	"sort"
	"sync"
)

// Memory returns a Persistence that keeps records in process memory. Nothing
// survives a restart; it backs tests and the --ephemeral flag.
func Memory() Persistence {
	return &memory{records: make(map[string][]byte)}
}

type memory struct {
	mu       sync.Mutex
	records  map[string][]byte
	watchers []chan Event
}

func (m *memory) Read(key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *memory) Write(key string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	m.records[key] = append([]byte(nil), data...)
	m.notifyLocked(key)
	m.mu.Unlock()
	return nil
}

func (m *memory) Keys(context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *memory) BasePath() string {
	return ""
}

func (m *memory) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 16)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

func (m *memory) notifyLocked(key string) {
	for _, w := range m.watchers {
		select {
		case w <- Event{Type: EventRecordChanged, Key: key}:
		default:
		}
	}
}
