package notifications

import (
	"sync"
	"time"
)

type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe подписывает клиента на события и возвращает канал и функцию отписки.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			delete(h.subscribers, ch)
			close(ch)
		})
	}
}

// Publish отправляет событие всем подписчикам; медленные подписчики событие пропускают.
func (h *Hub) Publish(event Event) {
	event.Timestamp = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers возвращает число активных подписок.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
