package notify

import "sync"

// Action is the kind of data change an Event reports.
type Action string

const (
	ActionRegister Action = "register"
	ActionInsert   Action = "insert"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// Event describes one data change.
type Event struct {
	Action    Action `json:"action"`
	Structure string `json:"structure"`
	RecordID  int64  `json:"record_id,omitempty"`
}

// Broadcaster fans data-change events out to any number of subscribers
// with best-effort delivery: publishing never blocks, and a subscriber
// whose buffer is full simply misses the event. No delivery guarantee is
// offered or implied.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[int]chan Event
	nextID      int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[int]chan Event),
	}
}

// Subscribe registers a listener with the given buffer size and returns
// its event channel plus a cancel function. Cancel removes the listener
// and closes the channel.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	b.subscribers[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if existing, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(existing)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber that has room for it.
func (b *Broadcaster) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of live subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
