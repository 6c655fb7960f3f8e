package notice

// EnqueueResult tells how Enqueue placed a notification
type EnqueueResult int

const (
	// Inserted means the queue grew by one
	Inserted EnqueueResult = iota
	// Merged means an existing same-class slot was overwritten in place
	Merged
)

func (r EnqueueResult) String() string {
	if r == Merged {
		return "merged"
	}
	return "inserted"
}

// Queue is the ordered buffer of pending notifications
// Sorted ascending by priority, FIFO among equal priorities
// Not safe for concurrent use; owned by a single display driver on the tick thread
type Queue struct {
	items []Notification
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{items: make([]Notification, 0, 8)}
}

// Enqueue places n by priority and returns how it was placed and its index
func (q *Queue) Enqueue(n Notification) (EnqueueResult, int) {
	if n.Priority.Mergeable() {
		for i := range q.items {
			if q.items[i].Priority == n.Priority {
				q.items[i] = n
				return Merged, i
			}
		}
	}

	// Insert before the first strictly less urgent entry; equal priorities stay FIFO
	for i := range q.items {
		if q.items[i].Priority > n.Priority {
			q.items = append(q.items, Notification{})
			copy(q.items[i+1:], q.items[i:])
			q.items[i] = n
			return Inserted, i
		}
	}

	q.items = append(q.items, n)
	return Inserted, len(q.items) - 1
}

// DequeueFront removes and returns the most urgent notification
func (q *Queue) DequeueFront() (Notification, error) {
	if len(q.items) == 0 {
		return Notification{}, ErrEmptyQueue
	}
	head := q.items[0]
	copy(q.items, q.items[1:])
	q.items[len(q.items)-1] = Notification{}
	q.items = q.items[:len(q.items)-1]
	return head, nil
}

// PeekFront returns the most urgent notification without removing it
func (q *Queue) PeekFront() (Notification, bool) {
	if len(q.items) == 0 {
		return Notification{}, false
	}
	return q.items[0], true
}

// Clear drops every pending notification
func (q *Queue) Clear() {
	clear(q.items)
	q.items = q.items[:0]
}

// IsEmpty reports whether nothing is pending
func (q *Queue) IsEmpty() bool {
	return len(q.items) == 0
}

// Count returns the number of pending notifications
func (q *Queue) Count() int {
	return len(q.items)
}

// Snapshot returns a copy of the pending notifications in drain order
func (q *Queue) Snapshot() []Notification {
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}
