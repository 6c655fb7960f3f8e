package notice

import "errors"

// ErrEmptyQueue is returned when dequeuing from an empty queue
// The display driver guards every dequeue, so seeing this is an invariant violation
var ErrEmptyQueue = errors.New("notification queue is empty")
