package vm

// kbd.go is the asynchronous keyboard queue: a background character
// producer feeding a bounded-latency consumer shared with the execution
// loop (spec.md §4.1), grounded on the teacher's keyboard device but
// generalized from a single register to a real FIFO, matching
// original_source/key_event_queue.rs's VecDeque-backed design.

import "sync"

// KeySource supplies one character per call, blocking until a key is
// available. It is the producer side's only dependency, so the queue can be
// spawned against a real console or a test double.
type KeySource interface {
	ReadKey() (rune, error)
}

// KeyboardQueue is an ordered, FIFO sequence of characters. Mutation is
// serialized by a single mutex; the condition variable is built on that same
// mutex, so producers hold the lock only for the append and consumers
// release it while waiting (spec.md §4.1, §9).
type KeyboardQueue struct {
	mut      sync.Mutex
	nonEmpty *sync.Cond
	buf      []rune
}

// NewKeyboardQueue creates an empty queue. Use Spawn to start a producer
// goroutine reading from a KeySource, or Push to feed it directly (tests).
func NewKeyboardQueue() *KeyboardQueue {
	q := &KeyboardQueue{}
	q.nonEmpty = sync.NewCond(&q.mut)

	return q
}

// Spawn starts the producer goroutine against src and returns the queue.
// The goroutine is detached: a read failure stops the producer only, and
// the queue is never torn down (spec.md §3 "Lifecycle", §9).
func Spawn(src KeySource) *KeyboardQueue {
	q := NewKeyboardQueue()

	go func() {
		for {
			key, err := src.ReadKey()
			if err != nil {
				return
			}

			q.Push(key)
		}
	}()

	return q
}

// Push appends a character to the queue and wakes one waiting consumer.
func (q *KeyboardQueue) Push(r rune) {
	q.mut.Lock()
	q.buf = append(q.buf, r)
	q.mut.Unlock()

	q.nonEmpty.Signal()
}

// IsEmpty reports whether the queue currently has no buffered characters.
// It does not block.
func (q *KeyboardQueue) IsEmpty() bool {
	q.mut.Lock()
	defer q.mut.Unlock()

	return len(q.buf) == 0
}

// ReadBlocking suspends the caller until at least one character is
// available, then removes and returns the oldest one.
func (q *KeyboardQueue) ReadBlocking() rune {
	q.mut.Lock()
	defer q.mut.Unlock()

	for len(q.buf) == 0 {
		q.nonEmpty.Wait()
	}

	r := q.buf[0]
	q.buf = q.buf[1:]

	return r
}

// PollKey is a non-blocking pop: it returns the oldest character and true,
// or the zero rune and false if the queue is empty. It is for consumers that
// must not suspend; the machine itself reads keys only through ReadBlocking.
func (q *KeyboardQueue) PollKey() (rune, bool) {
	q.mut.Lock()
	defer q.mut.Unlock()

	if len(q.buf) == 0 {
		return 0, false
	}

	r := q.buf[0]
	q.buf = q.buf[1:]

	return r, true
}
