// Implements Queue, the per-core slice-backed FIFO that holds Tasks waiting
// for a worker. One Queue exists per core-slot for the lifetime of a run.

package sim

// Queue is an ordered sequence of Tasks belonging to one core-slot. It is
// cooperatively locked while another worker is mid-steal against it — the
// lock never blocks simulated time, it only rejects concurrent mutation
// within the same tick.
type Queue struct {
	ID              int
	tasks           []Task
	lockedBy        int // thread id holding the lock, -1 if unlocked
	lastWorkSteal   int64
	awaitingEnqueue bool
}

// NewQueue constructs an empty, unlocked Queue.
func NewQueue(id int) *Queue {
	return &Queue{ID: id, lockedBy: -1, lastWorkSteal: 0}
}

// Enqueue appends task to the back of the queue. When setOriginal is true,
// the task's EnqueueTime is overwritten to now, so queueing-delay metrics
// reflect admission time rather than the task's original generation time —
// this matches Client admission onto a core queue.
func (q *Queue) Enqueue(task Task, now int64, setOriginal bool) {
	if setOriginal {
		task.EnqueueTime = now
	}
	q.tasks = append(q.tasks, task)
}

// Dequeue removes and returns the head task. ok is false on an empty queue.
func (q *Queue) Dequeue() (Task, bool) {
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	head := q.tasks[0]
	q.tasks = q.tasks[1:]
	return head, true
}

// DequeueTail removes and returns the tail task, used by a successful
// work-steal transfer (§4.4: "transfer its tail task").
func (q *Queue) DequeueTail() (Task, bool) {
	n := len(q.tasks)
	if n == 0 {
		return Task{}, false
	}
	tail := q.tasks[n-1]
	q.tasks = q.tasks[:n-1]
	return tail, true
}

// Length returns the number of tasks currently enqueued.
func (q *Queue) Length() int {
	return len(q.tasks)
}

// LengthByServiceTime sums TimeLeft across every enqueued task.
func (q *Queue) LengthByServiceTime() int64 {
	var total int64
	for _, t := range q.tasks {
		total += t.TimeLeft
	}
	return total
}

// CurrentDelay returns now minus the head task's EnqueueTime, or 0 when empty.
func (q *Queue) CurrentDelay(now int64) int64 {
	if len(q.tasks) == 0 {
		return 0
	}
	return now - q.tasks[0].EnqueueTime
}

// Lock attempts cooperative exclusive ownership for threadID. Returns false
// if another thread already holds the lock — the caller retries next tick.
func (q *Queue) Lock(threadID int) bool {
	if q.lockedBy != -1 && q.lockedBy != threadID {
		return false
	}
	q.lockedBy = threadID
	return true
}

// Unlock releases the lock held by threadID. A mismatched threadID is a no-op.
func (q *Queue) Unlock(threadID int) {
	if q.lockedBy == threadID {
		q.lockedBy = -1
	}
}

// IsLocked reports whether any thread currently holds the lock.
func (q *Queue) IsLocked() bool {
	return q.lockedBy != -1
}
