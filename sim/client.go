// Implements Client, the Breakwater admission-control endpoint (§3 Client,
// §4.7 Client — Admission and AQM). A Client holds pending tasks and an
// authorized credit window; it decides, per attempt, whether to admit a
// task onto a core queue or drop it.

package sim

// Client is one Breakwater client. It carries no pointer back to the
// server; SimulationState resolves the relation by index (§3 Ownership
// summary).
type Client struct {
	ID      int
	Pending []Task

	Window  int64 // Cx = CInUse + CUnused
	CInUse  int64 // credits spent, not yet acknowledged
	CUnused int64 // granted credits, not yet spent

	Registered bool

	TotalTasks   int64
	DroppedTasks int64

	CoresAtDrops []CoreAtDrop // supplemented sampling, see SPEC_FULL.md item 4
}

// CoreAtDrop is a (time, available_queue_count) sample taken on an AQM drop.
type CoreAtDrop struct {
	Time                 int64
	AvailableQueueCount int
}

// NewClient constructs an unregistered Client with zero credits.
func NewClient(id int) *Client {
	return &Client{ID: id, CInUse: 0, CUnused: 0, Window: 0}
}

// Demand returns the current pending-queue length (§3 current_demand).
func (c *Client) Demand() int64 {
	return int64(len(c.Pending))
}

// EnqueueTask appends a newly-arrived task to pending demand. The caller is
// responsible for then invoking SpendCredits (§4.7: "attempt spend_credits").
func (c *Client) EnqueueTask(t Task) {
	c.Pending = append(c.Pending, t)
	c.TotalTasks++
}

// GrantCredit increments CUnused by one, as triggered by the server's lazy
// distribution (§4.6). The caller must still invoke SpendCredits to act on it.
func (c *Client) GrantCredit() {
	c.CUnused++
}

// AdmitResult is the outcome of one SpendCredits attempt.
type AdmitResult int

const (
	AdmitNone AdmitResult = iota // nothing to spend, or no credit available
	AdmitAdmitted
	AdmitDropped
)

// SpendCredits implements §4.7's spend_credits: pop the head pending task,
// reserve a credit, and run the AQM check. maxQueueDelay is the maximum
// observed delay across the engine's core queues at this instant. Choosing
// the core queue for an admitted task is left to the caller, since queue
// selection needs the engine's full queue set. Returns the outcome and,
// when admitted or dropped, the task involved.
func (c *Client) SpendCredits(now int64, targetDelay int64, aqmEnabled bool, maxQueueDelay int64, availableQueueCount int, recordCoreAtDrop bool) (AdmitResult, Task) {
	if len(c.Pending) == 0 {
		return AdmitNone, Task{}
	}
	if c.CUnused <= 0 {
		return AdmitNone, Task{}
	}

	task := c.Pending[0]
	c.Pending = c.Pending[1:]
	c.CUnused--
	c.CInUse++

	if !aqmEnabled || maxQueueDelay <= 2*targetDelay {
		task.ArrivalTime = now
		return AdmitAdmitted, task
	}

	// Roll back: admission refused, task is lost (not re-enqueued).
	c.CUnused++
	c.CInUse--
	c.DroppedTasks++
	if recordCoreAtDrop {
		c.CoresAtDrops = append(c.CoresAtDrops, CoreAtDrop{Time: now, AvailableQueueCount: availableQueueCount})
	}
	return AdmitDropped, task
}

// AcknowledgeCompletion decrements CInUse when a task this client owns
// completes, reconciling the spent credit (piggybacked on completion per
// §4.6's "emulating piggyback on the response").
func (c *Client) AcknowledgeCompletion() {
	if c.CInUse > 0 {
		c.CInUse--
	}
}

// SetWindow applies a new authorized window from the server's lazy
// distribution (§4.6), reconciling CUnused with the remaining gap so that
// CInUse + CUnused == Window holds again (§3 invariant).
func (c *Client) SetWindow(newWindow int64) {
	c.Window = newWindow
	c.CUnused = newWindow - c.CInUse
	if c.CUnused < 0 {
		c.CUnused = 0
	}
}
