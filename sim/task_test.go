package sim

import "testing"

func TestNewTask_InitializesUnstartedUncompleted(t *testing.T) {
	// GIVEN a freshly-generated task
	task := NewTask(1, 2, 100, 50)

	// THEN it carries its service time as TimeLeft and has no start/complete time
	if task.TimeLeft != 100 {
		t.Errorf("TimeLeft: got %d, want 100", task.TimeLeft)
	}
	if task.StartTime != -1 {
		t.Errorf("StartTime: got %d, want -1", task.StartTime)
	}
	if task.CompleteTime != -1 {
		t.Errorf("CompleteTime: got %d, want -1", task.CompleteTime)
	}
	if task.EnqueueTime != task.ArrivalTime {
		t.Errorf("EnqueueTime: got %d, want %d (ArrivalTime)", task.EnqueueTime, task.ArrivalTime)
	}
}

func TestTask_QueueingDelay_BeforeStart_ReturnsZero(t *testing.T) {
	// GIVEN a task that has not yet started
	task := NewTask(1, 0, 10, 0)

	// WHEN QueueingDelay is called
	got := task.QueueingDelay()

	// THEN it returns 0
	if got != 0 {
		t.Errorf("QueueingDelay: got %d, want 0", got)
	}
}

func TestTask_QueueingDelay_AfterStart_ReturnsGap(t *testing.T) {
	// GIVEN a task enqueued at 10, started at 25
	task := NewTask(1, 0, 10, 0)
	task.EnqueueTime = 10
	task.StartTime = 25

	// WHEN QueueingDelay is called
	got := task.QueueingDelay()

	// THEN it returns 15
	if got != 15 {
		t.Errorf("QueueingDelay: got %d, want 15", got)
	}
}

func TestTask_SojournTime_BeforeCompletion_ReturnsZero(t *testing.T) {
	task := NewTask(1, 0, 10, 0)
	if got := task.SojournTime(); got != 0 {
		t.Errorf("SojournTime: got %d, want 0", got)
	}
}

func TestTask_SojournTime_AfterCompletion_ReturnsGap(t *testing.T) {
	task := NewTask(1, 0, 10, 100)
	task.CompleteTime = 250

	if got := task.SojournTime(); got != 150 {
		t.Errorf("SojournTime: got %d, want 150", got)
	}
}

func TestTask_Done_ReportsRemainingWork(t *testing.T) {
	task := NewTask(1, 0, 5, 0)
	if task.Done() {
		t.Error("Done: got true for a task with remaining work")
	}
	task.TimeLeft = 0
	if !task.Done() {
		t.Error("Done: got false for a task with zero TimeLeft")
	}
	task.TimeLeft = -1
	if !task.Done() {
		t.Error("Done: got false for a task with negative TimeLeft")
	}
}
