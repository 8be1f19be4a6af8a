package scope

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_FlushRunsQueuedTasks(t *testing.T) {
	s := NewScheduler()
	var order []int
	s.Schedule(func() { order = append(order, 1) })
	s.Schedule(func() { order = append(order, 2) })

	if s.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", s.Pending())
	}
	if n := s.Flush(); n != 2 {
		t.Errorf("Flush() = %d, want 2", n)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
	if s.Flush() != 0 {
		t.Error("second Flush should run nothing")
	}
}

func TestScheduler_TasksScheduledDuringFlushWaitForNextFrame(t *testing.T) {
	s := NewScheduler()
	nested := false
	s.Schedule(func() {
		s.Schedule(func() { nested = true })
	})

	s.Flush()
	if nested {
		t.Fatal("nested task ran in the same frame")
	}
	s.Flush()
	if !nested {
		t.Error("nested task did not run on the next frame")
	}
}

func TestTask_Cancel(t *testing.T) {
	s := NewScheduler()
	ran := false
	task := s.Schedule(func() { ran = true })

	if !task.Cancel() {
		t.Error("Cancel on pending task should report true")
	}
	if task.Cancel() {
		t.Error("second Cancel should report false")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
	s.Flush()
	if ran || task.Ran() || !task.Canceled() {
		t.Error("canceled task ran")
	}
}

func TestTask_CancelAfterRun(t *testing.T) {
	s := NewScheduler()
	task := s.Schedule(func() {})
	s.Flush()

	if !task.Ran() {
		t.Fatal("task did not run")
	}
	if task.Cancel() {
		t.Error("Cancel after run should report false")
	}
	var nilTask *Task
	if nilTask.Cancel() || nilTask.Ran() || nilTask.Canceled() {
		t.Error("nil task methods should be inert")
	}
}

func TestScheduler_Close(t *testing.T) {
	s := NewScheduler()
	queued := s.Schedule(func() { t.Error("queued task ran after Close") })
	s.Close()

	if !queued.Canceled() {
		t.Error("Close should cancel queued tasks")
	}
	late := s.Schedule(func() { t.Error("late task ran") })
	if !late.Canceled() {
		t.Error("Schedule after Close should return a canceled task")
	}
	s.Flush()
}

func TestScheduler_NilFunc(t *testing.T) {
	s := NewScheduler()
	if task := s.Schedule(nil); !task.Canceled() {
		t.Error("nil fn should yield a canceled task")
	}
}

func TestScheduler_Run(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Bool
	s.Schedule(func() { ran.Store(true) })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()

	deadline := time.After(time.Second)
	for !ran.Load() {
		select {
		case <-deadline:
			t.Fatal("task did not run within a second")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	s.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil after Close", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
}
