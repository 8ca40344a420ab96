package eventbus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/taskwall/taskwall/pkg/logging"
)

type taskAssigned struct {
	taskID string
}

type taskArchived struct{}

func TestPublisher_Subscribe(t *testing.T) {
	bus := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	var got string
	bus.Subscribe(func(e *taskAssigned) {
		got = e.taskID
	})

	bus.Publish(&taskAssigned{taskID: "t-42"})

	if got != "t-42" {
		t.Errorf("expected handler to receive t-42, got %q", got)
	}
}

func TestPublisher_NoMatchingSubscriberLogs(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.WarnLevel)

	bus := NewEventPublisher(log)
	bus.Subscribe(func(e *taskAssigned) {
		t.Error("should not be called")
	})

	bus.Publish(&taskArchived{})

	if output := logBuffer.String(); !strings.Contains(output, "no matching subscribers") {
		t.Errorf("expected no-subscriber warning, got: %q", output)
	}
}

func TestPublisher_PanicRecovery(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.ErrorLevel)

	bus := NewEventPublisher(log)
	bus.Subscribe(func(e *taskAssigned) {
		panic("intentional panic for testing")
	})
	reached := false
	bus.Subscribe(func(e *taskAssigned) {
		reached = true
	})

	bus.Publish(&taskAssigned{taskID: "t-1"})

	if !reached {
		t.Error("remaining subscribers should still run after a panic")
	}
	if !strings.Contains(logBuffer.String(), "panicked") {
		t.Errorf("panic should be logged, got: %q", logBuffer.String())
	}
}

func TestPublisher_Unsubscribe(t *testing.T) {
	bus := NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	handler := func(e *taskAssigned) {
		t.Error("should not be called after unsubscribe")
	}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	if bus.SubscribersCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", bus.SubscribersCount())
	}
}

func TestMatchSignature(t *testing.T) {
	if !matchSignature(func(e *taskAssigned) {}, []any{&taskAssigned{}}) {
		t.Error("expected exact match")
	}
	if matchSignature(func(e *taskAssigned) {}, []any{&taskArchived{}}) {
		t.Error("expected type mismatch")
	}
	if matchSignature(func(e *taskAssigned) {}, []any{}) {
		t.Error("expected arity mismatch")
	}
	if matchSignature("not a func", []any{&taskAssigned{}}) {
		t.Error("non-functions never match")
	}
}
