package gpio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/microwave-oven/internal/logger"
	"github.com/sweeney/microwave-oven/internal/oven"
)

func TestSignalQueueWarnsOncePerOverflow(t *testing.T) {
	var buf bytes.Buffer
	q := newSignalQueue(logger.NewWithWriter(&buf, "debug"))
	defer q.close()

	for i := 0; i < inputBuffer+5; i++ {
		q.push(oven.InputStartCancelPressed)
	}
	if n := strings.Count(buf.String(), "input queue full"); n != 1 {
		t.Errorf("expected one overflow warning, got %d:\n%s", n, buf.String())
	}

	for i := 0; i < 4; i++ {
		select {
		case <-q.out:
		case <-time.After(time.Second):
			t.Fatal("queued press not delivered")
		}
	}
	if !strings.Contains(buf.String(), "input queue recovered") {
		t.Errorf("expected recovery to be logged:\n%s", buf.String())
	}
}

func TestSignalQueueCloseStopsDelivery(t *testing.T) {
	q := newSignalQueue(logger.Nop())
	q.push(oven.InputPowerPressed)
	q.close()
	q.close()

	time.Sleep(10 * time.Millisecond)
	select {
	case in := <-q.out:
		t.Errorf("unexpected signal %s after close", in)
	default:
	}
}
