package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pedidos-agent/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingPrinter struct {
	mu      sync.Mutex
	printed []string
	times   []time.Time
	err     error
}

func (p *recordingPrinter) Print(o domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.printed = append(p.printed, o.ID)
	p.times = append(p.times, time.Now())
	return nil
}

func (p *recordingPrinter) ids() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.printed))
	copy(out, p.printed)
	return out
}

type recordingStatuses struct {
	mu    sync.Mutex
	calls map[string]string
	err   error
}

func newRecordingStatuses() *recordingStatuses {
	return &recordingStatuses{calls: make(map[string]string)}
}

func (s *recordingStatuses) UpdateOrderStatus(_ context.Context, orderID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.calls[orderID] = status
	return nil
}

func pendingOrder(id string) domain.Order {
	return domain.Order{ID: id, Status: domain.StatusPending, CreatedAt: "2024-01-01T10:00:00Z"}
}

func TestConsiderPrintIsAtMostOncePerSession(t *testing.T) {
	prn := &recordingPrinter{}
	st := newRecordingStatuses()
	d := NewPrintDispatcher(prn, st, 0, testLogger())

	assert.True(t, d.ConsiderPrint(pendingOrder("ord-1")))
	assert.False(t, d.ConsiderPrint(pendingOrder("ord-1")))
	assert.True(t, d.ConsiderPrint(pendingOrder("ord-2")))
	d.Close()

	assert.ElementsMatch(t, []string{"ord-1", "ord-2"}, prn.ids())
	assert.True(t, d.Printed("ord-1"))
	assert.True(t, d.Printed("ord-2"))
}

func TestConsiderPrintConcurrentCyclesPrintOnce(t *testing.T) {
	prn := &recordingPrinter{}
	d := NewPrintDispatcher(prn, newRecordingStatuses(), 0, testLogger())

	const orders = 40
	const cycles = 6
	var wg sync.WaitGroup
	for c := 0; c < cycles; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < orders; i++ {
				d.ConsiderPrint(pendingOrder(fmt.Sprintf("ord-%d", i)))
			}
		}()
	}
	wg.Wait()
	d.Close()

	assert.Len(t, prn.ids(), orders)
}

func TestAutomaticPrintConfirmsStatus(t *testing.T) {
	prn := &recordingPrinter{}
	st := newRecordingStatuses()
	d := NewPrintDispatcher(prn, st, 0, testLogger())

	require.True(t, d.ConsiderPrint(pendingOrder("ord-1")))
	d.Close()

	st.mu.Lock()
	defer st.mu.Unlock()
	assert.Equal(t, domain.StatusPrinted, st.calls["ord-1"])
}

func TestManualPrintSkipsDedupAndStatusWriteBack(t *testing.T) {
	prn := &recordingPrinter{}
	st := newRecordingStatuses()
	d := NewPrintDispatcher(prn, st, 0, testLogger())

	require.True(t, d.ConsiderPrint(pendingOrder("ord-1")))
	d.PrintNow(pendingOrder("ord-1"))
	d.Close()

	assert.Equal(t, []string{"ord-1", "ord-1"}, prn.ids())
	st.mu.Lock()
	defer st.mu.Unlock()
	// Only the automatic print reports back.
	assert.Len(t, st.calls, 1)
}

func TestPrintFailureKeepsMark(t *testing.T) {
	prn := &recordingPrinter{err: errors.New("paper jam")}
	d := NewPrintDispatcher(prn, newRecordingStatuses(), 0, testLogger())

	require.True(t, d.ConsiderPrint(pendingOrder("ord-1")))
	assert.False(t, d.ConsiderPrint(pendingOrder("ord-1")))
	d.Close()

	assert.Empty(t, prn.ids())
	assert.True(t, d.Printed("ord-1"))
}

func TestStatusUpdateFailureDoesNotBlockPrinting(t *testing.T) {
	prn := &recordingPrinter{}
	st := newRecordingStatuses()
	st.err = errors.New("backend down")
	d := NewPrintDispatcher(prn, st, 0, testLogger())

	require.True(t, d.ConsiderPrint(pendingOrder("ord-1")))
	require.True(t, d.ConsiderPrint(pendingOrder("ord-2")))
	d.Close()

	assert.ElementsMatch(t, []string{"ord-1", "ord-2"}, prn.ids())
	assert.True(t, d.Printed("ord-1"))
}

func TestAutomaticPrintWaitsForDebounce(t *testing.T) {
	prn := &recordingPrinter{}
	const debounce = 60 * time.Millisecond
	d := NewPrintDispatcher(prn, newRecordingStatuses(), debounce, testLogger())

	start := time.Now()
	require.True(t, d.ConsiderPrint(pendingOrder("ord-1")))
	d.Close()

	prn.mu.Lock()
	defer prn.mu.Unlock()
	require.Len(t, prn.times, 1)
	assert.GreaterOrEqual(t, prn.times[0].Sub(start), debounce)
}

func TestEnqueueAfterCloseIsIgnored(t *testing.T) {
	prn := &recordingPrinter{}
	d := NewPrintDispatcher(prn, newRecordingStatuses(), 0, testLogger())
	d.Close()

	assert.NotPanics(t, func() {
		d.PrintNow(pendingOrder("ord-late"))
		d.ConsiderPrint(pendingOrder("ord-later"))
	})
	assert.Empty(t, prn.ids())
}
