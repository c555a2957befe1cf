package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"pedidos-agent/internal/domain"
)

type Printer interface {
	Print(domain.Order) error
}

type StatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
}

type printJob struct {
	id        string
	order     domain.Order
	detected  time.Time
	automatic bool
}

// PrintDispatcher owns the physical printer. Automatic prints are deduplicated
// per order id for the lifetime of the session and debounced so a burst of
// simultaneous orders settles before the printer engages. All jobs, manual
// included, run through a single worker: the printer is a serial resource and
// interleaved output ruins receipts.
type PrintDispatcher struct {
	printer  Printer
	statuses StatusUpdater
	debounce time.Duration
	log      *slog.Logger

	printed *PrintedSet
	jobs    chan printJob

	mu       sync.Mutex
	closed   bool
	workerWG sync.WaitGroup
	updateWG sync.WaitGroup
}

func NewPrintDispatcher(p Printer, st StatusUpdater, debounce time.Duration, log *slog.Logger) *PrintDispatcher {
	d := &PrintDispatcher{
		printer:  p,
		statuses: st,
		debounce: debounce,
		log:      log,
		printed:  NewPrintedSet(),
		jobs:     make(chan printJob, 128),
	}
	d.workerWG.Add(1)
	go d.worker()
	return d
}

// ConsiderPrint queues an automatic print unless the order already printed
// this session. Idempotent per order id: the mark and the membership check
// are one atomic step, so two overlapping reconciliation cycles cannot both
// win.
func (d *PrintDispatcher) ConsiderPrint(o domain.Order) bool {
	if !d.printed.MarkIfNew(o.ID) {
		return false
	}
	d.enqueue(printJob{id: uuid.NewString(), order: o, detected: time.Now(), automatic: true})
	return true
}

// PrintNow queues a user-initiated print. It bypasses the dedup set and the
// debounce but shares the serialized queue.
func (d *PrintDispatcher) PrintNow(o domain.Order) {
	d.enqueue(printJob{id: uuid.NewString(), order: o, detected: time.Now()})
}

// Printed reports whether an order already triggered an automatic print.
func (d *PrintDispatcher) Printed(orderID string) bool {
	return d.printed.Contains(orderID)
}

func (d *PrintDispatcher) enqueue(j printJob) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.jobs <- j:
	default:
		// Queue full means the printer has been stuck for a long while.
		// The printed mark stays: re-printing a backlog later would flood
		// the counter with stale receipts.
		d.log.Error("print queue full, dropping job",
			"job_id", j.id, "order_id", j.order.ID)
	}
}

// Close stops accepting jobs, drains the queue and waits for in-flight
// status updates.
func (d *PrintDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()
	d.workerWG.Wait()
	d.updateWG.Wait()
}

func (d *PrintDispatcher) worker() {
	defer d.workerWG.Done()
	for j := range d.jobs {
		if j.automatic {
			if wait := d.debounce - time.Since(j.detected); wait > 0 {
				time.Sleep(wait)
			}
		}
		if err := d.printer.Print(j.order); err != nil {
			// No retry: a persistently broken printer must not turn
			// into a print storm, and the mark stays.
			d.log.Error("print failed", "job_id", j.id, "order_id", j.order.ID, "err", err)
		} else {
			d.log.Info("order printed", "job_id", j.id, "order_id", j.order.ID, "automatic", j.automatic)
		}
		if j.automatic {
			d.updateWG.Add(1)
			go d.confirmPrinted(j.order.ID)
		}
	}
}

// confirmPrinted writes the printed status back best-effort. The print path
// never waits on it, and failure is only logged: the order may come back as
// pending next cycle, but the printed set still suppresses a duplicate
// printout.
func (d *PrintDispatcher) confirmPrinted(orderID string) {
	defer d.updateWG.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := d.statuses.UpdateOrderStatus(ctx, orderID, domain.StatusPrinted); err != nil {
		d.log.Warn("printed status update failed", "order_id", orderID, "err", err)
	}
}
