package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"pedidos-agent/internal/domain"
)

type OrderFetcher interface {
	FetchOrders(ctx context.Context, page, limit int) (domain.OrdersResponse, error)
}

type PrintSink interface {
	ConsiderPrint(o domain.Order) bool
}

// Synchronizer drives the poll cycle: fetch, sort, reconcile against the
// printed set, dispatch. The silent periodic path and the manual refresh path
// run the same pipeline; only error surfacing differs.
type Synchronizer struct {
	fetcher  OrderFetcher
	sink     PrintSink
	interval time.Duration
	limit    int
	log      *slog.Logger

	mu         sync.RWMutex
	snapshot   []domain.Order
	lastSync   time.Time
	onSnapshot func([]domain.Order)

	cycling atomic.Bool
	gate    func() bool
}

func NewSynchronizer(f OrderFetcher, sink PrintSink, interval time.Duration, limit int, log *slog.Logger) *Synchronizer {
	return &Synchronizer{
		fetcher:  f,
		sink:     sink,
		interval: interval,
		limit:    limit,
		log:      log,
	}
}

// SetSnapshotListener registers the callback invoked with every fresh sorted
// snapshot. The front-end boundary hangs off this.
func (s *Synchronizer) SetSnapshotListener(fn func([]domain.Order)) {
	s.mu.Lock()
	s.onSnapshot = fn
	s.mu.Unlock()
}

// SetGate installs a predicate consulted before each silent cycle. Used to
// keep the poll idle until a session exists.
func (s *Synchronizer) SetGate(fn func() bool) {
	s.gate = fn
}

// Run polls until ctx is cancelled. Each tick starts a cycle only if the
// previous one settled; at most one silent reconciliation runs at a time. A
// failed cycle is a no-op — the previous snapshot stands and the next tick
// retries implicitly.
func (s *Synchronizer) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if s.gate != nil && !s.gate() {
				continue
			}
			if !s.cycling.CompareAndSwap(false, true) {
				s.log.Debug("poll cycle still in flight, skipping tick")
				continue
			}
			go func() {
				defer s.cycling.Store(false)
				if _, err := s.refresh(ctx); err != nil {
					s.log.Warn("silent poll failed", "err", err)
				}
			}()
		}
	}
}

// Refresh is the user-triggered path; errors surface to the caller. It may
// overlap with a silent cycle — the printed set serializes the only state
// both mutate.
func (s *Synchronizer) Refresh(ctx context.Context) ([]domain.Order, error) {
	return s.refresh(ctx)
}

func (s *Synchronizer) refresh(ctx context.Context) ([]domain.Order, error) {
	resp, err := s.fetcher.FetchOrders(ctx, 1, s.limit)
	if err != nil {
		return nil, err
	}
	orders := sortByCreatedAtDesc(resp.Orders)
	// The result of a cycle that outlived its screen is discarded.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.mu.Lock()
	s.snapshot = orders
	s.lastSync = time.Now()
	notify := s.onSnapshot
	s.mu.Unlock()
	if notify != nil {
		notify(orders)
	}
	for _, o := range orders {
		if o.Status != domain.StatusPending {
			continue
		}
		// print_requested_at is advisory; the printed-set membership is
		// what decides, and it also blocks re-prints after a status
		// reverts server-side.
		if s.sink.ConsiderPrint(o) {
			s.log.Info("new order queued for print", "order_id", o.ID, "created_at", o.CreatedAt)
		}
	}
	return orders, nil
}

// Snapshot returns a copy of the last successfully reconciled order list.
func (s *Synchronizer) Snapshot() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

func (s *Synchronizer) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// sortByCreatedAtDesc orders newest first. Plain string comparison is correct
// here: the backend emits ISO-8601 timestamps, which sort lexicographically.
// Equal timestamps keep their arrival order.
func sortByCreatedAtDesc(in []domain.Order) []domain.Order {
	out := make([]domain.Order, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}
