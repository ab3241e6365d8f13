package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tubepulse/tubepulse-go/internal/model"
)

// RefreshWorker keeps cached analytics fresh from two directions. It listens
// for PostgreSQL NOTIFY on the 'stats_changes' channel (payload = channel ID)
// and batches cache invalidations, so a burst of warehouse writes for one
// channel invalidates once. It also warms the branch and team rollups on a
// periodic tick, since those cover the most channels and are the slowest to
// rebuild on a cold cache.
type RefreshWorker struct {
	pool      *pgxpool.Pool
	analytics *AnalyticsService
	batchMs   time.Duration
	warmEvery time.Duration
	stopCh    chan struct{}

	mu      sync.Mutex
	pending map[string]struct{} // channel IDs waiting for invalidation
}

func NewRefreshWorker(pool *pgxpool.Pool, analytics *AnalyticsService, warmEvery time.Duration) *RefreshWorker {
	return &RefreshWorker{
		pool:      pool,
		analytics: analytics,
		batchMs:   5 * time.Second,
		warmEvery: warmEvery,
		stopCh:    make(chan struct{}),
		pending:   make(map[string]struct{}),
	}
}

// Start runs the listen loop and the warmup loop until the context is
// cancelled or Stop is called.
func (w *RefreshWorker) Start(ctx context.Context) {
	log.Printf("refresh-worker: starting (batch window=%s, warmup interval=%s)", w.batchMs, w.warmEvery)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	go w.warmLoop(ctx)

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Println("refresh-worker: stopping")
				return
			}
			log.Printf("refresh-worker: listen error, reconnecting in 5s: %v", err)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Println("refresh-worker: stopping")
				return
			}
		}
	}
}

// Stop signals the worker to stop.
func (w *RefreshWorker) Stop() {
	close(w.stopCh)
}

// listenLoop acquires a dedicated connection, LISTENs on stats_changes, and
// accumulates notified channel IDs for the batch flusher.
func (w *RefreshWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN stats_changes"); err != nil {
		return err
	}
	log.Println("refresh-worker: listening on stats_changes")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		channelID := notification.Payload
		if channelID == "" {
			continue
		}

		w.mu.Lock()
		w.pending[channelID] = struct{}{}
		w.mu.Unlock()
	}
}

// flushLoop periodically drains the pending set and invalidates caches.
func (w *RefreshWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.batchMs)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

func (w *RefreshWorker) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	invalidated := 0
	for channelID := range batch {
		if err := w.analytics.InvalidateChannel(ctx, channelID); err != nil {
			log.Printf("refresh-worker: invalidate error for %s: %v", channelID, err)
			continue
		}
		invalidated++
	}

	if invalidated > 0 {
		log.Printf("refresh-worker: batch complete, %d channels invalidated (from %d notifications)",
			invalidated, len(batch))
	}
}

// warmLoop rebuilds branch and team rollups for the default range on every
// tick, running one warmup immediately on startup.
func (w *RefreshWorker) warmLoop(ctx context.Context) {
	w.warm(ctx)

	ticker := time.NewTicker(w.warmEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.warm(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (w *RefreshWorker) warm(ctx context.Context) {
	start := time.Now()
	sel := model.RangeSelector{Preset: model.Preset30Days}

	branches, err := w.listIDs(ctx, `SELECT branch_id FROM branches ORDER BY branch_id`)
	if err != nil {
		log.Printf("refresh-worker: branch listing error: %v", err)
		return
	}
	teams, err := w.listIDs(ctx, `SELECT team_id FROM teams ORDER BY team_id`)
	if err != nil {
		log.Printf("refresh-worker: team listing error: %v", err)
		return
	}

	warmed := 0
	for _, id := range branches {
		if _, err := w.analytics.BranchAnalytics(ctx, id, sel); err != nil {
			log.Printf("refresh-worker: branch warmup error for %s: %v", id, err)
			continue
		}
		warmed++
	}
	for _, id := range teams {
		if _, err := w.analytics.TeamAnalytics(ctx, id, sel); err != nil {
			log.Printf("refresh-worker: team warmup error for %s: %v", id, err)
			continue
		}
		warmed++
	}

	log.Printf("refresh-worker: warmup complete, %d rollups refreshed (%s)",
		warmed, time.Since(start).Round(time.Millisecond))
}

func (w *RefreshWorker) listIDs(ctx context.Context, query string) ([]string, error) {
	rows, err := w.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
