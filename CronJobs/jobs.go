package CronJobs

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"Checkpoint/Guard"
	"Checkpoint/OfflineQueue"
	"Checkpoint/SheetApi"
)

// MarkerJanitor evicts stale submission markers on a daily schedule. Markers
// embed the calendar day they guard, so past days are inert but would pile up
// forever without eviction.
type MarkerJanitor struct {
	guard         *Guard.SubmissionGuard
	retentionDays int
	cronScheduler *cron.Cron
	jobID         cron.EntryID
}

func NewMarkerJanitor(guard *Guard.SubmissionGuard, retentionDays int) *MarkerJanitor {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &MarkerJanitor{
		guard:         guard,
		retentionDays: retentionDays,
		cronScheduler: cron.New(cron.WithSeconds()),
	}
}

// Start schedules the eviction for 3:00 AM every day.
func (j *MarkerJanitor) Start() error {
	var err error
	j.jobID, err = j.cronScheduler.AddFunc("0 0 3 * * *", func() {
		log.Println("Running scheduled marker eviction")
		j.RunEviction()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	j.cronScheduler.Start()
	log.Printf("Marker janitor started - evicting markers older than %d days", j.retentionDays)
	return nil
}

func (j *MarkerJanitor) Stop() {
	if j.cronScheduler != nil {
		j.cronScheduler.Stop()
		log.Println("Marker janitor stopped")
	}
}

// RunEviction executes one eviction pass.
func (j *MarkerJanitor) RunEviction() {
	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)
	removed, err := j.guard.EvictBefore(cutoff)
	if err != nil {
		log.Printf("Error evicting markers: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Evicted %d stale submission markers", removed)
	}
}

// ConnectivityWatcher probes the sheet endpoint and tracks the last known
// connectivity state. A drain is triggered exactly on the offline-to-online
// transition: the probe itself runs on a timer but the drain never does,
// keeping load off the rate-limited spreadsheet backend.
type ConnectivityWatcher struct {
	client        *SheetApi.Client
	coordinator   *OfflineQueue.Coordinator
	interval      time.Duration
	cronScheduler *cron.Cron
	online        atomic.Bool
}

func NewConnectivityWatcher(client *SheetApi.Client, coordinator *OfflineQueue.Coordinator, interval time.Duration) *ConnectivityWatcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ConnectivityWatcher{
		client:        client,
		coordinator:   coordinator,
		interval:      interval,
		cronScheduler: cron.New(),
	}
}

// Start begins probing. The first probe runs immediately so the state is
// meaningful before the first tick.
func (w *ConnectivityWatcher) Start() error {
	if !w.client.Configured() {
		// Local-only mode: permanently offline, nothing to probe or drain.
		log.Println("Connectivity watcher idle - no sheet endpoint configured")
		return nil
	}

	schedule := fmt.Sprintf("@every %ds", int(w.interval.Seconds()))
	if _, err := w.cronScheduler.AddFunc(schedule, w.probe); err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	w.probe()
	w.cronScheduler.Start()
	log.Printf("Connectivity watcher started - probing every %s", w.interval)
	return nil
}

func (w *ConnectivityWatcher) Stop() {
	if w.cronScheduler != nil {
		w.cronScheduler.Stop()
	}
}

// Online reports the last known connectivity state.
func (w *ConnectivityWatcher) Online() bool {
	return w.online.Load()
}

func (w *ConnectivityWatcher) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := w.client.Ping(ctx)
	was := w.online.Swap(now)

	if was == now {
		return
	}
	if now {
		log.Println("Connectivity restored - draining offline queue")
		go func() {
			drainCtx, drainCancel := context.WithTimeout(context.Background(), time.Minute)
			defer drainCancel()
			if _, err := w.coordinator.Drain(drainCtx); err != nil {
				log.Printf("Opportunistic drain failed: %v", err)
			}
		}()
	} else {
		log.Println("Connectivity lost - submissions will queue offline")
	}
}
