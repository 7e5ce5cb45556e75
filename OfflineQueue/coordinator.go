package OfflineQueue

import (
	"context"
	"encoding/json"
	"log"
)

// Dispatcher sends one payload to the remote endpoint. A nil error means the
// request was dispatched, not that the server processed it.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload any) error
}

// DrainResult reports the per-entry outcomes of one drain pass. Partial
// results are normal: failed entries stay queued for the next pass.
type DrainResult struct {
	Synced       []string `json:"synced"`
	StillPending []string `json:"still_pending"`
}

// Coordinator flushes the offline store against the remote endpoint.
type Coordinator struct {
	Store      *Store
	Dispatcher Dispatcher
}

func NewCoordinator(store *Store, dispatcher Dispatcher) *Coordinator {
	return &Coordinator{Store: store, Dispatcher: dispatcher}
}

// Drain attempts delivery of every pending entry in FIFO order. Entries fail
// independently: a dead entry does not block the ones behind it, since the
// remote side has no ordering dependency between submissions. "Synced" means
// the dispatch did not error; with an unverifiable endpoint that is the
// strongest claim a drain can make.
func (c *Coordinator) Drain(ctx context.Context) (DrainResult, error) {
	result := DrainResult{Synced: []string{}, StillPending: []string{}}

	entries, err := c.Store.ListPending()
	if err != nil {
		return result, err
	}

	for _, entry := range entries {
		if err := c.Dispatcher.Dispatch(ctx, json.RawMessage(entry.Payload)); err != nil {
			log.Printf("Failed to sync entry %s: %v", entry.EntryID, err)
			result.StillPending = append(result.StillPending, entry.EntryID)
			continue
		}
		if err := c.Store.Remove(entry.EntryID); err != nil {
			log.Printf("Failed to remove synced entry %s: %v", entry.EntryID, err)
			result.StillPending = append(result.StillPending, entry.EntryID)
			continue
		}
		result.Synced = append(result.Synced, entry.EntryID)
	}

	if len(entries) > 0 {
		log.Printf("Drain finished: %d synced, %d still pending", len(result.Synced), len(result.StillPending))
	}
	return result, nil
}
