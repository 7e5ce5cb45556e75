package OfflineQueue

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"Checkpoint/Models"
)

// Store is the durable FIFO queue of submissions that could not be delivered.
// Entries survive restarts; they are created on delivery failure and removed
// once a later drain manages to dispatch them.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

var entrySeq atomic.Uint64

// newEntryID builds a time-ordered opaque id. The sequence suffix keeps ids
// unique when several entries land in the same millisecond.
func newEntryID(now time.Time) string {
	return fmt.Sprintf("offline-%d-%04d", now.UnixMilli(), entrySeq.Add(1)%10000)
}

// Enqueue appends a payload to the queue and returns the new entry id.
func (s *Store) Enqueue(payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding queue payload: %w", err)
	}

	now := time.Now()
	entry := Models.QueueEntry{
		EntryID:    newEntryID(now),
		EnqueuedAt: now.UnixMilli(),
		Payload:    body,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return "", fmt.Errorf("persisting queue entry: %w", err)
	}
	return entry.EntryID, nil
}

// ListPending returns all queued entries oldest first, so submissions sync in
// their original temporal order.
func (s *Store) ListPending() ([]Models.QueueEntry, error) {
	var entries []Models.QueueEntry
	if err := s.DB.Order("enqueued_at asc, id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Remove deletes one entry. Removing an id that is already gone is a no-op.
func (s *Store) Remove(entryID string) error {
	return s.DB.Unscoped().Where("entry_id = ?", entryID).Delete(&Models.QueueEntry{}).Error
}

// Clear drops every pending entry.
func (s *Store) Clear() error {
	return s.DB.Unscoped().Where("1 = 1").Delete(&Models.QueueEntry{}).Error
}

// Count returns the number of pending entries.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.DB.Model(&Models.QueueEntry{}).Count(&n).Error
	return n, err
}
