package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/boltdb/bolt"
	uuid "github.com/satori/go.uuid"

	"absenceio/def"
)

// HistoryEntry is one sent (or attempted) query.
type HistoryEntry struct {
	ID        string          `json:"id"`
	Endpoint  string          `json:"endpoint"`
	Body      json.RawMessage `json:"body"`
	Status    int             `json:"status"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// History keeps query bodies in a local bolt file.
type History struct {
	db *bolt.DB
}

func OpenHistory(path string) (*History, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	return &History{db: db}, nil
}

// Add stores entry, filling in ID and CreatedAt when empty.
func (h *History) Add(entry HistoryEntry) (HistoryEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewV4().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	value, err := json.Marshal(entry)
	if err != nil {
		return entry, err
	}
	err = h.db.Update(func(tx *bolt.Tx) error {
		bk, err := tx.CreateBucketIfNotExists([]byte(def.HistoryBucket))
		if err != nil {
			return err
		}
		return bk.Put([]byte(entry.ID), value)
	})
	return entry, err
}

// List returns all entries, oldest first.
func (h *History) List() ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := h.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket([]byte(def.HistoryBucket))
		if bk == nil {
			return nil
		}
		return bk.ForEach(func(k, v []byte) error {
			var entry HistoryEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("history entry %s: %w", k, err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// Clear drops every entry and reports how many were removed.
func (h *History) Clear() (int, error) {
	n := 0
	err := h.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket([]byte(def.HistoryBucket))
		if bk == nil {
			return nil
		}
		if err := bk.ForEach(func(k, v []byte) error {
			n++
			return nil
		}); err != nil {
			return err
		}
		return tx.DeleteBucket([]byte(def.HistoryBucket))
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (h *History) Close() error {
	return h.db.Close()
}
