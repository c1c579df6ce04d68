package store

import (
	"errors"
	"sync"

	"github.com/avvvet/cardscanner-services/internal/scansvc/models"
)

var ErrScanNotFound = errors.New("scan not found")

// InventoryStore keeps the session inventory in memory, in scan order.
type InventoryStore struct {
	mu    sync.RWMutex
	scans []models.Scan
}

func NewInventoryStore() *InventoryStore {
	return &InventoryStore{}
}

func (s *InventoryStore) Append(scans ...models.Scan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans = append(s.scans, scans...)
}

// List returns a copy of every scan, oldest first.
func (s *InventoryStore) List() []models.Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Scan, len(s.scans))
	copy(out, s.scans)
	return out
}

// Records returns just the records, oldest first.
func (s *InventoryStore) Records() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, len(s.scans))
	for i, scan := range s.scans {
		out[i] = scan.Record
	}
	return out
}

func (s *InventoryStore) Get(id string) (models.Scan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, scan := range s.scans {
		if scan.ID == id {
			return scan, nil
		}
	}
	return models.Scan{}, ErrScanNotFound
}

func (s *InventoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, scan := range s.scans {
		if scan.ID == id {
			s.scans = append(s.scans[:i], s.scans[i+1:]...)
			return nil
		}
	}
	return ErrScanNotFound
}

// Replace swaps the whole inventory, used when resuming from a file.
func (s *InventoryStore) Replace(scans []models.Scan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans = append([]models.Scan(nil), scans...)
}

func (s *InventoryStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.scans)
	s.scans = nil
	return n
}

func (s *InventoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scans)
}
