package service

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/avvvet/cardscanner-services/internal/comm"
	"github.com/avvvet/cardscanner-services/internal/scansvc/broker"
	"github.com/avvvet/cardscanner-services/internal/scansvc/models"
	"github.com/avvvet/cardscanner-services/internal/scansvc/pricing"
	"github.com/avvvet/cardscanner-services/internal/scansvc/store"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	ImportReplace = "replace"
	ImportAppend  = "append"
)

var ErrInvalidImportMode = errors.New("import mode must be \"replace\" or \"append\"")

type InventoryService struct {
	store  *store.InventoryStore
	broker *broker.Broker
}

func NewInventoryService(s *store.InventoryStore, b *broker.Broker) *InventoryService {
	return &InventoryService{store: s, broker: b}
}

func (s *InventoryService) List() []models.Scan {
	return s.store.List()
}

func (s *InventoryService) Get(id string) (models.Scan, error) {
	return s.store.Get(id)
}

func (s *InventoryService) Delete(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.broker.PublishInventoryChanged(comm.InventoryChanged{Action: "delete", Count: s.store.Len()})
	return nil
}

func (s *InventoryService) Clear() int {
	n := s.store.Clear()
	s.broker.PublishInventoryChanged(comm.InventoryChanged{Action: "clear", Count: 0})
	log.Infof("inventory cleared, %d scans removed", n)
	return n
}

func (s *InventoryService) Summary() models.InventorySummary {
	return pricing.Summarize(s.store.Records())
}

// Export writes the inventory as CSV.
func (s *InventoryService) Export(w io.Writer) error {
	return store.WriteCSV(w, s.store.Records())
}

// Import loads a previously exported CSV. Replace resumes a session from the
// file, append adds its rows after the current inventory.
func (s *InventoryService) Import(r io.Reader, mode string) (int, error) {
	if mode == "" {
		mode = ImportReplace
	}
	if mode != ImportReplace && mode != ImportAppend {
		return 0, fmt.Errorf("%q: %w", mode, ErrInvalidImportMode)
	}

	records, err := store.ReadCSV(r)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	scans := make([]models.Scan, len(records))
	for i, rec := range records {
		scans[i] = models.Scan{
			ID:        uuid.New().String(),
			Record:    rec,
			ScannedAt: now,
		}
	}

	if mode == ImportReplace {
		s.store.Replace(scans)
	} else {
		s.store.Append(scans...)
	}

	s.broker.PublishInventoryChanged(comm.InventoryChanged{Action: "import", Count: s.store.Len()})
	log.Infof("imported %d records (%s)", len(records), mode)

	return len(records), nil
}
