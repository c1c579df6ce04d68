package service

import (
	"context"
	"time"

	"github.com/avvvet/cardscanner-services/internal/comm"
	"github.com/avvvet/cardscanner-services/internal/scansvc/analyzer"
	"github.com/avvvet/cardscanner-services/internal/scansvc/broker"
	"github.com/avvvet/cardscanner-services/internal/scansvc/models"
	"github.com/avvvet/cardscanner-services/internal/scansvc/store"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ScanRequest is one item to scan: front is required, back is optional.
type ScanRequest struct {
	Front    *Upload
	Back     *Upload
	Hint     string
	Location string
}

type BatchRequest struct {
	Images   []Upload
	Pairing  string
	Hint     string
	Location string
}

type BatchFailure struct {
	Index int      `json:"index"`
	Files []string `json:"files"`
	Error string   `json:"error"`
}

type BatchResult struct {
	Scans    []models.Scan  `json:"scans"`
	Failures []BatchFailure `json:"failures"`
}

type ScanService struct {
	analyzer    *analyzer.Analyzer
	store       *store.InventoryStore
	broker      *broker.Broker
	maxBytes    int64
	concurrency int
	now         func() time.Time
}

func NewScanService(a *analyzer.Analyzer, s *store.InventoryStore, b *broker.Broker, maxBytes int64, concurrency int) *ScanService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ScanService{
		analyzer:    a,
		store:       s,
		broker:      b,
		maxBytes:    maxBytes,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Scan identifies one item and appends it to the inventory.
func (s *ScanService) Scan(ctx context.Context, req ScanRequest) (*models.Scan, error) {
	scan, err := s.identify(ctx, req)
	if err != nil {
		return nil, err
	}

	s.store.Append(*scan)
	s.broker.PublishScanCompleted(comm.ScanCompleted{Scan: *scan})
	log.Infof("scan %s added: %s", scan.ID, scan.Record.Title())

	return scan, nil
}

// ScanBatch pairs the uploaded images, identifies every item with bounded
// concurrency and appends the successes in upload order. One failed item does
// not stop the others.
func (s *ScanService) ScanBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	reqs, err := Pair(req.Images, req.Pairing)
	if err != nil {
		return nil, err
	}

	scans := make([]*models.Scan, len(reqs))
	errs := make([]error, len(reqs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range reqs {
		reqs[i].Hint = req.Hint
		reqs[i].Location = req.Location
		g.Go(func() error {
			scans[i], errs[i] = s.identify(ctx, reqs[i])
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{Scans: []models.Scan{}, Failures: []BatchFailure{}}
	for i, scan := range scans {
		if errs[i] != nil {
			log.Errorf("Error [ScanService.ScanBatch] item %d: %s", i, errs[i])
			result.Failures = append(result.Failures, BatchFailure{
				Index: i,
				Files: reqs[i].filenames(),
				Error: errs[i].Error(),
			})
			continue
		}
		result.Scans = append(result.Scans, *scan)
	}

	s.store.Append(result.Scans...)
	for _, scan := range result.Scans {
		s.broker.PublishScanCompleted(comm.ScanCompleted{Scan: scan})
	}
	log.Infof("batch of %d items: %d added, %d failed", len(reqs), len(result.Scans), len(result.Failures))

	return result, nil
}

func (s *ScanService) identify(ctx context.Context, req ScanRequest) (*models.Scan, error) {
	if req.Front == nil {
		return nil, analyzer.ErrNoFrontImage
	}

	in := analyzer.Input{Hint: req.Hint, Location: req.Location}
	var metas []models.ImageMeta

	front, err := analyzer.NewImage(req.Front.Filename, req.Front.Data, s.maxBytes)
	if err != nil {
		return nil, err
	}
	in.Front = &front
	metas = append(metas, imageMeta(models.SideFront, front))

	if req.Back != nil {
		back, err := analyzer.NewImage(req.Back.Filename, req.Back.Data, s.maxBytes)
		if err != nil {
			return nil, err
		}
		in.Back = &back
		metas = append(metas, imageMeta(models.SideBack, back))
	}

	rec, err := s.analyzer.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}

	return &models.Scan{
		ID:        uuid.New().String(),
		Record:    rec,
		Hint:      req.Hint,
		Images:    metas,
		ScannedAt: s.now().UTC(),
	}, nil
}

func (r ScanRequest) filenames() []string {
	var out []string
	if r.Front != nil {
		out = append(out, r.Front.Filename)
	}
	if r.Back != nil {
		out = append(out, r.Back.Filename)
	}
	return out
}

func imageMeta(side string, img analyzer.Image) models.ImageMeta {
	return models.ImageMeta{
		Side:     side,
		Filename: img.Filename,
		MimeType: img.MimeType,
		Size:     len(img.Data),
	}
}
