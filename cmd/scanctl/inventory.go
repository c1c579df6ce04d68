package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avvvet/cardscanner-services/internal/scansvc/analyzer"
	"github.com/avvvet/cardscanner-services/internal/scansvc/service"
	"github.com/avvvet/cardscanner-services/internal/scansvc/store"
)

// session is an inventory file loaded into the scan services for one command.
type session struct {
	path      string
	scans     *service.ScanService
	inventory *service.InventoryService
}

func openSession(ctx context.Context, path string, withModel bool) (*session, error) {
	st := store.NewInventoryStore()

	var a *analyzer.Analyzer
	if withModel {
		model, err := newModel(ctx, settings)
		if err != nil {
			return nil, err
		}
		a = analyzer.NewAnalyzer(model)
	}

	s := &session{
		path:      path,
		scans:     service.NewScanService(a, st, nil, settings.MaxUploadBytes, settings.BatchConcurrency),
		inventory: service.NewInventoryService(st, nil),
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := s.inventory.Import(f, service.ImportReplace); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// save rewrites the inventory file through a temp file in the same directory.
func (s *session) save() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".scanctl-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := s.inventory.Export(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// CreateTemp uses 0600, keep the mode of the file being replaced
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(s.path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func readUpload(path string) (*service.Upload, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &service.Upload{Filename: filepath.Base(path), Data: data}, nil
}
