package main

import (
	"fmt"
	"io"

	"github.com/avvvet/cardscanner-services/internal/scansvc/models"
	"github.com/avvvet/cardscanner-services/internal/scansvc/pricing"
	"github.com/avvvet/cardscanner-services/internal/scansvc/service"
	"github.com/spf13/cobra"
)

var (
	scanFront    string
	scanBack     string
	scanHint     string
	scanLocation string
	batchPairing string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Identify one card and append it to the inventory",
	Long: `Identify one card from its front photo, and its back photo when given,
then append the record to the inventory file.

Example:
  scanctl scan --front griffey.jpg --back griffey_back.jpg --location "Binder 2"`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var batchCmd = &cobra.Command{
	Use:   "batch [images...]",
	Short: "Identify several cards and append them to the inventory",
	Long: `Identify every card in the given photos. With --pairing pairs the images are
read as front, back, front, back; a trailing odd image is scanned front-only.
Failed cards are reported and skipped, the rest are saved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func runScan(cmd *cobra.Command, args []string) error {
	front, err := readUpload(scanFront)
	if err != nil {
		return err
	}
	back, err := readUpload(scanBack)
	if err != nil {
		return err
	}

	s, err := openSession(cmd.Context(), inventoryPath, true)
	if err != nil {
		return err
	}

	scan, err := s.scans.Scan(cmd.Context(), service.ScanRequest{
		Front:    front,
		Back:     back,
		Hint:     scanHint,
		Location: scanLocation,
	})
	if err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return err
	}

	printRecord(cmd.OutOrStdout(), scan.Record)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	images := make([]service.Upload, 0, len(args))
	for _, path := range args {
		u, err := readUpload(path)
		if err != nil {
			return err
		}
		images = append(images, *u)
	}

	s, err := openSession(cmd.Context(), inventoryPath, true)
	if err != nil {
		return err
	}

	result, err := s.scans.ScanBatch(cmd.Context(), service.BatchRequest{
		Images:   images,
		Pairing:  batchPairing,
		Hint:     scanHint,
		Location: scanLocation,
	})
	if err != nil {
		return err
	}
	if len(result.Scans) > 0 {
		if err := s.save(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, scan := range result.Scans {
		printRecord(out, scan.Record)
	}
	for _, f := range result.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed %v: %s\n", f.Files, f.Error)
	}
	fmt.Fprintf(out, "%d added, %d failed\n", len(result.Scans), len(result.Failures))

	if len(result.Scans) == 0 {
		return fmt.Errorf("no cards identified")
	}
	return nil
}

func printRecord(w io.Writer, r models.Record) {
	value := r.EstimatedRawValue
	if pr := pricing.ParseRange(value); pr.OK {
		value = fmt.Sprintf("%s (mid %s)", value, pricing.Money(pr.Mid))
	}
	fmt.Fprintf(w, "%s | %s | #%s | %s | %s\n", r.Title(), r.Team, r.CardNumber, value, r.ArchiveLocation)
}
