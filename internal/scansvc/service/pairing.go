package service

import (
	"errors"
	"fmt"
)

const (
	PairingPairs   = "pairs"
	PairingSingles = "singles"
)

var (
	ErrNoImages       = errors.New("at least one image is required")
	ErrInvalidPairing = errors.New("pairing must be \"pairs\" or \"singles\"")
)

// Upload is a raw file as received from a form or read from disk.
type Upload struct {
	Filename string
	Data     []byte
}

// Pair groups a batch of uploads into scan requests. In pairs mode images are
// taken two at a time as front and back, and a trailing odd image is scanned
// front-only. In singles mode every image is its own front.
func Pair(images []Upload, mode string) ([]ScanRequest, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	if mode == "" {
		mode = PairingPairs
	}

	var reqs []ScanRequest
	switch mode {
	case PairingPairs:
		for i := 0; i < len(images); i += 2 {
			req := ScanRequest{Front: &images[i]}
			if i+1 < len(images) {
				req.Back = &images[i+1]
			}
			reqs = append(reqs, req)
		}
	case PairingSingles:
		for i := range images {
			reqs = append(reqs, ScanRequest{Front: &images[i]})
		}
	default:
		return nil, fmt.Errorf("%q: %w", mode, ErrInvalidPairing)
	}

	return reqs, nil
}
