package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/avvvet/cardscanner-services/internal/scansvc/models"
	log "github.com/sirupsen/logrus"
)

// Input is one item to identify: a required front, an optional back and the
// free-text fields the user typed next to the upload.
type Input struct {
	Front    *Image
	Back     *Image
	Hint     string
	Location string
}

// Images returns the photos in the order the prompt describes them.
func (in Input) Images() []Image {
	var out []Image
	if in.Front != nil {
		out = append(out, *in.Front)
	}
	if in.Back != nil {
		out = append(out, *in.Back)
	}
	return out
}

type Analyzer struct {
	model Model
}

func NewAnalyzer(model Model) *Analyzer {
	return &Analyzer{model: model}
}

// Analyze sends the photos to the model and returns the parsed Record.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (models.Record, error) {
	if in.Front == nil {
		return models.Record{}, ErrNoFrontImage
	}

	prompt := BuildPrompt(in.Hint, in.Back != nil)

	raw, err := a.model.Generate(ctx, prompt, in.Images())
	if err != nil {
		return models.Record{}, err
	}

	rec, err := ParseReply(raw)
	if err != nil {
		log.Errorf("Error [Analyzer.Analyze] unusable reply for %s: %s", in.Front.Filename, err)
		return models.Record{}, fmt.Errorf("parse reply for %s: %w", in.Front.Filename, err)
	}

	if loc := strings.TrimSpace(in.Location); loc != "" {
		rec.ArchiveLocation = loc
	}

	return rec, nil
}
