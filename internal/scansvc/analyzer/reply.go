package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/avvvet/cardscanner-services/internal/scansvc/models"
)

// ParseReply turns the model's text into a Record. The model is asked for bare
// JSON but sometimes wraps it in a code fence or prose, so only the outermost
// object is decoded.
func ParseReply(raw string) (models.Record, error) {
	text := strings.TrimSpace(stripFence(raw))
	if text == "" {
		return models.Record{}, ErrEmptyReply
	}

	obj := extractJSON(text)
	if obj == "" {
		return models.Record{}, ErrInvalidReply
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return models.Record{}, fmt.Errorf("%w: %s", ErrInvalidReply, err)
	}

	// Keys are visited in sorted order so duplicates resolve the same way on
	// every run: a non-empty exact column name wins, otherwise the first non-empty value.
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var rec models.Record
	set := make(map[string]string, len(models.Columns))
	exact := make(map[string]bool, len(models.Columns))
	for _, key := range keys {
		col := canonicalKey(key)
		value := stringify(fields[key])
		switch {
		case exact[col]:
			continue
		case key == col && value != "":
			exact[col] = true
		case set[col] != "" || value == "":
			continue
		}
		if rec.SetField(col, value) {
			set[col] = value
		}
	}

	return rec, nil
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:] // drop the language tag line
	}
	return strings.TrimSuffix(strings.TrimSpace(text), "```")
}

func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return text[start : end+1]
}

// canonicalKey maps "card number", "CARD_NUMBER" and "Card-Number" to the
// Card_Number column.
func canonicalKey(key string) string {
	norm := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(key)))
	for _, col := range models.Columns {
		if strings.ToLower(strings.ReplaceAll(col, "_", "")) == norm {
			return col
		}
	}
	return key
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
