package models

import "time"

const (
	SideFront = "front"
	SideBack  = "back"
)

// ImageMeta describes an uploaded photo. The bytes themselves are not kept.
type ImageMeta struct {
	Side     string `json:"side"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int    `json:"size"`
}

// Scan is one inventory entry.
type Scan struct {
	ID        string      `json:"id"`
	Record    Record      `json:"record"`
	Hint      string      `json:"hint,omitempty"`
	Images    []ImageMeta `json:"images,omitempty"`
	ScannedAt time.Time   `json:"scanned_at"`
}
