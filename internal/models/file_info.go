package models

import "time"

// Artifact represents a converted output file written to the output directory.
type Artifact struct {
	Name         string    `json:"name"`
	ConversionID string    `json:"conversionId"`
	Size         int64     `json:"size"`
	WrittenAt    time.Time `json:"writtenAt"`
}
