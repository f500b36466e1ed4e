package models

// ConversionStatus represents the status of a conversion.
type ConversionStatus string

const (
	ConversionStatusComplete ConversionStatus = "complete"
	ConversionStatusError    ConversionStatus = "error"
)

// Conversion summarizes one converted document.
type Conversion struct {
	ID               string           `json:"id"`
	FileName         string           `json:"fileName"`
	Status           ConversionStatus `json:"status"`
	Encoding         string           `json:"encoding,omitempty"`
	CreatedAt        int64            `json:"createdAt"` // Unix ms
	ProcessingTimeMs int64            `json:"processingTimeMs"`
	Healthy          bool             `json:"healthy"`
	OrderPass        bool             `json:"orderPass"`
	ClockFound       int              `json:"clockFound"`
	ClockAdjusted    bool             `json:"clockAdjusted"`
	AutoCorrected    bool             `json:"autoCorrected"`
	RemovedClear     int              `json:"removedClear"`
	CountersZeroed   int              `json:"countersZeroed"`
	Serials          []string         `json:"serials"`
	Artifacts        []string         `json:"artifacts"`
	Error            string           `json:"error,omitempty"`
}

// NewConversion creates a Conversion in complete status.
func NewConversion(id, fileName string) *Conversion {
	return &Conversion{
		ID:        id,
		FileName:  fileName,
		Status:    ConversionStatusComplete,
		Serials:   make([]string, 0),
		Artifacts: make([]string, 0),
	}
}

// BatchResponse is returned by the convert endpoint.
type BatchResponse struct {
	Conversions []*Conversion `json:"conversions"`
	Total       int           `json:"total"`
	Healthy     int           `json:"healthy"`
	Unhealthy   int           `json:"unhealthy"`
	Failed      int           `json:"failed"`
	Problems    []string      `json:"problems"`
	Pass        bool          `json:"pass"`
}

// PrecheckResult reports whether a capture's first clock reading is too old.
type PrecheckResult struct {
	FileName          string `json:"fileName"`
	TooOld            bool   `json:"tooOld"`
	LineNo            int    `json:"lineNo,omitempty"`
	FoundDate         string `json:"foundDate,omitempty"`
	OldestAllowedDate string `json:"oldestAllowedDate,omitempty"`
}
