// Package stats records pipeline counters so operators can see what the
// filter is doing without scraping logs.
package stats

import "time"

// Measurement names logged by the pipeline.
const (
	MessagesSeen  = "messages.seen"
	LeadsApproved = "leads.approved"
	LeadsRejected = "leads.rejected"
	DedupeSkips   = "dedupe.skips"
	OCRCalls      = "ocr.calls"
	RelayForwards = "relay.forwards"
)

// Point is a timestamp and map of measurement name to value.
type Point struct {
	Timestamp time.Time
	Values    map[string]int64
}

// Logger is an interface defining the necessary methods for a stats logger.
type Logger interface {
	// Log logs a set of Points to a logging target.
	Log(...Point) error
}

// Row is a row of the results of a Sampler query.
type Row struct {
	Node      string
	Timestamp time.Time
	Name      string
	Value     int64
}

// Result is the result of a Sampler query.  It is an alias for []Row.
type Result []Row

// Sampler defines the methods a stats sampler must implement.
type Sampler interface {
	// Sample gets the values logged over the given time interval,
	// optionally restricted to a slice of measurement names.
	Sample(from, to time.Time, measurements ...string) (Result, error)
}
