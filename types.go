package sssp

// Outcome classifies a completed scan.
type Outcome string

const (
	// OutcomeClean indicates that no virus was found.
	OutcomeClean Outcome = "CLEAN"
	// OutcomeInfected indicates that at least one virus was found.
	OutcomeInfected Outcome = "INFECTED"
	// OutcomeError indicates that the request was rejected, the daemon
	// reported a failure, or the response stream ended prematurely.
	OutcomeError Outcome = "ERROR"
)

// ScanResult represents the result of a virus scan.
type ScanResult struct {
	// Outcome is the overall classification of the scan.
	Outcome Outcome
	// Viruses maps each reported file identifier to the virus or
	// signature name found in it. Populated only for infected scans.
	Viruses map[string]string
	// Message is the daemon's terminal diagnostic, "<code> <text>" from
	// the DONE event, or empty if the stream ended before one arrived.
	Message string
}

// IsInfected returns true if the scan found a virus.
func (r *ScanResult) IsInfected() bool {
	return r.Outcome == OutcomeInfected
}

// IsClean returns true if the scanned data is clean.
func (r *ScanResult) IsClean() bool {
	return r.Outcome == OutcomeClean
}
