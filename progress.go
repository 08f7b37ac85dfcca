package docvault

// Phase identifies the stage of an ingestion run.
type Phase string

// Ingestion phases.
const (
	PhaseStarting   Phase = "starting"
	PhaseProcessing Phase = "processing"
	PhaseScraping   Phase = "scraping"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

// ProgressEvent reports progress during an ingestion run.
type ProgressEvent struct {
	Phase   Phase  `json:"phase"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Path    string `json:"path"`
	Entries int    `json:"entries"`
	Message string `json:"message"`
}

// SendProgress delivers ev on ch without blocking. The event is dropped
// when ch is nil or full; the result reports whether it was delivered.
func SendProgress(ch chan<- ProgressEvent, ev ProgressEvent) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- ev:
		return true
	default:
		return false
	}
}
