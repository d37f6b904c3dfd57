package domain

// State is the pipeline stage of a session. Summarize and Ask are only
// allowed from StateReady; StateFailed is exited by a fresh upload.
type State string

const (
	StateIdle         State = "idle"
	StateUploading    State = "uploading"
	StateNormalizing  State = "normalizing"
	StateChunking     State = "chunking"
	StateTranscribing State = "transcribing"
	StateReady        State = "ready"
	StateFailed       State = "failed"
)

const (
	SourceTypeMedia = "media"
	SourceTypeText  = "text"
)

type Session struct {
	ID          string       `json:"id"`
	State       State        `json:"state"`
	SourceName  string       `json:"sourceName,omitempty"`
	SourceType  string       `json:"sourceType,omitempty"`
	Transcript  string       `json:"transcript,omitempty"`
	LastError   string       `json:"lastError,omitempty"`
	LastSummary *Summary     `json:"lastSummary,omitempty"`
	History     []QAExchange `json:"history"`
	PDFPath     string       `json:"-"`
	CreatedAt   int64        `json:"createdAt"`
	UpdatedAt   int64        `json:"updatedAt"`
}

type QAExchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	AskedAt  int64  `json:"askedAt"`
}

type Summary struct {
	Summary  string   `json:"summary"`
	KeyIdeas []string `json:"keyIdeas"`
}
