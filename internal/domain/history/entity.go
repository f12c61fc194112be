package history

import "time"

// Feature tags stamped on history rows and error envelopes.
const (
	FeatureNull    = "Null"
	FeatureCore    = "Core"
	FeatureHistory = "History"
	FeatureLog     = "Log"
	FeatureUser    = "User"
	FeatureToken   = "Token"
	FeatureChat    = "Chat"
	FeatureFile    = "File"
	FeatureThread  = "Thread"
	FeatureMessage = "Message"
)

// Row describes one change to one stored row. Rows are collected by the
// mutation pipelines and batch-inserted by the request orchestrator, stamped
// with the request's log id and acting user id.
type Row struct {
	Feature    string
	Table      string
	RowID      int64
	Operations []string
	Data       map[string]any
}

// Record is a persisted history row.
type Record struct {
	ID         int64
	LogID      int64
	UserID     *int16
	Feature    string
	Table      string
	RowID      int64
	Operations []string
	Data       map[string]any
	CreatedAt  time.Time
}
