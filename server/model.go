package server

import "github.com/tarungka/streamsx/internal/history"

type ResponseModel struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SubmissionModel is a journaled submission as served over HTTP.
type SubmissionModel struct {
	history.Record
	DurationMillis int64 `json:"duration_ms"`
	Failed         bool  `json:"failed"`
}

func newSubmissionModel(r history.Record) SubmissionModel {
	return SubmissionModel{
		Record:         r,
		DurationMillis: r.Duration().Milliseconds(),
		Failed:         r.Failed(),
	}
}
