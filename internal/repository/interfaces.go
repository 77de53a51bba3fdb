package repository

import "time"

// HistoryOptions filters the save history of a slot.
type HistoryOptions struct {
	Before time.Time
	Limit  int
}

// DefaultHistoryLimit applies when HistoryOptions.Limit is not positive.
const DefaultHistoryLimit = 20
