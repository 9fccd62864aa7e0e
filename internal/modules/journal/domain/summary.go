package domain

import "time"

type SubjectSummary struct {
	SubjectID    string
	Entries      int
	LastActivity time.Time
}

// ImportIssue describes a legacy document that was not imported.
type ImportIssue struct {
	Ref    string
	Reason string
}
