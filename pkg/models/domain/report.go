package domain

import "time"

// Report is a presentation-ready view of an AggregateReport for terminal output
type Report struct {
	Title     string
	UpdatedAt time.Time
	Source    string
	Note      string
	Sections  []ReportSection
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail represents a single row within a section
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
