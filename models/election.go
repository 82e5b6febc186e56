// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"time"
)

// DateLayout is the calendar-day format used for every election date.
const DateLayout = "2006-01-02"

var (
	ErrMissingElectionFields = errors.New("missing required fields")
	ErrInvalidElectionType   = errors.New("invalid election type")
	ErrInvalidDate           = errors.New("dates must be formatted as YYYY-MM-DD")
	ErrVotingWindow          = errors.New("end date must be after start date")
	ErrFilingAfterVoting     = errors.New("candidacy filing deadline must be before election start date")
	ErrFilingWindow          = errors.New("candidacy start date must be before candidacy end date")
)

// Election holds the fields the ballot core reads. Dates are calendar days;
// any stored timestamp is reduced to its first ten characters.
type Election struct {
	ID                 string `json:"election_id" yaml:"id"`
	Name               string `json:"name" yaml:"name"`
	Type               string `json:"election_type" yaml:"type"`
	StartDate          string `json:"start_date" yaml:"start_date"`
	EndDate            string `json:"end_date" yaml:"end_date"`
	CandidacyStartDate string `json:"candidacy_start_date,omitempty" yaml:"candidacy_start_date"`
	CandidacyEndDate   string `json:"candidacy_end_date,omitempty" yaml:"candidacy_end_date"`
	IsArchived         bool   `json:"is_archived" yaml:"archived"`
}

// DayOf truncates a date or timestamp string to YYYY-MM-DD.
func DayOf(value string) string {
	if len(value) > len(DateLayout) {
		return value[:len(DateLayout)]
	}
	return value
}

// DateString formats t as a calendar day in loc.
func DateString(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// Validate checks the election's date invariants.
func (e Election) Validate() error {
	if e.Name == "" || e.Type == "" || e.StartDate == "" || e.EndDate == "" {
		return ErrMissingElectionFields
	}

	validType := false
	for _, t := range ElectionTypes {
		if e.Type == t {
			validType = true
			break
		}
	}
	if !validType {
		return ErrInvalidElectionType
	}

	for _, d := range []string{e.StartDate, e.EndDate, e.CandidacyStartDate, e.CandidacyEndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, DayOf(d)); err != nil {
			return ErrInvalidDate
		}
	}

	// Calendar-day strings compare lexicographically
	start, end := DayOf(e.StartDate), DayOf(e.EndDate)
	if end <= start {
		return ErrVotingWindow
	}

	if e.CandidacyStartDate != "" && e.CandidacyEndDate != "" {
		candStart, candEnd := DayOf(e.CandidacyStartDate), DayOf(e.CandidacyEndDate)
		if candEnd >= start {
			return ErrFilingAfterVoting
		}
		if candStart >= candEnd {
			return ErrFilingWindow
		}
	}

	return nil
}

// VotingOpenOn reports whether today (YYYY-MM-DD) falls inside the voting
// window. Both the start and end days are included.
func (e Election) VotingOpenOn(today string) bool {
	today = DayOf(today)
	return today >= DayOf(e.StartDate) && today <= DayOf(e.EndDate)
}

// Summary returns the public view of the election.
func (e Election) Summary() ElectionSummary {
	return ElectionSummary{
		ID:         e.ID,
		Name:       e.Name,
		Type:       e.Type,
		StartDate:  DayOf(e.StartDate),
		EndDate:    DayOf(e.EndDate),
		IsArchived: e.IsArchived,
	}
}
