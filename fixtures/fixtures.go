// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package fixtures loads election fixtures from YAML and writes them through
// the store. It seeds development databases and tests; officers normally
// manage elections through their own tooling.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

// Fixture describes one election and everything on its ballot.
type Fixture struct {
	Election   models.Election `yaml:"election"`
	Partylists []Partylist     `yaml:"partylists"`
	Positions  []Position      `yaml:"positions"`
	Masterlist []string        `yaml:"masterlist"`
}

type Partylist struct {
	Key     string `yaml:"key"`
	Name    string `yaml:"name"`
	Acronym string `yaml:"acronym"`
}

type Position struct {
	Title      string      `yaml:"title"`
	MaxVotes   int         `yaml:"max_votes"`
	Candidates []Candidate `yaml:"candidates"`
}

type Candidate struct {
	Name      string `yaml:"name"`
	StudentID string `yaml:"student_id"`
	Status    string `yaml:"status"`
	Partylist string `yaml:"partylist"` // Partylist.Key; empty for independents
}

// Result maps fixture names to the ids the store generated.
type Result struct {
	ElectionID string
	Positions  map[string]string // title -> position id
	Candidates map[string]string // name -> candidate id
}

// Load decodes a fixture. Unknown keys are rejected so typos surface early.
func Load(r io.Reader) (Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return Fixture{}, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return f, nil
}

// LoadFile reads and decodes a fixture file.
func LoadFile(path string) (Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("failed to read fixture: %w", err)
	}
	defer file.Close()
	return Load(file)
}

// Validate checks references inside the fixture. Election dates are checked
// by the store on insert.
func (f Fixture) Validate() error {
	parties := make(map[string]bool, len(f.Partylists))
	for _, p := range f.Partylists {
		if p.Key == "" || p.Name == "" {
			return errors.New("partylist key and name are required")
		}
		parties[p.Key] = true
	}

	titles := make(map[string]bool, len(f.Positions))
	for _, p := range f.Positions {
		if p.Title == "" {
			return errors.New("position title is required")
		}
		if titles[p.Title] {
			return fmt.Errorf("duplicate position %q", p.Title)
		}
		titles[p.Title] = true
		if p.MaxVotes < 0 {
			return fmt.Errorf("position %q: max_votes must be positive", p.Title)
		}

		for _, c := range p.Candidates {
			if c.Name == "" {
				return fmt.Errorf("position %q: candidate name is required", p.Title)
			}
			switch c.Status {
			case "", models.StatusPending, models.StatusApproved, models.StatusRejected:
			default:
				return fmt.Errorf("candidate %q: unknown status %q", c.Name, c.Status)
			}
			if c.Partylist != "" && !parties[c.Partylist] {
				return fmt.Errorf("candidate %q: unknown partylist %q", c.Name, c.Partylist)
			}
		}
	}

	return nil
}

// Apply writes the fixture. Dates may be written relative to today
// ("today", "today+3", "today-1") and are resolved in loc.
//
// Apply is not transactional; a failure leaves the rows written so far.
func Apply(ctx context.Context, st *store.Store, f Fixture, now time.Time, loc *time.Location) (Result, error) {
	if err := f.Validate(); err != nil {
		return Result{}, err
	}

	election := f.Election
	for _, d := range []*string{&election.StartDate, &election.EndDate, &election.CandidacyStartDate, &election.CandidacyEndDate} {
		resolved, err := ResolveDate(*d, now, loc)
		if err != nil {
			return Result{}, err
		}
		*d = resolved
	}
	if election.Type == "" {
		election.Type = models.TypeUniversityWide
	}

	electionID, err := st.InsertElection(ctx, election)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		ElectionID: electionID,
		Positions:  make(map[string]string, len(f.Positions)),
		Candidates: make(map[string]string),
	}

	parties := make(map[string]string, len(f.Partylists))
	for _, p := range f.Partylists {
		id, err := st.InsertPartylist(ctx, models.Partylist{ElectionID: electionID, Name: p.Name, Acronym: p.Acronym})
		if err != nil {
			return res, err
		}
		parties[p.Key] = id
	}

	for order, p := range f.Positions {
		positionID, err := st.InsertPosition(ctx, models.Position{
			ElectionID: electionID,
			Title:      p.Title,
			MaxVotes:   p.MaxVotes,
		}, order)
		if err != nil {
			return res, err
		}
		res.Positions[p.Title] = positionID

		for _, c := range p.Candidates {
			candidateID, err := st.InsertCandidate(ctx, models.Candidate{
				ElectionID:     electionID,
				PositionID:     positionID,
				FullName:       c.Name,
				StudentID:      c.StudentID,
				ApprovalStatus: c.Status,
			}, parties[c.Partylist])
			if err != nil {
				return res, err
			}
			res.Candidates[c.Name] = candidateID
		}
	}

	if len(f.Masterlist) > 0 {
		if _, err := st.AddMasterlistVoters(ctx, electionID, f.Masterlist); err != nil {
			return res, err
		}
	}

	if election.IsArchived {
		if err := st.SetArchived(ctx, electionID, true); err != nil {
			return res, err
		}
	}

	return res, nil
}

// ResolveDate turns "today", "today+N" or "today-N" into a calendar day.
// Any other value is returned unchanged.
func ResolveDate(value string, now time.Time, loc *time.Location) (string, error) {
	if !strings.HasPrefix(value, "today") {
		return value, nil
	}

	offset := strings.TrimPrefix(value, "today")
	days := 0
	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil {
			return "", fmt.Errorf("invalid relative date %q", value)
		}
		days = n
	}

	return models.DateString(now.AddDate(0, 0, days), loc), nil
}
