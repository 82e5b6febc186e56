// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/ballotbox/testutil"
)

// TestConcurrentBallotSubmissions verifies that simultaneous submissions from
// different students are all recorded and counted
func TestConcurrentBallotSubmissions(t *testing.T) {
	e := setupTestElection(t)

	numVoters := 12
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			president := e.alice
			if idx%3 == 0 {
				president = e.bob
			}
			w := e.submit(t, fmt.Sprintf("22-3-%05d", idx), map[string][]string{
				e.president: {president},
				e.senator:   {e.dan},
			})
			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful submissions, got %d", numVoters, successCount.Load())
	}

	tally, err := e.svc.GetElectionResults(context.Background(), e.id)
	if err != nil {
		t.Fatal(err)
	}
	if tally.TotalVotersWhoVoted != numVoters {
		t.Errorf("Expected %d voters, got %d", numVoters, tally.TotalVotersWhoVoted)
	}

	president := tally.Positions[0]
	if president.Candidates[0].CandidateID != e.alice || president.Candidates[0].VoteCount != 8 {
		t.Errorf("Expected Alice with 8 votes on top, got %+v", president.Candidates[0])
	}
	if president.Candidates[1].VoteCount != 4 {
		t.Errorf("Expected Bob with 4 votes, got %+v", president.Candidates[1])
	}
}

// TestConcurrentSameStudent verifies that racing submissions for one student
// id produce exactly one recorded vote
func TestConcurrentSameStudent(t *testing.T) {
	e := setupTestElection(t)
	testutil.SeedMasterlist(t, e.st, e.id, "20-1-07777")

	attempts := 10
	codes := make([]int, attempts)
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			w := e.submit(t, "20-1-07777", map[string][]string{e.president: {e.alice}})
			codes[idx] = w.Code
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("Unexpected status %d", code)
		}
	}

	if created != 1 {
		t.Errorf("Expected exactly 1 accepted ballot, got %d", created)
	}
	if conflicts != attempts-1 {
		t.Errorf("Expected %d conflicts, got %d", attempts-1, conflicts)
	}

	n, err := e.st.CountVotes(context.Background(), e.id)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Expected 1 vote row, got %d", n)
	}
}
