// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

// SetupTestDB creates a fresh SQLite database file with the full schema.
// It is closed automatically when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ballotbox.db")
	conn, err := db.Open(db.TypeSQLite, "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore is SetupTestDB wrapped in a store
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    "file::memory:",
		DatabaseType:   db.TypeSQLite,
		OfficerKeySalt: "test-officer-salt",
		IdentitySecret: "test-identity-secret",
	}
}

// Today returns the current calendar day offset by days, in local time
func Today(days int) string {
	return models.DateString(time.Now().AddDate(0, 0, days), time.Local)
}

// CreateTestElection creates an election whose voting window spans
// yesterday through tomorrow
func CreateTestElection(t *testing.T, st *store.Store, name string) string {
	t.Helper()
	return CreateTestElectionWindow(t, st, name, Today(-1), Today(1))
}

// CreateTestElectionWindow creates an election with the given voting window
func CreateTestElectionWindow(t *testing.T, st *store.Store, name, start, end string) string {
	t.Helper()

	id, err := st.InsertElection(context.Background(), models.Election{
		Name:      name,
		Type:      models.TypeUniversityWide,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}
	return id
}

// AddTestPosition appends a position after the election's existing ones
func AddTestPosition(t *testing.T, st *store.Store, electionID, title string, maxVotes int) string {
	t.Helper()
	ctx := context.Background()

	existing, err := st.ListPositions(ctx, electionID)
	if err != nil {
		t.Fatalf("Failed to list positions: %v", err)
	}

	id, err := st.InsertPosition(ctx, models.Position{
		ElectionID: electionID,
		Title:      title,
		MaxVotes:   maxVotes,
	}, len(existing))
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}
	return id
}

// AddTestPartylist creates a partylist and returns its ID
func AddTestPartylist(t *testing.T, st *store.Store, electionID, name, acronym string) string {
	t.Helper()

	id, err := st.InsertPartylist(context.Background(), models.Partylist{
		ElectionID: electionID,
		Name:       name,
		Acronym:    acronym,
	})
	if err != nil {
		t.Fatalf("Failed to create test partylist: %v", err)
	}
	return id
}

// AddTestCandidate adds an independent candidate with the given status
func AddTestCandidate(t *testing.T, st *store.Store, electionID, positionID, fullName, status string) string {
	t.Helper()
	return AddTestPartyCandidate(t, st, electionID, positionID, "", fullName, status)
}

// AddTestPartyCandidate adds a candidate running under partylistID
func AddTestPartyCandidate(t *testing.T, st *store.Store, electionID, positionID, partylistID, fullName, status string) string {
	t.Helper()

	id, err := st.InsertCandidate(context.Background(), models.Candidate{
		ElectionID:     electionID,
		PositionID:     positionID,
		FullName:       fullName,
		ApprovalStatus: status,
	}, partylistID)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
	return id
}

// SeedMasterlist puts the student IDs on the election's masterlist
func SeedMasterlist(t *testing.T, st *store.Store, electionID string, studentIDs ...string) {
	t.Helper()

	if _, err := st.AddMasterlistVoters(context.Background(), electionID, studentIDs); err != nil {
		t.Fatalf("Failed to seed masterlist: %v", err)
	}
}

// IdentityHeaders returns signed caller identity headers
func IdentityHeaders(cfg cliparse.Config, userID, email string) map[string]string {
	return map[string]string{
		auth.HeaderUserID:    userID,
		auth.HeaderUserEmail: email,
		auth.HeaderSignature: auth.SignIdentity(userID, email, cfg.IdentitySecret),
	}
}

// OfficerHeaders returns the officer key header for an election
func OfficerHeaders(cfg cliparse.Config, electionID string) map[string]string {
	return map[string]string{
		auth.HeaderOfficer: auth.GenerateOfficerKey(electionID, cfg.OfficerKeySalt),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
