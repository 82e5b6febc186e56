package models

// Candidate approval status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Voter record origin constants
const (
	SourceMasterlist = "masterlist"
	SourceOpen       = "open"
)

// Election type constants
const (
	TypeUniversityWide  = "University-Wide"
	TypeCollegeBased    = "College-Based"
	TypeDepartmentBased = "Department-Based"
)

var ElectionTypes = []string{TypeUniversityWide, TypeCollegeBased, TypeDepartmentBased}

// Request types

// position_id -> candidate_ids
type SubmitBallotRequest struct {
	StudentID  string              `json:"student_id"`
	Selections map[string][]string `json:"selections"`
}

// Raw pasted text; IDs are separated by spaces, tabs, or newlines
type AddVotersRequest struct {
	StudentIDs string `json:"student_ids"`
}

// Response types

type SubmitBallotResponse struct {
	Success bool   `json:"success"`
	VoteID  string `json:"vote_id"`
	Message string `json:"message"`
}

type BallotSheetResponse struct {
	Election   ElectionSummary  `json:"election"`
	VotingOpen bool             `json:"voting_open"`
	Positions  []BallotPosition `json:"positions"`
}

type BallotPosition struct {
	PositionID string         `json:"position_id"`
	Title      string         `json:"title"`
	MaxVotes   int            `json:"max_votes"`
	Candidates []BallotChoice `json:"candidates"`
}

type BallotChoice struct {
	CandidateID string         `json:"candidate_id"`
	FullName    string         `json:"full_name"`
	Partylist   *PartylistInfo `json:"partylist"`
}

type ElectionResultsResponse struct {
	Results     []PositionResult `json:"results"`
	TotalVoters int              `json:"total_voters"`
}

type TurnoutResponse struct {
	TotalVoters int  `json:"total_voters"`
	Voted       int  `json:"voted"`
	NotVoted    int  `json:"not_voted"`
	Masterlist  bool `json:"masterlist"`
}

type AddVotersResponse struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

type MasterlistResponse struct {
	Voters   []Voter `json:"voters"`
	Total    int     `json:"total"`
	Voted    int     `json:"voted"`
	NotVoted int     `json:"not_voted"`
}

type ClearMasterlistResponse struct {
	Removed int `json:"removed"`
}

// Domain types

type ElectionSummary struct {
	ID         string `json:"election_id"`
	Name       string `json:"name"`
	Type       string `json:"election_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	IsArchived bool   `json:"is_archived"`
}

type Position struct {
	ID         string `json:"position_id"`
	ElectionID string `json:"election_id"`
	Title      string `json:"title"`
	MaxVotes   int    `json:"max_votes"`
}

type PartylistInfo struct {
	Name    string `json:"name"`
	Acronym string `json:"acronym"`
}

type Partylist struct {
	ID         string `json:"partylist_id"`
	ElectionID string `json:"election_id"`
	Name       string `json:"name"`
	Acronym    string `json:"acronym"`
}

type Candidate struct {
	ID             string         `json:"candidate_id"`
	ElectionID     string         `json:"election_id"`
	PositionID     string         `json:"position_id"`
	FullName       string         `json:"full_name"`
	StudentID      string         `json:"-"`
	ApprovalStatus string         `json:"application_status"`
	Partylist      *PartylistInfo `json:"partylist"`
}

type Voter struct {
	ID         string `json:"voter_id"`
	ElectionID string `json:"election_id"`
	StudentID  string `json:"student_id"`
	Email      string `json:"-"` // Never expose in JSON
	IsVoted    bool   `json:"is_voted"`
	Source     string `json:"source"`
}

type Vote struct {
	ID      string `json:"vote_id"`
	VoterID string `json:"-"`
}

type VoteSelection struct {
	VoteID      string `json:"vote_id"`
	PositionID  string `json:"position_id"`
	CandidateID string `json:"candidate_id"`
}

// Tally types

type CandidateResult struct {
	CandidateID string         `json:"candidate_id"`
	FullName    string         `json:"full_name"`
	Partylist   *PartylistInfo `json:"partylist"`
	VoteCount   int            `json:"vote_count"`
}

type PositionResult struct {
	PositionID string            `json:"position_id"`
	Title      string            `json:"title"`
	MaxVotes   int               `json:"max_votes"`
	Candidates []CandidateResult `json:"candidates"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
