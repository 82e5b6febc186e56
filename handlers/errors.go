// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/middleware"
)

const (
	msgRecordFailed = "Failed to record vote. Please try again."
	msgDatabase     = "Database error"
)

// statusFor maps a ballot error onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, ballot.ErrElectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ballot.ErrAlreadyVoted):
		return http.StatusConflict
	case errors.Is(err, ballot.ErrStudentIDRequired), errors.Is(err, ballot.ErrMissingEmail):
		return http.StatusBadRequest
	case errors.Is(err, ballot.ErrNoPositions):
		return http.StatusUnprocessableEntity
	}

	switch ballot.KindOf(err) {
	case ballot.KindAdmission:
		return http.StatusForbidden
	case ballot.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeBallotError renders err for the voter. Recording and system failures
// get a generic message; the cause is only logged.
func writeBallotError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	switch ballot.KindOf(err) {
	case ballot.KindRecording:
		middleware.ErrorResponse(w, status, msgRecordFailed)
	case ballot.KindSystem:
		slog.Error("ballot request failed", "error", err)
		middleware.ErrorResponse(w, status, msgDatabase)
	default:
		middleware.ErrorResponse(w, status, sentence(err.Error()))
	}
}

// sentence capitalizes msg and ends it with a period
func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	r, size := utf8.DecodeRuneInString(msg)
	msg = string(unicode.ToUpper(r)) + msg[size:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}
