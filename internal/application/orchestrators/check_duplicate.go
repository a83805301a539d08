package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

// DefaultCandidateLimit bounds how many earlier submissions are compared per check.
const DefaultCandidateLimit = 200

// CandidateSource fetches earlier submissions that share a dedupe key.
type CandidateSource interface {
	ListCandidates(ctx context.Context, key string, limit int) ([]submission.Record, error)
}

// CheckDuplicateInput carries the submission being checked.
type CheckDuplicateInput struct {
	Candidate submission.Record
}

// CheckDuplicateDeps holds dependencies for CheckDuplicate.
type CheckDuplicateDeps struct {
	Candidates CandidateSource
	Policy     submission.Policy
	Limit      int // zero selects DefaultCandidateLimit
}

// ExecuteCheckDuplicate reports whether the candidate repeats a still-valid earlier submission.
// PRE: Candidates is non-nil
// POST: Incomparable candidates are let through with Skipped set and the store is not queried;
// a store failure is returned as an error
func ExecuteCheckDuplicate(ctx context.Context, input CheckDuplicateInput, deps CheckDuplicateDeps) (submission.Verdict, error) {
	candidate := input.Candidate
	candidate.Email = strings.TrimSpace(candidate.Email)
	candidate.Name = strings.TrimSpace(candidate.Name)

	if _, _, err := deps.Policy.Comparable(candidate); err != nil {
		slog.Debug("duplicate_check_skipped", "reason", err.Error())
		return submission.Verdict{Skipped: err}, nil
	}

	limit := deps.Limit
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	key := deps.Policy.DedupeKey(candidate.Name, candidate.Email)
	existing, err := deps.Candidates.ListCandidates(ctx, key, limit)
	if err != nil {
		return submission.Verdict{}, fmt.Errorf("list duplicate candidates: %w", err)
	}

	return deps.Policy.Evaluate(candidate, existing), nil
}
