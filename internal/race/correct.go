package race

import (
	"context"
	"strings"

	"github.com/opencourse/opencourse/internal/timeutil"
)

// BindBib attributes a previously unresolved arrival to a roster entry.
// The record's finish instant is kept; participant, start and elapsed are
// filled in from the roster and the result is persisted. Binding a
// different bib onto an already resolved record re-resolves it the same
// way.
func (s *Service) BindBib(ctx context.Context, resultID, bib string) (*Result, error) {
	r, err := s.result(ctx, resultID)
	if err != nil {
		return nil, err
	}
	course, err := s.course(ctx, r.CourseID)
	if err != nil {
		return nil, err
	}

	entry := findEntry(course, bib)
	if entry == nil {
		return nil, newUnknownBib(r.CourseID, bib)
	}

	resolve(r, entry)

	if err := s.store.UpdateResult(ctx, r); err != nil {
		return nil, newStorage("update result", err)
	}
	return r, nil
}

// SetPenalty sets the result's penalty to an absolute number of seconds
// and refreshes the displayed elapsed time. Setting the same penalty
// twice is a no-op the second time.
func (s *Service) SetPenalty(ctx context.Context, resultID string, penaltySeconds int) (*Result, error) {
	if penaltySeconds < 0 {
		return nil, newValidation("penalty must not be negative")
	}

	r, err := s.result(ctx, resultID)
	if err != nil {
		return nil, err
	}

	r.PenaltySeconds = penaltySeconds
	if r.Resolved() {
		r.recomputeElapsedText()
	}

	if err := s.store.UpdateResult(ctx, r); err != nil {
		return nil, newStorage("update result", err)
	}
	return r, nil
}

// SetManualElapsed records a finisher whose elapsed time was taken by
// hand: the operator types the bib and an "HH:MM:SS" elapsed time. The
// effective finish instant is derived from the roster entry's start so
// the stored elapsed equals the typed value, then the record goes through
// the back-fill path (ordinal 0).
func (s *Service) SetManualElapsed(ctx context.Context, courseID, bib, elapsedText string) (*Result, error) {
	elapsed, err := timeutil.ParseElapsed(elapsedText)
	if err != nil {
		return nil, &Error{Code: ErrCodeFormat, Message: err.Error(), CourseID: courseID}
	}
	if strings.TrimSpace(bib) == "" {
		return nil, newValidation("bib is required for a manual elapsed time")
	}

	course, err := s.course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	entry := findEntry(course, bib)
	if entry == nil {
		return nil, newUnknownBib(courseID, bib)
	}

	return s.RecordBackfill(ctx, courseID, bib, entry.Start+elapsed)
}
