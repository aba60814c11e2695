package race

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// RecordArrival records a finish-line event "now" for the given course.
//
// The bib is whatever the operator had typed when the line was crossed.
// Empty means "someone finished, identity unknown": the record is created
// unresolved and the bib is bound later. A non-empty bib must match a
// roster entry or the call fails with an unknown-bib error and no record
// is created.
//
// Each normal arrival consumes the course's next ordinal (1, 2, ... in
// call order). The course must have been launched: without start instants
// there is nothing to time against.
func (s *Service) RecordArrival(ctx context.Context, courseID, bib string) (*Result, error) {
	return s.record(ctx, courseID, bib, false, 0)
}

// RecordBackfill inserts a missed finisher at a known finish instant
// rather than "now". Back-filled records carry ordinal 0 and do not
// consume the arrival counter.
func (s *Service) RecordBackfill(ctx context.Context, courseID, bib string, finish int64) (*Result, error) {
	return s.record(ctx, courseID, bib, true, finish)
}

func (s *Service) record(ctx context.Context, courseID, bib string, forced bool, finish int64) (*Result, error) {
	course, err := s.course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Launched() {
		return nil, newValidation("course is not launched: no start instants to time against")
	}

	// Resolve the bib before touching the ordinal counter so a mistyped
	// bib leaves no trace.
	var entry *RosterEntry
	if bib = strings.TrimSpace(bib); bib != "" {
		if entry = findEntry(course, bib); entry == nil {
			return nil, newUnknownBib(courseID, bib)
		}
	}

	r := &Result{
		ID:       uuid.Must(uuid.NewV7()).String(),
		CourseID: courseID,
		Bib:      BibUnknown,
	}
	if forced {
		r.Finish = finish
		r.ArrivalOrdinal = 0
	} else {
		r.Finish = s.clock.NowMillis()
		r.ArrivalOrdinal = s.ordinals.Next(courseID)
	}
	if entry != nil {
		resolve(r, entry)
	}

	if err := s.store.InsertResult(ctx, r); err != nil {
		return nil, newStorage("insert result", err)
	}

	s.notify.ArrivalRecorded(r)
	return r, nil
}

// resolve attributes a result to a roster entry and computes its elapsed
// time from the already-known finish instant.
func resolve(r *Result, entry *RosterEntry) {
	n, _ := parseBib(entry.Bib)
	r.Bib = n
	r.Participant = *entry
	r.Start = entry.Start
	r.Elapsed = r.Finish - entry.Start
	r.recomputeElapsedText()
}

// findEntry locates the roster entry for a typed bib. When both sides
// parse as integers they compare numerically, so "07" matches "7";
// otherwise the comparison is exact.
func findEntry(course *Course, bib string) *RosterEntry {
	typed, typedOK := parseBib(bib)
	for i := range course.Roster {
		entry := &course.Roster[i]
		if n, ok := parseBib(entry.Bib); ok && typedOK {
			if n == typed {
				return entry
			}
			continue
		}
		if entry.Bib == bib {
			return entry
		}
	}
	return nil
}
