package race

import (
	"context"
	"sort"
	"strconv"
)

// Launch starts a course: it captures the current instant once, sorts the
// roster by numeric bib and stamps each entry with its staggered start.
//
// Entry i of the bib-sorted roster starts at now + i*stagger. Every entry
// additionally carries the course-wide launch instant, which manual
// elapsed entry needs later. The updated roster replaces the stored one
// wholesale.
//
// Bib numbers that do not parse as integers never abort the launch; they
// sort before all numeric bibs, keeping their relative order. Launching
// twice recomputes every start instant with a fresh now and resets the
// arrival counter; guarding against an accidental re-launch is the
// caller's job.
func (s *Service) Launch(ctx context.Context, courseID string) (*Course, error) {
	course, err := s.course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(course.Roster) == 0 {
		return nil, newValidation("course has no roster: prepare it before launching")
	}

	now := s.clock.NowMillis()

	sortRosterByBib(course.Roster)

	staggerMs := int64(course.StaggerSeconds) * 1000
	for i := range course.Roster {
		course.Roster[i].CourseStart = now
		course.Roster[i].Start = now + int64(i)*staggerMs
	}

	if err := s.store.PutCourse(ctx, course); err != nil {
		return nil, newStorage("save launched course", err)
	}

	s.ordinals.Reset(courseID)
	s.notify.LaunchCompleted(courseID)
	return course, nil
}

// sortRosterByBib sorts entries ascending by numeric bib. Unparsable bibs
// sort first; the sort is stable so they keep their relative order.
func sortRosterByBib(roster []RosterEntry) {
	sort.SliceStable(roster, func(i, j int) bool {
		a, aok := parseBib(roster[i].Bib)
		b, bok := parseBib(roster[j].Bib)
		if !aok {
			return bok // unparsable before numeric, stable among themselves
		}
		if !bok {
			return false
		}
		return a < b
	})
}

func parseBib(bib string) (int, bool) {
	n, err := strconv.Atoi(bib)
	if err != nil {
		return 0, false
	}
	return n, true
}
