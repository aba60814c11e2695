package race

import (
	"context"
	"sort"
)

// ComputeRankings recomputes the three rank orders for a course and
// persists them onto every resolved result.
//
// The scratch ranking covers every resolved result; category and sex
// rankings partition the same set by the category snapshot carried on
// each result. The sort key is elapsed time plus penalty, ascending, with
// ties kept in arrival order (stable sort). Unresolved arrivals are
// skipped entirely: an unidentified runner cannot be ranked, and their
// rank fields stay zero until the bib is bound and the classification is
// re-run.
//
// Each touched record is written back individually; there is no
// transaction. When some of those writes fail the successful ones stand
// and the failures come back as a PartialBatchError, so re-running the
// classification repairs the course.
func (s *Service) ComputeRankings(ctx context.Context, courseID string) error {
	results, err := s.store.ResultsByCourse(ctx, courseID)
	if err != nil {
		return newStorage("scan results", err)
	}

	scratch := make([]*Result, 0, len(results))
	byCategory := make(map[string][]*Result)
	bySex := make(map[string][]*Result)

	for _, r := range results {
		if !r.Resolved() {
			continue
		}
		scratch = append(scratch, r)
		catID := r.Participant.Category.ID
		byCategory[catID] = append(byCategory[catID], r)
		sex := r.Participant.Category.Sex
		bySex[sex] = append(bySex[sex], r)
	}

	sortByEffective(scratch)
	for i, r := range scratch {
		r.RankScratch = i + 1
	}
	for _, group := range byCategory {
		sortByEffective(group)
		for i, r := range group {
			r.RankCategory = i + 1
		}
	}
	for _, group := range bySex {
		sortByEffective(group)
		for i, r := range group {
			r.RankSex = i + 1
		}
	}

	var failed []string
	for _, r := range scratch {
		if err := s.store.UpdateResult(ctx, r); err != nil {
			failed = append(failed, r.ID)
		}
	}
	if len(failed) > 0 {
		return &PartialBatchError{CourseID: courseID, FailedIDs: failed}
	}

	s.notify.RankingsComputed(courseID)
	return nil
}

func sortByEffective(results []*Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].EffectiveMs() < results[j].EffectiveMs()
	})
}
