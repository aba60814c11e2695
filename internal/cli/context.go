package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/opencourse/opencourse/internal/race"
	"github.com/opencourse/opencourse/internal/store"
)

// openStore opens the SQLite database named by the global --db flag.
func openStore(opts *RootOptions) (*store.Store, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, NewExitError(ExitFailure, fmt.Errorf("opening database %s: %w", opts.Database, err))
	}
	return st, nil
}

// newService builds a race service over st, announcing events on out.
func newService(st *store.Store, out io.Writer) *race.Service {
	return race.NewService(st, nil, &deskNotifier{out: out})
}

// resolveCourse finds a course by id, falling back to a name lookup so
// commands accept either.
func resolveCourse(ctx context.Context, st *store.Store, arg string) (*race.Course, error) {
	course, err := st.Course(ctx, arg)
	if err != nil {
		return nil, err
	}
	if course != nil {
		return course, nil
	}
	course, err = st.CourseByName(ctx, arg)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("course %q not found", arg)
	}
	return course, nil
}

// seedOrdinals restores the per-course arrival counter from persisted
// results, so recording keeps numbering correctly after a restart.
func seedOrdinals(ctx context.Context, st *store.Store, svc *race.Service, courseID string) error {
	results, err := st.ResultsByCourse(ctx, courseID)
	if err != nil {
		return err
	}
	max := 0
	for _, r := range results {
		if r.ArrivalOrdinal > max {
			max = r.ArrivalOrdinal
		}
	}
	svc.Ordinals().Seed(courseID, max+1)
	return nil
}

// deskNotifier prints race events for the timing desk operator.
type deskNotifier struct {
	out io.Writer
}

func (n *deskNotifier) LaunchCompleted(courseID string) {
	fmt.Fprintf(n.out, "course %s launched\n", courseID)
}

func (n *deskNotifier) ArrivalRecorded(result *race.Result) {
	if result.Resolved() {
		fmt.Fprintf(n.out, "arrival #%d: bib %d in %s\n", result.ArrivalOrdinal, result.Bib, result.ElapsedText)
		return
	}
	fmt.Fprintf(n.out, "arrival #%d: bib pending\n", result.ArrivalOrdinal)
}

func (n *deskNotifier) RankingsComputed(courseID string) {
	fmt.Fprintf(n.out, "rankings updated for course %s\n", courseID)
}
