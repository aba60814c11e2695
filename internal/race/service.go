package race

import "context"

// Store is the slice of the collection store the timing core consumes.
// Point lookups return (nil, nil) when the document is absent, matching
// the get-or-undefined contract of the underlying store.
//
// No call is transactional: every flow here is read-then-write, and two
// independently issued operations see independent snapshots. Callers must
// serialize roster edits and launches on a given course externally.
type Store interface {
	Course(ctx context.Context, id string) (*Course, error)
	PutCourse(ctx context.Context, c *Course) error

	Result(ctx context.Context, id string) (*Result, error)
	InsertResult(ctx context.Context, r *Result) error
	UpdateResult(ctx context.Context, r *Result) error
	ResultsByCourse(ctx context.Context, courseID string) ([]*Result, error)
}

// Service bundles the timing core: lifecycle, recording, correction and
// classification over one store, clock, ordinal counter and notifier.
type Service struct {
	store    Store
	clock    Clock
	ordinals *Counter
	notify   Notifier
}

// NewService creates a timing service. A nil clock defaults to the system
// clock, a nil notifier to the no-op notifier.
func NewService(store Store, clock Clock, notify Notifier) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Service{
		store:    store,
		clock:    clock,
		ordinals: NewCounter(),
		notify:   notify,
	}
}

// Ordinals exposes the arrival counter so a restarted process can reseed
// it from persisted results before resuming a running course.
func (s *Service) Ordinals() *Counter { return s.ordinals }

// course loads a course or returns a not-found/storage error.
func (s *Service) course(ctx context.Context, id string) (*Course, error) {
	c, err := s.store.Course(ctx, id)
	if err != nil {
		return nil, newStorage("load course", err)
	}
	if c == nil {
		return nil, newNotFound("course", id)
	}
	return c, nil
}

// result loads a result or returns a not-found/storage error.
func (s *Service) result(ctx context.Context, id string) (*Result, error) {
	r, err := s.store.Result(ctx, id)
	if err != nil {
		return nil, newStorage("load result", err)
	}
	if r == nil {
		return nil, newNotFound("result", id)
	}
	return r, nil
}

// Remaining reports how many roster entries have no recorded arrival yet.
// Used for the "N finishers remaining" message after each arrival.
func (s *Service) Remaining(ctx context.Context, courseID string) (int, error) {
	course, err := s.course(ctx, courseID)
	if err != nil {
		return 0, err
	}
	results, err := s.store.ResultsByCourse(ctx, courseID)
	if err != nil {
		return 0, newStorage("scan results", err)
	}
	remaining := len(course.Roster) - len(results)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
