package race_test

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opencourse/opencourse/internal/race"
)

// memStore is an in-memory race.Store for tests. Documents are deep-copied
// on every read and write, matching the store-preserves-documents-verbatim
// contract of the real collection store.
type memStore struct {
	courses     map[string]*race.Course
	results     map[string]*race.Result
	resultOrder []string
	failUpdate  map[string]bool // result ids whose update should fail
}

func newMemStore() *memStore {
	return &memStore{
		courses:    make(map[string]*race.Course),
		results:    make(map[string]*race.Result),
		failUpdate: make(map[string]bool),
	}
}

func deepCopy[T any](v *T) *T {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		panic(err)
	}
	return out
}

func (m *memStore) Course(_ context.Context, id string) (*race.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, nil
	}
	return deepCopy(c), nil
}

func (m *memStore) PutCourse(_ context.Context, c *race.Course) error {
	m.courses[c.ID] = deepCopy(c)
	return nil
}

func (m *memStore) Result(_ context.Context, id string) (*race.Result, error) {
	r, ok := m.results[id]
	if !ok {
		return nil, nil
	}
	return deepCopy(r), nil
}

func (m *memStore) InsertResult(_ context.Context, r *race.Result) error {
	if _, ok := m.results[r.ID]; ok {
		return fmt.Errorf("duplicate result id %s", r.ID)
	}
	m.results[r.ID] = deepCopy(r)
	m.resultOrder = append(m.resultOrder, r.ID)
	return nil
}

func (m *memStore) UpdateResult(_ context.Context, r *race.Result) error {
	if m.failUpdate[r.ID] {
		return fmt.Errorf("injected update failure for %s", r.ID)
	}
	if _, ok := m.results[r.ID]; !ok {
		return fmt.Errorf("no result with id %s", r.ID)
	}
	m.results[r.ID] = deepCopy(r)
	return nil
}

func (m *memStore) ResultsByCourse(_ context.Context, courseID string) ([]*race.Result, error) {
	out := []*race.Result{}
	for _, id := range m.resultOrder {
		if r := m.results[id]; r.CourseID == courseID {
			out = append(out, deepCopy(r))
		}
	}
	return out, nil
}

// recordingNotifier counts notifications for assertions.
type recordingNotifier struct {
	launches  []string
	arrivals  []string
	rankings  []string
}

func (n *recordingNotifier) LaunchCompleted(courseID string)  { n.launches = append(n.launches, courseID) }
func (n *recordingNotifier) ArrivalRecorded(r *race.Result)   { n.arrivals = append(n.arrivals, r.ID) }
func (n *recordingNotifier) RankingsComputed(courseID string) { n.rankings = append(n.rankings, courseID) }
