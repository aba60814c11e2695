package race

// Notifier receives timing-core events so the presentation layer can
// refresh its grids. Implementations must not block; the core calls them
// synchronously after the corresponding write succeeds.
type Notifier interface {
	LaunchCompleted(courseID string)
	ArrivalRecorded(r *Result)
	RankingsComputed(courseID string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) LaunchCompleted(string)  {}
func (NopNotifier) ArrivalRecorded(*Result) {}
func (NopNotifier) RankingsComputed(string) {}
