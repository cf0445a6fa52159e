package observability

import (
	"sync"
	"time"
)

// Activity counts what the server has handled since it started.
type Activity struct {
	Requests      int
	Failures      int
	Submissions   int
	LastRequest   time.Time
	LastSubmitted time.Time
}

var (
	activityMu     sync.RWMutex
	globalActivity Activity
)

// RecordRequest notes one served request. Statuses of 500 and above count
// as failures.
func RecordRequest(status int) {
	activityMu.Lock()
	defer activityMu.Unlock()
	globalActivity.Requests++
	if status >= 500 {
		globalActivity.Failures++
	}
	globalActivity.LastRequest = time.Now()
}

// RecordSubmission notes one accepted submission.
func RecordSubmission() {
	activityMu.Lock()
	defer activityMu.Unlock()
	globalActivity.Submissions++
	globalActivity.LastSubmitted = time.Now()
}

// GetActivity returns a copy of the counters.
func GetActivity() Activity {
	activityMu.RLock()
	defer activityMu.RUnlock()
	return globalActivity
}

func resetActivity() {
	activityMu.Lock()
	defer activityMu.Unlock()
	globalActivity = Activity{}
}
