package build

// Task is the closed set of work units flowing through the task
// queue.
type Task interface {
	task()
}

// StopTask tells one worker to exit. The feeder pushes exactly one
// per worker after a stage's real tasks.
type StopTask struct{}

// PostBatchTask renders a contiguous batch of posts identified by
// their surrogate keys.
type PostBatchTask struct {
	UIDs []int64
}

// SubredditTask renders the listing and statistics pages of one
// subreddit.
type SubredditTask struct {
	Name string
}

// UserTask renders the profile pages of one user.
type UserTask struct {
	Name string
}

// SitePageKind selects which archive-level page a SitePageTask
// produces.
type SitePageKind int

const (
	// SiteHome is the archive front page.
	SiteHome SitePageKind = iota

	// SiteDirectory is the paginated subreddit directory.
	SiteDirectory

	// SiteInfo is the about page.
	SiteInfo

	// SiteStats is the whole-archive statistics page.
	SiteStats

	// SiteAssets is the shared stylesheet and script.
	SiteAssets
)

// SitePageTask renders one archive-level page.
type SitePageTask struct {
	Kind SitePageKind
}

func (StopTask) task()      {}
func (PostBatchTask) task() {}
func (SubredditTask) task() {}
func (UserTask) task()      {}
func (SitePageTask) task()  {}
