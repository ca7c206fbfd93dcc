package model

// Post represents a single submission in the dataset.
//
// The dataset carries many more columns than the renderer needs; only
// the fields that influence page output are mapped here.
type Post struct {
	// UID is the surrogate primary key assigned at import time.
	// Task batches identify posts by UID because UIDs are dense and
	// cheap to range over, unlike the base-36 reddit IDs.
	UID int64

	// ID is the reddit short identifier (e.g. "17abcz").
	ID string

	// Title is the submission title.
	Title string

	// Author is the posting user's name.
	Author string

	// Subreddit is the name of the subreddit the post belongs to.
	Subreddit string

	// SelfText is the markdown body for self posts. Empty for link,
	// media, and poll posts.
	SelfText string

	// URL is the submission target. For self posts this points back
	// at the post itself; for media posts it is the asset URL.
	URL string

	// Domain is the host of URL as recorded in the dataset.
	Domain string

	// Score is the net vote score at archive time.
	Score int64

	// NumComments is the comment count recorded in the dataset. The
	// actual number of imported comments may be lower when the dump
	// was truncated.
	NumComments int64

	// CreatedUTC is the submission time as a Unix timestamp.
	CreatedUTC int64

	// Permalink is the canonical reddit path of the post.
	Permalink string

	// Hint is the dataset's post_hint value ("image", "hosted:video",
	// "rich:video", "link", "self", or empty).
	Hint string

	// PollData is the raw JSON poll payload, empty for non-polls.
	PollData string

	// IsSelf reports whether the post is a text submission.
	IsSelf bool

	// Edited is the edit timestamp, 0 if never edited.
	Edited int64

	// Over18 marks NSFW posts.
	Over18 bool

	// Locked marks posts closed for new comments.
	Locked bool

	// LinkFlairText is the flair label shown next to the title.
	LinkFlairText string
}

// PostKind classifies a post for rendering and icon selection.
type PostKind int

const (
	// KindText is a self post whose body is markdown text.
	KindText PostKind = iota

	// KindImage is a post whose target is an image asset.
	KindImage

	// KindVideo is a post whose target is a hosted or embedded video.
	KindVideo

	// KindPoll is a post carrying poll data.
	KindPoll

	// KindLink is an external link post with no local asset.
	KindLink
)

// String returns the icon/name token for the kind.
func (k PostKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "img"
	case KindVideo:
		return "video"
	case KindPoll:
		return "poll"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Kind derives the post classification from dataset fields.
//
// Poll data wins over everything else because poll posts also set
// is_self in some dump generations. The hint is consulted before
// IsSelf for the same reason: media posts occasionally carry a stale
// selftext column.
func (p *Post) Kind() PostKind {
	if p.PollData != "" {
		return KindPoll
	}
	switch p.Hint {
	case "image":
		return KindImage
	case "hosted:video", "rich:video":
		return KindVideo
	}
	if p.IsSelf {
		return KindText
	}
	return KindLink
}
