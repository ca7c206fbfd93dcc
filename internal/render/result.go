package render

import "github.com/frostpress/frostpress/internal/model"

// Page is one rendered archive item.
type Page struct {
	// Path is the archive path, relative to the archive root.
	Path string

	// Title is the human-readable page title for the archive index.
	Title string

	// Mimetype is the content type stored in the archive index.
	Mimetype string

	// Front marks pages that belong in reader search results, as
	// opposed to assets and continuation fragments.
	Front bool

	// Content is the rendered page body.
	Content []byte
}

// Redirect is an alias path registered alongside rendered pages.
type Redirect struct {
	Path   string
	Target string
	Title  string
}

// Result is one unit of work handed from a worker to the creator. It
// bundles rendered pages with the media assets they reference and the
// redirects they want registered.
type Result struct {
	Pages     []Page
	Media     []model.MediaRef
	Redirects []Redirect
}

// Empty reports whether the result carries nothing worth queuing.
func (r *Result) Empty() bool {
	return r == nil || (len(r.Pages) == 0 && len(r.Media) == 0 && len(r.Redirects) == 0)
}

// ItemCount returns the number of archive entries this result will
// produce, used for flush accounting.
func (r *Result) ItemCount() int {
	return len(r.Pages) + len(r.Media) + len(r.Redirects)
}

// ResultSeq is a pull iterator over results. Each call returns the
// next result, or (nil, nil) when the sequence is exhausted. A
// non-nil error terminates the sequence.
type ResultSeq func() (*Result, error)

// SingleResult wraps one result as a sequence.
func SingleResult(r *Result) ResultSeq {
	done := false
	return func() (*Result, error) {
		if done {
			return nil, nil
		}
		done = true
		return r, nil
	}
}

// EmptySeq is a sequence that yields nothing.
func EmptySeq() ResultSeq {
	return func() (*Result, error) { return nil, nil }
}
