package jsonl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/frostpress/frostpress/internal/model"
)

// flexInt64 decodes a dump field that may arrive as a JSON number, a
// numeric string, a float timestamp, false, or null. All of these show
// up across dump generations for created_utc and edited.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*f = 0
		return nil
	case bytes.Equal(data, []byte("true")):
		// edited:true appears in pre-2008 comment dumps with no
		// timestamp attached.
		*f = 1
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*f = flexInt64(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexInt64(v)
	return nil
}

// rawPost mirrors the submission dump schema, restricted to the fields
// the archive uses.
type rawPost struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	Subreddit     string          `json:"subreddit"`
	SelfText      string          `json:"selftext"`
	URL           string          `json:"url"`
	Domain        string          `json:"domain"`
	Score         flexInt64       `json:"score"`
	NumComments   flexInt64       `json:"num_comments"`
	CreatedUTC    flexInt64       `json:"created_utc"`
	Permalink     string          `json:"permalink"`
	PostHint      string          `json:"post_hint"`
	PollData      json.RawMessage `json:"poll_data"`
	IsSelf        bool            `json:"is_self"`
	Edited        flexInt64       `json:"edited"`
	Over18        bool            `json:"over_18"`
	Locked        bool            `json:"locked"`
	LinkFlairText string          `json:"link_flair_text"`
	Subscribers   flexInt64       `json:"subreddit_subscribers"`
}

// rawComment mirrors the comment dump schema.
type rawComment struct {
	ID            string    `json:"id"`
	LinkID        string    `json:"link_id"`
	ParentID      string    `json:"parent_id"`
	Author        string    `json:"author"`
	Subreddit     string    `json:"subreddit"`
	Body          string    `json:"body"`
	Score         flexInt64 `json:"score"`
	CreatedUTC    flexInt64 `json:"created_utc"`
	Distinguished string    `json:"distinguished"`
}

// ParsedPost couples a decoded post with the subreddit metadata the
// same dump line carried.
type ParsedPost struct {
	Post        *model.Post
	Subscribers int64
}

// ParsePost decodes one submission dump line.
func ParsePost(line []byte) (*ParsedPost, error) {
	var raw rawPost
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode post line: %w", err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("post line has no id")
	}

	pollData := ""
	if len(raw.PollData) > 0 && !bytes.Equal(raw.PollData, []byte("null")) {
		pollData = string(raw.PollData)
	}

	return &ParsedPost{
		Post: &model.Post{
			ID:            raw.ID,
			Title:         raw.Title,
			Author:        raw.Author,
			Subreddit:     raw.Subreddit,
			SelfText:      raw.SelfText,
			URL:           raw.URL,
			Domain:        raw.Domain,
			Score:         int64(raw.Score),
			NumComments:   int64(raw.NumComments),
			CreatedUTC:    int64(raw.CreatedUTC),
			Permalink:     raw.Permalink,
			Hint:          raw.PostHint,
			PollData:      pollData,
			IsSelf:        raw.IsSelf,
			Edited:        int64(raw.Edited),
			Over18:        raw.Over18,
			Locked:        raw.Locked,
			LinkFlairText: raw.LinkFlairText,
		},
		Subscribers: int64(raw.Subscribers),
	}, nil
}

// ParseComment decodes one comment dump line.
//
// The dump references posts as "t3_<id>" in link_id and parents as
// either "t1_<id>" (a comment) or "t3_<id>" (the post itself). Post
// parents map onto an empty ParentID, marking a top-level comment.
func ParseComment(line []byte) (*model.Comment, error) {
	var raw rawComment
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode comment line: %w", err)
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("comment line has no id")
	}

	parentID := ""
	if rest, ok := strings.CutPrefix(raw.ParentID, "t1_"); ok {
		parentID = rest
	}

	return &model.Comment{
		ID:            raw.ID,
		PostID:        strings.TrimPrefix(raw.LinkID, "t3_"),
		ParentID:      parentID,
		Author:        raw.Author,
		Subreddit:     raw.Subreddit,
		Body:          raw.Body,
		Score:         int64(raw.Score),
		CreatedUTC:    int64(raw.CreatedUTC),
		Distinguished: raw.Distinguished,
	}, nil
}
