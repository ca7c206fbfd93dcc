package model

// Comment represents a single comment in the dataset.
type Comment struct {
	// UID is the surrogate primary key assigned at import time.
	UID int64

	// ID is the reddit short identifier of the comment.
	ID string

	// PostID is the short identifier of the post the comment belongs
	// to (the dataset's link_id without the "t3_" prefix).
	PostID string

	// ParentID identifies the parent comment, or is empty when the
	// comment replies directly to the post.
	ParentID string

	// Author is the commenting user's name.
	Author string

	// Subreddit is the subreddit the comment was made in.
	Subreddit string

	// Body is the markdown body.
	Body string

	// Score is the net vote score at archive time.
	Score int64

	// CreatedUTC is the comment time as a Unix timestamp.
	CreatedUTC int64

	// Distinguished marks moderator/admin comments.
	Distinguished string
}

// CommentNode is one node of an assembled comment tree.
type CommentNode struct {
	Comment *Comment

	// Replies are the direct children, ordered by descending score.
	Replies []*CommentNode
}

// BuildCommentTree assembles flat comments into a forest of top-level
// threads. Comments whose parent is missing from the input (deleted or
// outside the dump window) are promoted to top level so no imported
// comment is silently dropped.
//
// The input order is preserved within each reply list; callers that
// want score ordering should query the comments sorted by score.
func BuildCommentTree(comments []*Comment) []*CommentNode {
	nodes := make(map[string]*CommentNode, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &CommentNode{Comment: c}
	}

	var roots []*CommentNode
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[c.ParentID]
		if !ok {
			// Orphaned reply: parent not in the dump.
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}
	return roots
}

// CountNodes returns the total number of comments in the forest.
func CountNodes(roots []*CommentNode) int {
	total := 0
	for _, root := range roots {
		total += 1 + CountNodes(root.Replies)
	}
	return total
}
