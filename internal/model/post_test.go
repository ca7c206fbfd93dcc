package model

import "testing"

// TestPostKind tests classification of posts from dataset fields.
func TestPostKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		post Post
		want PostKind
	}{
		{
			name: "self post",
			post: Post{IsSelf: true, SelfText: "hello"},
			want: KindText,
		},
		{
			name: "image post",
			post: Post{Hint: "image", URL: "https://i.example.com/a.png"},
			want: KindImage,
		},
		{
			name: "hosted video post",
			post: Post{Hint: "hosted:video"},
			want: KindVideo,
		},
		{
			name: "rich video post",
			post: Post{Hint: "rich:video"},
			want: KindVideo,
		},
		{
			name: "poll wins over self",
			post: Post{IsSelf: true, PollData: `{"options":[]}`},
			want: KindPoll,
		},
		{
			name: "plain link",
			post: Post{URL: "https://example.com/article"},
			want: KindLink,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.post.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestPostKindString tests the icon token mapping.
func TestPostKindString(t *testing.T) {
	t.Parallel()

	pairs := map[PostKind]string{
		KindText:  "text",
		KindImage: "img",
		KindVideo: "video",
		KindPoll:  "poll",
		KindLink:  "link",
	}
	for kind, want := range pairs {
		if got := kind.String(); got != want {
			t.Errorf("PostKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

// TestParsePollOptions tests poll payload decoding.
func TestParsePollOptions(t *testing.T) {
	t.Parallel()

	t.Run("valid payload", func(t *testing.T) {
		t.Parallel()

		p := Post{PollData: `{"options":[{"text":"yes","vote_count":3},{"text":"no","vote_count":1}],"total_vote_count":4}`}
		opts := p.ParsePollOptions()
		if len(opts) != 2 {
			t.Fatalf("expected 2 options, got %d", len(opts))
		}
		if opts[0].Text != "yes" || opts[0].Votes != 3 {
			t.Errorf("unexpected first option: %+v", opts[0])
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		t.Parallel()

		p := Post{}
		if opts := p.ParsePollOptions(); opts != nil {
			t.Errorf("expected nil options, got %v", opts)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()

		p := Post{PollData: "{not json"}
		if opts := p.ParsePollOptions(); opts != nil {
			t.Errorf("expected nil options for malformed data, got %v", opts)
		}
	})
}
