package domain

// Review length caps enforced client-side before any network call.
const (
	MaxReviewNameLen = 50
	MaxReviewTextLen = 2000
)

// VoteType is a single up or down vote.
type VoteType int

const (
	VoteUp   VoteType = 1
	VoteDown VoteType = -1
)

// IsValid checks if the vote type is valid.
func (v VoteType) IsValid() bool {
	return v == VoteUp || v == VoteDown
}

// Review is a server-owned review or reply. ParentID is nil for top-level
// reviews; replies always point at the thread root (threads are flat, depth
// one). CallerVote is the requesting user's own vote as reported by the
// server: -1, 0 or 1.
type Review struct {
	ID           int    `json:"id"`
	ParentID     *int   `json:"parent_id"`
	Name         string `json:"name"`
	Text         string `json:"text"`
	Rating       int    `json:"rating,omitempty"`
	Timestamp    string `json:"timestamp"`
	IsAdminReply bool   `json:"is_admin_reply"`
	ReplyCount   int    `json:"reply_count"`
	Upvotes      int    `json:"upvotes"`
	Downvotes    int    `json:"downvotes"`
	CallerVote   int    `json:"caller_vote"`
}

// ReviewPage is one page of the paginated review listing.
type ReviewPage struct {
	Reviews     []Review `json:"reviews"`
	CurrentPage int      `json:"current_page"`
	TotalPages  int      `json:"total_pages"`
}

// VoteResult is the server's authoritative aggregate after a vote.
type VoteResult struct {
	Upvotes    int `json:"upvotes"`
	Downvotes  int `json:"downvotes"`
	CallerVote int `json:"caller_vote"`
}
