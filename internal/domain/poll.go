package domain

import "time"

// Poll represents a community poll with an ordered set of choices.
type Poll struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CreatedBy   string       `json:"created_by"`
	Choices     []PollChoice `json:"choices"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PollChoice is a single votable option. SortOrder preserves the declaration
// order of the choices.
type PollChoice struct {
	ID        string `json:"id"`
	PollID    string `json:"poll_id"`
	Title     string `json:"title"`
	SortOrder int    `json:"sort_order"`
}

// Vote records a single user's choice on a poll. A user may cast at most one
// vote per poll.
type Vote struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	ChoiceID  string    `json:"choice_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TallyEntry is the vote count for one choice. Tallies are returned in choice
// declaration order, and the counts always sum to the poll's total votes.
type TallyEntry struct {
	ChoiceID string `json:"choice_id"`
	Title    string `json:"title"`
	Count    int    `json:"count"`
}
