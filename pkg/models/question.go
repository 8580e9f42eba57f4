package models

// Question is a posted question.
type Question struct {
	ID       int64  `db:"id" json:"id"`
	Title    string `db:"title" json:"title"`
	Body     string `db:"body" json:"body"`
	AuthorID int64  `db:"author_id" json:"author_id"`
}

// NewQuestion creates an unsaved question.
func NewQuestion(title, body string, authorID int64) *Question {
	return &Question{Title: title, Body: body, AuthorID: authorID}
}

// IsPersisted reports whether the question has a store-assigned id.
func (q *Question) IsPersisted() bool {
	return q.ID != 0
}

// QuestionCount is a title plus an aggregate count, as returned by
// the most-liked and most-followed reports. It is not a full Question.
type QuestionCount struct {
	Title string `db:"title" json:"title"`
	Count int64  `db:"count" json:"count"`
}
