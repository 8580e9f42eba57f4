package models

// QuestionFollow records a user following a question.
// A user may follow the same question more than once.
type QuestionFollow struct {
	ID         int64 `db:"id" json:"id"`
	UserID     int64 `db:"user_id" json:"user_id"`
	QuestionID int64 `db:"question_id" json:"question_id"`
}

// NewQuestionFollow creates an unsaved follow.
func NewQuestionFollow(userID, questionID int64) *QuestionFollow {
	return &QuestionFollow{UserID: userID, QuestionID: questionID}
}

// IsPersisted reports whether the follow has a store-assigned id.
func (f *QuestionFollow) IsPersisted() bool {
	return f.ID != 0
}
