package models

// QuestionLike records a user liking a question.
// A user may like the same question more than once.
type QuestionLike struct {
	ID         int64 `db:"id" json:"id"`
	UserID     int64 `db:"user_id" json:"user_id"`
	QuestionID int64 `db:"question_id" json:"question_id"`
}

// NewQuestionLike creates an unsaved like.
func NewQuestionLike(userID, questionID int64) *QuestionLike {
	return &QuestionLike{UserID: userID, QuestionID: questionID}
}

// IsPersisted reports whether the like has a store-assigned id.
func (l *QuestionLike) IsPersisted() bool {
	return l.ID != 0
}
