package models

// Reply is an answer to a question, optionally nested under another reply.
type Reply struct {
	// ParentReplyID is nil for a top-level reply.
	ParentReplyID *int64 `db:"parent_reply_id" json:"parent_reply_id,omitempty"`
	Body          string `db:"body" json:"body"`
	ID            int64  `db:"id" json:"id"`
	SubjectID     int64  `db:"subject_id" json:"subject_id"`
	UserID        int64  `db:"user_id" json:"user_id"`
}

// NewReply creates an unsaved top-level reply to a question.
func NewReply(subjectID, userID int64, body string) *Reply {
	return &Reply{SubjectID: subjectID, UserID: userID, Body: body}
}

// NewChildReply creates an unsaved reply nested under parent.
// The child inherits the parent's subject.
func NewChildReply(parent *Reply, userID int64, body string) *Reply {
	parentID := parent.ID
	return &Reply{
		SubjectID:     parent.SubjectID,
		ParentReplyID: &parentID,
		UserID:        userID,
		Body:          body,
	}
}

// IsPersisted reports whether the reply has a store-assigned id.
func (r *Reply) IsPersisted() bool {
	return r.ID != 0
}

// IsTopLevel reports whether the reply hangs directly off its question.
func (r *Reply) IsTopLevel() bool {
	return r.ParentReplyID == nil
}
