// Package models contains domain models for the questions forum.
package models

// User is a forum participant.
type User struct {
	ID    int64  `db:"id" json:"id"`
	FName string `db:"fname" json:"fname"`
	LName string `db:"lname" json:"lname"`
}

// NewUser creates an unsaved user.
func NewUser(fname, lname string) *User {
	return &User{FName: fname, LName: lname}
}

// IsPersisted reports whether the user has a store-assigned id.
func (u *User) IsPersisted() bool {
	return u.ID != 0
}

// FullName joins first and last name.
func (u *User) FullName() string {
	switch {
	case u.FName == "":
		return u.LName
	case u.LName == "":
		return u.FName
	}
	return u.FName + " " + u.LName
}

// MatchKind tells a UserMatch apart as a single hit or a list.
type MatchKind int

const (
	// MatchMany means zero or several users matched.
	MatchMany MatchKind = iota
	// MatchSingle means exactly one user matched.
	MatchSingle
)

// String returns the match kind name.
func (k MatchKind) String() string {
	if k == MatchSingle {
		return "single"
	}
	return "many"
}

// UserMatch is the result of a lookup by name.
// When Kind is MatchSingle, User is set and Users holds that same user.
// When Kind is MatchMany, User is nil and Users may be empty.
type UserMatch struct {
	User  *User     `json:"user,omitempty"`
	Users []*User   `json:"users"`
	Kind  MatchKind `json:"kind"`
}

// NewUserMatch classifies a result set.
func NewUserMatch(users []*User) *UserMatch {
	if len(users) == 1 {
		return &UserMatch{Kind: MatchSingle, User: users[0], Users: users}
	}
	return &UserMatch{Kind: MatchMany, Users: users}
}

// AuthorKarma is the average number of likes per authored question.
type AuthorKarma struct {
	AuthorID     int64   `db:"author_id" json:"author_id"`
	AverageKarma float64 `db:"average_karma" json:"average_karma"`
}
