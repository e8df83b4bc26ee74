package auth

// UserContext is what the auth middleware attaches to a request. The role
// here comes from the token and is advisory; authorization gates re-read
// it from the database.
type UserContext struct {
	UserID string
	Name   string
	Role   string
}
