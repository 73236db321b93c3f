package auth

// Outcome is the result of an authentication operation: either a success carrying
// the (possibly nil) user, or a failure carrying one operator-facing message.
// There is no third state.
type Outcome struct {
	ok      bool
	user    *User
	message string
	err     error
}

// Success builds a successful outcome.
func Success(u *User) Outcome {
	return Outcome{ok: true, user: u}
}

// Failure builds a failed outcome. An empty message is replaced by a generic one
// so a failure always has something to show.
func Failure(message string, cause error) Outcome {
	if message == "" {
		message = "authentication failed"
	}
	return Outcome{message: message, err: cause}
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool { return o.ok }

// User returns the identity of a successful outcome, nil otherwise.
func (o Outcome) User() *User { return o.user }

// Message returns the failure message, empty on success.
func (o Outcome) Message() string { return o.message }

// Err returns the classified cause of a failure (an *errors.AppError when the
// failure came from the API), nil on success.
func (o Outcome) Err() error { return o.err }

// SessionState is the client's view of the authentication state. User and
// Authenticated are stored independently; Authenticated is not derived from User.
type SessionState struct {
	User          *User
	Authenticated bool
}
