package komoot

// Session holds the authenticated identity used for every outbound komoot
// request: the numeric user id and the raw cookie header of a valid browser
// session. The cookie value is treated as opaque and forwarded verbatim;
// extracting it from a logged-in browser is the operator's job.
type Session struct {
	UserID string
	Cookie string
}

// NewSession creates an immutable session context.
func NewSession(userID, cookie string) Session {
	return Session{UserID: userID, Cookie: cookie}
}
