package friends

// Status is the derived relationship state between a viewer and a subject.
// It is never stored; it is computed from the two collections on demand.
type Status string

const (
	StatusSelf            Status = "self"
	StatusFriends         Status = "friends"
	StatusRequestSent     Status = "request_sent"
	StatusRequestReceived Status = "request_received"
	StatusNotFriends      Status = "not_friends"
)
