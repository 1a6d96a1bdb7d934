package types

import "github.com/google/uuid"

type ThreadID string

func (x ThreadID) String() string {
	return string(x)
}

func NewThreadID() ThreadID {
	return ThreadID(uuid.New().String())
}

const (
	EmptyThreadID ThreadID = ""

	// DefaultThreadID is the thread used by the request/response chat
	// endpoint, which does not carry a client-supplied thread key.
	DefaultThreadID ThreadID = "default"
)
