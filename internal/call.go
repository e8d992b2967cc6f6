package internal

import (
	"github.com/google/uuid"
)

// NewCallID returns a fresh identifier used to correlate the log lines of one tool call.
func NewCallID() CallID {
	return CallID(uuid.NewString())
}

// Short returns the first eight characters of the identifier, which is enough
// to tell concurrent calls apart in a console log.
func (c CallID) Short() string {
	if len(c) < 8 {
		return string(c)
	}
	return string(c[:8])
}
