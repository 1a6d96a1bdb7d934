package interfaces

import (
	"context"

	"github.com/the-ledger/ledger/pkg/domain/types"
)

// ChatAgent answers a user utterance within a conversation thread. An
// error means "could not answer"; callers degrade to an apology instead
// of propagating it to the transport.
type ChatAgent interface {
	RunQuery(ctx context.Context, threadID types.ThreadID, userText string) (string, error)
}
