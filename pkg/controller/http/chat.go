package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/the-ledger/ledger/pkg/domain/interfaces"
	"github.com/the-ledger/ledger/pkg/domain/model/errs"
	"github.com/the-ledger/ledger/pkg/domain/types"
	"github.com/the-ledger/ledger/pkg/utils/logging"
)

// apologyAnswer is returned when the agent cannot produce an answer.
// Agent failures are degraded to a normal response so the conversation
// can continue; the underlying error is still reported.
const apologyAnswer = "I'm sorry, I couldn't process that request. Please try again."

type chatQueryRequest struct {
	Question string `json:"question"`
}

type chatQueryResponse struct {
	Answer string `json:"answer"`
}

func chatQueryHandler(agent interfaces.ChatAgent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.From(ctx)

		var req chatQueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(w, r, goerr.Wrap(err, "invalid request body", goerr.T(errs.TagInvalidRequest)))
			return
		}
		if req.Question == "" {
			handleError(w, r, goerr.New("question is required", goerr.T(errs.TagInvalidRequest)))
			return
		}

		logger.Info("running user query", "question", req.Question)

		answer, err := agent.RunQuery(ctx, types.DefaultThreadID, req.Question)
		if err != nil {
			errs.Handle(ctx, goerr.Wrap(err, "chat query failed", goerr.V("question", req.Question)))
			writeJSON(w, r, http.StatusOK, chatQueryResponse{Answer: apologyAnswer})
			return
		}

		writeJSON(w, r, http.StatusOK, chatQueryResponse{Answer: answer})
	}
}
