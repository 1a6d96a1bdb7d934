package errs

import "github.com/m-mizutani/goerr/v2"

var (
	// Client errors (4xx)
	TagNotFound       = goerr.NewTag("not_found")       // 404
	TagValidation     = goerr.NewTag("validation")      // 400
	TagInvalidRequest = goerr.NewTag("invalid_request") // 400
	TagRateLimit      = goerr.NewTag("rate_limit")      // 429

	// Server errors (5xx)
	TagInternal = goerr.NewTag("internal") // 500
	TagDatabase = goerr.NewTag("database") // 500 (storage failures)

	// LLM errors: caught at the agent boundary and converted into a
	// degraded textual answer, never surfaced as an HTTP status.
	TagLLM = goerr.NewTag("llm_error")
)
