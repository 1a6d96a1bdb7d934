package websocket

import "encoding/json"

// Response is the frame sent back to the client after each utterance.
// Sources is reserved for citation support and currently always empty;
// it is kept in the frame so clients can rely on its presence.
type Response struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

func NewResponse(answer string) *Response {
	return &Response{
		Answer:  answer,
		Sources: []string{},
	}
}

// NewErrorResponse wraps a failure as a regular frame so the client can
// render it like any other answer.
func NewErrorResponse(err error) *Response {
	return NewResponse("Error: " + err.Error())
}

func (r *Response) ToBytes() ([]byte, error) {
	return json.Marshal(r)
}
