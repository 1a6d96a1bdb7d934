package websocket

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/goerr/v2"

	"github.com/the-ledger/ledger/pkg/domain/interfaces"
	"github.com/the-ledger/ledger/pkg/domain/model/errs"
	websocket_model "github.com/the-ledger/ledger/pkg/domain/model/websocket"
	"github.com/the-ledger/ledger/pkg/domain/types"
	"github.com/the-ledger/ledger/pkg/utils/logging"
)

// Handler upgrades chat connections and runs a synchronous
// question/answer loop over each one. Every connection gets its own
// conversation thread, so parallel clients do not share history.
type Handler struct {
	agent    interfaces.ChatAgent
	upgrader websocket.Upgrader
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
)

func NewHandler(agent interfaces.ChatAgent) *Handler {
	return &Handler{
		agent: agent,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict origins once the frontend host is settled
				return true
			},
		},
	}
}

// chatConn serializes writes: the ping loop and the reply path share
// one connection and gorilla allows a single concurrent writer.
type chatConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (x *chatConn) write(messageType int, data []byte) error {
	x.writeMu.Lock()
	defer x.writeMu.Unlock()
	_ = x.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return x.conn.WriteMessage(messageType, data)
}

// HandleChat serves one chat connection. Messages are plain text
// utterances; each reply is a JSON frame with the answer. A failed turn
// is reported as an error frame and the connection is closed.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.From(ctx)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written an HTTP error response.
		logger.Warn("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	threadID := types.NewThreadID()
	logger.Info("chat connection established", "thread_id", threadID)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	cc := &chatConn{conn: conn}
	done := make(chan struct{})
	defer close(done)
	go pingLoop(cc, done)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("chat connection closed unexpectedly", "error", err, "thread_id", threadID)
			} else {
				logger.Info("chat client disconnected", "thread_id", threadID)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		answer, err := h.agent.RunQuery(ctx, threadID, string(data))
		if err != nil {
			errs.Handle(ctx, goerr.Wrap(err, "chat turn failed", goerr.V("thread_id", threadID)))
			send(cc, websocket_model.NewErrorResponse(err), logger)
			return
		}

		send(cc, websocket_model.NewResponse(answer), logger)
	}
}

func pingLoop(cc *chatConn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := cc.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func send(cc *chatConn, resp *websocket_model.Response, logger *slog.Logger) {
	data, err := resp.ToBytes()
	if err != nil {
		logger.Warn("failed to marshal chat response", "error", err)
		return
	}
	if err := cc.write(websocket.TextMessage, data); err != nil {
		logger.Warn("failed to write chat response", "error", err)
	}
}
