package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	websocket_controller "github.com/the-ledger/ledger/pkg/controller/websocket"
	"github.com/the-ledger/ledger/pkg/domain/interfaces"
)

type Server struct {
	router        *chi.Mux
	repo          interfaces.Repository
	chatAgent     interfaces.ChatAgent
	websocketCtrl *websocket_controller.Handler
}

type Options func(*Server)

// WithChatAgent enables the chat endpoints. Without it the server only
// exposes the asset CRUD API.
func WithChatAgent(agent interfaces.ChatAgent) Options {
	return func(s *Server) {
		s.chatAgent = agent
	}
}

func WithWebSocketHandler(handler *websocket_controller.Handler) Options {
	return func(s *Server) {
		s.websocketCtrl = handler
	}
}

func New(repo interfaces.Repository, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		repo:   repo,
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(loggingMiddleware)
	r.Use(panicRecoveryMiddleware)

	r.Get("/health", healthHandler)

	r.Route("/assets", func(r chi.Router) {
		r.Post("/", createAssetHandler(s.repo))
		r.Get("/", listAssetsHandler(s.repo))
		r.Get("/{assetID}", getAssetHandler(s.repo))
		r.Put("/{assetID}", updateAssetHandler(s.repo))
		r.Delete("/{assetID}", deleteAssetHandler(s.repo))
	})

	if s.chatAgent != nil {
		r.Route("/api/chat", func(r chi.Router) {
			r.Post("/query", chatQueryHandler(s.chatAgent))
		})
	}

	if s.websocketCtrl != nil {
		r.Route("/ws", func(r chi.Router) {
			r.Get("/chat", s.websocketCtrl.HandleChat)
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
