package monitor

import (
	"context"
	"net/http"

	"github.com/gobwas/ws"
	"go.uber.org/zap"
)

// Server exposes the hub at /ws.
type Server struct {
	logger *zap.Logger
	hub    *Hub
	srv    *http.Server
}

func NewServer(addr string, hub *Hub, logger *zap.Logger) *Server {
	s := &Server{
		logger: logger,
		hub:    hub,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	s.srv = &http.Server{Addr: addr, Handler: mux}

	return s
}

// HandleWS upgrades the connection and attaches it to the hub.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		return
	}

	client := NewClient(conn, s.hub, s.logger)
	s.hub.Register(client)
	client.Start()
}

// Start serves in the background; errors other than a clean shutdown are fatal.
func (s *Server) Start() {
	go func() {
		s.logger.Info("Monitor started", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Fatal("Monitor HTTP error", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Shutdown()
	return s.srv.Shutdown(ctx)
}
