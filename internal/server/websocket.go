package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RednibCoding/mudden/internal/logger"
)

// ListenAndServe runs the websocket listener until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warning("WebSocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
			return
		}
		if s.cfg.WebSocket.MaxMessageSize > 0 {
			conn.SetReadLimit(s.cfg.WebSocket.MaxMessageSize)
		}

		c := newClient(s, conn, clientIP(r))
		logger.Info("Client connected", "ip", c.ip)
		go c.writeLoop()
		go c.readLoop()
	})

	httpServer := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("Server listening", "address", s.cfg.Listen)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// checkOrigin enforces the configured origin allowlist. An empty list means
// same-origin only; "*" allows everything.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	allowed := s.cfg.WebSocket.AllowedOrigins
	if len(allowed) == 0 {
		host := r.Host
		return strings.Contains(origin, host)
	}
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// clientIP extracts the client address, honoring X-Forwarded-For when a
// proxy sits in front.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
