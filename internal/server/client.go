package server

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/RednibCoding/mudden/internal/logger"
	"github.com/RednibCoding/mudden/internal/player"
	"github.com/RednibCoding/mudden/internal/protocol"
)

// outboundBuffer bounds the per-connection writer queue. A client that falls
// this far behind starts losing frames; delivery is best-effort.
const outboundBuffer = 256

// Client is one websocket connection: a reader that feeds the dispatcher and
// a writer that drains the outbound frame queue.
type Client struct {
	srv  *Server
	conn *websocket.Conn
	ip   string

	out       chan protocol.Frame
	done      chan struct{}
	closeOnce sync.Once

	// p is set once authentication succeeds; guarded by srv.mu.
	p *player.Player
}

func newClient(srv *Server, conn *websocket.Conn, ip string) *Client {
	return &Client{
		srv:  srv,
		conn: conn,
		ip:   ip,
		out:  make(chan protocol.Frame, outboundBuffer),
		done: make(chan struct{}),
	}
}

// SendMessage implements player.Sink.
func (c *Client) SendMessage(mt protocol.MessageType, text, code string) {
	c.push(protocol.NewFrame(protocol.FrameMessage, protocol.NewMessage(mt, text, code)))
}

// SendFrame implements player.Sink.
func (c *Client) SendFrame(frameType string, data any) {
	c.push(protocol.NewFrame(frameType, data))
}

// sendError emits a protocol-level error frame.
func (c *Client) sendError(text string) {
	c.SendFrame(protocol.FrameError, protocol.ErrorText{Data: text})
}

// push enqueues a frame without ever blocking the game lock holder.
func (c *Client) push(f protocol.Frame) {
	select {
	case c.out <- f:
	default:
		// Slow client; drop the frame.
	}
}

// Close tears the connection down; safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writeLoop drains the outbound queue onto the socket.
func (c *Client) writeLoop() {
	for {
		select {
		case frame := <-c.out:
			if err := c.conn.WriteJSON(frame); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop runs the connection lifecycle: authenticate, then dispatch
// command frames until the socket drops, then run disconnect housekeeping.
func (c *Client) readLoop() {
	defer c.srv.handleDisconnect(c)
	defer c.Close()

	for {
		var frame protocol.Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Type {
		case protocol.FrameRegister, protocol.FrameLogin:
			if c.p != nil {
				c.sendError("Already authenticated.")
				continue
			}
			var creds protocol.Credentials
			if err := json.Unmarshal(frame.Data, &creds); err != nil {
				c.sendError("Malformed credentials.")
				continue
			}
			if frame.Type == protocol.FrameRegister {
				c.srv.handleRegister(c, creds)
			} else {
				c.srv.handleLogin(c, creds)
			}

		case protocol.FrameCommand:
			if c.p == nil {
				c.sendError("Not authenticated.")
				continue
			}
			var cmd protocol.Command
			if err := json.Unmarshal(frame.Data, &cmd); err != nil {
				c.sendError("Malformed command.")
				continue
			}
			c.srv.HandleCommand(c.p, cmd.Command)

		default:
			logger.Debug("Unknown frame type", "type", frame.Type, "ip", c.ip)
			c.sendError("Unknown frame type.")
		}
	}
}
