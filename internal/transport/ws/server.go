package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"voxelsandbox/internal/protocol"
	"voxelsandbox/internal/sim/world"
)

// Server exposes a world to websocket observers. Every message is turned into
// one world command; replies are written in request order.
type Server struct {
	world *world.World
	log   *log.Logger

	commandTimeout time.Duration
	upgrader       websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	s := &Server{
		world:          w,
		log:            logger,
		commandTimeout: 10 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		name, ok := s.handshake(context.Background(), conn)
		if !ok {
			return
		}
		s.logf("observer %s connected from %s", name, r.RemoteAddr)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		out := make(chan any, 16)

		// Writer goroutine.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				select {
				case <-ctx.Done():
					return
				case v := <-out:
					if err := writeJSON(conn, v); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			reply := s.handle(ctx, msg)
			select {
			case out <- reply:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
		}
		cancel()
		<-done
		s.logf("observer %s disconnected", name)
	}
}

func (s *Server) handshake(ctx context.Context, conn *websocket.Conn) (string, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closeWith(conn, "expected HELLO")
		return "", false
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		closeWith(conn, "bad HELLO")
		return "", false
	}
	if hello.ProtocolVersion != protocol.Version {
		closeWith(conn, "bad protocol_version")
		return "", false
	}

	cctx, cancel := context.WithTimeout(ctx, s.commandTimeout)
	defer cancel()
	res, err := s.world.Submit(cctx, world.Command{Kind: world.CmdState})
	if err != nil {
		closeWith(conn, "world unavailable")
		return "", false
	}
	welcome := buildWelcome(s.world, res)
	if hello.PlayerName != "" {
		welcome.PlayerName = hello.PlayerName
	}
	if err := writeJSON(conn, welcome); err != nil {
		return "", false
	}
	return welcome.PlayerName, true
}

// handle decodes one client message and returns the reply to send.
func (s *Server) handle(ctx context.Context, msg []byte) any {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return badRequest(base, "invalid json")
	}
	if base.ProtocolVersion != protocol.Version {
		return badRequest(base, "bad protocol_version")
	}
	cmd, err := decodeCommand(base.Type, msg)
	if err != nil {
		return badRequest(base, err.Error())
	}

	cctx, cancel := context.WithTimeout(ctx, s.commandTimeout)
	defer cancel()
	res, err := s.world.Submit(cctx, cmd)
	if err != nil {
		return protocol.ResultMsg{
			Type:            protocol.TypeResult,
			ProtocolVersion: protocol.Version,
			ReqID:           base.ReqID,
			For:             base.Type,
			Code:            protocol.ErrWorldBusy,
			Message:         err.Error(),
		}
	}
	return buildReply(base, cmd, res)
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

func closeWith(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
