package ws

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navsystem"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/net/proto"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/telemetry"
)

const writeWait = 10 * time.Second

// session serves one connection. Messages are handled in arrival order on a
// single goroutine, which is the only user of sys.
type session struct {
	agent  string
	conn   *websocket.Conn
	sys    *navsystem.System
	logger telemetry.Logger
}

func newSession(agent string, conn *websocket.Conn, sys *navsystem.System, logger telemetry.Logger) *session {
	return &session{agent: agent, conn: conn, sys: sys, logger: logger}
}

func (s *session) serve(ctx context.Context) {
	defer s.conn.Close()
	for {
		frameType, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Printf("read failed for %s: %v", s.agent, err)
			}
			return
		}
		enc := proto.EncodingJSON
		if frameType == websocket.BinaryMessage {
			enc = proto.EncodingMsgpack
		}

		msg, err := proto.DecodeClientMessage(payload, enc)
		if err != nil {
			s.logger.Printf("discarding malformed message from %s: %v", s.agent, err)
			if !s.write(enc, proto.NewErrorMessage(msg.Seq, err.Error())) {
				return
			}
			continue
		}

		if !s.write(enc, s.handle(ctx, msg)) {
			return
		}
	}
}

func (s *session) handle(ctx context.Context, msg proto.ClientMessage) any {
	switch msg.Type {
	case proto.TypeBuild:
		m, params, err := msg.Build.CollisionMap()
		if err == nil {
			err = s.sys.Build(ctx, m, params)
		} else {
			s.sys.Clear()
		}
		if err != nil {
			return proto.NewErrorMessage(msg.Seq, err.Error())
		}
		stats, err := s.sys.Stats()
		if err != nil {
			return proto.NewErrorMessage(msg.Seq, err.Error())
		}
		return proto.NewGraphMessage(msg.Seq, stats)
	case proto.TypePath:
		if s.sys.Graph() == nil {
			return proto.NewErrorMessage(msg.Seq, navsystem.ErrNoGraph.Error())
		}
		anchor, found := s.sys.FindPath(ctx, msg.Query.Start.World(), msg.Query.Goal.World())
		return proto.NewPathMessage(msg.Seq, anchor, found, s.sys)
	case proto.TypeClear:
		s.sys.Clear()
		return proto.NewClearedMessage(msg.Seq)
	case proto.TypeHeartbeat:
		return proto.HeartbeatMessage{
			Ver:        proto.Version,
			Type:       proto.TypeHeartbeat,
			ServerTime: time.Now().UnixMilli(),
			ClientTime: msg.SentAt,
		}
	default:
		return proto.NewErrorMessage(msg.Seq, "unknown message type "+msg.Type)
	}
}

// write reports false once the connection is unusable.
func (s *session) write(enc proto.Encoding, msg any) bool {
	data, err := proto.Marshal(msg, enc)
	if err != nil {
		s.logger.Printf("failed to marshal response for %s: %v", s.agent, err)
		return true
	}
	frameType := websocket.TextMessage
	if enc == proto.EncodingMsgpack {
		frameType = websocket.BinaryMessage
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(frameType, data); err != nil {
		if !errors.Is(err, websocket.ErrCloseSent) {
			s.logger.Printf("write failed for %s: %v", s.agent, err)
		}
		return false
	}
	return true
}
