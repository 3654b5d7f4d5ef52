package events

import (
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/meower-media/reactions/pkg/api/events/packets"
)

const (
	pingInterval = 45 * time.Second
	writeTimeout = 10 * time.Second
	readLimit    = 512
)

// Session is one websocket client watching a single chat.
type Session struct {
	id     int64
	chatId int64
	server *Server

	conn *websocket.Conn
	send chan *Packet

	done      chan struct{}
	closeOnce sync.Once
}

func newSession(server *Server, chatId int64, conn *websocket.Conn) *Session {
	return &Session{
		id:     server.getNextNonce(),
		chatId: chatId,
		server: server,

		conn: conn,
		send: make(chan *Packet, 256),

		done: make(chan struct{}),
	}
}

func (s *Session) hello() error {
	p, err := createPacket(s.server, "hello", &packets.Hello{
		SessionId:    strconv.FormatInt(s.id, 10),
		ChatId:       strconv.FormatInt(s.chatId, 10),
		PingInterval: int(pingInterval.Milliseconds()),
	})
	if err != nil {
		return err
	}
	s.enqueue(p)
	return nil
}

// enqueue never blocks; a client too slow to drain its buffer is dropped.
func (s *Session) enqueue(p *Packet) {
	select {
	case s.send <- p:
	case <-s.done:
	default:
		s.server.logger.Debug("dropping slow events client", "session", s.id, "chat", s.chatId)
		s.close()
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case p := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, p.JsonEncoded); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// readPump blocks until the connection ends. Clients have nothing to say,
// reads only keep the deadline moving on pongs.
func (s *Session) readPump() {
	s.conn.SetReadLimit(readLimit)
	s.conn.SetReadDeadline(time.Now().Add(2 * pingInterval))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(2 * pingInterval))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(time.Second),
		)
		s.conn.Close()
	})
}
