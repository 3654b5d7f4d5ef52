package events

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/websocket"
	"github.com/meower-media/reactions/pkg/events"
	"github.com/meower-media/reactions/pkg/networks"
	"github.com/redis/go-redis/v9"
)

// Server fans reaction events from Redis out to websocket clients
// subscribed with /?chat=<id>.
type Server struct {
	upgrader  websocket.Upgrader
	allowlist *networks.Allowlist
	logger    *slog.Logger

	mu    sync.RWMutex
	chats map[int64]map[*Session]struct{}

	nextNonce  int64
	nonceMutex sync.Mutex
}

func NewServer(allowlist *networks.Allowlist, logger *slog.Logger) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:    1024,
			WriteBufferSize:   1024,
			CheckOrigin:       func(r *http.Request) bool { return true },
			EnableCompression: true,
		},
		allowlist: allowlist,
		logger:    logger,

		chats: make(map[int64]map[*Session]struct{}),
	}
}

func (s *Server) getNextNonce() int64 {
	s.nonceMutex.Lock()
	defer s.nonceMutex.Unlock()
	nonce := s.nextNonce
	s.nextNonce++
	return nonce
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Check network
	allowed, err := s.allowlist.Allows(r.RemoteAddr)
	if err != nil || !allowed {
		http.Error(w, "Forbidden.", http.StatusForbidden)
		return
	}

	// Get chat
	chatId, err := strconv.ParseInt(r.URL.Query().Get("chat"), 10, 64)
	if err != nil {
		http.Error(w, "Missing or invalid chat.", http.StatusBadRequest)
		return
	}

	// Upgrade connection
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	// Register session
	session := newSession(s, chatId, conn)
	s.register(session)
	defer func() {
		s.unregister(session)
		session.close()
	}()

	if err := session.hello(); err != nil {
		s.logger.Error("failed to send hello", "error", err)
		return
	}
	go session.writePump()
	session.readPump()
}

func (s *Server) register(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chats[session.chatId] == nil {
		s.chats[session.chatId] = make(map[*Session]struct{})
	}
	s.chats[session.chatId][session] = struct{}{}
}

func (s *Server) unregister(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chats[session.chatId], session)
	if len(s.chats[session.chatId]) == 0 {
		delete(s.chats, session.chatId)
	}
}

func (s *Server) broadcast(chatId int64, p *Packet) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for session := range s.chats[chatId] {
		session.enqueue(p)
	}
}

// Subscribe relays chat events from Redis until ctx is done.
func (s *Server) Subscribe(ctx context.Context, client *redis.Client) error {
	// Create pub/sub channel
	pubsub := client.PSubscribe(ctx, events.ChatChannelPattern)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	// Listen to incoming pub/sub events
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := s.Dispatch(msg.Channel, []byte(msg.Payload)); err != nil {
				s.logger.Warn("failed to relay event", "channel", msg.Channel, "error", err)
				if !errors.Is(err, ErrUnknownOp) {
					sentry.CaptureException(err)
				}
			}
		}
	}
}

// Close drops every connected client.
func (s *Server) Close() {
	s.mu.RLock()
	var sessions []*Session
	for _, chat := range s.chats {
		for session := range chat {
			sessions = append(sessions, session)
		}
	}
	s.mu.RUnlock()

	for _, session := range sessions {
		session.close()
	}
}

// Serve listens on addr until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		s.Close()
		srv.Close()
	}()

	s.logger.Info("serving events", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
