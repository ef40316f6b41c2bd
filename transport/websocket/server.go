package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type roomManager interface {
	CreateRoom(ctx context.Context, playerID, name string) (*entity.Room, error)
	JoinRoom(ctx context.Context, code, playerID, name string) (*entity.Room, error)
	MakeMove(ctx context.Context, code, playerID string, cell int) (*entity.Room, error)
	RestartGame(ctx context.Context, code, playerID string) (*entity.Room, error)
	LeaveRoom(ctx context.Context, code, playerID string) (*entity.Room, error)
}

type handlerFunc func(ctx context.Context, c *client, message *Message) error

// Server is the connection gateway. Every room operation runs on the single
// goroutine started by Run, so rooms never see concurrent access.
type Server struct {
	logger   *slog.Logger
	manager  roomManager
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	// owned by the event loop
	clients map[string]*client
	rooms   map[string]string

	register   chan *client
	unregister chan *client
	inbound    chan inbound
	done       chan struct{}
}

func New(logger *slog.Logger, manager roomManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),

		clients: make(map[string]*client),
		rooms:   make(map[string]string),

		register:   make(chan *client),
		unregister: make(chan *client),
		inbound:    make(chan inbound),
		done:       make(chan struct{}),
	}

	server.handlers[actionCreateRoom] = server.handleCreateRoom
	server.handlers[actionJoinRoom] = server.handleJoinRoom
	server.handlers[actionMakeMove] = server.handleMakeMove
	server.handlers[actionRestartGame] = server.handleRestartGame

	return server
}

// Start - runs the event loop and serves /ws until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	router := mux.NewRouter()
	router.Handle("/ws", that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go that.Run(ctx)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP - upgrades the request and pumps the connection.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(conn)

	select {
	case that.register <- c:
	case <-that.done:
		_ = conn.Close()
		return
	}

	log.Info("WebSocket connection established", "connID", c.id, "remote", req.RemoteAddr)

	go c.writePump(that)
	c.readPump(that)
}

// Run - the event loop. It returns when ctx is canceled.
func (that *Server) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	defer close(that.done)

	for {
		select {
		case <-ctx.Done():
			for _, c := range that.clients {
				_ = c.conn.Close()
			}
			log.Info("event loop stopped")
			return

		case c := <-that.register:
			that.clients[c.id] = c

		case c := <-that.unregister:
			that.handleDisconnect(ctx, c)

		case in := <-that.inbound:
			that.dispatch(ctx, in)
		}
	}
}

func (that *Server) dispatch(ctx context.Context, in inbound) {
	log := that.logger.With("method", "dispatch", "connID", in.client.id, "action", in.message.Action)

	handler, ok := that.handlers[in.message.Action]
	if !ok {
		log.Warn("unknown action")
		return
	}

	if err := handler(ctx, in.client, &in.message); err != nil {
		log.Error("error processing message", "error", err)
	}
}

// sendMessage - queues a message for one client. A client that cannot keep
// up is disconnected.
func (that *Server) sendMessage(c *client, action string, payload any) error {
	message := Message{Action: action}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		message.Payload = raw
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	select {
	case c.send <- data:
	default:
		that.logger.Warn("send buffer full, dropping connection", "connID", c.id)
		_ = c.conn.Close()
	}

	return nil
}

// broadcast - sends the message to every connected participant of the room.
func (that *Server) broadcast(players []*entity.Participant, action string, payload any) {
	log := that.logger.With("method", "broadcast", "action", action)

	for _, player := range players {
		c, ok := that.clients[player.ID]
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		if err := that.sendMessage(c, action, payload); err != nil {
			log.Error("failed to send message", "playerID", player.ID, "error", err)
		}
	}
}
