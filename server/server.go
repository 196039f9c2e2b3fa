package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/minaorangina/boss/engine"
	"github.com/minaorangina/boss/store"
	"go.uber.org/zap"
)

type ServerOpts struct {
	Addr           string
	Store          store.RoomStore
	Logger         *zap.Logger
	AllowedOrigins []string
	MaxMessageSize int64
	// AccessLog receives one combined-log line per request when set
	AccessLog io.Writer
}

type HealthRes struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
}

type ErrorRes struct {
	Message string `json:"message"`
}

// GameServer is a game server
type GameServer struct {
	store          store.RoomStore
	logger         *zap.Logger
	upgrader       websocket.Upgrader
	maxMessageSize int64
	http.Server
}

// NewServer creates a new GameServer
func NewServer(opts ServerOpts) *GameServer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &GameServer{
		store:          opts.Store,
		logger:         logger,
		maxMessageSize: opts.MaxMessageSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(origins),
		},
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/health", s.HandleHealth)
	router.Get("/rooms/{code}", s.HandleFindRoom)
	router.Get("/ws", s.HandleWS)

	var handler http.Handler = router
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)(handler)
	if opts.AccessLog != nil {
		handler = handlers.CombinedLoggingHandler(opts.AccessLog, handler)
	}

	s.Addr = opts.Addr
	s.Handler = handler

	return s
}

// ServeHTTP serves http
func (g *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.Handler.ServeHTTP(w, r)
}

func (g *GameServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthRes{Status: "ok", Rooms: g.store.Len()})
}

// HandleFindRoom describes the room named in the path
func (g *GameServer) HandleFindRoom(w http.ResponseWriter, r *http.Request) {
	room, err := g.store.FindRoom(chi.URLParam(r, "code"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorRes{Message: err.Error()})
		return
	}

	info, ok := room.Info()
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorRes{Message: store.ErrRoomNotFound.Error()})
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// HandleWS upgrades the connection and serves it until it closes
func (g *GameServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("could not upgrade to websocket",
			zap.String("request", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		return
	}

	client := engine.NewClient(conn, engine.ClientOpts{
		Lobby:          g.store,
		Logger:         g.logger,
		MaxMessageSize: g.maxMessageSize,
	})
	g.logger.Debug("client connected", zap.String("conn", client.ID()), zap.String("remote", r.RemoteAddr))

	client.Run()

	g.logger.Debug("client disconnected", zap.String("conn", client.ID()))
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
