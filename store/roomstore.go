package store

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/minaorangina/boss/engine"
	"go.uber.org/zap"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

var ErrRoomNotFound error = engine.RoomError("Room not found")

// RoomStore creates and finds rooms. engine.Client uses it as its Lobby.
type RoomStore interface {
	CreateRoom() (*engine.Room, error)
	FindRoom(code string) (*engine.Room, error)
	Remove(code string)
	Len() int
}

type Opts struct {
	// Rand generates room codes and seeds each room's game
	Rand   *rand.Rand
	Logger *zap.Logger
}

// InMemoryRoomStore maps room code to room
type InMemoryRoomStore struct {
	mu     sync.Mutex
	rooms  map[string]*engine.Room
	rng    *rand.Rand
	logger *zap.Logger
}

// NewInMemoryRoomStore constructs an InMemoryRoomStore
func NewInMemoryRoomStore(opts Opts) *InMemoryRoomStore {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InMemoryRoomStore{
		rooms:  map[string]*engine.Room{},
		rng:    rng,
		logger: logger,
	}
}

// CreateRoom opens a room under a fresh code. The room removes itself once everyone has left.
func (s *InMemoryRoomStore) CreateRoom() (*engine.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := s.newCode()
	room := engine.NewRoom(engine.RoomOpts{
		Code:    code,
		Rand:    rand.New(rand.NewSource(s.rng.Int63())),
		Logger:  s.logger,
		OnEmpty: s.Remove,
	})
	s.rooms[code] = room

	s.logger.Info("room created", zap.String("room", code), zap.Int("rooms", len(s.rooms)))

	return room, nil
}

// newCode must be called with the lock held
func (s *InMemoryRoomStore) newCode() string {
	for {
		code := make([]byte, codeLength)
		for i := range code {
			code[i] = codeAlphabet[s.rng.Intn(len(codeAlphabet))]
		}
		if _, taken := s.rooms[string(code)]; !taken {
			return string(code)
		}
	}
}

// FindRoom looks a room up by code, ignoring case and surrounding space
func (s *InMemoryRoomStore) FindRoom(code string) (*engine.Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	s.mu.Lock()
	room, ok := s.rooms[code]
	s.mu.Unlock()

	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Remove closes and forgets a room. Unknown codes are ignored.
func (s *InMemoryRoomStore) Remove(code string) {
	s.remove(code)
}

func (s *InMemoryRoomStore) remove(code string) bool {
	s.mu.Lock()
	room, ok := s.rooms[code]
	delete(s.rooms, code)
	remaining := len(s.rooms)
	s.mu.Unlock()

	if !ok {
		return false
	}
	room.Close()
	s.logger.Info("room removed", zap.String("room", code), zap.Int("rooms", remaining))

	return true
}

func (s *InMemoryRoomStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// Sweep removes rooms nobody is connected to and returns how many went
func (s *InMemoryRoomStore) Sweep() int {
	s.mu.Lock()
	rooms := make([]*engine.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	s.mu.Unlock()

	// rooms are queried without the lock: a room may call Remove from its own goroutine
	removed := 0
	for _, room := range rooms {
		info, ok := room.Info()
		if ok && info.Connected > 0 {
			continue
		}
		if s.remove(room.Code()) {
			removed++
		}
	}

	return removed
}

// RunSweeper sweeps every interval until ctx is done
func (s *InMemoryRoomStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info("swept empty rooms", zap.Int("removed", n), zap.Int("rooms", s.Len()))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close closes every room
func (s *InMemoryRoomStore) Close() {
	s.mu.Lock()
	rooms := s.rooms
	s.rooms = map[string]*engine.Room{}
	s.mu.Unlock()

	for _, room := range rooms {
		room.Close()
	}
}
