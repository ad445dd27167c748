// Package server exposes self-play games and move selection over HTTP, with a
// websocket stream of game events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/hailam/chesslite/internal/board"
	"github.com/hailam/chesslite/internal/engine"
	"github.com/hailam/chesslite/internal/game"
	"github.com/hailam/chesslite/internal/storage"
)

// Limits for games and searches requested by clients. A background game
// without a ply cap stops after MaxRequestPlies.
const (
	MaxRequestDepth = 4
	MaxRequestPlies = 500
)

// Server runs background self-play games and serves the HTTP API.
type Server struct {
	store *storage.Storage
	hub   *Hub

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	live map[string]*liveGame
}

// liveGame is the last known state of a running game.
type liveGame struct {
	ID       string       `json:"id"`
	StartFEN string       `json:"start_fen"`
	FEN      string       `json:"fen"`
	Plies    int          `json:"plies"`
	LastMove string       `json:"last_move,omitempty"`
	Outcome  game.Outcome `json:"outcome"`
}

type startGameRequest struct {
	Depth    *int   `json:"depth"`
	MaxPlies *int   `json:"max_plies"`
	FEN      string `json:"fen"`
}

type moveRequest struct {
	FEN   string `json:"fen"`
	Depth *int   `json:"depth"`
}

type moveResponse struct {
	Status string `json:"status"`
	Move   string `json:"move,omitempty"`
	Score  int    `json:"score"`
	Depth  int    `json:"depth"`
	Nodes  uint64 `json:"nodes"`
}

type gameSummary struct {
	ID         string       `json:"id"`
	Outcome    game.Outcome `json:"outcome"`
	Plies      int          `json:"plies"`
	FinalScore int          `json:"final_score"`
	StartedAt  time.Time    `json:"started_at"`
}

type plyPayload struct {
	GameID string `json:"game_id"`
	Ply    int    `json:"ply"`
	Mover  string `json:"mover"`
	Move   string `json:"move"`
	Score  int    `json:"score"`
	FEN    string `json:"fen"`
}

type finishedPayload struct {
	GameID     string       `json:"game_id"`
	Outcome    game.Outcome `json:"outcome"`
	Plies      int          `json:"plies"`
	FinalFEN   string       `json:"final_fen"`
	FinalScore int          `json:"final_score"`
}

// New creates a server backed by store and starts its event hub.
func New(store *storage.Storage) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		store:  store,
		hub:    NewHub(),
		ctx:    ctx,
		cancel: cancel,
		live:   make(map[string]*liveGame),
	}
	go s.hub.Run(ctx.Done())
	return s
}

// Close aborts running games between turns and waits for them to be stored.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", s.handleListGames)
		r.Post("/", s.handleStartGame)
		r.Get("/{id}", s.handleGetGame)
		r.Delete("/{id}", s.handleDeleteGame)
	})

	r.Get("/api/stats", s.handleStats)
	r.Post("/api/moves", s.handleMove)

	r.Get("/ws", s.serveWS)

	return r
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	prefs, err := s.store.LoadPreferences()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	opts, err := prefs.GameOptions()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if req.Depth != nil {
		if *req.Depth < 0 || *req.Depth > MaxRequestDepth {
			writeError(w, http.StatusBadRequest, "depth out of range")
			return
		}
		opts.Depth = *req.Depth
	}
	if req.MaxPlies != nil {
		if *req.MaxPlies < 0 || *req.MaxPlies > MaxRequestPlies {
			writeError(w, http.StatusBadRequest, "max_plies out of range")
			return
		}
		opts.MaxPlies = *req.MaxPlies
	}
	if opts.MaxPlies == 0 || opts.MaxPlies > MaxRequestPlies {
		opts.MaxPlies = MaxRequestPlies
	}
	opts.StartFEN = req.FEN
	opts.OnPly = s.onPly

	g, err := game.New(opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := g.Position()
	lg := &liveGame{
		ID:       g.ID(),
		StartFEN: start.FEN(),
		FEN:      start.FEN(),
		Outcome:  game.OutcomeOngoing,
	}
	s.mu.Lock()
	s.live[lg.ID] = lg
	s.mu.Unlock()

	s.wg.Add(1)
	go s.runGame(g)

	log.Printf("[server] game %s started from %s at depth %d", lg.ID, lg.StartFEN, opts.Depth)
	writeJSON(w, http.StatusAccepted, map[string]string{"id": lg.ID})
}

// runGame plays g to the end, stores the record and announces the result.
func (s *Server) runGame(g *game.Game) {
	defer s.wg.Done()

	rec, err := g.Run(s.ctx)
	if err != nil && !errors.Is(err, game.ErrAborted) {
		log.Printf("[server] game %s failed: %v", rec.ID, err)
	}
	if err := s.store.RecordGame(rec); err != nil {
		log.Printf("[server] store game %s: %v", rec.ID, err)
	}

	s.mu.Lock()
	delete(s.live, rec.ID)
	s.mu.Unlock()

	log.Printf("[server] game %s finished: %s after %d plies", rec.ID, rec.Outcome, rec.Plies())
	s.hub.Broadcast("finished", finishedPayload{
		GameID:     rec.ID,
		Outcome:    rec.Outcome,
		Plies:      rec.Plies(),
		FinalFEN:   rec.FinalFEN,
		FinalScore: rec.FinalScore,
	})
}

func (s *Server) onPly(rec *game.Record, ply game.PlyRecord, pos *board.Position) {
	fen := pos.FEN()

	s.mu.Lock()
	if lg, ok := s.live[rec.ID]; ok {
		lg.FEN = fen
		lg.Plies = ply.Ply
		lg.LastMove = ply.Move
	}
	s.mu.Unlock()

	s.hub.Broadcast("ply", plyPayload{
		GameID: rec.ID,
		Ply:    ply.Ply,
		Mover:  ply.Mover,
		Move:   ply.Move,
		Score:  ply.Score,
		FEN:    fen,
	})
}

// liveSnapshot returns a copy of a running game's state.
func (s *Server) liveSnapshot(id string) (liveGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lg, ok := s.live[id]
	if !ok {
		return liveGame{}, false
	}
	return *lg, true
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListGames()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	games := make([]gameSummary, 0, len(records))
	for _, rec := range records {
		games = append(games, gameSummary{
			ID:         rec.ID,
			Outcome:    rec.Outcome,
			Plies:      rec.Plies(),
			FinalScore: rec.FinalScore,
			StartedAt:  rec.StartedAt,
		})
	}

	s.mu.Lock()
	running := make([]liveGame, 0, len(s.live))
	for _, lg := range s.live {
		running = append(running, *lg)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"games":   games,
		"running": running,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if lg, ok := s.liveSnapshot(id); ok {
		writeJSON(w, http.StatusOK, lg)
		return
	}

	rec, err := s.store.LoadGame(id)
	if errors.Is(err, storage.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.liveSnapshot(id); ok {
		writeError(w, http.StatusConflict, "game is still running")
		return
	}

	err := s.store.DeleteGame(id)
	if errors.Is(err, storage.ErrGameNotFound) {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.LoadStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleMove selects a move for the side to move in the posted position.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	pos := board.NewPosition()
	if req.FEN != "" {
		p, err := board.ParseFEN(req.FEN)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		pos = p
	}

	depth := engine.DefaultDepth
	if req.Depth != nil {
		depth = *req.Depth
	}
	if depth < 0 || depth > MaxRequestDepth {
		writeError(w, http.StatusBadRequest, "depth out of range")
		return
	}

	eng := engine.NewEngine(engine.Options{Depth: depth, Strategy: engine.CopyMake})
	res, ok := eng.SelectMove(pos)
	if !ok {
		writeJSON(w, http.StatusOK, moveResponse{Status: "no_moves", Score: res.Score, Depth: depth})
		return
	}
	writeJSON(w, http.StatusOK, moveResponse{
		Status: "ok",
		Move:   res.Move.String(),
		Score:  res.Score,
		Depth:  res.Depth,
		Nodes:  res.Nodes,
	})
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: s.hub, send: make(chan []byte, 64)}
	s.hub.Register(client)

	s.mu.Lock()
	running := len(s.live)
	s.mu.Unlock()
	client.sendJSON(wsMessage{Type: "hello", Payload: mustMarshal(map[string]int{"running": running})})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	// Clients only send to keep the connection open; any read error ends it.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.hub.Unregister(client)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
