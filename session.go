/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Game sessions
//
// Each session is one running game shared by everyone on its URL.
// - WebSockets per game ID: /game/:gameid and /game/:gameid/ws
// - First connection owns the session; its cookie keys the saved preferences
// - Any connected client may guess, use jokers and change settings
// - Invalid selections, missing jokers and out-of-turn guesses are reported
//   only to the sender
// - Sessions auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/frameguess/catalog"
	"github.com/Seednode/frameguess/game"
	"github.com/Seednode/frameguess/store"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type action struct {
	client *Client
	msg    ClientMessage
}

type Session struct {
	id    string
	lib   *library
	prefs store.Store

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	actions  chan action
	quit     chan struct{}
	stop     sync.Once

	mu     sync.RWMutex
	closed bool

	lastActive time.Time
	ownerID    string

	cat       *catalog.Catalog
	machine   *game.Machine
	lastGuess time.Time
}

func newSession(gameID string, lib *library, prefs store.Store) *Session {
	return &Session{
		id:         gameID,
		lib:        lib,
		prefs:      prefs,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		actions:    make(chan action),
		quit:       make(chan struct{}),
		lastActive: time.Now(),
	}
}

func (s *Session) run(cfg *Config) {
	for {
		select {
		case c := <-s.register:
			s.join(cfg, c)

		case c := <-s.unreg:
			s.mu.Lock()
			s.lastActive = time.Now()

			if _, ok := s.clients[c]; ok {
				delete(s.clients, c)
				close(c.send)
			}
			s.mu.Unlock()

		case a := <-s.actions:
			s.handleAction(cfg, a)

		case <-s.quit:
			return
		}
	}
}

// join adds a client and replays the session to everyone. A client arriving
// after closeAll is turned away by closing its send channel, which makes its
// writePump hang up.
func (s *Session) join(cfg *Config, c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(c.send)
		return
	}

	s.lastActive = time.Now()

	if s.ownerID == "" {
		s.ownerID = c.playerID
	}
	s.clients[c] = true

	if s.ensureMachineLocked(cfg) == nil {
		s.sendLocked(c, SimpleMessage{Type: "loading", Message: "The episode catalog is still loading."})
	} else {
		s.syncLocked()
	}
}

// ensureMachineLocked starts the game once the catalog is available. The
// owner's saved preferences seed the first game.
func (s *Session) ensureMachineLocked(cfg *Config) *game.Machine {
	if s.machine != nil {
		return s.machine
	}

	cat := s.lib.get()
	if cat == nil {
		return nil
	}

	var prefs store.Prefs
	if s.prefs != nil && s.ownerID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		p, err := store.LoadPrefs(ctx, s.prefs, s.ownerID)
		cancel()
		if err != nil {
			logf(cfg, "STORE: ERROR: loading preferences for %s: %v", s.id, err)
		} else {
			prefs = p
		}
	}

	out := &sessionPresenter{cfg: cfg, s: s, persisted: -1}
	if prefs.HasBestScore {
		out.persisted = prefs.BestScore
	}

	s.cat = cat
	s.machine = game.NewMachine(cat, out, cfg.gameOptions(), game.Setup{
		Seasons:      prefs.Seasons,
		Language:     prefs.Language,
		BestScore:    prefs.BestScore,
		HasBestScore: prefs.HasBestScore,
	})

	logf(cfg, "GAMES: Started %s with %d episodes", s.id, len(s.machine.Allowed()))

	return s.machine
}

// syncLocked replays the whole session to every client.
func (s *Session) syncLocked() {
	s.broadcastInfoLocked()
	s.machine.Sync()
}

func (s *Session) broadcastInfoLocked() {
	st := s.machine.State()

	for client := range s.clients {
		s.sendLocked(client, SessionInfoMessage{
			Type:      "session_info",
			GameID:    s.id,
			IsOwner:   client.playerID == s.ownerID,
			Seasons:   seasonOptions(s.cat, st.Seasons),
			Languages: s.cat.Languages(),
			Language:  st.Language,
		})
	}

	s.broadcastLocked(EpisodesMessage{
		Type:     "episodes",
		Language: st.Language,
		Episodes: episodeOptions(s.cat, st.Language, s.machine.Allowed()),
	})
}

func (s *Session) broadcastLocked(msg any) {
	for client := range s.clients {
		s.sendLocked(client, msg)
	}
}

// sendLocked drops clients whose buffer is full.
func (s *Session) sendLocked(c *Client, msg any) {
	if _, ok := s.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Session) handleAction(cfg *Config, a action) {
	c := a.client
	msg := a.msg

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()

	m := s.ensureMachineLocked(cfg)
	if m == nil {
		s.sendLocked(c, SimpleMessage{Type: "loading", Message: "The episode catalog is still loading."})
		return
	}

	switch msg.Type {
	case "sync":
		s.syncLocked()

	case "guess":
		if cfg.debounce > 0 && time.Since(s.lastGuess) < cfg.debounce {
			return
		}
		s.lastGuess = time.Now()

		episode := msg.Episode
		if episode == "" && msg.Query != "" {
			resolved, ok := s.cat.Resolve(m.Language(), msg.Query, m.Allowed())
			if !ok {
				s.sendLocked(c, SimpleMessage{Type: "invalid_selection", Message: game.ErrInvalidSelection.Error()})
				return
			}
			episode = resolved
		}

		o, err := m.SubmitGuess(episode)
		switch {
		case errors.Is(err, game.ErrInvalidSelection):
			s.sendLocked(c, SimpleMessage{Type: "invalid_selection", Message: err.Error()})
		case err != nil:
			s.sendLocked(c, SimpleMessage{Type: "not_playing", Message: err.Error()})
		default:
			logf(cfg, "GAMES: %s guess %s in %s (score %d)", o.Kind, episode, s.id, m.State().Score)
		}

	case "joker":
		switch _, err := m.UseJoker(); {
		case errors.Is(err, game.ErrNoJokers):
			s.sendLocked(c, SimpleMessage{Type: "no_jokers", Message: err.Error()})
		case err != nil:
			s.sendLocked(c, SimpleMessage{Type: "not_playing", Message: err.Error()})
		}

	case "continue":
		m.ContinueRound()

	case "restart":
		if m.RestartGame() {
			logf(cfg, "GAMES: Restarted %s", s.id)
		}

	case "seasons":
		m.SetSeasonFilter(msg.Seasons)
		s.savePrefLocked(cfg, func(ctx context.Context) error {
			return store.SaveSeasons(ctx, s.prefs, s.ownerID, m.State().Seasons)
		})
		s.broadcastInfoLocked()

	case "language":
		if err := m.SetLanguage(msg.Language); err != nil {
			s.sendLocked(c, SimpleMessage{Type: "error", Message: err.Error()})
			return
		}
		s.savePrefLocked(cfg, func(ctx context.Context) error {
			return store.SaveLanguage(ctx, s.prefs, s.ownerID, msg.Language)
		})
		s.broadcastInfoLocked()
	}
}

func (s *Session) savePrefLocked(cfg *Config, save func(ctx context.Context) error) {
	if s.prefs == nil || s.ownerID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := save(ctx); err != nil {
		logf(cfg, "STORE: ERROR: saving preferences for %s: %v", s.id, err)
	}
}

// closeAll disconnects all clients of this session and stops its loop.
func (s *Session) closeAll() {
	s.stop.Do(func() {
		close(s.quit)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for c := range s.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(s.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "frameguess_id"

func playerCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// getOrSetPlayerID reports the cookie player ID, minting one if the request
// carries none. fresh is true when the caller must still deliver the cookie.
func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) (id string, fresh bool) {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value, false
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", false
	}
	id = hex.EncodeToString(buf)

	http.SetCookie(w, playerCookie(id))

	return id, true
}

// GameManager holds a set of sessions keyed by game ID, so each
// /game/$gameid is its own isolated game.
type GameManager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration

	lib   *library
	prefs store.Store
}

func newGameManager(ctx context.Context, idleTimeout time.Duration, lib *library, prefs store.Store) *GameManager {
	gm := &GameManager{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		lib:         lib,
		prefs:       prefs,
	}
	if idleTimeout > 0 {
		go gm.reaperLoop(ctx)
	}
	return gm
}

func (gm *GameManager) getSession(cfg *Config, gameID string) *Session {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if s, ok := gm.sessions[gameID]; ok {
		return s
	}

	s := newSession(gameID, gm.lib, gm.prefs)
	gm.sessions[gameID] = s
	go s.run(cfg)
	return s
}

func (gm *GameManager) count() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	return len(gm.sessions)
}

const gameIDLength = 8

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, gameIDLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, gameIDLength)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.sessions[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

func validGameID(id string) bool {
	if id == "" || len(id) > 32 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// reaperLoop periodically removes sessions that have been idle longer than
// idleTimeout, and all of them once ctx is done.
func (gm *GameManager) reaperLoop(ctx context.Context) {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			gm.closeAll()
			return
		case <-ticker.C:
		}

		cutoff := time.Now().Add(-gm.idleTimeout)

		gm.mu.Lock()
		for id, s := range gm.sessions {
			s.mu.RLock()
			last := s.lastActive
			s.mu.RUnlock()

			if last.Before(cutoff) {
				delete(gm.sessions, id)
				go s.closeAll()
			}
		}
		gm.mu.Unlock()
	}
}

func (gm *GameManager) closeAll() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, s := range gm.sessions {
		delete(gm.sessions, id)
		go s.closeAll()
	}
}

// WebSocket handler that picks the session based on :gameid
func serveWS(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		playerID, fresh := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		var hdr http.Header
		if fresh {
			hdr = http.Header{"Set-Cookie": {playerCookie(playerID).String()}}
		}

		conn, err := upgrader.Upgrade(w, r, hdr)
		if err != nil {
			logf(cfg, "SERVE: ERROR: websocket upgrade from %s: %v", realIP(r), err)
			return
		}

		s := gm.getSession(cfg, gameID)

		client := &Client{
			conn:     conn,
			send:     make(chan any, 64),
			playerID: playerID,
		}

		select {
		case s.register <- client:
		case <-s.quit:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(s)
	}
}

func (c *Client) readPump(s *Session) {
	defer func() {
		select {
		case s.unreg <- c:
		case <-s.quit:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "guess", "joker", "continue", "restart", "seasons", "language", "sync":
			select {
			case s.actions <- action{client: c, msg: msg}:
			case <-s.quit:
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
			scheme = proto
		}

		// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
		path := strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320
		png, err := qrcode.Encode(scheme+"://"+r.Host+path, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

// redirectNewGame handles GET /game by generating a new random game ID
// and redirecting to /game/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerGame(cfg *Config, path string, mux *httprouter.Router, gm *GameManager, errs chan<- error) {
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))
	mux.GET(cfg.prefix+path+"/:gameid", serveGamePage(cfg, errs))
	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWS(cfg, gm))
	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg))
}
