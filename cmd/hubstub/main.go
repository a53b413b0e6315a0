// Command hubstub is a reference implementation of the matchmaking
// hub internal/external.Hub talks to over HTTP/JSON. It exists so the
// arbiter can be pointed at a real collaborator end-to-end instead of
// a test double; it keeps no session state beyond an in-memory log.
// It answers 200 OK to every request whose JSON body decodes and
// 400 Bad Request to one whose body does not.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type startGameRequest struct {
	GameID    string `json:"gameId"`
	SessionID uint32 `json:"sessionId"`
	P1        string `json:"p1"`
	P2        string `json:"p2"`
	Pts1      uint64 `json:"pts1"`
	Pts2      uint64 `json:"pts2"`
}

type endGameRequest struct {
	SessionID  uint32 `json:"sessionId"`
	Player1Won bool   `json:"player1Won"`
}

type hubStub struct {
	mu      sync.Mutex
	started map[uint32]startGameRequest
	log     zerolog.Logger
}

func newHubStub(log zerolog.Logger) *hubStub {
	return &hubStub{started: make(map[uint32]startGameRequest), log: log}
}

func (h *hubStub) startGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// The hub owns game ids: assign one when the arbiter didn't.
	if req.GameID == "" {
		req.GameID = uuid.NewString()
	}
	h.mu.Lock()
	h.started[req.SessionID] = req
	h.mu.Unlock()
	h.log.Info().Uint32("sessionId", req.SessionID).Str("gameId", req.GameID).Str("p1", req.P1).Str("p2", req.P2).Msg("start_game")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"gameId": req.GameID})
}

func (h *hubStub) endGame(w http.ResponseWriter, r *http.Request) {
	var req endGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.mu.Lock()
	_, known := h.started[req.SessionID]
	delete(h.started, req.SessionID)
	h.mu.Unlock()
	h.log.Info().Uint32("sessionId", req.SessionID).Bool("player1Won", req.Player1Won).Bool("wasStarted", known).Msg("end_game")
	w.WriteHeader(http.StatusOK)
}

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	h := newHubStub(logger)

	r := mux.NewRouter()
	r.HandleFunc("/start_game", h.startGame).Methods(http.MethodPost)
	r.HandleFunc("/end_game", h.endGame).Methods(http.MethodPost)

	logger.Info().Str("addr", *addr).Msg("hubstub listening")
	if err := http.ListenAndServe(*addr, r); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
