package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPHub is a Hub implementation that reports to an external game hub
// service over HTTP/JSON, mirroring the JSON-RPC bridge shape
// block52-pokerchain's keeper package uses to call out to an external
// engine.
type HTTPHub struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPHub(baseURL string) *HTTPHub {
	return &HTTPHub{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

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

func (h *HTTPHub) postJSON(ctx context.Context, path string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("hub: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("hub: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.Client.Do(req)
	if err != nil {
		return fmt.Errorf("hub: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hub: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (h *HTTPHub) StartGame(ctx context.Context, gameID string, sessionID uint32, p1, p2 string, pts1, pts2 uint64) error {
	return h.postJSON(ctx, "/start_game", startGameRequest{
		GameID: gameID, SessionID: sessionID, P1: p1, P2: p2, Pts1: pts1, Pts2: pts2,
	})
}

func (h *HTTPHub) EndGame(ctx context.Context, sessionID uint32, player1Won bool) error {
	return h.postJSON(ctx, "/end_game", endGameRequest{SessionID: sessionID, Player1Won: player1Won})
}
