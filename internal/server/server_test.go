package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hailam/chesslite/internal/game"
	"github.com/hailam/chesslite/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	srv := New(store)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
		store.Close()
	})
	return srv, ts
}

func doJSON(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestPing(t *testing.T) {
	_, ts := newTestServer(t)
	var got map[string]bool
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/ping", "", &got); code != http.StatusOK || !got["ok"] {
		t.Errorf("ping = %d %v", code, got)
	}
}

func TestMoves(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantStatus string
		wantMove   string
		wantScore  int
	}{
		{
			name:       "rook takes queen",
			body:       `{"fen":"7k/8/8/q7/8/8/8/R6K w","depth":2}`,
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantMove:   "a1a5",
			wantScore:  500,
		},
		{
			name:       "blocked pawns",
			body:       `{"fen":"8/8/8/8/8/p7/P7/8 w"}`,
			wantCode:   http.StatusOK,
			wantStatus: "no_moves",
		},
		{
			name:       "crowded board",
			body:       `{"fen":"QQ2QQQQ/3Q3Q/Q6Q/Q6Q/2Q4Q/Q3Q2Q/1Q3Q1Q/1Q1Q2QQ w - - 0 1","depth":0}`,
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantMove:   "a8a7",
			wantScore:  24 * 900,
		},
		{name: "bad fen", body: `{"fen":"8/8 w"}`, wantCode: http.StatusBadRequest},
		{name: "too deep", body: `{"depth":9}`, wantCode: http.StatusBadRequest},
		{name: "negative depth", body: `{"depth":-1}`, wantCode: http.StatusBadRequest},
		{name: "not json", body: `{`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got moveResponse
			code := doJSON(t, http.MethodPost, ts.URL+"/api/moves", tt.body, &got)
			if code != tt.wantCode {
				t.Fatalf("status code = %d, want %d", code, tt.wantCode)
			}
			if code != http.StatusOK {
				return
			}
			if got.Status != tt.wantStatus || got.Move != tt.wantMove || got.Score != tt.wantScore {
				t.Errorf("got %+v, want status %s move %q score %d", got, tt.wantStatus, tt.wantMove, tt.wantScore)
			}
		})
	}
}

func TestStartGameRejectsBadOptions(t *testing.T) {
	_, ts := newTestServer(t)

	for _, body := range []string{
		`{"max_plies":-1}`,
		`{"fen":"not a fen"}`,
		`{"depth":7}`,
		`{"max_plies":501}`,
		`[1,2]`,
	} {
		var got map[string]string
		if code := doJSON(t, http.MethodPost, ts.URL+"/api/games", body, &got); code != http.StatusBadRequest {
			t.Errorf("%s: status code = %d, want 400", body, code)
		}
		if got["error"] == "" {
			t.Errorf("%s: missing error message", body)
		}
	}
}

func TestGameLifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	readMsg := func() wsMessage {
		t.Helper()
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		return msg
	}

	// The subscription is live once the greeting arrives.
	if msg := readMsg(); msg.Type != "hello" {
		t.Fatalf("first message = %s, want hello", msg.Type)
	}

	var started map[string]string
	body := `{"fen":"8/7p/8/8/8/8/P7/8 w - - 0 1","depth":2}`
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/games", body, &started); code != http.StatusAccepted {
		t.Fatalf("start status code = %d", code)
	}
	id := started["id"]
	if id == "" {
		t.Fatal("start returned no id")
	}

	plies := 0
	var fin finishedPayload
	for fin.GameID == "" {
		msg := readMsg()
		switch msg.Type {
		case "ply":
			var p plyPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				t.Fatal(err)
			}
			plies++
			if p.GameID != id || p.Ply != plies {
				t.Errorf("ply message %+v, want game %s ply %d", p, id, plies)
			}
		case "finished":
			if err := json.Unmarshal(msg.Payload, &fin); err != nil {
				t.Fatal(err)
			}
		}
	}

	if fin.GameID != id || fin.Outcome != game.OutcomeNoMoves || fin.Plies != 12 || plies != 12 {
		t.Errorf("finished = %+v after %d ply messages", fin, plies)
	}
	if fin.FinalFEN != "P7/8/8/8/8/8/8/7p w - - 0 1" {
		t.Errorf("final FEN = %s", fin.FinalFEN)
	}

	var rec game.Record
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/games/"+id, "", &rec); code != http.StatusOK {
		t.Fatalf("get status code = %d", code)
	}
	if rec.ID != id || rec.Plies() != 12 || rec.Outcome != game.OutcomeNoMoves {
		t.Errorf("stored record: id %s, %d plies, %s", rec.ID, rec.Plies(), rec.Outcome)
	}

	var list struct {
		Games   []gameSummary `json:"games"`
		Running []liveGame    `json:"running"`
	}
	doJSON(t, http.MethodGet, ts.URL+"/api/games", "", &list)
	if len(list.Games) != 1 || list.Games[0].ID != id || len(list.Running) != 0 {
		t.Errorf("list = %+v", list)
	}

	var stats storage.Stats
	doJSON(t, http.MethodGet, ts.URL+"/api/stats", "", &stats)
	if stats.GamesPlayed != 1 || stats.TotalPlies != 12 {
		t.Errorf("stats = %+v", stats)
	}

	if code := doJSON(t, http.MethodDelete, ts.URL+"/api/games/"+id, "", nil); code != http.StatusOK {
		t.Errorf("delete status code = %d", code)
	}
	if code := doJSON(t, http.MethodGet, ts.URL+"/api/games/"+id, "", nil); code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", code)
	}
	if code := doJSON(t, http.MethodDelete, ts.URL+"/api/games/"+id, "", nil); code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", code)
	}
}

func TestUncappedGameStopsAtPlyLimit(t *testing.T) {
	_, ts := newTestServer(t)

	// The pawn chains are locked and the kings cannot reach each other, so
	// both sides shuffle forever.
	var started map[string]string
	body := `{"fen":"4k3/8/8/pppppppp/PPPPPPPP/8/8/4K3 w","depth":0}`
	if code := doJSON(t, http.MethodPost, ts.URL+"/api/games", body, &started); code != http.StatusAccepted {
		t.Fatalf("start status code = %d", code)
	}

	var rec game.Record
	deadline := time.Now().Add(30 * time.Second)
	for {
		rec = game.Record{}
		if code := doJSON(t, http.MethodGet, ts.URL+"/api/games/"+started["id"], "", &rec); code != http.StatusOK {
			t.Fatalf("get status code = %d", code)
		}
		if rec.Outcome != game.OutcomeOngoing {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("game is still running")
		}
		time.Sleep(20 * time.Millisecond)
	}

	if rec.Outcome != game.OutcomeMaxPlies {
		t.Errorf("outcome = %s, want %s", rec.Outcome, game.OutcomeMaxPlies)
	}
	if rec.MaxPlies != MaxRequestPlies || rec.Plies() != MaxRequestPlies {
		t.Errorf("max plies %d, played %d, want %d", rec.MaxPlies, rec.Plies(), MaxRequestPlies)
	}
}

func TestCloseStoresRunningGames(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	srv := New(store)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/games", "application/json", bytes.NewBufferString(`{"depth":1}`))
	if err != nil {
		t.Fatal(err)
	}
	var started map[string]string
	json.NewDecoder(resp.Body).Decode(&started)
	resp.Body.Close()

	srv.Close()

	rec, err := store.LoadGame(started["id"])
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.Outcome == game.OutcomeOngoing {
		t.Error("closed server left the game ongoing")
	}
	if rec.FinalFEN == "" {
		t.Error("final position was not recorded")
	}
}
