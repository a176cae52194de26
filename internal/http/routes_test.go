package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"liars_dice/internal/domain"
	"liars_dice/internal/http/handlers"
	"liars_dice/internal/repository"
	"liars_dice/internal/service"

	"github.com/gin-gonic/gin"
)

type stubHistory struct {
	records []*domain.MatchRecord
}

func (s *stubHistory) Create(_ context.Context, rec *domain.MatchRecord) error {
	s.records = append([]*domain.MatchRecord{rec}, s.records...)
	return nil
}

func (s *stubHistory) GetByPlayer(_ context.Context, player string, limit int) ([]*domain.MatchRecord, error) {
	var out []*domain.MatchRecord
	for _, r := range s.records {
		if r.Player == player && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubHistory) GetPlayerStats(_ context.Context, player string, _ time.Time) (*repository.PlayerStats, error) {
	st := &repository.PlayerStats{Player: player}
	for _, r := range s.records {
		if r.Player == player {
			st.Matches++
			st.TotalAnte += r.Ante
			st.TotalPayout += r.Payout
		}
	}
	return st, nil
}

type testServer struct {
	router   *gin.Engine
	wallet   *service.MemoryWallet
	defeated *repository.MemoryDefeatedStore
	history  *stubHistory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT("routes-secret")

	wallet := service.NewMemoryWallet(100)
	personas := repository.NewMemoryPersonaStore(domain.Memory{
		"Lucy": {BluffsMade: 3, BluffSuccess: 1, TruthsMade: 1},
		"Bob":  {},
	})
	defeated := repository.NewMemoryDefeatedStore()
	history := &stubHistory{}
	matches := service.NewMatchService(wallet, personas, defeated,
		service.WithHistory(history),
		service.WithLimits(service.Limits{MinAnte: 1, MaxAnte: 50}),
	)

	r := gin.New()
	h := handlers.NewHandler(personas, defeated, wallet, matches, history)
	RegisterRoutes(r, h, handlers.NewHealthHandler(nil, nil, "test"), nil)
	return &testServer{router: r, wallet: wallet, defeated: defeated, history: history}
}

func (s *testServer) do(t *testing.T, method, path, player string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if player != "" {
		token, err := service.GenerateJWT(player)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/health", "/healthz", "/readyz", "/metrics"} {
		if w := s.do(t, http.MethodGet, path, "", nil); w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}
}

func TestPersonas(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/personas", "", nil)
	var list struct {
		Personas []handlers.PersonaResponse `json:"personas"`
	}
	decode(t, w, &list)
	if len(list.Personas) != 2 || list.Personas[0].Name != "Bob" || list.Personas[1].Name != "Lucy" {
		t.Fatalf("personas = %+v", list.Personas)
	}
	if got := list.Personas[1].BluffRate; got != 0.75 {
		t.Fatalf("Lucy bluff rate = %v, want 0.75", got)
	}

	if w := s.do(t, http.MethodGet, "/api/v1/personas/Lucy", "", nil); w.Code != http.StatusOK {
		t.Fatalf("GET Lucy = %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/v1/personas/Nobody", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET Nobody = %d, want 404", w.Code)
	}
}

func TestDefeated(t *testing.T) {
	s := newTestServer(t)
	_ = s.defeated.Append(context.Background(), domain.DifficultyHard, []string{"Tom", "Sam"})

	w := s.do(t, http.MethodGet, "/api/v1/defeated/hard", "", nil)
	var body struct {
		Defeated []string `json:"defeated"`
	}
	decode(t, w, &body)
	if len(body.Defeated) != 2 || body.Defeated[0] != "Tom" {
		t.Fatalf("defeated = %v", body.Defeated)
	}

	if w := s.do(t, http.MethodGet, "/api/v1/defeated/nightmare", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown difficulty = %d, want 400", w.Code)
	}
}

func TestRules(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/rules", "", nil)
	var body struct {
		MinOpening int   `json:"min_opening_quantity"`
		MaxAnte    int64 `json:"max_ante"`
		TeamBonus  []int `json:"team_bonus"`
	}
	decode(t, w, &body)
	if body.MinOpening != 2 || body.MaxAnte != 50 || len(body.TeamBonus) != 2 || body.TeamBonus[0] != 75 {
		t.Fatalf("rules = %+v", body)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/v1/me", "/api/v1/me/matches"} {
		if w := s.do(t, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d", path, w.Code)
		}
	}
	if w := s.do(t, http.MethodPost, "/api/v1/matches/simulate", "", map[string]any{"players": 4, "ante": 5}); w.Code != http.StatusUnauthorized {
		t.Errorf("simulate without token = %d", w.Code)
	}
}

func TestSimulateFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/matches/simulate", "Knight", map[string]any{
		"players":    6,
		"ante":       10,
		"difficulty": "hard",
		"names":      []string{"Lucy", "Bob"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("simulate = %d: %s", w.Code, w.Body.String())
	}
	var out handlers.SimulateResponse
	decode(t, w, &out)
	if out.Pot != 60 || out.Balance != 90+out.Payout || out.Delta != out.Payout-10 {
		t.Fatalf("outcome = %+v", out)
	}
	if len(out.Survivors)+len(out.EliminationOrder) != 6 {
		t.Fatalf("survivors %v, eliminated %v", out.Survivors, out.EliminationOrder)
	}

	w = s.do(t, http.MethodGet, "/api/v1/me", "Knight", nil)
	var me struct {
		Gold  int64                   `json:"gold"`
		Stats *repository.PlayerStats `json:"stats"`
	}
	decode(t, w, &me)
	if me.Gold != out.Balance || me.Stats == nil || me.Stats.Matches != 1 {
		t.Fatalf("me = %+v", me)
	}

	w = s.do(t, http.MethodGet, "/api/v1/me/matches", "Knight", nil)
	var matches struct {
		Matches []domain.MatchRecord `json:"matches"`
	}
	decode(t, w, &matches)
	if len(matches.Matches) != 1 || matches.Matches[0].MatchID != out.MatchID {
		t.Fatalf("matches = %+v", matches.Matches)
	}

	w = s.do(t, http.MethodGet, "/api/v1/me/ledger", "Knight", nil)
	var ledger struct {
		Ledger []domain.LedgerEntry `json:"ledger"`
	}
	decode(t, w, &ledger)
	want := 1
	if out.Payout > 0 {
		want = 2
	}
	if len(ledger.Ledger) != want || ledger.Ledger[len(ledger.Ledger)-1].Type != domain.LedgerAnte {
		t.Fatalf("ledger = %+v", ledger.Ledger)
	}
}

func TestSimulateRejects(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"too few players", map[string]any{"players": 1, "ante": 5}},
		{"ante above limit", map[string]any{"players": 4, "ante": 51}},
		{"unknown difficulty", map[string]any{"players": 4, "ante": 5, "difficulty": "nightmare"}},
		{"missing ante", map[string]any{"players": 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(t, http.MethodPost, "/api/v1/matches/simulate", "Knight", tt.body); w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
	if bal, _ := s.wallet.GetBalance(context.Background(), "Knight"); bal != 100 {
		t.Fatalf("rejected requests changed balance to %d", bal)
	}
	if len(s.history.records) != 0 {
		t.Fatal("rejected requests must not be recorded")
	}
}
