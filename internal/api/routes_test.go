package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/spinball/internal/admin"
	"github.com/playmatatu/spinball/internal/config"
	"github.com/playmatatu/spinball/internal/game"
	"github.com/playmatatu/spinball/internal/models"
	"github.com/playmatatu/spinball/internal/profiles"
	"github.com/playmatatu/spinball/internal/ws"
)

type memoryProfiles struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]models.SettingsProfile
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{nextID: 1, rows: make(map[int]models.SettingsProfile)}
}

func (s *memoryProfiles) List(ctx context.Context) ([]models.SettingsProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.SettingsProfile{}
	for _, p := range s.rows {
		out = append(out, p)
	}
	return out, nil
}

func (s *memoryProfiles) Get(ctx context.Context, id int) (*models.SettingsProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return nil, profiles.ErrProfileNotFound
	}
	return &p, nil
}

func (s *memoryProfiles) Create(ctx context.Context, p *models.SettingsProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if existing.Name == p.Name {
			return profiles.ErrDuplicateName
		}
	}
	p.ID = s.nextID
	p.CreatedAt = time.Now()
	s.nextID++
	s.rows[p.ID] = *p
	return nil
}

func (s *memoryProfiles) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return profiles.ErrProfileNotFound
	}
	delete(s.rows, id)
	return nil
}

type fakeAdmins struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAdmins) Authenticate(phone, token, ip string) (*models.AdminAccount, error) {
	if phone == "256700000000" && token == "letmein" {
		return &models.AdminAccount{Phone: phone}, nil
	}
	return nil, admin.ErrInvalidToken
}

func (f *fakeAdmins) Audit(adminPhone, ip, route, action string, details map[string]interface{}, success bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
}

type testAPI struct {
	router   *gin.Engine
	mm       *game.MatchManager
	profiles *memoryProfiles
	admins   *fakeAdmins
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment:          "test",
		FrontendURL:          "http://localhost:5173",
		TickRate:             60,
		RandomSeed:           9,
		MaxMatches:           10,
		JWTSecret:            "api-secret",
		ControlTokenHours:    1,
		DefaultTeam1Name:     "Home",
		DefaultTeam2Name:     "Away",
		DefaultMatchDuration: 30,
		DefaultRotationSpeed: 0.5,
	}
	mm := game.NewMatchManager(nil, cfg)
	hub := ws.NewHub(mm, cfg)
	mm.SetBroadcaster(hub)

	api := &testAPI{router: gin.New(), mm: mm, profiles: newMemoryProfiles(), admins: &fakeAdmins{}}
	SetupRoutes(api.router, Deps{
		Config:   cfg,
		Matches:  mm,
		Hub:      hub,
		Profiles: api.profiles,
		Admins:   api.admins,
	})
	return api
}

func (a *testAPI) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type createResponse struct {
	MatchID      string        `json:"match_id"`
	ControlToken string        `json:"control_token"`
	Snapshot     game.Snapshot `json:"snapshot"`
}

func (a *testAPI) createMatch(t *testing.T, body interface{}) createResponse {
	t.Helper()
	w := a.do(http.MethodPost, "/api/v1/matches", body, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create match: status %d body %s", w.Code, w.Body.String())
	}
	var resp createResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodGet, "/api/v1/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestCreateMatchUsesConfiguredDefaults(t *testing.T) {
	a := newTestAPI(t)
	resp := a.createMatch(t, nil)

	if resp.MatchID == "" || resp.ControlToken == "" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Snapshot.Bodies[0].Name != "Home" || resp.Snapshot.Bodies[1].Name != "Away" {
		t.Errorf("names = %q, %q", resp.Snapshot.Bodies[0].Name, resp.Snapshot.Bodies[1].Name)
	}
	if resp.Snapshot.Status != game.StatusIdle {
		t.Errorf("status = %s", resp.Snapshot.Status)
	}
}

func TestCreateMatchValidation(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(http.MethodPost, "/api/v1/matches", map[string]interface{}{"match_duration_seconds": -1}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative duration: status %d", w.Code)
	}

	resp := a.createMatch(t, map[string]interface{}{"rotation_speed": 50, "team1_name": "Lions"})
	if resp.Snapshot.RotationSpeed != game.RotationSpeedMax || resp.Snapshot.Bodies[0].Name != "Lions" {
		t.Errorf("snapshot = %+v", resp.Snapshot)
	}
}

func TestMatchIntentsRequireControlToken(t *testing.T) {
	a := newTestAPI(t)
	resp := a.createMatch(t, nil)
	base := "/api/v1/matches/" + resp.MatchID

	if w := a.do(http.MethodPost, base+"/toggle", nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d", w.Code)
	}

	other := a.createMatch(t, nil)
	if w := a.do(http.MethodPost, base+"/toggle", nil, bearer(other.ControlToken)); w.Code != http.StatusForbidden {
		t.Errorf("foreign token: status %d", w.Code)
	}

	if w := a.do(http.MethodPost, base+"/toggle", nil, bearer(resp.ControlToken)); w.Code != http.StatusOK {
		t.Fatalf("toggle: status %d", w.Code)
	}
	m, _ := a.mm.GetMatch(resp.MatchID)
	if m.Status() != game.StatusRunning {
		t.Errorf("status after toggle = %s", m.Status())
	}
}

func TestMatchIntents(t *testing.T) {
	a := newTestAPI(t)
	resp := a.createMatch(t, nil)
	base := "/api/v1/matches/" + resp.MatchID
	h := bearer(resp.ControlToken)
	m, _ := a.mm.GetMatch(resp.MatchID)

	if w := a.do(http.MethodPost, base+"/running", map[string]bool{"running": true}, h); w.Code != http.StatusOK {
		t.Fatalf("running: %d", w.Code)
	}
	if w := a.do(http.MethodPost, base+"/running", map[string]string{}, h); w.Code != http.StatusBadRequest {
		t.Errorf("running without value: %d", w.Code)
	}

	w := a.do(http.MethodPost, base+"/rotation-speed", map[string]float64{"value": -3}, h)
	var speed struct {
		RotationSpeed float64 `json:"rotation_speed"`
	}
	json.Unmarshal(w.Body.Bytes(), &speed)
	if w.Code != http.StatusOK || speed.RotationSpeed != game.RotationSpeedMin {
		t.Errorf("rotation speed: %d %v", w.Code, speed.RotationSpeed)
	}

	w = a.do(http.MethodPost, base+"/settings", map[string]string{"field": "match_duration", "value": "abc"}, h)
	var applied struct {
		Applied bool `json:"applied"`
	}
	json.Unmarshal(w.Body.Bytes(), &applied)
	if w.Code != http.StatusOK || applied.Applied {
		t.Errorf("invalid duration: %d applied=%v", w.Code, applied.Applied)
	}
	if w := a.do(http.MethodPost, base+"/settings", map[string]string{"field": "gravity", "value": "1"}, h); w.Code != http.StatusBadRequest {
		t.Errorf("unknown setting: %d", w.Code)
	}

	if w := a.do(http.MethodPost, base+"/bodies/1/name", map[string]string{"name": "Eagles"}, h); w.Code != http.StatusOK {
		t.Errorf("rename: %d", w.Code)
	}
	if m.Snapshot().Bodies[1].Name != "Eagles" {
		t.Errorf("name = %q", m.Snapshot().Bodies[1].Name)
	}
	if w := a.do(http.MethodPost, base+"/bodies/5/name", map[string]string{"name": "X"}, h); w.Code != http.StatusBadRequest {
		t.Errorf("unknown body: %d", w.Code)
	}

	if w := a.do(http.MethodPost, base+"/reset", nil, h); w.Code != http.StatusOK {
		t.Errorf("reset: %d", w.Code)
	}
	if m.Status() != game.StatusIdle {
		t.Errorf("status after reset = %s", m.Status())
	}
}

func TestGetListDeleteMatch(t *testing.T) {
	a := newTestAPI(t)
	resp := a.createMatch(t, nil)
	base := "/api/v1/matches/" + resp.MatchID

	if w := a.do(http.MethodGet, base, nil, nil); w.Code != http.StatusOK {
		t.Errorf("get: %d", w.Code)
	}
	if w := a.do(http.MethodGet, "/api/v1/matches/match_nope", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("get unknown: %d", w.Code)
	}

	w := a.do(http.MethodGet, "/api/v1/matches", nil, nil)
	var list struct {
		Total int `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if list.Total != 1 {
		t.Errorf("total = %d", list.Total)
	}

	if w := a.do(http.MethodDelete, base, nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("delete without token: %d", w.Code)
	}
	if w := a.do(http.MethodDelete, base, nil, bearer(resp.ControlToken)); w.Code != http.StatusOK {
		t.Errorf("delete: %d", w.Code)
	}
	if _, err := a.mm.GetMatch(resp.MatchID); !errors.Is(err, game.ErrMatchNotFound) {
		t.Errorf("match still live: %v", err)
	}
}

func TestAdminProfilesAndMatchFromProfile(t *testing.T) {
	a := newTestAPI(t)
	creds := map[string]string{"X-Admin-Phone": "256700000000", "X-Admin-Token": "letmein"}

	if w := a.do(http.MethodGet, "/api/v1/admin/profiles", nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no creds: %d", w.Code)
	}
	bad := map[string]string{"X-Admin-Phone": "256700000000", "X-Admin-Token": "nope"}
	if w := a.do(http.MethodGet, "/api/v1/admin/profiles", nil, bad); w.Code != http.StatusUnauthorized {
		t.Errorf("bad creds: %d", w.Code)
	}

	w := a.do(http.MethodPost, "/api/v1/admin/profiles", map[string]interface{}{
		"name":                   "Final",
		"team1_name":             "Lions",
		"team2_name":             "Eagles",
		"rotation_speed":         1.5,
		"match_duration_seconds": 60,
	}, creds)
	if w.Code != http.StatusCreated {
		t.Fatalf("create profile: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Profile models.SettingsProfile `json:"profile"`
	}
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.Profile.ID == 0 || created.Profile.CreatedBy != "256700000000" {
		t.Errorf("profile = %+v", created.Profile)
	}

	dup := a.do(http.MethodPost, "/api/v1/admin/profiles", map[string]interface{}{"name": "Final", "match_duration_seconds": 30}, creds)
	if dup.Code != http.StatusConflict {
		t.Errorf("duplicate: %d", dup.Code)
	}

	resp := a.createMatch(t, map[string]interface{}{"profile_id": created.Profile.ID, "team2_name": "Hawks"})
	if resp.Snapshot.Bodies[0].Name != "Lions" || resp.Snapshot.Bodies[1].Name != "Hawks" {
		t.Errorf("names = %q %q", resp.Snapshot.Bodies[0].Name, resp.Snapshot.Bodies[1].Name)
	}
	if resp.Snapshot.RotationSpeed != 1.5 || resp.Snapshot.DurationSeconds != 60 {
		t.Errorf("profile settings not applied: %+v", resp.Snapshot)
	}

	if w := a.do(http.MethodPost, "/api/v1/matches", map[string]interface{}{"profile_id": 999}, nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown profile: %d", w.Code)
	}

	path := "/api/v1/admin/profiles/" + jsonNumber(created.Profile.ID)
	if w := a.do(http.MethodDelete, path, nil, creds); w.Code != http.StatusOK {
		t.Errorf("delete profile: %d", w.Code)
	}
	if w := a.do(http.MethodDelete, path, nil, creds); w.Code != http.StatusNotFound {
		t.Errorf("delete missing profile: %d", w.Code)
	}

	a.admins.mu.Lock()
	defer a.admins.mu.Unlock()
	if len(a.admins.actions) == 0 {
		t.Error("no admin actions audited")
	}
}

func jsonNumber(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
