package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/arena/internal/api"
	"github.com/cory-johannsen/arena/internal/arena"
	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/storage/memory"
)

// maxSource always returns the top of the range.
type maxSource struct{}

func (maxSource) Intn(n int) int { return n - 1 }

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	engine := battle.NewEngine(dice.NewLoggedRoller(maxSource{}, logger), battle.DefaultConfig())
	svc := arena.NewService(memory.NewStore(), engine, logger)
	srv := httptest.NewServer(api.NewRouter(svc, logger))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp, out
}

func createCharacter(t *testing.T, srv *httptest.Server, name, job string) string {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/api/characters", map[string]string{"name": name, "job": job})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["id"].(string)
}

func TestCreateCharacter(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/characters", map[string]string{"name": "Aragorn", "job": "Warrior"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Aragorn", body["name"])
	assert.Equal(t, "Warrior", body["job"])
	assert.EqualValues(t, 20, body["currentHp"])
	assert.EqualValues(t, 9, body["attackModifier"])
	assert.EqualValues(t, 4, body["speedModifier"])
	assert.Equal(t, false, body["defeated"])

	resp, body = do(t, srv, http.MethodPost, "/api/characters", map[string]string{"name": "Aragorn", "job": "Mage"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body["error"], "already taken")

	resp, _ = do(t, srv, http.MethodPost, "/api/characters", map[string]string{"name": "Bo", "job": "Mage"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, srv, http.MethodPost, "/api/characters", map[string]string{"name": "Gandalf", "job": "Necromancer"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "invalid job")

	resp, _ = do(t, srv, http.MethodPost, "/api/characters", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateCharacter_BodyTooLarge(t *testing.T) {
	srv := newServer(t)

	body := `{"name": "` + strings.Repeat("a", 70<<10) + `", "job": "Mage"}`
	resp, out := do(t, srv, http.MethodPost, "/api/characters", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "request body too large", out["error"])
}

func TestListAndGetCharacters(t *testing.T) {
	srv := newServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/characters")
	require.NoError(t, err)
	var empty []interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&empty))
	resp.Body.Close()
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	id := createCharacter(t, srv, "Legolas", "Thief")
	createCharacter(t, srv, "Gimli", "Warrior")

	resp, err = srv.Client().Get(srv.URL + "/api/characters")
	require.NoError(t, err)
	var list []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Len(t, list, 2)
	assert.Equal(t, "Legolas", list[0]["name"])

	r, body := do(t, srv, http.MethodGet, "/api/characters/"+id, nil)
	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.Equal(t, "Thief", body["job"])

	r, body = do(t, srv, http.MethodGet, "/api/characters/nope", nil)
	assert.Equal(t, http.StatusNotFound, r.StatusCode)
	assert.Equal(t, "character not found", body["error"])
}

func TestUpdateCharacter(t *testing.T) {
	srv := newServer(t)
	id := createCharacter(t, srv, "Legolas", "Thief")

	resp, body := do(t, srv, http.MethodPatch, "/api/characters/"+id, map[string]interface{}{"job": "Mage"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Mage", body["job"])
	assert.EqualValues(t, 12, body["currentHp"])

	resp, body = do(t, srv, http.MethodPatch, "/api/characters/"+id, map[string]interface{}{"currentHp": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["defeated"])

	resp, _ = do(t, srv, http.MethodPatch, "/api/characters/"+id, map[string]interface{}{"currentHp": 99})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPatch, "/api/characters/"+id, map[string]interface{}{"level": 3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPatch, "/api/characters/missing", map[string]interface{}{"name": "Someone"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteCharacter(t *testing.T) {
	srv := newServer(t)
	id := createCharacter(t, srv, "Boromir", "Warrior")

	resp, _ := do(t, srv, http.MethodDelete, "/api/characters/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodDelete, "/api/characters/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBattle(t *testing.T) {
	srv := newServer(t)
	w := createCharacter(t, srv, "Aragorn", "Warrior")
	m := createCharacter(t, srv, "Gandalf", "Mage")

	resp, body := do(t, srv, http.MethodPost, "/api/battles", map[string]string{"character1Id": w, "character2Id": m})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	winner := body["winner"].(map[string]interface{})
	loser := body["loser"].(map[string]interface{})
	assert.Equal(t, "Aragorn", winner["name"])
	assert.EqualValues(t, 6, winner["currentHp"])
	assert.EqualValues(t, 0, loser["currentHp"])

	log := body["battleLog"].([]interface{})
	assert.Equal(t, "Battle between Aragorn (Warrior) - 20 HP and Gandalf (Mage) - 12 HP begins!", log[0])
	assert.Equal(t, "Aragorn wins the battle! Aragorn still has 6 HP remaining!", log[len(log)-1])
	assert.Len(t, body["rounds"], 2)

	_, stored := do(t, srv, http.MethodGet, "/api/characters/"+m, nil)
	assert.EqualValues(t, 0, stored["currentHp"])

	resp, _ = do(t, srv, http.MethodPost, "/api/battles", map[string]string{"character1Id": w, "character2Id": m})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/battles", map[string]string{"character1Id": w, "character2Id": w})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/battles", map[string]string{"character1Id": w, "character2Id": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/battles", map[string]string{"character1Id": w})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := newServer(t)
	resp, body := do(t, srv, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

// brokenService fails every call with an infrastructure error.
type brokenService struct {
	api.Service
}

func (brokenService) Health(context.Context) error { return errors.New("connection refused") }

func (brokenService) GetCharacter(context.Context, string) (*character.Character, error) {
	return nil, errors.New("connection refused")
}

func TestInfrastructureFailures(t *testing.T) {
	srv := httptest.NewServer(api.NewRouter(brokenService{}, zap.NewNop()))
	defer srv.Close()

	resp, body := do(t, srv, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unavailable", body["status"])

	resp, body = do(t, srv, http.MethodGet, "/api/characters/any", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal Server Error", body["error"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newServer(t)
	resp, _ := do(t, srv, http.MethodPut, "/api/characters", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
