package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/journal"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
)

var testKey = sync.OnceValue(func() *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	return key
})

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	t       *testing.T
	store   *repository.Memory
	clock   *testClock
	game    *GameHandler
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	store := repository.NewMemory()
	jwt := config.NewJWTWithKey(testKey(), time.Hour)
	cookies, err := config.NewCookies(jwt)
	require.NoError(t, err)
	ws, err := config.NewWebSocket()
	require.NoError(t, err)
	ws.TickInterval = 10 * time.Millisecond

	clock := &testClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	game := NewGameHandler(logger, store, journal.Discard(), ws)
	game.now = clock.Now

	auth := NewAuth(logger, store, cookies, jwt)
	auth.bcryptCost = bcrypt.MinCost

	highscores := NewHighscoreHandler(logger, store)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", Status)
	mux.HandleFunc("GET /difficulties", game.Difficulties)
	mux.HandleFunc("POST /game", game.NewGame)
	mux.HandleFunc("GET /game/{id}", game.Fetch)
	mux.HandleFunc("POST /game/{id}/move", game.Move)
	mux.HandleFunc("POST /game/{id}/reset", game.Reset)
	mux.HandleFunc("GET /game/{id}/connect", game.ConnectWS)
	mux.HandleFunc("GET /highscores", highscores.List)
	mux.HandleFunc("POST /register", auth.Register)
	mux.HandleFunc("POST /login", auth.Login)
	mux.HandleFunc("POST /logout", auth.Logout)
	mux.HandleFunc("GET /auth/status", auth.Status)

	return &testEnv{
		t:       t,
		store:   store,
		clock:   clock,
		game:    game,
		handler: middleware.Wrap(mux, middleware.Auth(logger, cookies)),
	}
}

func (e *testEnv) do(
	method, target string, form url.Values, cookies ...*http.Cookie,
) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *testEnv) newGame(query string, cookies ...*http.Cookie) *GameSessionDTO {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/game?"+query, nil, cookies...)
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[*GameSessionDTO](e.t, rec)
}

func (e *testEnv) move(id, move string, p mines.Point, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	query := url.Values{
		"move": {move},
		"row":  {strconv.Itoa(p.Row)},
		"col":  {strconv.Itoa(p.Col)},
	}
	return e.do(http.MethodPost, "/game/"+id+"/move?"+query.Encode(), nil, cookies...)
}

// stored decodes the game as the store has it.
func (e *testEnv) stored(id string) *mines.GameState {
	e.t.Helper()
	sessionId, err := parseSessionId(id)
	require.NoError(e.t, err)
	session, err := e.store.FetchGameSession(context.Background(), sessionId)
	require.NoError(e.t, err)
	g, err := session.Game()
	require.NoError(e.t, err)
	return g
}

func (e *testEnv) register(username, password string) []*http.Cookie {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/register", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func TestStatus(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
