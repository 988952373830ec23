package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/journal"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
)

var (
	ErrNotYourGame = errors.New("game belongs to another player")
)

type GameHandler struct {
	logger  *slog.Logger
	store   repository.Store
	journal *journal.Journal
	ws      *config.WebSocket
	now     func() time.Time
}

func NewGameHandler(
	logger *slog.Logger,
	store repository.Store,
	journal *journal.Journal,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		logger:  logger,
		store:   store,
		journal: journal,
		ws:      ws,
		now:     time.Now,
	}
}

func (h *GameHandler) newGame(settings mines.Settings) (*mines.GameState, error) {
	return mines.NewGame(settings, mines.NewSeed(), mines.WithClock(h.now))
}

func (h *GameHandler) Difficulties(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, h.logger, NewDifficultiesDTO())
}

func playerId(ctx context.Context) *int64 {
	claims, ok := middleware.PlayerClaims(ctx)
	if !ok {
		return nil
	}
	id := claims.PlayerId
	return &id
}

func (h *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	var params NewGameParams
	if err := decodeQuery(&params, r.URL.Query()); err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	settings, err := params.Settings()
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	game, err := h.newGame(settings)
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	owner := playerId(r.Context())
	session, err := h.store.CreateGameSession(r.Context(), repository.CreateGameSessionParams{
		PlayerId: owner,
		Game:     game,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to create game session", slog.Any("error", err))
		return
	}

	h.journal.Created(session.GameSessionId, owner, game)
	sendJSONOrLog(w, h.logger, NewGameSessionDTO(session.GameSessionId, game))
}

// fetchGame reads a session and decodes its game.
func (h *GameHandler) fetchGame(
	ctx context.Context, sessionId int64,
) (*repository.GameSession, *mines.GameState, error) {
	session, err := h.store.FetchGameSession(ctx, sessionId)
	if err != nil {
		return nil, nil, err
	}
	game, err := session.Game(mines.WithClock(h.now))
	if err != nil {
		return nil, nil, fmt.Errorf("stored game state is invalid: %w", err)
	}
	return session, game, nil
}

// loadGame fetches the session named by the {id} path value and checks
// that the caller may play it. On failure the response is already
// written.
func (h *GameHandler) loadGame(
	w http.ResponseWriter, r *http.Request,
) (*repository.GameSession, *mines.GameState, bool) {
	sessionId, err := parseSessionId(r.PathValue("id"))
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return nil, nil, false
	}

	session, game, err := h.fetchGame(r.Context(), sessionId)
	if errors.Is(err, repository.ErrNotFound) {
		sendError(w, h.logger, http.StatusNotFound, fmt.Errorf("game session %d not found", sessionId))
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error(
			"unable to load game session",
			slog.Int64("game_session_id", sessionId),
			slog.Any("error", err),
		)
		return nil, nil, false
	}

	if session.PlayerId != nil {
		caller := playerId(r.Context())
		if caller == nil || *caller != *session.PlayerId {
			sendError(w, h.logger, http.StatusUnauthorized, ErrNotYourGame)
			return nil, nil, false
		}
	}

	return session, game, true
}

// save writes the game back over the version it was loaded from. It
// fails with repository.ErrConflict if someone else saved in between.
func (h *GameHandler) save(
	ctx context.Context, session *repository.GameSession, game *mines.GameState,
) (*repository.GameSession, error) {
	params, err := repository.UpdateFromGame(session.Version, game)
	if err != nil {
		return nil, fmt.Errorf("unable to encode game state: %w", err)
	}
	return h.store.UpdateGameSession(ctx, session.GameSessionId, params)
}

func (h *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, game, ok := h.loadGame(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.logger, NewGameSessionDTO(session.GameSessionId, game))
}

func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	var params MoveParams
	if err := decodeQuery(&params, r.URL.Query()); err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	move, err := ParseMove(params.Move)
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	session, game, ok := h.loadGame(w, r)
	if !ok {
		return
	}

	res, err := move.Apply(game, params.Point())
	if errors.Is(err, mines.ErrOutOfBounds) {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to apply move", slog.Any("error", err))
		return
	}

	if res.Changed {
		_, err := h.save(r.Context(), session, game)
		if errors.Is(err, repository.ErrConflict) {
			sendError(w, h.logger, http.StatusConflict, err)
			return
		}
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			h.logger.Error("unable to update game session", slog.Any("error", err))
			return
		}
		h.journal.Move(session.GameSessionId, string(move), params.Point(), game)
	}

	sendJSONOrLog(w, h.logger, NewGameSessionDTO(session.GameSessionId, game))
}

// Reset starts a fresh session with the settings of an existing one.
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	prev, game, ok := h.loadGame(w, r)
	if !ok {
		return
	}

	if err := game.Reset(mines.NewSeed()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to reset game", slog.Any("error", err))
		return
	}

	session, err := h.store.CreateGameSession(r.Context(), repository.CreateGameSessionParams{
		PlayerId: prev.PlayerId,
		Game:     game,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to create game session", slog.Any("error", err))
		return
	}

	h.journal.Reset(prev.GameSessionId, session.GameSessionId, game)
	sendJSONOrLog(w, h.logger, NewGameSessionDTO(session.GameSessionId, game))
}
