package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/middleware"
	"github.com/vancomm/minefield/internal/repository"
)

const maxUsernameLength = 32

type Auth struct {
	logger     *slog.Logger
	store      repository.Store
	cookies    *config.Cookies
	jwt        *config.JWT
	bcryptCost int
}

func NewAuth(
	logger *slog.Logger,
	store repository.Store,
	cookies *config.Cookies,
	jwt *config.JWT,
) *Auth {
	return &Auth{
		logger:     logger,
		store:      store,
		cookies:    cookies,
		jwt:        jwt,
		bcryptCost: bcrypt.DefaultCost,
	}
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type AuthStatus struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

var (
	ErrBadAuthBody        = errors.New("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = errors.New("password too long")
	ErrBadUsernameTooLong = fmt.Errorf("username must be at most %d bytes", maxUsernameLength)
	ErrUsernameTaken      = errors.New("username taken")
	ErrBadCredentials     = errors.New("invalid username or password")
)

// login issues fresh cookies for the player and replies with their
// status.
func (a *Auth) login(w http.ResponseWriter, playerId int64, username string) {
	token, err := a.jwt.Sign(a.jwt.NewPlayerClaims(playerId, username))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to create a jwt token", slog.Any("error", err))
		return
	}
	if err := a.cookies.Refresh(w, token); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to set auth cookies", slog.Any("error", err))
		return
	}
	sendJSONOrLog(w, a.logger, AuthStatus{
		LoggedIn: true,
		Player:   &PlayerInfo{PlayerId: playerId, Username: username},
	})
}

func (a *Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		a.cookies.Clear(w)
		sendJSONOrLog(w, a.logger, AuthStatus{LoggedIn: false})
		return
	}
	a.logger.Debug("refresh cookies", slog.Int64("player_id", claims.PlayerId))
	a.login(w, claims.PlayerId, claims.Username)
}

func (a *Auth) credentials(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	if err := r.ParseForm(); err != nil {
		sendError(w, a.logger, http.StatusBadRequest, ErrBadAuthBody)
		return "", nil, false
	}

	username := r.PostFormValue("username")
	password := []byte(r.PostFormValue("password"))
	switch {
	case username == "" || len(password) == 0:
		sendError(w, a.logger, http.StatusBadRequest, ErrBadAuthBody)
		return "", nil, false
	case len(username) > maxUsernameLength:
		sendError(w, a.logger, http.StatusBadRequest, ErrBadUsernameTooLong)
		return "", nil, false
	case len(password) > 72:
		// bcrypt only looks at the first 72 bytes
		sendError(w, a.logger, http.StatusBadRequest, ErrBadPasswordTooLong)
		return "", nil, false
	}
	return username, password, true
}

func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, ok := a.credentials(w, r)
	if !ok {
		return
	}

	hash, err := bcrypt.GenerateFromPassword(password, a.bcryptCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to hash password", slog.Any("error", err))
		return
	}

	player, err := a.store.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	if errors.Is(err, repository.ErrUsernameTaken) {
		sendError(w, a.logger, http.StatusConflict, ErrUsernameTaken)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to insert player", slog.Any("error", err))
		return
	}

	a.login(w, player.PlayerId, player.Username)
}

func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, ok := a.credentials(w, r)
	if !ok {
		return
	}

	player, err := a.store.FetchPlayer(r.Context(), username)
	if errors.Is(err, repository.ErrNotFound) {
		sendError(w, a.logger, http.StatusUnauthorized, ErrBadCredentials)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		a.logger.Error("unable to fetch player", slog.Any("error", err))
		return
	}

	if err := bcrypt.CompareHashAndPassword(player.PasswordHash, password); err != nil {
		sendError(w, a.logger, http.StatusUnauthorized, ErrBadCredentials)
		return
	}

	a.login(w, player.PlayerId, player.Username)
}

func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	sendJSONOrLog(w, a.logger, AuthStatus{LoggedIn: false})
}
