package app

import (
	"net/http"
	"strings"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/handlers"
)

func (a *App) loadRoutes() {
	mux := http.NewServeMux()

	game := handlers.NewGameHandler(a.logger, a.store, a.journal, a.ws)
	mux.HandleFunc("GET /difficulties", game.Difficulties)
	mux.HandleFunc("POST /game", game.NewGame)
	mux.HandleFunc("GET /game/{id}", game.Fetch)
	mux.HandleFunc("POST /game/{id}/move", game.Move)
	mux.HandleFunc("POST /game/{id}/reset", game.Reset)
	mux.HandleFunc("GET /game/{id}/connect", game.ConnectWS)

	highscores := handlers.NewHighscoreHandler(a.logger, a.store)
	mux.HandleFunc("GET /highscores", highscores.List)

	auth := handlers.NewAuth(a.logger, a.store, a.cookies, a.jwt)
	mux.HandleFunc("POST /register", auth.Register)
	mux.HandleFunc("POST /login", auth.Login)
	mux.HandleFunc("POST /logout", auth.Logout)
	mux.HandleFunc("GET /auth/status", auth.Status)

	mux.HandleFunc("GET /status", handlers.Status)

	base := strings.TrimSuffix(config.BasePath(), "/")
	if base == "" {
		a.router.Handle("/", mux)
		return
	}
	a.router.Handle(base+"/", http.StripPrefix(base, mux))
}
