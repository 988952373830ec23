package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
)

type HighscoreHandler struct {
	logger *slog.Logger
	store  repository.Store
}

func NewHighscoreHandler(logger *slog.Logger, store repository.Store) *HighscoreHandler {
	return &HighscoreHandler{logger: logger, store: store}
}

func (h *HighscoreHandler) List(w http.ResponseWriter, r *http.Request) {
	var params HighscoreParams
	if err := decodeQuery(&params, r.URL.Query()); err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	filter := repository.HighscoreFilter{Limit: params.Limit}
	if params.Settings != "" {
		settings, err := mines.ParseSettings(params.Settings)
		if err != nil {
			sendError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		filter.Settings = &settings
	}
	if params.Username != "" {
		filter.Username = &params.Username
	}

	highscores, err := h.store.GetHighscores(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch highscores", slog.Any("error", err))
		return
	}

	sendJSONOrLog(w, h.logger, HighscoresDTO{Highscores: highscores})
}
