package handlers

import (
	"strconv"
	"time"

	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
)

type GameSessionDTO struct {
	GameSessionId string       `json:"game_session_id"`
	Grid          mines.Grid   `json:"grid"`
	Rows          int          `json:"rows"`
	Cols          int          `json:"cols"`
	Mines         int          `json:"mines"`
	Status        mines.Status `json:"status"`
	FlagCount     int          `json:"flag_count"`
	MinesLeft     int          `json:"mines_left"`
	ElapsedMs     int64        `json:"elapsed_ms"`
	StartedAt     *int64       `json:"started_at"`
	EndedAt       *int64       `json:"ended_at"`
}

func unixMilli(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func NewGameSessionDTO(gameSessionId int64, g *mines.GameState) *GameSessionDTO {
	return &GameSessionDTO{
		GameSessionId: strconv.FormatInt(gameSessionId, 10),
		Grid:          g.PlayerGrid(),
		Rows:          g.Settings.Rows,
		Cols:          g.Settings.Cols,
		Mines:         g.Settings.Mines,
		Status:        g.Status,
		FlagCount:     g.FlagCount,
		MinesLeft:     g.MinesLeft(),
		ElapsedMs:     g.Elapsed().Milliseconds(),
		StartedAt:     unixMilli(g.StartedAt),
		EndedAt:       unixMilli(g.EndedAt),
	}
}

type DifficultyDTO struct {
	Difficulty mines.Difficulty `json:"difficulty"`
	mines.Settings
}

type CustomLimitsDTO struct {
	MinSide    int     `json:"min_side"`
	MaxSide    int     `json:"max_side"`
	MinMines   int     `json:"min_mines"`
	MaxDensity float64 `json:"max_density"`
}

type DifficultiesDTO struct {
	Presets []DifficultyDTO `json:"presets"`
	Custom  CustomLimitsDTO `json:"custom"`
}

func NewDifficultiesDTO() *DifficultiesDTO {
	presets := make([]DifficultyDTO, 0, len(mines.Presets))
	for _, d := range []mines.Difficulty{mines.Easy, mines.Medium, mines.Hard} {
		presets = append(presets, DifficultyDTO{Difficulty: d, Settings: mines.Presets[d]})
	}
	return &DifficultiesDTO{
		Presets: presets,
		Custom: CustomLimitsDTO{
			MinSide:    mines.MinSide,
			MaxSide:    mines.MaxSide,
			MinMines:   1,
			MaxDensity: mines.MaxDensity,
		},
	}
}

type HighscoresDTO struct {
	Highscores []repository.Highscore `json:"highscores"`
}
