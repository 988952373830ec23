package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/minefield/internal/mines"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func decodeQuery(dst any, query url.Values) error {
	if err := decoder.Decode(dst, query); err != nil {
		var multi schema.MultiError
		if errors.As(err, &multi) {
			keys := make([]string, 0, len(multi))
			for key := range multi {
				keys = append(keys, key)
			}
			return fmt.Errorf("invalid query parameters: %s", strings.Join(keys, ", "))
		}
		return err
	}
	return nil
}

type NewGameParams struct {
	Difficulty string `schema:"difficulty,required"`
	Rows       int    `schema:"rows"`
	Cols       int    `schema:"cols"`
	Mines      int    `schema:"mines"`
}

func (p NewGameParams) Settings() (mines.Settings, error) {
	difficulty, err := mines.ParseDifficulty(p.Difficulty)
	if err != nil {
		return mines.Settings{}, err
	}
	settings := mines.Presets[difficulty]
	if difficulty == mines.Custom {
		settings = mines.CustomSettings(p.Rows, p.Cols, p.Mines)
	}
	return settings, settings.Validate()
}

type Move string

const (
	Reveal Move = "reveal"
	Flag   Move = "flag"
)

func ParseMove(s string) (Move, error) {
	switch m := Move(strings.ToLower(s)); m {
	case Reveal, Flag:
		return m, nil
	}
	return "", fmt.Errorf("move must be either '%s' or '%s'", Reveal, Flag)
}

// Apply plays the move on g.
func (m Move) Apply(g *mines.GameState, p mines.Point) (mines.MoveResult, error) {
	switch m {
	case Reveal:
		return g.Reveal(p)
	case Flag:
		return g.ToggleFlag(p)
	}
	return mines.MoveResult{Status: g.Status}, fmt.Errorf("unknown move %q", string(m))
}

type MoveParams struct {
	Move string `schema:"move,required"`
	Row  int    `schema:"row,required"`
	Col  int    `schema:"col,required"`
}

func (p MoveParams) Point() mines.Point {
	return mines.Point{Row: p.Row, Col: p.Col}
}

type HighscoreParams struct {
	Settings string `schema:"settings"`
	Username string `schema:"username"`
	Limit    int    `schema:"limit"`
}

func parseSessionId(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid game session id %q", s)
	}
	return id, nil
}
