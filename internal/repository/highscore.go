package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minefield/internal/mines"
)

const DefaultHighscoreLimit = 100

type Highscore struct {
	GameSessionId int64   `json:"game_session_id,string"`
	Username      *string `json:"username"`
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	Mines         int     `json:"mines"`
	PlaytimeMs    int64   `json:"playtime_ms"`
}

func (h Highscore) Settings() mines.Settings {
	return mines.Settings{Rows: h.Rows, Cols: h.Cols, Mines: h.Mines}
}

type HighscoreFilter struct {
	Username *string
	Settings *mines.Settings
	Limit    int
}

func (f HighscoreFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultHighscoreLimit
	}
	return f.Limit
}

func (f HighscoreFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Settings != nil {
		clauses = append(clauses, "rows = @rows", "cols = @cols", "mines = @mines")
		args["rows"] = f.Settings.Rows
		args["cols"] = f.Settings.Cols
		args["mines"] = f.Settings.Mines
	}
	return strings.Join(clauses, " AND "), args
}

func (q *Queries) GetHighscores(
	ctx context.Context, filter HighscoreFilter,
) ([]Highscore, error) {
	query := `
	SELECT
		game_session_id,
		username,
		rows,
		cols,
		mines,
		(extract('epoch' from ended_at - started_at) * 1000)::bigint playtime_ms
	FROM game_session
		LEFT OUTER JOIN player using (player_id)
	WHERE
		status = 'won'
		AND started_at IS NOT NULL
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY playtime_ms, game_session_id LIMIT @limit"
	args["limit"] = filter.limit()

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Highscore])
}
