package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minefield/internal/mines"
)

type GameSession struct {
	GameSessionId int64
	PlayerId      *int64
	Rows          int
	Cols          int
	Mines         int
	Status        string
	State         []byte
	StartedAt     *time.Time
	EndedAt       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	// Version grows by one with every update.
	Version int64
}

func (s GameSession) Settings() mines.Settings {
	return mines.Settings{Rows: s.Rows, Cols: s.Cols, Mines: s.Mines}
}

// Game decodes the stored state.
func (s GameSession) Game(opts ...mines.Option) (*mines.GameState, error) {
	return mines.DecodeGameState(s.State, opts...)
}

type CreateGameSessionParams struct {
	PlayerId *int64
	Game     *mines.GameState
}

func (q *Queries) CreateGameSession(
	ctx context.Context, params CreateGameSessionParams,
) (*GameSession, error) {
	state, err := params.Game.Bytes()
	if err != nil {
		return nil, err
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			player_id, rows, cols, mines, status, state, started_at, ended_at
		)
		VALUES (
			@player_id, @rows, @cols, @mines, @status, @state, @started_at, @ended_at
		)
		RETURNING *`,
		pgx.NamedArgs{
			"player_id":  params.PlayerId,
			"rows":       params.Game.Settings.Rows,
			"cols":       params.Game.Settings.Cols,
			"mines":      params.Game.Settings.Mines,
			"status":     params.Game.Status.String(),
			"state":      state,
			"started_at": params.Game.StartedAt,
			"ended_at":   params.Game.EndedAt,
		},
	)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	return session, normalize(err)
}

func (q *Queries) FetchGameSession(ctx context.Context, gameSessionId int64) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_session_id = $1",
		gameSessionId,
	)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	return session, normalize(err)
}

// UpdateGameSessionParams only applies while the stored row is still at
// Version; otherwise the update fails with ErrConflict.
type UpdateGameSessionParams struct {
	Version   int64
	Status    *mines.Status
	StartedAt *time.Time
	EndedAt   *time.Time
	State     []byte
}

// UpdateFromGame fills every column that a move can change.
func UpdateFromGame(version int64, g *mines.GameState) (UpdateGameSessionParams, error) {
	state, err := g.Bytes()
	if err != nil {
		return UpdateGameSessionParams{}, err
	}
	status := g.Status
	return UpdateGameSessionParams{
		Version:   version,
		Status:    &status,
		StartedAt: g.StartedAt,
		EndedAt:   g.EndedAt,
		State:     state,
	}, nil
}

func (p UpdateGameSessionParams) SetClause() (string, pgx.NamedArgs) {
	parts := []string{"updated_at = now()", "version = version + 1"}
	args := pgx.NamedArgs{"version": p.Version}

	if p.Status != nil {
		parts = append(parts, "status = @status")
		args["status"] = p.Status.String()
	}
	if p.StartedAt != nil {
		parts = append(parts, "started_at = @started_at")
		args["started_at"] = *p.StartedAt
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = p.State
	}

	return strings.Join(parts, ", "), args
}

func (q *Queries) UpdateGameSession(
	ctx context.Context, gameSessionId int64, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	args["game_session_id"] = gameSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE game_session SET "+setClause+
			" WHERE game_session_id = @game_session_id AND version = @version RETURNING *",
		args,
	)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, q.missingOrConflict(ctx, gameSessionId)
	}
	return session, normalize(err)
}

// missingOrConflict tells apart the two reasons a versioned update can
// match no row.
func (q *Queries) missingOrConflict(ctx context.Context, gameSessionId int64) error {
	var exists bool
	err := q.db.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM game_session WHERE game_session_id = $1)",
		gameSessionId,
	).Scan(&exists)
	switch {
	case err != nil:
		return err
	case exists:
		return ErrConflict
	default:
		return ErrNotFound
	}
}
