package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username taken")
	// ErrConflict means the row changed since the caller read it.
	ErrConflict = errors.New("game session was changed concurrently")
)

// Store is everything the handlers need from persistence. Queries keeps
// it in postgres, Memory keeps it in the process.
type Store interface {
	CreatePlayer(ctx context.Context, params CreatePlayerParams) (*Player, error)
	FetchPlayer(ctx context.Context, username string) (*Player, error)
	CreateGameSession(ctx context.Context, params CreateGameSessionParams) (*GameSession, error)
	FetchGameSession(ctx context.Context, gameSessionId int64) (*GameSession, error)
	UpdateGameSession(ctx context.Context, gameSessionId int64, params UpdateGameSessionParams) (*GameSession, error)
	GetHighscores(ctx context.Context, filter HighscoreFilter) ([]Highscore, error)
}

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func normalize(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrUsernameTaken
	}
	return err
}
