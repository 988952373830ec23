package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/repository"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0,
	"r": 2,
	"f": 2,
}

var commandMoves = map[string]Move{
	"r": Reveal,
	"f": Flag,
}

type command struct {
	name  string
	point mines.Point
}

func parseCommand(line string) (command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command{}, errors.New("empty command")
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return command{}, fmt.Errorf("command %q takes %d arguments", parts[0], nargs)
	}
	c := command{name: parts[0]}
	if nargs == 2 {
		row, err := strconv.Atoi(parts[1])
		if err != nil {
			return command{}, errors.New("row must be an int")
		}
		col, err := strconv.Atoi(parts[2])
		if err != nil {
			return command{}, errors.New("col must be an int")
		}
		c.point = mines.Point{Row: row, Col: col}
	}
	return c, nil
}

type ElapsedDTO struct {
	Elapsed int64 `json:"elapsed"`
}

// wsGame is one connection playing one session. mu guards the session,
// the game and the writer, which the reader and the ticker share.
type wsGame struct {
	h    *GameHandler
	conn *websocket.Conn

	mu      sync.Mutex
	session *repository.GameSession
	game    *mines.GameState
}

func (c *wsGame) write(v any) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.h.ws.WriteWait))
	return c.conn.WriteJSON(v)
}

// appliedMove keeps the game as it was right after the move, for the
// journal.
type appliedMove struct {
	move  Move
	point mines.Point
	game  mines.GameState
}

// execute runs every newline-separated command of one message, stopping
// at the first bad command or once the game is over. It returns the
// moves that changed the game.
func (c *wsGame) execute(text string) (applied []appliedMove, err error) {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			return applied, err
		}
		move, ok := commandMoves[cmd.name]
		if !ok {
			continue
		}
		res, err := move.Apply(c.game, cmd.point)
		if err != nil {
			return applied, err
		}
		if res.Changed {
			snapshot := *c.game
			snapshot.Board = c.game.Board.Clone()
			applied = append(applied, appliedMove{move: move, point: cmd.point, game: snapshot})
		}
		if res.Status.Over() {
			break
		}
	}
	return applied, nil
}

// reload replaces the connection's copy with the stored session, which
// HTTP moves or other sockets may have changed.
func (c *wsGame) reload(ctx context.Context) error {
	session, game, err := c.h.fetchGame(ctx, c.session.GameSessionId)
	if err != nil {
		return fmt.Errorf("unable to reload game session: %w", err)
	}
	c.session, c.game = session, game
	return nil
}

func (c *wsGame) handle(ctx context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.reload(ctx); err != nil {
		return err
	}

	applied, cmdErr := c.execute(text)
	if len(applied) > 0 {
		session, saveErr := c.h.save(ctx, c.session, c.game)
		if errors.Is(saveErr, repository.ErrConflict) {
			if err := c.reload(ctx); err != nil {
				return err
			}
			if err := c.write(wrapError(saveErr)); err != nil {
				return err
			}
			return c.write(NewGameSessionDTO(c.session.GameSessionId, c.game))
		}
		if saveErr != nil {
			return fmt.Errorf("unable to update game session: %w", saveErr)
		}
		c.session = session
		for _, m := range applied {
			c.h.journal.Move(c.session.GameSessionId, string(m.move), m.point, &m.game)
		}
	}
	if cmdErr != nil {
		return c.write(wrapError(cmdErr))
	}
	return c.write(NewGameSessionDTO(c.session.GameSessionId, c.game))
}

func (c *wsGame) readLoop(ctx context.Context) error {
	for {
		mt, message, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(
				err, websocket.CloseNormalClosure, websocket.CloseGoingAway,
			) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if mt != websocket.TextMessage {
			return nil
		}
		if err := c.handle(ctx, string(message)); err != nil {
			return err
		}
	}
}

func (c *wsGame) tick() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.game.Started() || c.game.Status.Over() {
		return nil
	}
	return c.write(ElapsedDTO{Elapsed: int64(c.game.Elapsed().Seconds())})
}

func (c *wsGame) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(c.h.ws.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.tick(); err != nil {
				return fmt.Errorf("tick: %w", err)
			}
		}
	}
}

func (h *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, game, ok := h.loadGame(w, r)
	if !ok {
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("unable to upgrade connection", slog.Any("error", err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.ws.ReadLimit)

	c := &wsGame{h: h, conn: conn, session: session, game: game}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return c.readLoop(ctx)
	})
	g.Go(func() error {
		return c.tickLoop(ctx)
	})
	g.Go(func() error {
		// unblocks the reader once the ticker fails
		<-ctx.Done()
		conn.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		h.logger.Warn(
			"websocket closed",
			slog.Int64("game_session_id", session.GameSessionId),
			slog.Any("error", err),
		)
	}
}
