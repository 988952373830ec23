// Package journal records what happens to games: one structured entry
// per session created, move played and game finished.
package journal

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minefield/internal/mines"
)

type Config struct {
	// Filename enables a rotated JSON file next to Out when set.
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Level      logrus.Level
}

type Journal struct {
	log *logrus.Logger
}

func New(out io.Writer, cfg Config) (*Journal, error) {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(cfg.Level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.Filename != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   cfg.Filename,
			MaxSize:    max(cfg.MaxSizeMB, 1),
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Level:      cfg.Level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, fmt.Errorf("unable to open journal file: %w", err)
		}
		log.AddHook(hook)
	}

	return &Journal{log: log}, nil
}

// Discard returns a journal that drops every entry.
func Discard() *Journal {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Journal{log: log}
}

func (j *Journal) Logger() *logrus.Logger {
	return j.log
}

func sessionFields(gameSessionId int64, g *mines.GameState) logrus.Fields {
	return logrus.Fields{
		"game_session_id": gameSessionId,
		"settings":        g.Settings.String(),
		"status":          g.Status.String(),
	}
}

func (j *Journal) Created(gameSessionId int64, playerId *int64, g *mines.GameState) {
	entry := j.log.WithFields(sessionFields(gameSessionId, g))
	if playerId != nil {
		entry = entry.WithField("player_id", *playerId)
	}
	entry.Info("game created")
}

func (j *Journal) Move(gameSessionId int64, move string, p mines.Point, g *mines.GameState) {
	j.log.WithFields(sessionFields(gameSessionId, g)).
		WithField("move", move).
		WithField("cell", p.String()).
		WithField("flags", g.FlagCount).
		Debug("move played")

	if !g.Status.Over() {
		return
	}
	entry := j.log.WithFields(sessionFields(gameSessionId, g)).
		WithField("elapsed", g.Elapsed().Seconds())
	if g.Status == mines.Won {
		entry.Info("game won")
	} else {
		entry.WithField("exploded", g.Exploded.String()).Info("game lost")
	}
}

func (j *Journal) Reset(fromSessionId, toSessionId int64, g *mines.GameState) {
	j.log.WithFields(sessionFields(toSessionId, g)).
		WithField("previous_game_session_id", fromSessionId).
		Info("game reset")
}
