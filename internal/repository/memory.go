package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/zyedidia/generic/avl"

	"github.com/vancomm/minefield/internal/mines"
)

type scoreKey struct {
	playtimeMs    int64
	gameSessionId int64
}

func lessScore(a, b scoreKey) bool {
	if a.playtimeMs != b.playtimeMs {
		return a.playtimeMs < b.playtimeMs
	}
	return a.gameSessionId < b.gameSessionId
}

// Memory is a Store that lives as long as the process. Won sessions are
// kept in a tree ordered by play time so highscores never need sorting.
type Memory struct {
	mu sync.Mutex

	lastPlayerId  int64
	lastSessionId int64

	players     map[string]*Player
	playersById map[int64]*Player
	sessions    map[int64]*GameSession
	scores      *avl.Tree[scoreKey, int64]

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		players:     make(map[string]*Player),
		playersById: make(map[int64]*Player),
		sessions:    make(map[int64]*GameSession),
		scores:      avl.New[scoreKey, int64](lessScore),
		now:         time.Now,
	}
}

func (m *Memory) CreatePlayer(_ context.Context, params CreatePlayerParams) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.players[params.Username]; ok {
		return nil, ErrUsernameTaken
	}

	m.lastPlayerId++
	now := m.now()
	player := &Player{
		PlayerId:     m.lastPlayerId,
		Username:     params.Username,
		PasswordHash: slices.Clone(params.PasswordHash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.players[player.Username] = player
	m.playersById[player.PlayerId] = player

	p := *player
	return &p, nil
}

func (m *Memory) FetchPlayer(_ context.Context, username string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	player, ok := m.players[username]
	if !ok {
		return nil, ErrNotFound
	}
	p := *player
	return &p, nil
}

func cloneSession(s *GameSession) *GameSession {
	c := *s
	c.State = slices.Clone(s.State)
	if s.PlayerId != nil {
		id := *s.PlayerId
		c.PlayerId = &id
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		c.StartedAt = &t
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		c.EndedAt = &t
	}
	return &c
}

func (m *Memory) CreateGameSession(
	_ context.Context, params CreateGameSessionParams,
) (*GameSession, error) {
	state, err := params.Game.Bytes()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if params.PlayerId != nil {
		if _, ok := m.playersById[*params.PlayerId]; !ok {
			return nil, ErrNotFound
		}
	}

	m.lastSessionId++
	now := m.now()
	session := &GameSession{
		GameSessionId: m.lastSessionId,
		PlayerId:      params.PlayerId,
		Rows:          params.Game.Settings.Rows,
		Cols:          params.Game.Settings.Cols,
		Mines:         params.Game.Settings.Mines,
		Status:        params.Game.Status.String(),
		State:         state,
		StartedAt:     params.Game.StartedAt,
		EndedAt:       params.Game.EndedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}
	session = cloneSession(session)
	m.sessions[session.GameSessionId] = session
	m.score(session)

	return cloneSession(session), nil
}

func (m *Memory) FetchGameSession(_ context.Context, gameSessionId int64) (*GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[gameSessionId]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSession(session), nil
}

func (m *Memory) UpdateGameSession(
	_ context.Context, gameSessionId int64, params UpdateGameSessionParams,
) (*GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[gameSessionId]
	if !ok {
		return nil, ErrNotFound
	}
	if params.Version != session.Version {
		return nil, ErrConflict
	}

	if params.Status != nil {
		session.Status = params.Status.String()
	}
	if params.StartedAt != nil {
		t := *params.StartedAt
		session.StartedAt = &t
	}
	if params.EndedAt != nil {
		t := *params.EndedAt
		session.EndedAt = &t
	}
	if params.State != nil {
		session.State = slices.Clone(params.State)
	}
	session.UpdatedAt = m.now()
	session.Version++
	m.score(session)

	return cloneSession(session), nil
}

// score puts a won session on the leaderboard. Callers hold m.mu.
func (m *Memory) score(s *GameSession) {
	if s.Status != mines.Won.String() || s.StartedAt == nil || s.EndedAt == nil {
		return
	}
	key := scoreKey{
		playtimeMs:    s.EndedAt.Sub(*s.StartedAt).Milliseconds(),
		gameSessionId: s.GameSessionId,
	}
	m.scores.Put(key, s.GameSessionId)
}

func (m *Memory) GetHighscores(_ context.Context, filter HighscoreFilter) ([]Highscore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	limit := filter.limit()
	highscores := make([]Highscore, 0)
	// Each cannot stop early, so a full walk visits every won session
	// held in memory. Past the limit the callback returns at once.
	m.scores.Each(func(key scoreKey, gameSessionId int64) {
		if len(highscores) >= limit {
			return
		}
		s := m.sessions[gameSessionId]
		var username *string
		if s.PlayerId != nil {
			if p, ok := m.playersById[*s.PlayerId]; ok {
				name := p.Username
				username = &name
			}
		}
		if filter.Username != nil && (username == nil || *username != *filter.Username) {
			return
		}
		if filter.Settings != nil && s.Settings() != *filter.Settings {
			return
		}
		highscores = append(highscores, Highscore{
			GameSessionId: s.GameSessionId,
			Username:      username,
			Rows:          s.Rows,
			Cols:          s.Cols,
			Mines:         s.Mines,
			PlaytimeMs:    key.playtimeMs,
		})
	})
	return highscores, nil
}
