package app

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"brainy-quiz-service/internal/domain"
)

// GameService drives live stage attempts: one session per in-progress
// attempt, created on StartStage and removed on completion or quit.
// Operations on the same session id are linearized by the session's own
// mutex; distinct sessions proceed concurrently.
type GameService struct {
	repo     QuizRepository
	content  ContentProvider
	sessions SessionStore

	idleTTL  time.Duration
	stopOnce sync.Once
	stop     chan struct{}
}

// NewGameService wires the service. A positive idleTTL starts a reaper
// that evicts sessions with no activity for that long; abandoned attempts
// would otherwise stay resident until the process exits.
func NewGameService(repo QuizRepository, content ContentProvider, sessions SessionStore, idleTTL time.Duration) *GameService {
	s := &GameService{
		repo:     repo,
		content:  content,
		sessions: sessions,
		idleTTL:  idleTTL,
		stop:     make(chan struct{}),
	}
	if idleTTL > 0 {
		go s.reapLoop()
	}
	return s
}

// Close stops the idle reaper.
func (s *GameService) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *GameService) reapLoop() {
	interval := s.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if removed := s.sessions.Reap(time.Now().Add(-s.idleTTL)); len(removed) > 0 {
				log.Printf("reaped %d idle game sessions", len(removed))
			}
		case <-s.stop:
			return
		}
	}
}

// SessionView is the read-only snapshot handed to callers when a stage
// attempt starts.
type SessionView struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Stage     domain.Stage      `json:"stage"`
	Questions []domain.Question `json:"questions"`
	StartedAt time.Time         `json:"startedAt"`
}

// StartStage validates the stage, its unlock status, and its question set,
// then registers a fresh session.
func (s *GameService) StartStage(ctx context.Context, userID, stageID string) (SessionView, error) {
	content, err := s.content.GetStageContent(ctx, stageID)
	if err != nil {
		return SessionView{}, err
	}

	unlocked, err := s.repo.IsStageUnlocked(ctx, userID, stageID)
	if err != nil {
		return SessionView{}, err
	}
	if !unlocked {
		return SessionView{}, domain.ErrStageNotUnlocked
	}

	if len(content.Questions) == 0 {
		return SessionView{}, domain.ErrNoQuestionsFound
	}

	session := newGameSession(uuid.NewString(), userID, content.Stage, content.Questions)
	s.sessions.Put(session)
	return session.view(), nil
}

// SubmitAnswer evaluates the answer against the stored correct answer and
// appends it to the session's log. The client never supplies correctness.
func (s *GameService) SubmitAnswer(ctx context.Context, sessionID, questionID, userAnswer string, timeSpent time.Duration) (domain.AnswerRecord, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerRecord{}, domain.ErrSessionNotFound
	}
	return session.submitAnswer(questionID, userAnswer, timeSpent)
}

// PauseGame marks the session paused and records when.
func (s *GameService) PauseGame(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.pause()
	return nil
}

// ResumeGame accumulates the elapsed pause into the session's pause total.
// Resuming an unpaused session is a no-op.
func (s *GameService) ResumeGame(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.resume()
	return nil
}

// CompleteStage totals the answer log, persists the stage result, refreshes
// the user's rolling stats, and removes the session. The session is claimed
// before the save: a concurrent CompleteStage or SubmitAnswer on the same id
// sees ErrSessionNotFound, so one attempt persists exactly one result. A
// failed save releases the claim so the caller can retry.
func (s *GameService) CompleteStage(ctx context.Context, sessionID string) (*domain.StageResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !session.beginComplete() {
		return nil, domain.ErrSessionNotFound
	}

	score, totalTime := session.totals()
	result, err := s.repo.CreateStageResult(ctx, session.userID, session.stage.ID, score, totalTime)
	if err != nil {
		session.abortComplete()
		return nil, err
	}

	if _, err := s.repo.RefreshUserStats(ctx, session.userID); err != nil {
		// Rolling stats are a recomputable cache; the persisted result wins.
		log.Printf("refresh user stats for %s: %v", session.userID, err)
	}

	s.sessions.Delete(sessionID)
	return result, nil
}

// QuitGame removes the session unconditionally. Quitting an unknown or
// already-removed session is not an error.
func (s *GameService) QuitGame(sessionID string) {
	s.sessions.Delete(sessionID)
}

// GetSessionProgress reports where the attempt stands. Elapsed time
// excludes accumulated pauses, including one still in progress.
func (s *GameService) GetSessionProgress(sessionID string) (domain.GameProgress, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.GameProgress{}, domain.ErrSessionNotFound
	}
	return session.progress(), nil
}

// GetNextQuestion returns the question at the current index, or nil once
// every question has been answered.
func (s *GameService) GetNextQuestion(sessionID string) (*domain.Question, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.nextQuestion(), nil
}

// GameSession is the in-memory state of one stage attempt. All mutation
// goes through methods holding mu, which linearizes concurrent calls on
// the same session id.
type GameSession struct {
	id        string
	userID    string
	stage     domain.Stage
	questions []domain.Question
	startedAt time.Time
	now       func() time.Time

	mu           sync.Mutex
	answers      []domain.AnswerRecord
	currentIndex int
	paused       bool
	pausedAt     time.Time
	totalPaused  time.Duration
	lastActivity time.Time
	completing   bool
}

func newGameSession(id, userID string, stage domain.Stage, questions []domain.Question) *GameSession {
	return newGameSessionWithClock(id, userID, stage, questions, time.Now)
}

// newGameSessionWithClock allows deterministic timestamps in tests.
func newGameSessionWithClock(id, userID string, stage domain.Stage, questions []domain.Question, now func() time.Time) *GameSession {
	return &GameSession{
		id:           id,
		userID:       userID,
		stage:        stage,
		questions:    questions,
		startedAt:    now(),
		now:          now,
		lastActivity: now(),
	}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id, userID string, stage domain.Stage, questions []domain.Question) *GameSession {
	return newGameSession(id, userID, stage, questions)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id, userID string, stage domain.Stage, questions []domain.Question, now func() time.Time) *GameSession {
	return newGameSessionWithClock(id, userID, stage, questions, now)
}

// ID returns the session id.
func (g *GameSession) ID() string { return g.id }

// IdleSince reports the last time any operation touched the session.
func (g *GameSession) IdleSince() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActivity
}

func (g *GameSession) view() SessionView {
	g.mu.Lock()
	defer g.mu.Unlock()
	questions := make([]domain.Question, len(g.questions))
	copy(questions, g.questions)
	return SessionView{
		ID:        g.id,
		UserID:    g.userID,
		Stage:     g.stage,
		Questions: questions,
		StartedAt: g.startedAt,
	}
}

func (g *GameSession) submitAnswer(questionID, userAnswer string, timeSpent time.Duration) (domain.AnswerRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.completing {
		return domain.AnswerRecord{}, domain.ErrSessionNotFound
	}
	g.lastActivity = g.now()

	question := g.findQuestionLocked(questionID)
	if question == nil {
		return domain.AnswerRecord{}, domain.ErrQuestionNotFound
	}

	record := domain.AnswerRecord{
		QuestionID: questionID,
		UserAnswer: userAnswer,
		IsCorrect:  answersMatch(userAnswer, question.CorrectAnswer),
		TimeSpent:  timeSpent,
	}
	g.answers = append(g.answers, record)
	g.currentIndex++
	return record, nil
}

func (g *GameSession) findQuestionLocked(questionID string) *domain.Question {
	for i := range g.questions {
		if g.questions[i].ID == questionID {
			return &g.questions[i]
		}
	}
	return nil
}

// beginComplete claims the session for completion. Only the first caller
// wins; once claimed, concurrent completions and answers treat the session
// as already gone.
func (g *GameSession) beginComplete() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.completing {
		return false
	}
	g.completing = true
	g.lastActivity = g.now()
	return true
}

// abortComplete releases the claim after a failed save so a retry can
// complete the attempt.
func (g *GameSession) abortComplete() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completing = false
}

func (g *GameSession) pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastActivity = g.now()
	if g.paused {
		return
	}
	g.paused = true
	g.pausedAt = g.now()
}

func (g *GameSession) resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastActivity = g.now()
	if !g.pausedAt.IsZero() {
		g.totalPaused += g.now().Sub(g.pausedAt)
	}
	g.paused = false
	g.pausedAt = time.Time{}
}

func (g *GameSession) totals() (score int, totalTime time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, answer := range g.answers {
		if answer.IsCorrect {
			score++
		}
		totalTime += answer.TimeSpent
	}
	return score, totalTime
}

func (g *GameSession) progress() domain.GameProgress {
	g.mu.Lock()
	defer g.mu.Unlock()

	correct := 0
	for _, answer := range g.answers {
		if answer.IsCorrect {
			correct++
		}
	}

	elapsed := g.now().Sub(g.startedAt) - g.totalPaused
	if g.paused && !g.pausedAt.IsZero() {
		elapsed -= g.now().Sub(g.pausedAt)
	}
	if elapsed < 0 {
		elapsed = 0
	}

	return domain.GameProgress{
		CurrentQuestion: g.currentIndex + 1,
		TotalQuestions:  len(g.questions),
		CorrectAnswers:  correct,
		TimeElapsed:     elapsed,
	}
}

func (g *GameSession) nextQuestion() *domain.Question {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastActivity = g.now()
	if g.currentIndex >= len(g.questions) {
		return nil
	}
	question := g.questions[g.currentIndex]
	return &question
}

// answersMatch compares a submitted answer against the stored one with
// whitespace trimmed and case folded. Stricter format rules stay with the
// client.
func answersMatch(userAnswer, correctAnswer string) bool {
	return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(correctAnswer))
}
