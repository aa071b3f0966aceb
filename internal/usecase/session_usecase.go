package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"greentask/internal/domain/entity"
	"greentask/internal/domain/repository"
	"greentask/pkg/errors"
	"greentask/pkg/logger"
)

var welcomeNotification = entity.NotificationInput{
	Title:   "Welcome to GreenTask 2.0",
	Message: "Check out our new features and enhanced eco-impact tracking!",
	Type:    entity.NotificationTypeSystem,
}

// Session is one connected wallet's profile and notification state. Its
// stores are only touched through SessionUseCase.Do, which holds mu.
type Session struct {
	mu     sync.Mutex
	closed bool

	ID            string
	PublicKey     string
	Profile       *ProfileStore
	Notifications *NotificationSink
}

type ConnectResult struct {
	SessionID string          `json:"sessionId"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Resumed   bool            `json:"resumed"`
	Profile   ProfileSnapshot `json:"profile"`
}

type SessionUseCase struct {
	repo         repository.SessionRepository
	seeder       ProfileSeeder
	tokens       SessionTokens
	jobs         JobScheduler
	toasts       ToastPublisher
	log          logger.Logger
	welcomeDelay time.Duration
	clock        func() time.Time
	validate     *validator.Validate

	mu   sync.RWMutex
	live map[string]*Session
}

type SessionUseCaseOption func(*SessionUseCase)

// WithSessionValidator shares v with every profile store the use case opens.
func WithSessionValidator(v *validator.Validate) SessionUseCaseOption {
	return func(uc *SessionUseCase) {
		uc.validate = v
	}
}

func WithSessionClock(clock func() time.Time) SessionUseCaseOption {
	return func(uc *SessionUseCase) {
		if clock != nil {
			uc.clock = clock
		}
	}
}

func NewSessionUseCase(
	repo repository.SessionRepository,
	seeder ProfileSeeder,
	tokens SessionTokens,
	jobs JobScheduler,
	toasts ToastPublisher,
	log logger.Logger,
	welcomeDelay time.Duration,
	opts ...SessionUseCaseOption,
) *SessionUseCase {
	uc := &SessionUseCase{
		repo:         repo,
		seeder:       seeder,
		tokens:       tokens,
		jobs:         jobs,
		toasts:       toasts,
		log:          log,
		welcomeDelay: welcomeDelay,
		clock:        time.Now,
		live:         make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Connect is the wallet connected signal. A wallet that already has a live
// session resumes it with a fresh token; otherwise a session is opened, its
// profile seeded and the welcome notification scheduled.
func (uc *SessionUseCase) Connect(ctx context.Context, publicKey string) (*ConnectResult, error) {
	publicKey = strings.TrimSpace(publicKey)
	if publicKey == "" {
		return nil, errors.BadRequest("Public key is required", nil)
	}

	uc.mu.Lock()
	session, resumed := uc.findLocked(ctx, publicKey)
	if !resumed {
		var err error
		session, err = uc.openLocked(ctx, publicKey)
		if err != nil {
			uc.mu.Unlock()
			return nil, err
		}
	}
	uc.mu.Unlock()

	if !resumed {
		uc.scheduleWelcome(session.ID)
		uc.log.Info("session opened", "session", session.ID, "wallet", publicKey)
	}

	token, expiresAt, err := uc.tokens.Issue(session.ID, publicKey)
	if err != nil {
		return nil, errors.Internal("Failed to issue session token", err)
	}

	result := &ConnectResult{
		SessionID: session.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		Resumed:   resumed,
	}
	err = uc.Do(ctx, session.ID, func(s *Session) error {
		result.Profile = s.Profile.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *SessionUseCase) findLocked(ctx context.Context, publicKey string) (*Session, bool) {
	existing, err := uc.repo.GetByPublicKey(ctx, publicKey)
	if err != nil {
		return nil, false
	}
	if session, ok := uc.live[existing.ID]; ok {
		return session, true
	}
	// Metadata without live state cannot be resumed.
	_ = uc.repo.Delete(ctx, existing.ID)
	return nil, false
}

func (uc *SessionUseCase) openLocked(ctx context.Context, publicKey string) (*Session, error) {
	id := uuid.New().String()
	sink := NewNotificationSink(
		WithNotificationClock(uc.clock),
		WithToaster(ToasterFunc(func(n entity.Notification) {
			uc.toasts.Publish(id, n)
		})),
	)
	store := NewProfileStore(sink, uc.seeder, WithProfileClock(uc.clock), WithProfileValidator(uc.validate))

	now := uc.clock()
	if err := uc.repo.Create(ctx, &entity.Session{
		ID:          id,
		PublicKey:   publicKey,
		ConnectedAt: now,
		LastSeen:    now,
	}); err != nil {
		return nil, err
	}

	store.HandleWalletState(entity.WalletState{Connected: true, PublicKey: publicKey})

	session := &Session{
		ID:            id,
		PublicKey:     publicKey,
		Profile:       store,
		Notifications: sink,
	}
	uc.live[id] = session
	return session, nil
}

func (uc *SessionUseCase) scheduleWelcome(sessionID string) {
	err := uc.jobs.After(uc.welcomeDelay, sessionID, func() {
		err := uc.Do(context.Background(), sessionID, func(s *Session) error {
			s.Notifications.AddNotification(welcomeNotification)
			return nil
		})
		if err != nil {
			uc.log.Debug("welcome notification skipped", "session", sessionID, "error", err)
		}
	})
	if err != nil {
		uc.log.Warn("failed to schedule welcome notification", "session", sessionID, "error", err)
	}
}

// Disconnect is the wallet disconnected signal: the profile is dropped,
// pending jobs are cancelled and the session is forgotten.
func (uc *SessionUseCase) Disconnect(ctx context.Context, sessionID string) error {
	uc.mu.Lock()
	session, ok := uc.live[sessionID]
	delete(uc.live, sessionID)
	uc.mu.Unlock()
	if !ok {
		return errors.NotFound("Session", nil)
	}

	uc.jobs.Cancel(sessionID)

	session.mu.Lock()
	session.closed = true
	session.Profile.HandleWalletState(entity.WalletState{Connected: false})
	session.mu.Unlock()

	uc.toasts.Close(sessionID)
	if err := uc.repo.Delete(ctx, sessionID); err != nil && !errors.Is(err, errors.CodeNotFound) {
		// Live state is already torn down, so the disconnect stands.
		uc.log.Warn("delete session metadata", "session", sessionID, "error", err)
	}
	uc.log.Info("session closed", "session", sessionID, "wallet", session.PublicKey)
	return nil
}

// Do runs fn with exclusive access to the session's stores.
func (uc *SessionUseCase) Do(ctx context.Context, sessionID string, fn func(s *Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	uc.mu.RLock()
	session, ok := uc.live[sessionID]
	uc.mu.RUnlock()
	if !ok {
		return errors.NotFound("Session", nil)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return errors.NotFound("Session", nil)
	}
	if err := uc.repo.Touch(ctx, sessionID, uc.clock()); err != nil {
		uc.log.Debug("touch session", "session", sessionID, "error", err)
	}
	return fn(session)
}

// Authenticate resolves a bearer token to its live session.
func (uc *SessionUseCase) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	sessionID, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}
	session, err := uc.repo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.Unauthorized("Session has ended", nil)
		}
		return nil, err
	}
	return session, nil
}

// Count returns the number of open sessions.
func (uc *SessionUseCase) Count(ctx context.Context) (int64, error) {
	_, total, err := uc.repo.List(ctx, 1, 0)
	return total, err
}

// CloseAll disconnects every session, used on shutdown.
func (uc *SessionUseCase) CloseAll(ctx context.Context) {
	uc.mu.RLock()
	ids := make([]string, 0, len(uc.live))
	for id := range uc.live {
		ids = append(ids, id)
	}
	uc.mu.RUnlock()

	for _, id := range ids {
		if err := uc.Disconnect(ctx, id); err != nil && !errors.Is(err, errors.CodeNotFound) {
			uc.log.Warn("close session", "session", id, "error", err)
		}
	}
}
