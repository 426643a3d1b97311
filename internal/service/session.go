// Package service holds the orchestration layer: sessions, generation
// operations and history.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/metrics"
)

// allOperations fixes the order in which in-flight flags are reported.
var allOperations = []model.Operation{
	model.OpGenerate,
	model.OpRefine,
	model.OpRegenerateTopic,
	model.OpRegenerateHookImg,
	model.OpRegenerateBodyImg,
	model.OpRegenerateHook,
	model.OpRegenerateBody,
}

// session is the explicit state of one user's working area.
type session struct {
	id        string
	owner     string
	config    model.Configuration
	thread    *model.Thread
	images    model.ThreadImages
	inFlight  map[model.Operation]bool
	bodySlot  *int
	lastError string
	historyID string
	createdAt time.Time
	updatedAt time.Time
}

func (s *session) view() *model.SessionView {
	v := &model.SessionView{
		ID:            s.id,
		Configuration: s.config,
		Thread:        s.thread.Clone(),
		Images:        s.images.Clone(),
		InFlight:      []model.Operation{},
		Error:         s.lastError,
		HistoryID:     s.historyID,
		CreatedAt:     s.createdAt,
		UpdatedAt:     s.updatedAt,
	}
	for _, op := range allOperations {
		if s.inFlight[op] {
			v.InFlight = append(v.InFlight, op)
		}
	}
	if s.bodySlot != nil {
		slot := *s.bodySlot
		v.BodyImageSlot = &slot
	}
	return v
}

// snapshot is the state an operation works from, copied when it starts.
type snapshot struct {
	id     string
	owner  string
	config model.Configuration
	thread *model.Thread
	images model.ThreadImages
}

// SessionService owns all sessions. State changes happen under its lock;
// gateway calls never do.
type SessionService struct {
	logger *logger.Logger
	now    func() time.Time

	sessions map[string]*session
	mu       sync.RWMutex
}

// NewSessionService creates a new session service.
func NewSessionService(log *logger.Logger) *SessionService {
	return &SessionService{
		logger:   log,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Create opens a session for owner. A nil cfg starts from the defaults.
func (s *SessionService) Create(ctx context.Context, owner string, cfg *model.Configuration) (*model.SessionView, error) {
	config := model.DefaultConfiguration()
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		config = *cfg
	}

	now := s.now()
	sess := &session{
		id:        uuid.Must(uuid.NewV7()).String(),
		owner:     owner,
		config:    config,
		inFlight:  make(map[model.Operation]bool),
		createdAt: now,
		updatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	metrics.SessionsActive.Inc()

	s.logger.Info("session created",
		zap.String("session_id", sess.id),
		zap.String("owner", owner),
	)

	return sess.view(), nil
}

// Get returns the view of a session.
func (s *SessionService) Get(ctx context.Context, owner, id string) (*model.SessionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(owner, id)
	if err != nil {
		return nil, err
	}
	return sess.view(), nil
}

// Delete discards a session. Operations still running on it finish without
// effect.
func (s *SessionService) Delete(ctx context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(owner, id); err != nil {
		return err
	}
	delete(s.sessions, id)
	metrics.SessionsActive.Dec()
	return nil
}

// UpdateConfiguration replaces the session's form state.
func (s *SessionService) UpdateConfiguration(ctx context.Context, owner, id string, cfg model.Configuration) (*model.SessionView, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(owner, id)
	if err != nil {
		return nil, err
	}
	sess.config = cfg
	sess.updatedAt = s.now()
	return sess.view(), nil
}

// load replaces the session's configuration, thread and images wholesale.
func (s *SessionService) load(owner, id string, item model.HistoryItem) (*model.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(owner, id)
	if err != nil {
		return nil, err
	}
	thread := item.Thread
	sess.config = item.Configuration
	sess.thread = thread.Clone()
	sess.images = item.Images.Clone()
	sess.historyID = item.ID
	sess.lastError = ""
	sess.updatedAt = s.now()
	return sess.view(), nil
}

func (s *SessionService) lookup(owner, id string) (*session, error) {
	sess, ok := s.sessions[id]
	if !ok || sess.owner != owner {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// begin starts op on a session: it rejects a second run of the same
// operation, sets the in-flight flag and clears the last error. prepare, when
// set, runs under the lock before the snapshot is taken and may reject the
// operation or adjust the state it starts from.
func (s *SessionService) begin(owner, id string, op model.Operation, prepare func(*session) error) (*snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(owner, id)
	if err != nil {
		return nil, err
	}
	if sess.inFlight[op] {
		return nil, fmt.Errorf("%w: %s", ErrOperationInFlight, op)
	}
	if prepare != nil {
		if err := prepare(sess); err != nil {
			return nil, err
		}
	}

	sess.inFlight[op] = true
	sess.lastError = ""
	sess.updatedAt = s.now()

	return &snapshot{
		id:     sess.id,
		owner:  sess.owner,
		config: sess.config,
		thread: sess.thread.Clone(),
		images: sess.images.Clone(),
	}, nil
}

// finish ends op. On success apply runs under the lock; on failure the
// described error is stored and the state is left as it was.
func (s *SessionService) finish(owner, id string, op model.Operation, opErr error, apply func(*session)) *model.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(owner, id)
	if err != nil {
		return nil
	}

	if opErr != nil {
		sess.lastError = Describe(opErr)
	} else if apply != nil {
		apply(sess)
	}
	delete(sess.inFlight, op)
	if op == model.OpRegenerateBodyImg {
		sess.bodySlot = nil
	}
	sess.updatedAt = s.now()
	return sess.view()
}
