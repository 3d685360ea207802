package services

import (
	"context"
	"time"

	"psymap-go/internal/config"
	"psymap-go/internal/models"
	"psymap-go/internal/repository"

	"go.uber.org/zap"
)

// Scheduler periodically sweeps idle assessment sessions: stale ones are
// marked abandoned, ancient ones expired, and recently stalled ones trigger
// a reminder email. Demo sessions live in memory and are never swept.
type Scheduler struct {
	log          *zap.Logger
	sessions     repository.SessionStore
	users        *repository.GormUserStore
	emailService *EmailService

	// remindedSessions tracks which sessions already got a reminder so a
	// user is nudged at most once per session.
	remindedSessions map[string]bool
}

func NewScheduler(log *zap.Logger, sessions repository.SessionStore, users *repository.GormUserStore, emailService *EmailService) *Scheduler {
	return &Scheduler{
		log:              log,
		sessions:         sessions,
		users:            users,
		emailService:     emailService,
		remindedSessions: make(map[string]bool),
	}
}

// Start runs the scheduler in a goroutine until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("Starting session maintenance scheduler...",
		zap.Duration("interval", config.Conf.Assessment.MaintenanceInterval))
	go func() {
		ticker := time.NewTicker(config.Conf.Assessment.MaintenanceInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Info("Stopping session maintenance scheduler")
				return
			case <-ticker.C:
				s.runMaintenance(ctx)
			}
		}
	}()
}

func (s *Scheduler) runMaintenance(ctx context.Context) {
	now := time.Now().UTC()
	cfg := config.Conf.Assessment

	idle, err := s.sessions.ListIdle(ctx, now.Add(-cfg.ReminderAfter))
	if err != nil {
		s.log.Error("Failed to list idle sessions", zap.Error(err))
		return
	}
	s.log.Debug("Running session maintenance", zap.Int("idle", len(idle)))

	for _, session := range idle {
		idleFor := now.Sub(session.LastActivityAt)
		switch {
		case idleFor >= cfg.ExpireAfter:
			s.transition(ctx, session, models.StatusExpired)
		case idleFor >= cfg.AbandonAfter:
			s.transition(ctx, session, models.StatusAbandoned)
		default:
			s.maybeRemind(ctx, session)
		}
	}
}

func (s *Scheduler) transition(ctx context.Context, session models.AssessmentSession, status models.SessionStatus) {
	if err := s.sessions.SetStatus(ctx, session.ID, status); err != nil {
		s.log.Error("Failed to update idle session",
			zap.String("sessionID", session.ID),
			zap.String("status", string(status)),
			zap.Error(err))
		return
	}
	delete(s.remindedSessions, session.ID)
	s.log.Info("Idle session updated",
		zap.String("sessionID", session.ID),
		zap.String("status", string(status)))
}

func (s *Scheduler) maybeRemind(ctx context.Context, session models.AssessmentSession) {
	if s.remindedSessions[session.ID] {
		return
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		s.log.Error("Failed to load user for reminder",
			zap.String("sessionID", session.ID), zap.Error(err))
		return
	}
	if !user.EmailNotificationsEnabled {
		return
	}

	s.remindedSessions[session.ID] = true
	go s.emailService.SendReminderEmail(*user, session)
}
