// Package reminder pings learners when review work is waiting. An hourly
// job matches each learner's preferred notification hour and sends a nudge
// through whatever Notifier is plugged in.
package reminder

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/xxivani/langcat/pkg/models"
)

// Default quiet-hours window: no reminders before 8:00 or after 22:00.
const (
	DefaultStartHour = 8
	DefaultEndHour   = 22
)

// Notifier delivers one reminder. The Telegram bot implements it; Nop
// stands in when no bot is configured.
type Notifier interface {
	SendReminder(chatID int64, dueCount int) error
}

// Nop swallows reminders.
type Nop struct{}

func (Nop) SendReminder(int64, int) error { return nil }

// LearnerSource lists the learners who opted into reminders.
type LearnerSource interface {
	GetNotifiable(ctx context.Context) ([]models.Learner, error)
}

// DueCounter reports how much work a learner has right now.
type DueCounter interface {
	Summary(ctx context.Context, learnerID string, now time.Time) (*models.LearnerSummary, error)
}

// Window is the daily span during which reminders may go out. Hours are
// inclusive on both ends, local to the scheduler's clock.
type Window struct {
	StartHour int
	EndHour   int
}

func (w Window) withDefaults() Window {
	if w.StartHour == 0 && w.EndHour == 0 {
		return Window{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
	}
	return w
}

// Contains reports whether reminders may be sent at the given hour.
func (w Window) Contains(hour int) bool {
	return hour >= w.StartHour && hour <= w.EndHour
}

// Service owns the hourly reminder job.
type Service struct {
	scheduler *gocron.Scheduler
	learners  LearnerSource
	counter   DueCounter
	notifier  Notifier
	window    Window
	logger    *zap.Logger
	now       func() time.Time
}

func New(learners LearnerSource, counter DueCounter, notifier Notifier, window Window, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scheduler: gocron.NewScheduler(time.UTC),
		learners:  learners,
		counter:   counter,
		notifier:  notifier,
		window:    window.withDefaults(),
		logger:    logger,
		now:       time.Now,
	}
}

// Start schedules the hourly check and returns immediately.
func (s *Service) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndNotify)
	s.scheduler.StartAsync()
	s.logger.Info("reminder scheduler started",
		zap.Int("window_start", s.window.StartHour),
		zap.Int("window_end", s.window.EndHour))
}

// Stop terminates the scheduled job.
func (s *Service) Stop() {
	s.scheduler.Stop()
	s.logger.Info("reminder scheduler stopped")
}

// checkAndNotify pings every opted-in learner whose notification hour is
// now and who has due cards. One learner's failure never blocks the rest.
func (s *Service) checkAndNotify() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := s.now()
	hour := now.Hour()
	if !s.window.Contains(hour) {
		s.logger.Debug("outside reminder window", zap.Int("hour", hour))
		return
	}

	learners, err := s.learners.GetNotifiable(ctx)
	if err != nil {
		s.logger.Error("list notifiable learners", zap.Error(err))
		return
	}

	for _, learner := range learners {
		if learner.NotificationHour != hour {
			continue
		}
		due, err := s.dueCount(ctx, learner.ID, now)
		if err != nil {
			s.logger.Error("count due cards",
				zap.String("learner_id", learner.ID), zap.Error(err))
			continue
		}
		if due == 0 {
			continue
		}
		if err := s.notifier.SendReminder(learner.ChatID, due); err != nil {
			s.logger.Error("send reminder",
				zap.String("learner_id", learner.ID),
				zap.Int64("chat_id", learner.ChatID),
				zap.Error(err))
			continue
		}
		s.logger.Info("reminder sent",
			zap.String("learner_id", learner.ID),
			zap.Int("due", due))
	}
}

// RunManualCheck sends a reminder to one learner right away when they have
// due cards, ignoring hour preferences and the quiet window.
func (s *Service) RunManualCheck(ctx context.Context, learner models.Learner) error {
	due, err := s.dueCount(ctx, learner.ID, s.now())
	if err != nil {
		return err
	}
	if due == 0 {
		return nil
	}
	return s.notifier.SendReminder(learner.ChatID, due)
}

func (s *Service) dueCount(ctx context.Context, learnerID string, now time.Time) (int, error) {
	summary, err := s.counter.Summary(ctx, learnerID, now)
	if err != nil {
		return 0, err
	}
	return summary.DueNow, nil
}
