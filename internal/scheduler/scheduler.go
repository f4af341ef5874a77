// Package scheduler sends hourly drill reminders.
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/mintin/pkg/models"
)

// ChatSource lists the chats that asked for a reminder at a given hour
type ChatSource interface {
	ListForNotification(hour int) ([]models.Chat, error)
}

// PendingCounter reports how many entries of a chat are still in the failed pool
type PendingCounter interface {
	Pending(chat models.Chat) (int, error)
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminder(chatID int64, pending int) error
}

// Window is the inclusive range of UTC hours in which reminders are sent
type Window struct {
	StartHour int
	EndHour   int
}

// Contains reports whether hour lies in the window
func (w Window) Contains(hour int) bool {
	return hour >= w.StartHour && hour <= w.EndHour
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	chats     ChatSource
	counter   PendingCounter
	notifier  Notifier
	window    Window
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a new scheduler instance
func New(chats ChatSource, counter PendingCounter, notifier Notifier, window Window, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		chats:     chats,
		counter:   counter,
		notifier:  notifier,
		window:    window,
		logger:    logger.Named("scheduler"),
		now:       time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	// Hourly check for chats that need a reminder
	if _, err := s.scheduler.Every(1).Hour().StartAt(nextHour(s.now())).Do(s.checkAndSendReminders); err != nil {
		return errors.Wrap(err, "failed to schedule reminders")
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) checkAndSendReminders() {
	if _, err := s.RunCheck(s.now().UTC().Hour()); err != nil {
		s.logger.Error("reminder check failed", zap.Error(err))
	}
}

// RunCheck sends reminders to every chat scheduled at hour that has pending
// entries. It returns the number of reminders sent.
func (s *Scheduler) RunCheck(hour int) (int, error) {
	if !s.window.Contains(hour) {
		s.logger.Debug("outside notification hours, skipping reminders",
			zap.Int("hour", hour),
			zap.Int("start", s.window.StartHour),
			zap.Int("end", s.window.EndHour),
		)
		return 0, nil
	}

	chats, err := s.chats.ListForNotification(hour)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get chats for notification")
	}

	sent := 0
	for _, chat := range chats {
		pending, err := s.counter.Pending(chat)
		if err != nil {
			s.logger.Warn("failed to count pending entries", zap.Int64("chat_id", chat.ChatID), zap.Error(err))
			continue
		}
		if pending == 0 {
			continue
		}
		if err := s.notifier.SendReminder(chat.ChatID, pending); err != nil {
			s.logger.Warn("failed to send reminder", zap.Int64("chat_id", chat.ChatID), zap.Error(err))
			continue
		}
		sent++
	}
	s.logger.Info("reminders sent", zap.Int("hour", hour), zap.Int("sent", sent))
	return sent, nil
}

func nextHour(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour).Add(time.Hour)
}
