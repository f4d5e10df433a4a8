// Package scheduler runs the periodic maintenance jobs: alert scans,
// payment reminders, archival and budget renewal.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/neofin/internal/insights"
	"github.com/valeriaulyamaeva/neofin/internal/notify"
	"github.com/valeriaulyamaeva/neofin/models"
)

const (
	activityWindow = 30 * 24 * time.Hour
	historyMonths  = 13
	jobTimeout     = 10 * time.Minute
)

type Notifier interface {
	Send(ctx context.Context, n *models.Notification) error
}

type Options struct {
	ArchiveAfterMonths int
}

type Scheduler struct {
	cron     *cron.Cron
	store    Store
	notifier Notifier
	opts     Options
	log      zerolog.Logger
	now      func() time.Time
}

func New(store Store, notifier Notifier, opts Options, log zerolog.Logger) *Scheduler {
	if opts.ArchiveAfterMonths <= 0 {
		opts.ArchiveAfterMonths = 24
	}
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		store:    store,
		notifier: notifier,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// Start registers the jobs and starts the cron loop. Jobs stop picking up
// new runs once ctx is cancelled; Stop waits for running ones.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		spec string
		name string
		run  func(context.Context) error
	}{
		{"@hourly", "alert_scan", s.scanAll},
		{"0 8 * * *", "payment_reminders", s.DispatchReminders},
		{"30 2 * * *", "archive_transactions", s.ArchiveTransactions},
		{"5 0 * * *", "renew_budgets", s.RenewBudgets},
	}
	for _, j := range jobs {
		j := j
		if _, err := s.cron.AddFunc(j.spec, func() { s.runJob(ctx, j.name, j.run) }); err != nil {
			return fmt.Errorf("ошибка добавления задачи %s в cron: %w", j.name, err)
		}
	}
	s.cron.Start()
	s.log.Info().Int("jobs", len(jobs)).Msg("Scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runJob(ctx context.Context, name string, run func(context.Context) error) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	if err := run(ctx); err != nil {
		s.log.Error().Err(err).Str("job", name).Msg("Scheduled job failed")
		return
	}
	s.log.Info().Str("job", name).Dur("took", time.Since(start)).Msg("Scheduled job finished")
}

func (s *Scheduler) scanAll(ctx context.Context) error {
	users, err := s.store.ActiveUserIDs(ctx, s.now().Add(-activityWindow))
	if err != nil {
		return err
	}
	var failed int
	for _, userID := range users {
		if _, err := s.ScanUser(ctx, userID); err != nil {
			failed++
			s.log.Error().Err(err).Int("user_id", userID).Msg("Alert scan failed")
		}
	}
	if failed > 0 {
		return fmt.Errorf("alert scan failed for %d of %d users", failed, len(users))
	}
	return nil
}

// ScanUser evaluates the alert rules for one user, stores alerts that are
// new and notifies about them. It returns the new alerts.
func (s *Scheduler) ScanUser(ctx context.Context, userID int) ([]models.Alert, error) {
	now := s.now()

	settings, err := s.store.GetUserSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	budgets, err := s.store.GetBudgetStatuses(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.GetTransactions(ctx, userID, now.AddDate(0, -historyMonths, 0))
	if err != nil {
		return nil, err
	}
	accounts, err := s.store.GetAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := insights.GenerateAlerts(insights.AlertInput{
		UserID:              userID,
		Now:                 now,
		Budgets:             budgets,
		Transactions:        txns,
		Accounts:            accounts,
		LowBalanceThreshold: settings.LowBalanceThreshold,
	})

	var created []models.Alert
	for i := range candidates {
		alert := &candidates[i]
		inserted, err := s.store.InsertAlert(ctx, alert)
		if err != nil {
			return created, err
		}
		if !inserted {
			continue
		}
		created = append(created, *alert)
		s.notifyAlert(ctx, alert)
	}
	return created, nil
}

func (s *Scheduler) notifyAlert(ctx context.Context, alert *models.Alert) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Send(ctx, &models.Notification{
		UserID:  alert.UserID,
		Type:    alert.Kind,
		Title:   alert.Title,
		Message: alert.Message,
	})
	switch {
	case err == nil:
	case errors.Is(err, notify.ErrThrottled), errors.Is(err, notify.ErrMuted):
		s.log.Debug().Err(err).Int("user_id", alert.UserID).Str("kind", alert.Kind).Msg("Alert notification skipped")
	default:
		s.log.Warn().Err(err).Int("user_id", alert.UserID).Msg("Alert notification failed")
	}
}

// DispatchReminders notifies about payments due within a day. Throttled
// reminders stay pending for the next run.
func (s *Scheduler) DispatchReminders(ctx context.Context) error {
	reminders, err := s.store.GetDueReminders(ctx, s.now().Add(24*time.Hour))
	if err != nil {
		return err
	}
	for _, r := range reminders {
		n := &models.Notification{
			UserID:  r.UserID,
			Type:    "payment_reminder",
			Title:   "Напоминание о платеже",
			Message: fmt.Sprintf("%s: %s до %s", r.Description, r.Amount.StringFixed(2), r.DueDate.Format("02.01.2006")),
		}
		if s.notifier != nil {
			if err := s.notifier.Send(ctx, n); err != nil && !errors.Is(err, notify.ErrMuted) {
				s.log.Warn().Err(err).Int("reminder_id", r.ID).Msg("Reminder not sent")
				continue
			}
		}
		if err := s.store.MarkReminderNotified(ctx, r.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) ArchiveTransactions(ctx context.Context) error {
	cutoff := s.now().AddDate(0, -s.opts.ArchiveAfterMonths, 0)
	moved, err := s.store.ArchiveTransactions(ctx, cutoff)
	if err != nil {
		return err
	}
	s.log.Info().Int64("moved", moved).Time("cutoff", cutoff).Msg("Transactions archived")
	return nil
}

func (s *Scheduler) RenewBudgets(ctx context.Context) error {
	renewed, err := s.store.RenewBudgets(ctx, s.now())
	if err != nil {
		return err
	}
	s.log.Info().Int("renewed", renewed).Msg("Expired budgets renewed")
	return nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
