// Package importer turns parsed bank statement lines into transactions.
package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/neofin/internal/jobs"
	"github.com/valeriaulyamaeva/neofin/models"
)

// Line is one already-parsed statement entry. Negative amounts are expenses.
type Line struct {
	ExternalID  string          `json:"external_id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type Request struct {
	UserID    int    `json:"-"`
	AccountID int    `json:"account_id" binding:"required"`
	Lines     []Line `json:"lines" binding:"required,min=1,dive"`
}

type Result struct {
	Total       int `json:"total"`
	Imported    int `json:"imported"`
	Duplicates  int `json:"duplicates"`
	Invalid     int `json:"invalid"`
	Categorized int `json:"categorized"`
}

type Store interface {
	GetAccount(ctx context.Context, userID, accountID int) (*models.Account, error)
	GetCategories(ctx context.Context, userID int) ([]models.Category, error)
	ExistingExternalIDs(ctx context.Context, userID, accountID int, ids []string) (map[string]bool, error)
	InsertTransactions(ctx context.Context, txns []models.Transaction) (int, error)
}

type Notifier interface {
	Send(ctx context.Context, n *models.Notification) error
}

type Importer struct {
	store    Store
	notifier Notifier
	log      zerolog.Logger
}

func New(store Store, notifier Notifier, log zerolog.Logger) *Importer {
	return &Importer{store: store, notifier: notifier, log: log}
}

// Import stores the new lines of req in one batch and notifies the user
// with a summary. Lines whose external ID is already known are skipped,
// so re-running an import is safe.
func (im *Importer) Import(ctx context.Context, req Request) (*Result, error) {
	account, err := im.store.GetAccount(ctx, req.UserID, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	categories, err := im.store.GetCategories(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("category lookup: %w", err)
	}

	ids := make([]string, 0, len(req.Lines))
	for _, l := range req.Lines {
		if l.ExternalID != "" {
			ids = append(ids, l.ExternalID)
		}
	}
	existing, err := im.store.ExistingExternalIDs(ctx, req.UserID, req.AccountID, ids)
	if err != nil {
		return nil, fmt.Errorf("dedupe: %w", err)
	}

	result := &Result{Total: len(req.Lines)}
	categorizer := NewCategorizer(categories)
	seen := make(map[string]bool)
	var batch []models.Transaction

	for _, l := range req.Lines {
		extID := strings.TrimSpace(l.ExternalID)
		if extID == "" || l.Amount.IsZero() || l.Date.IsZero() {
			result.Invalid++
			continue
		}
		if existing[extID] || seen[extID] {
			result.Duplicates++
			continue
		}
		seen[extID] = true

		txnType := models.TransactionIncome
		if l.Amount.IsNegative() {
			txnType = models.TransactionExpense
		}
		accountID := req.AccountID
		id := extID
		t := models.Transaction{
			UserID:      req.UserID,
			AccountID:   &accountID,
			Amount:      l.Amount.Abs(),
			Type:        txnType,
			Description: strings.TrimSpace(l.Description),
			Date:        l.Date,
			Currency:    account.Currency,
			ExternalID:  &id,
			CategoryID:  categorizer.Guess(l.Description, txnType),
		}
		if t.CategoryID != nil {
			result.Categorized++
		}
		batch = append(batch, t)
	}

	inserted, err := im.store.InsertTransactions(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	result.Imported = inserted
	// Rows that lost a race with a concurrent import.
	result.Duplicates += len(batch) - inserted

	im.log.Info().
		Int("user_id", req.UserID).
		Int("account_id", req.AccountID).
		Int("imported", result.Imported).
		Int("duplicates", result.Duplicates).
		Int("invalid", result.Invalid).
		Msg("Statement imported")

	if im.notifier != nil {
		n := &models.Notification{
			UserID:  req.UserID,
			Type:    "import",
			Title:   "Statement imported",
			Message: fmt.Sprintf("%d new transactions imported to %s, %d duplicates skipped", result.Imported, account.Name, result.Duplicates),
		}
		if err := im.notifier.Send(ctx, n); err != nil {
			im.log.Warn().Err(err).Int("user_id", req.UserID).Msg("Import summary not sent")
		}
	}
	return result, nil
}

// Handle runs an import job published to the job queue.
func (im *Importer) Handle(ctx context.Context, job *jobs.Job) (any, error) {
	req, ok := job.Payload.(Request)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", job.Payload)
	}
	req.UserID = job.UserID
	return im.Import(ctx, req)
}
