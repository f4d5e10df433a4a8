package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/neofin/internal/database"
)

type fakeRow struct{ err error }

func (r fakeRow) Scan(dest ...any) error { return r.err }

// ownedDB answers lookups by table from owned and records inserts. Other
// Querier methods are not expected to be called.
type ownedDB struct {
	database.Querier
	owned   map[string]map[int]int // table -> id -> owner
	inserts []string
}

func (db *ownedDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if strings.Contains(sql, "INSERT INTO") {
		db.inserts = append(db.inserts, sql)
		return fakeRow{}
	}
	for _, table := range []string{"accounts", "cards", "contacts", "categories"} {
		if strings.Contains(sql, "FROM "+table) {
			id, userID := args[0].(int), args[1].(int)
			if owner, ok := db.owned[table][id]; ok && owner == userID {
				return fakeRow{}
			}
			return fakeRow{err: pgx.ErrNoRows}
		}
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func newOwnedDB() *ownedDB {
	return &ownedDB{owned: map[string]map[int]int{
		"accounts":   {1: 7, 2: 8},
		"cards":      {10: 7, 20: 8},
		"contacts":   {100: 7, 200: 8},
		"categories": {5: 7, 6: 8},
	}}
}

func TestCreateTransactionHandlerChecksOwnership(t *testing.T) {
	tests := map[string]struct {
		body string
		want int
	}{
		"own refs":         {`{"account_id": 1, "card_id": 10, "contact_id": 100, "category_id": 5, "amount": "5", "type": "expense", "date": "2026-09-01T00:00:00Z"}`, http.StatusCreated},
		"no refs":          {`{"amount": "5", "type": "expense", "date": "2026-09-01T00:00:00Z"}`, http.StatusCreated},
		"foreign account":  {`{"account_id": 2, "amount": "5", "type": "expense", "date": "2026-09-01T00:00:00Z"}`, http.StatusNotFound},
		"foreign card":     {`{"account_id": 1, "card_id": 20, "amount": "5", "type": "expense", "date": "2026-09-01T00:00:00Z"}`, http.StatusNotFound},
		"foreign contact":  {`{"contact_id": 200, "amount": "5", "type": "expense", "date": "2026-09-01T00:00:00Z"}`, http.StatusNotFound},
		"foreign category": {`{"category_id": 6, "amount": "5", "type": "expense", "date": "2026-09-01T00:00:00Z"}`, http.StatusNotFound},
		"missing account":  {`{"account_id": 999, "amount": "5", "type": "expense", "date": "2026-09-01T00:00:00Z"}`, http.StatusNotFound},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db := newOwnedDB()
			r := newRouter(http.MethodPost, "/transactions", CreateTransactionHandler(db))

			rr := do(r, http.MethodPost, "/transactions", tt.body, 7)
			if rr.Code != tt.want {
				t.Fatalf("code = %d, want %d, body = %s", rr.Code, tt.want, rr.Body.String())
			}
			if tt.want == http.StatusNotFound && len(db.inserts) != 0 {
				t.Errorf("transaction inserted despite foreign reference")
			}
		})
	}
}

func TestUpdateTransactionHandlerRejectsForeignAccount(t *testing.T) {
	db := newOwnedDB()
	r := newRouter(http.MethodPut, "/transactions/:id", UpdateTransactionHandler(db))

	rr := do(r, http.MethodPut, "/transactions/3", `{"account_id": 2, "amount": "5", "type": "income", "date": "2026-09-01T00:00:00Z"}`, 7)
	if rr.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rr.Code)
	}
}

func TestCardHandlersCheckAccountOwnership(t *testing.T) {
	db := newOwnedDB()
	create := newRouter(http.MethodPost, "/cards", CreateCardHandler(db))

	rr := do(create, http.MethodPost, "/cards", `{"account_id": 2, "name": "Visa", "last4": "1234", "closing_day": 1, "due_day": 20}`, 7)
	if rr.Code != http.StatusNotFound {
		t.Errorf("foreign account: code = %d, want 404", rr.Code)
	}
	if len(db.inserts) != 0 {
		t.Error("card inserted on a foreign account")
	}

	rr = do(create, http.MethodPost, "/cards", `{"account_id": 1, "name": "Visa", "last4": "1234", "closing_day": 1, "due_day": 20}`, 7)
	if rr.Code != http.StatusCreated {
		t.Errorf("own account: code = %d, body = %s", rr.Code, rr.Body.String())
	}

	update := newRouter(http.MethodPut, "/cards/:id", UpdateCardHandler(db))
	rr = do(update, http.MethodPut, "/cards/10", `{"account_id": 2, "name": "Visa", "last4": "1234", "closing_day": 1, "due_day": 20}`, 7)
	if rr.Code != http.StatusNotFound {
		t.Errorf("update onto foreign account: code = %d, want 404", rr.Code)
	}
}

func TestBudgetHandlersCheckCategoryOwnership(t *testing.T) {
	db := newOwnedDB()
	create := newRouter(http.MethodPost, "/budgets", CreateBudgetHandler(db))
	body := `{"category_id": %s, "amount": "100", "period": "monthly", "start_date": "2026-09-01T00:00:00Z", "end_date": "2026-09-30T00:00:00Z"}`

	rr := do(create, http.MethodPost, "/budgets", strings.Replace(body, "%s", "6", 1), 7)
	if rr.Code != http.StatusNotFound {
		t.Errorf("foreign category: code = %d, want 404", rr.Code)
	}
	if len(db.inserts) != 0 {
		t.Error("budget inserted on a foreign category")
	}

	rr = do(create, http.MethodPost, "/budgets", strings.Replace(body, "%s", "5", 1), 7)
	if rr.Code != http.StatusCreated {
		t.Errorf("own category: code = %d, body = %s", rr.Code, rr.Body.String())
	}

	update := newRouter(http.MethodPut, "/budgets/:id", UpdateBudgetHandler(db))
	rr = do(update, http.MethodPut, "/budgets/1", strings.Replace(body, "%s", "6", 1), 7)
	if rr.Code != http.StatusNotFound {
		t.Errorf("update onto foreign category: code = %d, want 404", rr.Code)
	}
}
