package database_test

import (
	"context"
	"math/rand"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/valeriaulyamaeva/neofin/internal/database"
)

var (
	migrateOnce sync.Once
	migrateErr  error
)

// testTx connects to DATABASE_URL and returns a transaction that is rolled
// back when the test finishes. Without DATABASE_URL the test is skipped.
func testTx(t *testing.T) (context.Context, pgx.Tx) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL не задан, интеграционный тест пропущен")
	}

	ctx := context.Background()
	pool, err := database.ConnectDB(ctx, url)
	if err != nil {
		t.Fatalf("ошибка подключения к БД: %v", err)
	}
	t.Cleanup(pool.Close)

	migrateOnce.Do(func() { migrateErr = database.Migrate(ctx, pool) })
	if migrateErr != nil {
		t.Fatalf("ошибка миграции: %v", migrateErr)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("ошибка начала транзакции: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	return ctx, tx
}

// testUser returns a user id unlikely to collide with seeded data.
func testUser() int {
	return 1_000_000 + rand.Intn(1_000_000_000)
}
