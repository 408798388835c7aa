// Package testutil opens throwaway databases for repository and queue
// tests. TEST_POSTGRES_DSN selects a real postgres instance; without
// it tests run on an in-memory sqlite database, which is why the data
// layer avoids dialect-specific SQL.
package testutil

import (
	"context"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ncwatch/ncwatch-backend/internal/data/db"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/dbctx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

func Logger() *logger.Logger {
	return logger.NewNop()
}

// DB returns a migrated database for one test. Each sqlite call gets
// its own private in-memory instance, so tests never see each other's
// rows.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}

	var (
		gdb *gorm.DB
		err error
	)
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		gdb, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		gdb, err = gorm.Open(sqlite.Open("file::memory:?cache=private"), cfg)
	}
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

// Ctx wraps a bare context for repos that do not need a transaction.
func Ctx() dbctx.Context {
	return dbctx.New(context.Background())
}

func Tx(t *testing.T, gdb *gorm.DB) dbctx.Context {
	t.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() { tx.Rollback() })
	return dbctx.WithTx(context.Background(), tx)
}
