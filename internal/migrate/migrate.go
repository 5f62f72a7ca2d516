// Package migrate applies the SQL files of the migrations directory in order.
package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DropAllFile は全テーブルを削除する SQL のファイル名
const DropAllFile = "000_drop_all.sql"

// UpFiles は .up.sql ファイル名をソート済みで返す
func UpFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func ensureSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	return err
}

// Up は未適用のマイグレーションを順番に適用し、適用した件数を返す
func Up(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) (int, error) {
	if err := ensureSchemaMigrations(ctx, pool); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}
	upFiles, err := UpFiles(fsys)
	if err != nil {
		return 0, err
	}

	applied := 0
	for i, filename := range upFiles {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		if err := pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", name, err)
		}
		if exists {
			continue
		}

		sql, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return applied, fmt.Errorf("migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			return applied, fmt.Errorf("record migration %s: %w", name, err)
		}
		applied++
		slog.Info("migration completed", "number", i+1, "migration", name)
	}
	return applied, nil
}

// DropAll は 000_drop_all.sql を実行する
func DropAll(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) error {
	sql, err := fs.ReadFile(fsys, DropAllFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", DropAllFile, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("drop all: %w", err)
	}
	return nil
}
