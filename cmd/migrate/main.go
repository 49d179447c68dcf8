package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Applies migrations/*.sql in lexical order, tracking what already ran
// in schema_migrations. Settings come from migrate.yaml when present,
// env otherwise.
func main() {
	viper.SetConfigName("migrate")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetDefault("dir", "migrations")
	_ = viper.BindEnv("dsn", "DATABASE_DSN")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fatal(errors.Wrap(err, "read migrate.yaml"))
		}
	}

	dsn := viper.GetString("dsn")
	if dsn == "" {
		fatal(errors.New("dsn is required (migrate.yaml or DATABASE_DSN)"))
	}

	if err := run(context.Background(), dsn, viper.GetString("dir")); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, dsn, dir string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	defer func() { _ = conn.Close(ctx) }()

	_, err = conn.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			name text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return errors.Wrap(err, "ensure schema_migrations")
	}

	files, err := listMigrations(dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		name := filepath.Base(file)

		var done bool
		err = conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&done)
		if err != nil {
			return errors.Wrap(err, "check "+name)
		}
		if done {
			continue
		}

		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrap(err, "read "+name)
		}

		tx, err := conn.Begin(ctx)
		if err != nil {
			return errors.Wrap(err, "begin "+name)
		}
		if _, err = tx.Exec(ctx, string(sqlBytes)); err != nil {
			_ = tx.Rollback(ctx)
			return errors.Wrap(err, "apply "+name)
		}
		if _, err = tx.Exec(ctx,
			`INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback(ctx)
			return errors.Wrap(err, "record "+name)
		}
		if err = tx.Commit(ctx); err != nil {
			return errors.Wrap(err, "commit "+name)
		}

		fmt.Println("applied", name)
	}
	return nil
}

func listMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations dir")
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
