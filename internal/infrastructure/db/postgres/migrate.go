package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed migrations
var migrationFS embed.FS

// Migration sets, one per database.
const (
	AuthMigrations = "migrations/auth"
	UserMigrations = "migrations/user"
)

// advisory lock key serializing concurrent migrators on one database.
const migrateLockKey = 727_411_001

type migrationFile struct {
	version int
	name    string
	path    string
}

// Migrate applies every pending NNNNNN_name.up.sql file in dir, in version
// order, each inside its own transaction. Applied versions are tracked per
// migration set in schema_migrations, so the auth and user sets may share a
// database.
func Migrate(ctx context.Context, pool *pgxpool.Pool, dir string, log zerolog.Logger) error {
	return migrate(ctx, pool, migrationFS, dir, log)
}

func migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string, log zerolog.Logger) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("migrate: acquire conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrateLockKey); err != nil {
		return fmt.Errorf("migrate: lock: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, migrateLockKey)
	}()

	if _, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			set_name   TEXT        NOT NULL,
			version    INTEGER     NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (set_name, version)
		)`); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	set := path.Base(dir)
	applied, err := appliedVersions(ctx, conn.Conn(), set)
	if err != nil {
		return fmt.Errorf("migrate: applied versions: %w", err)
	}

	files, err := collectMigrations(fsys, dir)
	if err != nil {
		return fmt.Errorf("migrate: collect %s: %w", dir, err)
	}

	for _, m := range files {
		if applied[m.version] {
			continue
		}
		if err := applyMigration(ctx, conn.Conn(), fsys, set, m); err != nil {
			return fmt.Errorf("migrate: %06d_%s: %w", m.version, m.name, err)
		}
		log.Info().Str("set", set).Int("version", m.version).Str("name", m.name).Msg("migration applied")
	}
	return nil
}

func appliedVersions(ctx context.Context, conn *pgx.Conn, set string) (map[int]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations WHERE set_name = $1`, set)
	if err != nil {
		return nil, err
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int32])
	if err != nil {
		return nil, err
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[int(v)] = true
	}
	return applied, nil
}

func collectMigrations(fsys fs.FS, dir string) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var files []migrationFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		prefix, rest, ok := strings.Cut(entry.Name(), "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		files = append(files, migrationFile{
			version: version,
			name:    strings.TrimSuffix(rest, ".up.sql"),
			path:    dir + "/" + entry.Name(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, nil
}

func applyMigration(ctx context.Context, conn *pgx.Conn, fsys fs.FS, set string, m migrationFile) error {
	content, err := fs.ReadFile(fsys, m.path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (set_name, version) VALUES ($1, $2)`, set, m.version); err != nil {
		return fmt.Errorf("record version: %w", err)
	}
	return tx.Commit(ctx)
}
