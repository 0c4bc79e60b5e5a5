// Package migration applies the versioned schema files shipped in
// /migrations. Applied versions are recorded in job_board_schema together
// with a checksum of the file, so an edited file is refused rather than
// silently skipped.
package migration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"job-board/internal/database"

	"go.uber.org/zap"
)

const (
	versionTable = "job_board_schema"

	// lockKey serializes concurrent starts; held per file for the
	// lifetime of its implicit transaction.
	lockKey int64 = 0x6a6f62 // "job"
)

const createVersionTable = `CREATE TABLE IF NOT EXISTS ` + versionTable + ` (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// File is one schema file named V<version>__<name>.sql.
type File struct {
	Version  int64
	Name     string
	SQL      string
	Checksum string
}

type Runner struct {
	db     database.DB
	logger *zap.Logger
}

func NewRunner(db database.DB, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{db: db, logger: logger}
}

// Apply runs every file in src whose version is not yet recorded and
// returns how many it applied. A file and its version row commit
// together; files must tolerate a rerun by a concurrently starting
// instance (CREATE ... IF NOT EXISTS).
func (r *Runner) Apply(ctx context.Context, src fs.FS) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("migration: nil db")
	}

	files, err := Load(src)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, nil
	}

	if _, err := r.db.Exec(ctx, createVersionTable); err != nil {
		return 0, fmt.Errorf("migration: create %s: %w", versionTable, err)
	}

	recorded, err := r.recorded(ctx)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, f := range files {
		if sum, ok := recorded[f.Version]; ok {
			if sum != f.Checksum {
				return applied, fmt.Errorf("migration: V%d__%s changed after it was applied", f.Version, f.Name)
			}
			continue
		}

		if _, err := r.db.Exec(ctx, applyScript(f)); err != nil {
			return applied, fmt.Errorf("migration: apply V%d__%s: %w", f.Version, f.Name, err)
		}
		r.logger.Info("schema version applied", zap.Int64("version", f.Version), zap.String("name", f.Name))
		applied++
	}
	return applied, nil
}

func (r *Runner) recorded(ctx context.Context) (map[int64]string, error) {
	rows, err := r.db.Query(ctx, `SELECT version, checksum FROM `+versionTable)
	if err != nil {
		return nil, fmt.Errorf("migration: read %s: %w", versionTable, err)
	}
	defer rows.Close()

	out := map[int64]string{}
	for rows.Next() {
		var v int64
		var sum string
		if err := rows.Scan(&v, &sum); err != nil {
			return nil, err
		}
		out[v] = sum
	}
	return out, rows.Err()
}

// applyScript bundles the lock, the file and its version row into one
// multi-statement query. Name and checksum are restricted to
// [A-Za-z0-9_.-] and hex, so inlining them is safe.
func applyScript(f File) string {
	body := strings.TrimRight(f.SQL, "; \n\t")
	return fmt.Sprintf(
		"SELECT pg_advisory_xact_lock(%d);\n%s\n;\nINSERT INTO %s (version, name, checksum) VALUES (%d, '%s', '%s') ON CONFLICT (version) DO NOTHING;",
		lockKey, body, versionTable, f.Version, f.Name, f.Checksum,
	)
}

// Load reads the schema files at the root of src in version order.
// Files that do not follow the naming pattern are ignored.
func Load(src fs.FS) ([]File, error) {
	if src == nil {
		return nil, errors.New("migration: no source")
	}

	names, err := fs.Glob(src, "V*__*.sql")
	if err != nil {
		return nil, err
	}

	seen := map[int64]string{}
	files := make([]File, 0, len(names))
	for _, name := range names {
		version, label, ok := parseName(name)
		if !ok {
			continue
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration: duplicate version %d (%s, %s)", version, prev, name)
		}
		seen[version] = name

		b, err := fs.ReadFile(src, name)
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(string(b))
		if text == "" {
			return nil, fmt.Errorf("migration: %s is empty", name)
		}

		sum := sha256.Sum256([]byte(text))
		files = append(files, File{Version: version, Name: label, SQL: text, Checksum: hex.EncodeToString(sum[:])})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func parseName(filename string) (int64, string, bool) {
	base, ok := strings.CutSuffix(filename, ".sql")
	if !ok {
		return 0, "", false
	}
	num, label, ok := strings.Cut(strings.TrimPrefix(base, "V"), "__")
	if !ok || label == "" {
		return 0, "", false
	}
	version, err := strconv.ParseInt(num, 10, 64)
	if err != nil || version <= 0 {
		return 0, "", false
	}
	for _, c := range label {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '.', c == '-':
		default:
			return 0, "", false
		}
	}
	return version, label, true
}
