package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
)

// timeLayout is fixed width so text columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path and runs migrations.
// If path is empty, defaults to ~/.verdict/data/verdicts.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".verdict", "data", "verdicts.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// WAL for concurrent readers; foreign keys must be set per connection.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// VerdictStore returns a VerdictStore backed by this store.
func (s *Store) VerdictStore() driven.VerdictStore {
	return &verdictStore{store: s}
}

// ExtractionStore returns an ExtractionStore backed by this store.
func (s *Store) ExtractionStore() driven.ExtractionStore {
	return &extractionStore{store: s}
}

// AnalysisStore returns an AnalysisStore backed by this store.
func (s *Store) AnalysisStore() driven.AnalysisStore {
	return &analysisStore{store: s}
}

// ContentStore returns a ContentStore backed by this store.
func (s *Store) ContentStore() driven.ContentStore {
	return &contentStore{store: s}
}

// migrate runs all pending up migrations in version order.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// ==================== Verdict Store ====================

// verdictStore implements driven.VerdictStore.
type verdictStore struct {
	store *Store
}

var _ driven.VerdictStore = (*verdictStore)(nil)

const verdictColumns = `id, source_id, uri, file_type, size, content_hash, status, error, created_at, updated_at`

// SaveVerdict stores or updates a verdict.
func (s *verdictStore) SaveVerdict(ctx context.Context, v *domain.Verdict) error {
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = now
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO verdicts (`+verdictColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			uri = excluded.uri,
			file_type = excluded.file_type,
			size = excluded.size,
			content_hash = excluded.content_hash,
			status = excluded.status,
			error = excluded.error,
			updated_at = excluded.updated_at
	`, v.ID, v.SourceID, v.URI, v.FileType, v.Size, v.ContentHash, string(v.Status), v.Error,
		formatTime(v.CreatedAt), formatTime(v.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving verdict: %w", err)
	}
	return nil
}

// GetVerdict retrieves a verdict by ID.
func (s *verdictStore) GetVerdict(ctx context.Context, id string) (*domain.Verdict, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+verdictColumns+` FROM verdicts WHERE id = ?`, id)
	return scanVerdict(row)
}

// FindByHash retrieves the oldest verdict with a content hash.
func (s *verdictStore) FindByHash(ctx context.Context, hash string) (*domain.Verdict, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+verdictColumns+` FROM verdicts
		WHERE content_hash = ? ORDER BY created_at LIMIT 1
	`, hash)
	return scanVerdict(row)
}

// ListVerdicts returns verdicts, newest first.
func (s *verdictStore) ListVerdicts(ctx context.Context, opts domain.ListOptions) ([]domain.Verdict, error) {
	query := `SELECT ` + verdictColumns + ` FROM verdicts`
	var args []any
	if opts.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(opts.Status))
	}
	query += ` ORDER BY created_at DESC, id` + limitClause(opts)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying verdicts: %w", err)
	}
	defer rows.Close()

	var out []domain.Verdict //nolint:prealloc // size unknown from query
	for rows.Next() {
		v, err := scanVerdict(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating verdicts: %w", err)
	}
	return out, nil
}

// DeleteVerdict removes a verdict; extractions, analyses and content cascade.
func (s *verdictStore) DeleteVerdict(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM verdicts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting verdict: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Extraction Store ====================

// extractionStore implements driven.ExtractionStore.
type extractionStore struct {
	store *Store
}

var _ driven.ExtractionStore = (*extractionStore)(nil)

const extractionColumns = `e.id, e.verdict_id, e.mode, e.strategy, e.confidence, e.result, e.scores, e.created_at`

// latestFilter keeps only the newest extraction of each verdict.
const latestFilter = `e.id = (
	SELECT e2.id FROM extractions e2 WHERE e2.verdict_id = e.verdict_id
	ORDER BY e2.created_at DESC, e2.rowid DESC LIMIT 1)`

// SaveExtraction stores an extraction record.
func (s *extractionStore) SaveExtraction(ctx context.Context, rec *domain.ExtractionRecord) error {
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}
	var scores sql.NullString
	if len(rec.Scores) > 0 {
		data, err := json.Marshal(rec.Scores)
		if err != nil {
			return fmt.Errorf("marshalling scores: %w", err)
		}
		scores = sql.NullString{String: string(data), Valid: true}
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO extractions (id, verdict_id, mode, strategy, confidence, result, scores, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.VerdictID, string(rec.Mode), string(rec.Strategy), rec.Confidence,
		string(resultJSON), scores, formatTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving extraction: %w", err)
	}
	return nil
}

// LatestExtraction returns the newest extraction for a verdict.
func (s *extractionStore) LatestExtraction(ctx context.Context, verdictID string) (*domain.ExtractionRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+extractionColumns+` FROM extractions e
		WHERE e.verdict_id = ?
		ORDER BY e.created_at DESC, e.rowid DESC LIMIT 1
	`, verdictID)
	return scanExtraction(row)
}

// ListExtractions returns the newest extraction per verdict, newest first.
func (s *extractionStore) ListExtractions(ctx context.Context, opts domain.ListOptions) ([]domain.ExtractionRecord, error) {
	query := `SELECT ` + extractionColumns + ` FROM extractions e
		JOIN verdicts v ON v.id = e.verdict_id
		WHERE ` + latestFilter
	var args []any
	if opts.Status != "" {
		query += ` AND v.status = ?`
		args = append(args, string(opts.Status))
	}
	query += ` ORDER BY e.created_at DESC, e.id` + limitClause(opts)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying extractions: %w", err)
	}
	defer rows.Close()

	var out []domain.ExtractionRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating extractions: %w", err)
	}
	return out, nil
}

// Stats summarises verdicts and extractions.
func (s *extractionStore) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{ByStatus: make(map[domain.VerdictStatus]int)}

	rows, err := s.store.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM verdicts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting verdicts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		stats.ByStatus[domain.VerdictStatus(status)] = n
		stats.Verdicts += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}

	if err := s.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM extractions`).Scan(&stats.Extractions); err != nil {
		return nil, fmt.Errorf("counting extractions: %w", err)
	}

	var avg sql.NullFloat64
	if err := s.store.db.QueryRowContext(ctx,
		`SELECT AVG(e.confidence) FROM extractions e WHERE `+latestFilter).Scan(&avg); err != nil {
		return nil, fmt.Errorf("averaging confidence: %w", err)
	}
	stats.AvgConfidence = avg.Float64
	return stats, nil
}

// ==================== Analysis Store ====================

// analysisStore implements driven.AnalysisStore.
type analysisStore struct {
	store *Store
}

var _ driven.AnalysisStore = (*analysisStore)(nil)

// SaveAnalysis stores an analysis record.
func (s *analysisStore) SaveAnalysis(ctx context.Context, rec *domain.AnalysisRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO analytics (id, verdict_id, analysis_type, data, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.VerdictID, rec.Kind, string(rec.Data), formatTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}
	return nil
}

// ListAnalyses returns all analyses for a verdict, oldest first.
func (s *analysisStore) ListAnalyses(ctx context.Context, verdictID string) ([]domain.AnalysisRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, verdict_id, analysis_type, data, created_at
		FROM analytics WHERE verdict_id = ? ORDER BY created_at, rowid
	`, verdictID)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var out []domain.AnalysisRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.AnalysisRecord
		var data, createdAt string
		if err := rows.Scan(&rec.ID, &rec.VerdictID, &rec.Kind, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		rec.Data = []byte(data)
		if rec.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}
	return out, nil
}

// ==================== Content Store ====================

// contentStore implements driven.ContentStore.
type contentStore struct {
	store *Store
}

var _ driven.ContentStore = (*contentStore)(nil)

// SaveContent stores parsed text, replacing text of the same kind.
func (s *contentStore) SaveContent(ctx context.Context, c *domain.ParsedContent) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO parsed_content (verdict_id, content_type, content, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(verdict_id, content_type) DO UPDATE SET
			content = excluded.content,
			created_at = excluded.created_at
	`, c.VerdictID, c.Kind, c.Text, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("saving content: %w", err)
	}
	return nil
}

// GetContent returns stored parsed text.
func (s *contentStore) GetContent(ctx context.Context, verdictID, kind string) (*domain.ParsedContent, error) {
	c := domain.ParsedContent{VerdictID: verdictID, Kind: kind}
	var createdAt string
	err := s.store.db.QueryRowContext(ctx, `
		SELECT content, created_at FROM parsed_content
		WHERE verdict_id = ? AND content_type = ?
	`, verdictID, kind).Scan(&c.Text, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying content: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ==================== Helpers ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVerdict(row scanner) (*domain.Verdict, error) {
	var v domain.Verdict
	var status, createdAt, updatedAt string
	err := row.Scan(&v.ID, &v.SourceID, &v.URI, &v.FileType, &v.Size, &v.ContentHash,
		&status, &v.Error, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning verdict: %w", err)
	}
	v.Status = domain.VerdictStatus(status)
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func scanExtraction(row scanner) (*domain.ExtractionRecord, error) {
	var rec domain.ExtractionRecord
	var mode, strategy, resultJSON, createdAt string
	var scores sql.NullString
	err := row.Scan(&rec.ID, &rec.VerdictID, &mode, &strategy, &rec.Confidence,
		&resultJSON, &scores, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning extraction: %w", err)
	}
	rec.Mode = domain.ExtractionMode(mode)
	rec.Strategy = domain.StrategyName(strategy)

	rec.Result = &domain.ExtractionResult{}
	if err := json.Unmarshal([]byte(resultJSON), rec.Result); err != nil {
		return nil, fmt.Errorf("unmarshaling result: %w", err)
	}
	if scores.Valid {
		if err := json.Unmarshal([]byte(scores.String), &rec.Scores); err != nil {
			return nil, fmt.Errorf("unmarshaling scores: %w", err)
		}
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// limitClause renders LIMIT/OFFSET; SQLite needs a LIMIT before OFFSET.
func limitClause(opts domain.ListOptions) string {
	switch {
	case opts.Limit > 0 && opts.Offset > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", opts.Limit, opts.Offset)
	case opts.Limit > 0:
		return fmt.Sprintf(" LIMIT %d", opts.Limit)
	case opts.Offset > 0:
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", opts.Offset)
	default:
		return ""
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
