package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/storage/postgres/migrations"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
)

// Store is a PostgreSQL-backed storage exposing the store ports
// through wrapper types, like the SQLite store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to dsn, pings the server and runs migrations.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn is empty", domain.ErrNotConfigured)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx, migrations.FS); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// VerdictStore returns a VerdictStore backed by this store.
func (s *Store) VerdictStore() driven.VerdictStore {
	return &verdictStore{pool: s.pool}
}

// ExtractionStore returns an ExtractionStore backed by this store.
func (s *Store) ExtractionStore() driven.ExtractionStore {
	return &extractionStore{pool: s.pool}
}

// AnalysisStore returns an AnalysisStore backed by this store.
func (s *Store) AnalysisStore() driven.AnalysisStore {
	return &analysisStore{pool: s.pool}
}

// ContentStore returns a ContentStore backed by this store.
func (s *Store) ContentStore() driven.ContentStore {
	return &contentStore{pool: s.pool}
}

func (s *Store) migrate(ctx context.Context, fsys fs.FS) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.pool.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	pending, err := pendingMigrations(fsys, current)
	if err != nil {
		return err
	}
	for _, m := range pending {
		content, err := fs.ReadFile(fsys, m.name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", m.name, err)
		}
		err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(content)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.version)
			return err
		})
		if err != nil {
			return fmt.Errorf("executing migration %s: %w", m.name, err)
		}
	}
	return nil
}

type migration struct {
	version int
	name    string
}

// pendingMigrations lists NNN_*.up.sql files above current, in version order.
func pendingMigrations(fsys fs.FS, current int) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}
	var out []migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version > current {
			out = append(out, migration{version: version, name: name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// ==================== Verdict Store ====================

type verdictStore struct {
	pool *pgxpool.Pool
}

var _ driven.VerdictStore = (*verdictStore)(nil)

const verdictColumns = `id, source_id, uri, file_type, size, content_hash, status, error, created_at, updated_at`

func (s *verdictStore) SaveVerdict(ctx context.Context, v *domain.Verdict) error {
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = now
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO verdicts (`+verdictColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			source_id = EXCLUDED.source_id,
			uri = EXCLUDED.uri,
			file_type = EXCLUDED.file_type,
			size = EXCLUDED.size,
			content_hash = EXCLUDED.content_hash,
			status = EXCLUDED.status,
			error = EXCLUDED.error,
			updated_at = EXCLUDED.updated_at`,
		v.ID, v.SourceID, v.URI, v.FileType, v.Size, v.ContentHash, string(v.Status), v.Error,
		v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving verdict: %w", err)
	}
	return nil
}

func (s *verdictStore) GetVerdict(ctx context.Context, id string) (*domain.Verdict, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+verdictColumns+` FROM verdicts WHERE id = $1`, id)
	return scanVerdict(row)
}

func (s *verdictStore) FindByHash(ctx context.Context, hash string) (*domain.Verdict, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+verdictColumns+` FROM verdicts
		WHERE content_hash = $1 ORDER BY created_at LIMIT 1`, hash)
	return scanVerdict(row)
}

func (s *verdictStore) ListVerdicts(ctx context.Context, opts domain.ListOptions) ([]domain.Verdict, error) {
	q := newQuery(`SELECT ` + verdictColumns + ` FROM verdicts`)
	if opts.Status != "" {
		q.where("status = " + q.arg(string(opts.Status)))
	}
	q.tail(" ORDER BY created_at DESC, id")
	q.page(opts)

	rows, err := s.pool.Query(ctx, q.String(), q.args...)
	if err != nil {
		return nil, fmt.Errorf("querying verdicts: %w", err)
	}
	defer rows.Close()

	var out []domain.Verdict
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

func (s *verdictStore) DeleteVerdict(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM verdicts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting verdict: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Extraction Store ====================

type extractionStore struct {
	pool *pgxpool.Pool
}

var _ driven.ExtractionStore = (*extractionStore)(nil)

const extractionColumns = `e.id, e.verdict_id, e.mode, e.strategy, e.confidence, e.result, e.scores, e.created_at`

// latestExtractions is one row per verdict, the newest extraction.
const latestExtractions = `
	SELECT DISTINCT ON (verdict_id) *
	FROM extractions
	ORDER BY verdict_id, created_at DESC, seq DESC`

func (s *extractionStore) SaveExtraction(ctx context.Context, rec *domain.ExtractionRecord) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}
	var scores []byte
	if len(rec.Scores) > 0 {
		if scores, err = json.Marshal(rec.Scores); err != nil {
			return fmt.Errorf("marshalling scores: %w", err)
		}
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO extractions (id, verdict_id, mode, strategy, confidence, result, scores, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.VerdictID, string(rec.Mode), string(rec.Strategy), rec.Confidence,
		result, scores, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving extraction: %w", err)
	}
	return nil
}

func (s *extractionStore) LatestExtraction(ctx context.Context, verdictID string) (*domain.ExtractionRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+extractionColumns+` FROM extractions e
		WHERE e.verdict_id = $1
		ORDER BY e.created_at DESC, e.seq DESC LIMIT 1`, verdictID)
	return scanExtraction(row)
}

func (s *extractionStore) ListExtractions(ctx context.Context, opts domain.ListOptions) ([]domain.ExtractionRecord, error) {
	q := newQuery(`SELECT ` + extractionColumns + ` FROM (` + latestExtractions + `) e
		JOIN verdicts v ON v.id = e.verdict_id`)
	if opts.Status != "" {
		q.where("v.status = " + q.arg(string(opts.Status)))
	}
	q.tail(" ORDER BY e.created_at DESC, e.id")
	q.page(opts)

	rows, err := s.pool.Query(ctx, q.String(), q.args...)
	if err != nil {
		return nil, fmt.Errorf("querying extractions: %w", err)
	}
	defer rows.Close()

	var out []domain.ExtractionRecord
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

func (s *extractionStore) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{ByStatus: make(map[domain.VerdictStatus]int)}

	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*) FROM verdicts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting verdicts: %w", err)
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		stats.ByStatus[domain.VerdictStatus(status)] = n
		stats.Verdicts += n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status counts: %w", err)
	}

	var avg *float64
	err = s.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM extractions),
		       (SELECT AVG(confidence) FROM (`+latestExtractions+`) l)`).Scan(&stats.Extractions, &avg)
	if err != nil {
		return nil, fmt.Errorf("summarising extractions: %w", err)
	}
	if avg != nil {
		stats.AvgConfidence = *avg
	}
	return stats, nil
}

// ==================== Analysis Store ====================

type analysisStore struct {
	pool *pgxpool.Pool
}

var _ driven.AnalysisStore = (*analysisStore)(nil)

func (s *analysisStore) SaveAnalysis(ctx context.Context, rec *domain.AnalysisRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO analytics (id, verdict_id, analysis_type, data, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.VerdictID, rec.Kind, rec.Data, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}
	return nil
}

func (s *analysisStore) ListAnalyses(ctx context.Context, verdictID string) ([]domain.AnalysisRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, verdict_id, analysis_type, data, created_at
		FROM analytics WHERE verdict_id = $1 ORDER BY created_at, seq`, verdictID)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var out []domain.AnalysisRecord
	for rows.Next() {
		var rec domain.AnalysisRecord
		if err := rows.Scan(&rec.ID, &rec.VerdictID, &rec.Kind, &rec.Data, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analyses: %w", err)
	}
	return out, nil
}

// ==================== Content Store ====================

type contentStore struct {
	pool *pgxpool.Pool
}

var _ driven.ContentStore = (*contentStore)(nil)

func (s *contentStore) SaveContent(ctx context.Context, c *domain.ParsedContent) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO parsed_content (verdict_id, content_type, content, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (verdict_id, content_type) DO UPDATE SET
			content = EXCLUDED.content,
			created_at = EXCLUDED.created_at`,
		c.VerdictID, c.Kind, c.Text, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving content: %w", err)
	}
	return nil
}

func (s *contentStore) GetContent(ctx context.Context, verdictID, kind string) (*domain.ParsedContent, error) {
	c := domain.ParsedContent{VerdictID: verdictID, Kind: kind}
	err := s.pool.QueryRow(ctx, `
		SELECT content, created_at FROM parsed_content
		WHERE verdict_id = $1 AND content_type = $2`,
		verdictID, kind).Scan(&c.Text, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying content: %w", err)
	}
	return &c, nil
}

// ==================== Helpers ====================

func scanVerdict(row pgx.Row) (*domain.Verdict, error) {
	var v domain.Verdict
	var status string
	err := row.Scan(&v.ID, &v.SourceID, &v.URI, &v.FileType, &v.Size, &v.ContentHash,
		&status, &v.Error, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning verdict: %w", err)
	}
	v.Status = domain.VerdictStatus(status)
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return &v, nil
}

func scanExtraction(row pgx.Row) (*domain.ExtractionRecord, error) {
	var rec domain.ExtractionRecord
	var mode, strategy string
	var result, scores []byte
	err := row.Scan(&rec.ID, &rec.VerdictID, &mode, &strategy, &rec.Confidence, &result, &scores, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning extraction: %w", err)
	}
	rec.Mode = domain.ExtractionMode(mode)
	rec.Strategy = domain.StrategyName(strategy)
	rec.CreatedAt = rec.CreatedAt.UTC()

	rec.Result = &domain.ExtractionResult{}
	if err := json.Unmarshal(result, rec.Result); err != nil {
		return nil, fmt.Errorf("unmarshaling result: %w", err)
	}
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &rec.Scores); err != nil {
			return nil, fmt.Errorf("unmarshaling scores: %w", err)
		}
	}
	return &rec, nil
}

// query assembles a statement with numbered placeholders.
type query struct {
	sb   strings.Builder
	args []any
}

func newQuery(base string) *query {
	q := &query{}
	q.sb.WriteString(base)
	return q
}

// arg appends a bind value and returns its placeholder.
func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *query) where(cond string) {
	q.sb.WriteString(" WHERE ")
	q.sb.WriteString(cond)
}

func (q *query) tail(s string) {
	q.sb.WriteString(s)
}

func (q *query) page(opts domain.ListOptions) {
	if opts.Limit > 0 {
		q.sb.WriteString(" LIMIT " + q.arg(opts.Limit))
	}
	if opts.Offset > 0 {
		q.sb.WriteString(" OFFSET " + q.arg(opts.Offset))
	}
}

func (q *query) String() string {
	return q.sb.String()
}
