package sqlite

import (
	"container/heap"
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/gengpt/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/gengpt/internal/core/domain"
	"github.com/custodia-labs/gengpt/internal/core/ports/driven"
	"github.com/custodia-labs/gengpt/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// DBFileName is the database file created inside the store directory.
const DBFileName = "vectors.db"

const metaDimensions = "dimensions"

// Store is a SQLite-backed vector index.
type Store struct {
	db   *sql.DB
	path string

	mu         sync.Mutex
	dimensions int
}

// NewStore opens (or creates) the vector store in storeDir.
func NewStore(storeDir string) (*Store, error) {
	if storeDir == "" {
		return nil, fmt.Errorf("store directory is required: %w", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(storeDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(storeDir, DBFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := s.loadDimensions(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("opened vector store %s (dimensions=%d)", dbPath, s.dimensions)
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

// Dimensions returns the embedding size fixed by the first Add, or 0.
func (s *Store) Dimensions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dimensions
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
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
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_vectors.up.sql" -> 1
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

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) loadDimensions() error {
	var value string
	err := s.db.QueryRow("SELECT value FROM store_meta WHERE key = ?", metaDimensions).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading store dimensions: %w", err)
	}
	dims, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parsing store dimensions %q: %w", value, err)
	}
	s.dimensions = dims
	return nil
}

// Add inserts records in a single transaction.
// The first record ever added fixes the store's dimensions.
func (s *Store) Add(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dims := s.dimensions
	for i := range records {
		n := len(records[i].Embedding)
		if n == 0 {
			return fmt.Errorf("record %s has no embedding: %w", records[i].ID, domain.ErrInvalidInput)
		}
		if dims == 0 {
			dims = n
		}
		if n != dims {
			return fmt.Errorf("record %s has %d dimensions, store has %d: %w",
				records[i].ID, n, dims, domain.ErrDimensionMismatch)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if s.dimensions == 0 {
		_, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO store_meta (key, value) VALUES (?, ?)",
			metaDimensions, strconv.Itoa(dims))
		if err != nil {
			return fmt.Errorf("saving store dimensions: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (id, dataset, source, position, content, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		createdAt := r.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		_, err := stmt.ExecContext(ctx, r.ID, r.Dataset, r.Source, r.Position, r.Content,
			float32SliceToBytes(r.Embedding), createdAt)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}

	s.dimensions = dims
	return nil
}

// Search scans every embedding and returns the k most similar records.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]domain.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	dims := s.Dimensions()
	if dims == 0 {
		return nil, nil
	}
	if len(query) != dims {
		return nil, fmt.Errorf("query has %d dimensions, store has %d: %w",
			len(query), dims, domain.ErrDimensionMismatch)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT seq, embedding FROM vectors")
	if err != nil {
		return nil, fmt.Errorf("scanning embeddings: %w", err)
	}
	defer rows.Close()

	top := &hitHeap{}
	for rows.Next() {
		var seq int64
		var blob []byte
		if err := rows.Scan(&seq, &blob); err != nil {
			return nil, fmt.Errorf("reading embedding: %w", err)
		}
		sim := domain.CosineSimilarity(query, bytesToFloat32Slice(blob))
		if top.Len() < k {
			heap.Push(top, scored{seq: seq, sim: sim})
		} else if sim > (*top)[0].sim {
			(*top)[0] = scored{seq: seq, sim: sim}
			heap.Fix(top, 0)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning embeddings: %w", err)
	}

	return s.hydrate(ctx, *top)
}

// hydrate loads the full rows for the selected sequence numbers and
// returns them ordered by similarity.
func (s *Store) hydrate(ctx context.Context, picked []scored) ([]domain.VectorHit, error) {
	if len(picked) == 0 {
		return nil, nil
	}

	sims := make(map[int64]float64, len(picked))
	args := make([]any, len(picked))
	placeholders := make([]string, len(picked))
	for i, p := range picked {
		sims[p.seq] = p.sim
		args[i] = p.seq
		placeholders[i] = "?"
	}

	//nolint:gosec // placeholders are literal "?" markers
	query := "SELECT seq, id, dataset, source, position, content, embedding, created_at FROM vectors WHERE seq IN (" +
		strings.Join(placeholders, ",") + ") ORDER BY seq"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	defer rows.Close()

	hits := make([]domain.VectorHit, 0, len(picked))
	for rows.Next() {
		var seq int64
		var r domain.VectorRecord
		var blob []byte
		if err := rows.Scan(&seq, &r.ID, &r.Dataset, &r.Source, &r.Position, &r.Content, &blob, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		r.Embedding = bytesToFloat32Slice(blob)
		hits = append(hits, domain.VectorHit{Record: r, Similarity: sims[seq]})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	domain.SortHits(hits)
	return hits, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vectors").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// scored is a candidate row during a scan.
type scored struct {
	seq int64
	sim float64
}

// hitHeap is a min-heap on similarity holding the best k candidates.
type hitHeap []scored

func (h hitHeap) Len() int { return len(h) }
func (h hitHeap) Less(i, j int) bool {
	if h[i].sim == h[j].sim {
		return h[i].seq > h[j].seq
	}
	return h[i].sim < h[j].sim
}
func (h hitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *hitHeap) Push(x any)   { *h = append(*h, x.(scored)) }
func (h *hitHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// float32SliceToBytes converts []float32 to a little-endian byte slice.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
