package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pagesync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pagesync/internal/core/domain"
	"github.com/custodia-labs/pagesync/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pagesync/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pagesync", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
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

// BindingStore returns a BindingStore interface backed by this store.
func (s *Store) BindingStore() driven.BindingStore {
	return &bindingStore{store: s}
}

// DatasetStore returns a DatasetStore interface backed by this store.
func (s *Store) DatasetStore() driven.DatasetStore {
	return &datasetStore{store: s}
}

// SchedulerStore returns a SchedulerStore interface backed by this store.
func (s *Store) SchedulerStore() driven.SchedulerStore {
	return &schedulerStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
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

// SaveDataset stores or updates a dataset. Datasets are owned by the
// indexing pipeline in production; this write side backs tests and
// single-process deployments.
func (s *Store) SaveDataset(ctx context.Context, dataset domain.Dataset) error {
	if dataset.ID == "" {
		return domain.ErrInvalidInput
	}
	if dataset.CreatedAt.IsZero() {
		dataset.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO datasets (id, tenant_id, name, data_source_type, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tenant_id = excluded.tenant_id,
			name = excluded.name,
			data_source_type = excluded.data_source_type
	`, dataset.ID, dataset.TenantID, dataset.Name, dataset.DataSourceType,
		dataset.CreatedAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}
	return nil
}

// SaveDocument stores or updates a document.
func (s *Store) SaveDocument(ctx context.Context, doc domain.Document) error {
	if doc.ID == "" || doc.DatasetID == "" {
		return domain.ErrInvalidInput
	}

	sourceInfoJSON, err := json.Marshal(doc.SourceInfo)
	if err != nil {
		return fmt.Errorf("marshalling source info: %w", err)
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, dataset_id, tenant_id, data_source_type, source_info, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			dataset_id = excluded.dataset_id,
			tenant_id = excluded.tenant_id,
			data_source_type = excluded.data_source_type,
			source_info = excluded.source_info,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at
	`, doc.ID, doc.DatasetID, doc.TenantID, doc.DataSourceType,
		string(sourceInfoJSON), boolToInt(doc.Enabled),
		doc.CreatedAt.Format(time.RFC3339), doc.UpdatedAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// ==================== Binding Store ====================

// bindingStore implements driven.BindingStore.
type bindingStore struct {
	store *Store
}

var _ driven.BindingStore = (*bindingStore)(nil)

// Save stores or updates a binding.
func (s *bindingStore) Save(ctx context.Context, binding domain.Binding) error {
	if binding.ID == "" {
		return domain.ErrInvalidInput
	}

	sourceInfoJSON, err := json.Marshal(binding.SourceInfo)
	if err != nil {
		return fmt.Errorf("marshalling source info: %w", err)
	}

	now := time.Now().UTC()
	if binding.CreatedAt.IsZero() {
		binding.CreatedAt = now
	}
	binding.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO bindings (id, tenant_id, provider, access_token, source_info, disabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tenant_id = excluded.tenant_id,
			provider = excluded.provider,
			access_token = excluded.access_token,
			source_info = excluded.source_info,
			disabled = excluded.disabled,
			updated_at = excluded.updated_at
	`, binding.ID, binding.TenantID, string(binding.Provider), binding.AccessToken,
		string(sourceInfoJSON), boolToInt(binding.Disabled),
		binding.CreatedAt.Format(time.RFC3339), binding.UpdatedAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving binding: %w", err)
	}
	return nil
}

// Get retrieves a binding by ID.
func (s *bindingStore) Get(ctx context.Context, id string) (*domain.Binding, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, provider, access_token, source_info, disabled, created_at, updated_at
		FROM bindings WHERE id = ?
	`, id)

	return scanBinding(row)
}

// Delete removes a binding.
func (s *bindingStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM bindings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting binding: %w", err)
	}
	return nil
}

// ListActive returns all non-disabled bindings for a tenant in
// insertion order.
func (s *bindingStore) ListActive(ctx context.Context, tenantID string) ([]domain.Binding, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant_id, provider, access_token, source_info, disabled, created_at, updated_at
		FROM bindings
		WHERE tenant_id = ? AND disabled = 0
		ORDER BY rowid
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying bindings: %w", err)
	}
	defer rows.Close()

	return scanBindings(rows)
}

// ListActiveByProvider returns all non-disabled bindings for a tenant
// and provider in insertion order.
func (s *bindingStore) ListActiveByProvider(ctx context.Context, tenantID string, provider domain.Provider) ([]domain.Binding, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant_id, provider, access_token, source_info, disabled, created_at, updated_at
		FROM bindings
		WHERE tenant_id = ? AND provider = ? AND disabled = 0
		ORDER BY rowid
	`, tenantID, string(provider))
	if err != nil {
		return nil, fmt.Errorf("querying bindings: %w", err)
	}
	defer rows.Close()

	return scanBindings(rows)
}

// GetActiveByWorkspace returns the non-disabled binding for a tenant,
// provider and workspace. The workspace lives inside the source_info
// JSON, so the match uses SQLite's json_extract.
func (s *bindingStore) GetActiveByWorkspace(ctx context.Context, tenantID string, provider domain.Provider, workspaceID string) (*domain.Binding, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, provider, access_token, source_info, disabled, created_at, updated_at
		FROM bindings
		WHERE tenant_id = ? AND provider = ? AND disabled = 0
			AND json_extract(source_info, '$.workspace_id') = ?
		ORDER BY rowid
		LIMIT 1
	`, tenantID, string(provider), workspaceID)

	return scanBinding(row)
}

// SetDisabled conditionally flips the disabled flag and refreshes
// UpdatedAt. The WHERE clause carries the expected current state, so two
// concurrent transitions to the same state cannot both succeed.
func (s *bindingStore) SetDisabled(ctx context.Context, id string, disabled bool) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE bindings SET disabled = ?, updated_at = ?
		WHERE id = ? AND disabled = ?
	`, boolToInt(disabled), time.Now().UTC().Format(time.RFC3339), id, boolToInt(!disabled))
	if err != nil {
		return fmt.Errorf("updating binding: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// No row changed: tell a missing binding apart from one already in
	// the requested state.
	var exists int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM bindings WHERE id = ?", id)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("checking binding existence: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidStateTransition
}

// ==================== Dataset Store ====================

// datasetStore implements driven.DatasetStore.
type datasetStore struct {
	store *Store
}

var _ driven.DatasetStore = (*datasetStore)(nil)

// GetDataset retrieves a dataset by ID.
func (s *datasetStore) GetDataset(ctx context.Context, id string) (*domain.Dataset, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, name, data_source_type, created_at
		FROM datasets WHERE id = ?
	`, id)

	var dataset domain.Dataset
	var createdAt sql.NullString
	if err := row.Scan(&dataset.ID, &dataset.TenantID, &dataset.Name,
		&dataset.DataSourceType, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning dataset: %w", err)
	}
	dataset.CreatedAt = parseNullableTime(createdAt)

	return &dataset, nil
}

// ListDatasets returns all datasets of a given data source type.
func (s *datasetStore) ListDatasets(ctx context.Context, dataSourceType string) ([]domain.Dataset, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant_id, name, data_source_type, created_at
		FROM datasets WHERE data_source_type = ?
		ORDER BY rowid
	`, dataSourceType)
	if err != nil {
		return nil, fmt.Errorf("querying datasets: %w", err)
	}
	defer rows.Close()

	var datasets []domain.Dataset //nolint:prealloc // size unknown from query
	for rows.Next() {
		var dataset domain.Dataset
		var createdAt sql.NullString
		if err := rows.Scan(&dataset.ID, &dataset.TenantID, &dataset.Name,
			&dataset.DataSourceType, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning dataset: %w", err)
		}
		dataset.CreatedAt = parseNullableTime(createdAt)
		datasets = append(datasets, dataset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating datasets: %w", err)
	}

	return datasets, nil
}

// GetDocument retrieves a document scoped to a dataset.
func (s *datasetStore) GetDocument(ctx context.Context, datasetID, documentID string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, dataset_id, tenant_id, data_source_type, source_info, enabled, created_at, updated_at
		FROM documents WHERE id = ? AND dataset_id = ?
	`, documentID, datasetID)

	return scanDocument(row)
}

// ListDocuments returns all documents of a dataset, regardless of
// enabled state.
func (s *datasetStore) ListDocuments(ctx context.Context, datasetID string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, dataset_id, tenant_id, data_source_type, source_info, enabled, created_at, updated_at
		FROM documents WHERE dataset_id = ?
		ORDER BY rowid
	`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ListEnabledDocuments returns the enabled documents of a dataset for a
// tenant, filtered to one data source type.
func (s *datasetStore) ListEnabledDocuments(ctx context.Context, datasetID, tenantID, dataSourceType string) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, dataset_id, tenant_id, data_source_type, source_info, enabled, created_at, updated_at
		FROM documents
		WHERE dataset_id = ? AND tenant_id = ? AND data_source_type = ? AND enabled = 1
		ORDER BY rowid
	`, datasetID, tenantID, dataSourceType)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ==================== Helper Functions ====================

// scanBinding scans a single binding row.
func scanBinding(row *sql.Row) (*domain.Binding, error) {
	var binding domain.Binding
	var provider, sourceInfoJSON string
	var disabled int
	var createdAt, updatedAt sql.NullString

	if err := row.Scan(&binding.ID, &binding.TenantID, &provider, &binding.AccessToken,
		&sourceInfoJSON, &disabled, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning binding: %w", err)
	}

	if err := json.Unmarshal([]byte(sourceInfoJSON), &binding.SourceInfo); err != nil {
		return nil, fmt.Errorf("unmarshaling source info: %w", err)
	}

	binding.Provider = domain.Provider(provider)
	binding.Disabled = disabled == 1
	binding.CreatedAt = parseNullableTime(createdAt)
	binding.UpdatedAt = parseNullableTime(updatedAt)

	return &binding, nil
}

// scanBindings scans multiple binding rows.
func scanBindings(rows *sql.Rows) ([]domain.Binding, error) {
	var bindings []domain.Binding //nolint:prealloc // size unknown from query
	for rows.Next() {
		var binding domain.Binding
		var provider, sourceInfoJSON string
		var disabled int
		var createdAt, updatedAt sql.NullString

		if err := rows.Scan(&binding.ID, &binding.TenantID, &provider, &binding.AccessToken,
			&sourceInfoJSON, &disabled, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning binding: %w", err)
		}

		if err := json.Unmarshal([]byte(sourceInfoJSON), &binding.SourceInfo); err != nil {
			return nil, fmt.Errorf("unmarshaling source info: %w", err)
		}

		binding.Provider = domain.Provider(provider)
		binding.Disabled = disabled == 1
		binding.CreatedAt = parseNullableTime(createdAt)
		binding.UpdatedAt = parseNullableTime(updatedAt)
		bindings = append(bindings, binding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bindings: %w", err)
	}

	return bindings, nil
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var sourceInfoJSON string
	var enabled int
	var createdAt, updatedAt sql.NullString

	if err := row.Scan(&doc.ID, &doc.DatasetID, &doc.TenantID, &doc.DataSourceType,
		&sourceInfoJSON, &enabled, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(sourceInfoJSON), &doc.SourceInfo); err != nil {
		return nil, fmt.Errorf("unmarshaling source info: %w", err)
	}

	doc.Enabled = enabled == 1
	doc.CreatedAt = parseNullableTime(createdAt)
	doc.UpdatedAt = parseNullableTime(updatedAt)

	return &doc, nil
}

// scanDocuments scans multiple document rows.
func scanDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var sourceInfoJSON string
		var enabled int
		var createdAt, updatedAt sql.NullString

		if err := rows.Scan(&doc.ID, &doc.DatasetID, &doc.TenantID, &doc.DataSourceType,
			&sourceInfoJSON, &enabled, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		if err := json.Unmarshal([]byte(sourceInfoJSON), &doc.SourceInfo); err != nil {
			return nil, fmt.Errorf("unmarshaling source info: %w", err)
		}

		doc.Enabled = enabled == 1
		doc.CreatedAt = parseNullableTime(createdAt)
		doc.UpdatedAt = parseNullableTime(updatedAt)
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// formatNullableTime formats a time to RFC3339 string, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{} // Return zero time on parse error
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
