// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists dataset records and record sets in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/metaharvest/pkg/types"
)

// Store manages the harvest record database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the record store at path. ":memory:" gives an
// in-process store for tests. The schema is created if it does not exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS dataset_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			provider TEXT NOT NULL,
			dataset_id TEXT NOT NULL,
			modified_token TEXT NOT NULL DEFAULT '',
			doi TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			source_hash TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_natural_key
			ON dataset_records(provider, dataset_id, modified_token)`,
		`CREATE INDEX IF NOT EXISTS idx_records_doi ON dataset_records(doi)`,
		`CREATE TABLE IF NOT EXISTS dataset_record_sets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			provider TEXT NOT NULL,
			extractor TEXT NOT NULL,
			list_args TEXT NOT NULL DEFAULT '',
			complete INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS dataset_record_members (
			record_set_id INTEGER NOT NULL REFERENCES dataset_record_sets(id),
			record_id INTEGER NOT NULL REFERENCES dataset_records(id),
			PRIMARY KEY (record_set_id, record_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreateRecordSet inserts a new, incomplete record set and returns it.
func (s *Store) CreateRecordSet(ctx context.Context, provider types.Provider, extractor, listArgs string) (*types.RecordSet, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO dataset_record_sets (provider, extractor, list_args, complete, created_at)
		 VALUES (?, ?, ?, 0, ?)`,
		provider, extractor, listArgs, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting record set: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading record set id: %w", err)
	}
	return &types.RecordSet{
		ID:        id,
		Provider:  provider,
		Extractor: extractor,
		ListArgs:  listArgs,
		CreatedAt: now,
	}, nil
}

// MarkComplete flips the record set's complete flag. It is called exactly
// once, by the harvester that created the set, after every listing entry
// has been resolved.
func (s *Store) MarkComplete(ctx context.Context, setID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE dataset_record_sets SET complete = 1 WHERE id = ?`, setID,
	); err != nil {
		return fmt.Errorf("marking record set %d complete: %w", setID, err)
	}
	return nil
}

// FindRecord returns the record matching (provider, datasetID, modifiedToken),
// or nil when none exists.
func (s *Store) FindRecord(ctx context.Context, provider types.Provider, datasetID, modifiedToken string) (*types.DatasetRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, provider, dataset_id, modified_token, doi, source, source_hash, created_at
		 FROM dataset_records
		 WHERE provider = ? AND dataset_id = ? AND modified_token = ?
		 ORDER BY id DESC LIMIT 1`,
		provider, datasetID, modifiedToken,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding record %s/%s: %w", provider, datasetID, err)
	}
	return rec, nil
}

// CreateRecord stores a new dataset record, computing its content hash from
// the canonical serialization of the source payload. The record's ID,
// SourceHash, and CreatedAt are filled in on return.
func (s *Store) CreateRecord(ctx context.Context, rec *types.DatasetRecord) error {
	hash, err := types.SourceHash(rec.Source)
	if err != nil {
		return fmt.Errorf("hashing source for %s/%s: %w", rec.Provider, rec.DatasetID, err)
	}
	rec.SourceHash = hash
	rec.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO dataset_records (provider, dataset_id, modified_token, doi, source, source_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Provider, rec.DatasetID, rec.ModifiedToken, rec.DOI,
		string(rec.Source), rec.SourceHash, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting record %s/%s: %w", rec.Provider, rec.DatasetID, err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading record id: %w", err)
	}
	return nil
}

// AddMember associates a record with a record set. A record may belong to
// many sets across runs; within one set the association is recorded once.
func (s *Store) AddMember(ctx context.Context, setID, recordID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO dataset_record_members (record_set_id, record_id) VALUES (?, ?)`,
		setID, recordID,
	); err != nil {
		return fmt.Errorf("adding record %d to set %d: %w", recordID, setID, err)
	}
	return nil
}

// LatestCompleted returns the most recently created complete record set for
// the (extractor, listArgs) configuration, or nil when none exists.
func (s *Store) LatestCompleted(ctx context.Context, extractor, listArgs string) (*types.RecordSet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, provider, extractor, list_args, complete, created_at
		 FROM dataset_record_sets
		 WHERE complete = 1 AND extractor = ? AND list_args = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		extractor, listArgs,
	)
	set, err := scanRecordSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding latest completed set for %s: %w", extractor, err)
	}
	return set, nil
}

// Configuration is a distinct (extractor, list args) pair that has been
// harvested at least once.
type Configuration struct {
	Extractor string
	ListArgs  string
}

// Configurations returns every distinct harvest configuration ever
// observed, complete or not. Historical configurations (e.g. a different
// affiliation queried against the same provider) each stay current
// independently.
func (s *Store) Configurations(ctx context.Context) ([]Configuration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT extractor, list_args FROM dataset_record_sets
		 ORDER BY extractor, list_args`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying configurations: %w", err)
	}
	defer rows.Close()

	var configs []Configuration
	for rows.Next() {
		var c Configuration
		if err := rows.Scan(&c.Extractor, &c.ListArgs); err != nil {
			return nil, fmt.Errorf("scanning configuration: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// RecordsForSets returns every record referenced by the given record sets.
func (s *Store) RecordsForSets(ctx context.Context, setIDs []int64) ([]types.DatasetRecord, error) {
	var records []types.DatasetRecord
	for _, setID := range setIDs {
		rows, err := s.db.QueryContext(ctx,
			`SELECT r.id, r.provider, r.dataset_id, r.modified_token, r.doi, r.source, r.source_hash, r.created_at
			 FROM dataset_records r
			 JOIN dataset_record_members m ON m.record_id = r.id
			 WHERE m.record_set_id = ?
			 ORDER BY r.id`,
			setID,
		)
		if err != nil {
			return nil, fmt.Errorf("querying records for set %d: %w", setID, err)
		}
		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning record: %w", err)
			}
			records = append(records, *rec)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return records, nil
}

// SetSummary describes one record set for store inspection.
type SetSummary struct {
	types.RecordSet
	RecordCount int
}

// ListSets returns all record sets, newest first, with record counts.
func (s *Store) ListSets(ctx context.Context) ([]SetSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.provider, s.extractor, s.list_args, s.complete, s.created_at,
		        (SELECT COUNT(*) FROM dataset_record_members m WHERE m.record_set_id = s.id)
		 FROM dataset_record_sets s
		 ORDER BY s.created_at DESC, s.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying record sets: %w", err)
	}
	defer rows.Close()

	var sets []SetSummary
	for rows.Next() {
		var sum SetSummary
		var complete int
		var created string
		if err := rows.Scan(&sum.ID, &sum.Provider, &sum.Extractor, &sum.ListArgs,
			&complete, &created, &sum.RecordCount); err != nil {
			return nil, fmt.Errorf("scanning record set: %w", err)
		}
		sum.Complete = complete != 0
		sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		sets = append(sets, sum)
	}
	return sets, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*types.DatasetRecord, error) {
	var rec types.DatasetRecord
	var source, created string
	if err := sc.Scan(&rec.ID, &rec.Provider, &rec.DatasetID, &rec.ModifiedToken,
		&rec.DOI, &source, &rec.SourceHash, &created); err != nil {
		return nil, err
	}
	rec.Source = []byte(source)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &rec, nil
}

func scanRecordSet(sc scanner) (*types.RecordSet, error) {
	var set types.RecordSet
	var complete int
	var created string
	if err := sc.Scan(&set.ID, &set.Provider, &set.Extractor, &set.ListArgs,
		&complete, &created); err != nil {
		return nil, err
	}
	set.Complete = complete != 0
	set.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return &set, nil
}
