// Package sqlite provides a SQLite-backed list membership store.
//
// Members keep their insertion position within a list; pages are ordered by
// position and the cursor is the position of the last member served.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/rshade/listmembers/internal/domain"
	"github.com/rshade/listmembers/internal/source"
	"github.com/rshade/listmembers/internal/source/sqlite/migrations"
)

// Store errors.
var (
	ErrNotConfigured = errors.New("storage is not configured")
	ErrListExists    = errors.New("list already exists")
	ErrMemberExists  = errors.New("member already in list")
)

// Store persists lists and their members in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection serializes writers; SQLite allows only one at a time.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err = applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateList inserts a list record.
func (s *Store) CreateList(ctx context.Context, list domain.ListIdentity) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	uri := strings.TrimSpace(list.URI)
	if uri == "" {
		return errors.New("list uri is required")
	}
	if strings.TrimSpace(list.CreatorID) == "" {
		return errors.New("list creator is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lists (uri, name, creator_id, creator_handle, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uri, strings.TrimSpace(list.Name), list.CreatorID, list.CreatorHandle, time.Now().UTC().UnixMilli(),
	)
	if isConstraintError(err) {
		return fmt.Errorf("%w: %s", ErrListExists, uri)
	}
	if err != nil {
		return fmt.Errorf("insert list: %w", err)
	}
	return nil
}

// GetList returns the list record for uri.
func (s *Store) GetList(ctx context.Context, uri string) (domain.ListIdentity, error) {
	if err := s.ready(ctx); err != nil {
		return domain.ListIdentity{}, err
	}
	var list domain.ListIdentity
	err := s.db.QueryRowContext(ctx,
		`SELECT uri, name, creator_id, creator_handle FROM lists WHERE uri = ?`, uri,
	).Scan(&list.URI, &list.Name, &list.CreatorID, &list.CreatorHandle)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ListIdentity{}, fmt.Errorf("%w: %s", source.ErrListNotFound, uri)
	}
	if err != nil {
		return domain.ListIdentity{}, fmt.Errorf("get list: %w", err)
	}
	return list, nil
}

// AddMembers appends members to the end of a list in one transaction.
func (s *Store) AddMembers(ctx context.Context, listURI string, members ...domain.Member) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add members: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM lists WHERE uri = ?`, listURI).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", source.ErrListNotFound, listURI)
	}
	if err != nil {
		return fmt.Errorf("check list: %w", err)
	}

	var next int64
	if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) FROM list_members WHERE list_uri = ?`, listURI,
	).Scan(&next); err != nil {
		return fmt.Errorf("read last position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO list_members (
		   list_uri, position, member_id, handle, display_name, description, edit_eligible, added_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert member: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().UnixMilli()
	for _, m := range members {
		if strings.TrimSpace(m.ID) == "" {
			return errors.New("member id is required")
		}
		next++
		_, err = stmt.ExecContext(ctx,
			listURI, next, m.ID, m.Handle, m.DisplayName, m.Description, boolToInt(m.EditEligible), now)
		if isConstraintError(err) {
			if isForeignKeyError(err) {
				return fmt.Errorf("%w: %s", source.ErrListNotFound, listURI)
			}
			return fmt.Errorf("%w: %s", ErrMemberExists, m.ID)
		}
		if err != nil {
			return fmt.Errorf("insert member %s: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// RemoveMember deletes memberID from listURI. It reports whether a row was
// removed.
func (s *Store) RemoveMember(ctx context.Context, listURI, memberID string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM list_members WHERE list_uri = ? AND member_id = ?`, listURI, memberID)
	if err != nil {
		return false, fmt.Errorf("delete member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete member: %w", err)
	}
	return n > 0, nil
}

// CountMembers returns how many members listURI has.
func (s *Store) CountMembers(ctx context.Context, listURI string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM list_members WHERE list_uri = ?`, listURI,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

// FetchPage implements source.ListSource.
func (s *Store) FetchPage(ctx context.Context, listURI, cursor string, limit int) (domain.Page, error) {
	if limit <= 0 {
		return domain.Page{}, errors.New("page size must be greater than zero")
	}
	list, err := s.GetList(ctx, listURI)
	if err != nil {
		return domain.Page{}, err
	}

	var after int64
	if cursor = strings.TrimSpace(cursor); cursor != "" {
		after, err = strconv.ParseInt(cursor, 10, 64)
		if err != nil || after < 0 {
			return domain.Page{}, fmt.Errorf("%w: %q", source.ErrInvalidCursor, cursor)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, member_id, handle, display_name, description, edit_eligible
		   FROM list_members
		  WHERE list_uri = ? AND position > ?
		  ORDER BY position ASC
		  LIMIT ?`,
		listURI, after, limit+1,
	)
	if err != nil {
		return domain.Page{}, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	page := domain.Page{List: list, Members: make([]domain.Member, 0, limit)}
	var lastPos int64
	for rows.Next() {
		var (
			pos      int64
			m        domain.Member
			eligible int
		)
		if err = rows.Scan(&pos, &m.ID, &m.Handle, &m.DisplayName, &m.Description, &eligible); err != nil {
			return domain.Page{}, fmt.Errorf("scan member: %w", err)
		}
		if len(page.Members) == limit {
			page.NextCursor = strconv.FormatInt(lastPos, 10)
			break
		}
		m.EditEligible = eligible != 0
		page.Members = append(page.Members, m)
		lastPos = pos
	}
	if err = rows.Err(); err != nil {
		return domain.Page{}, fmt.Errorf("iterate members: %w", err)
	}
	return page, nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return ErrNotConfigured
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY,
			sqlite3lib.SQLITE_CONSTRAINT_UNIQUE,
			sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "constraint failed")
}

func isForeignKeyError(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}
