// Package store is the entity store: typed insert/get/patch/delete over bun and
// index-style lookups by equality on declared secondary keys.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/Porx312/ProjectD/ids"
	"github.com/Porx312/ProjectD/models"
)

// Order selects the creation-time ordering of a collected query.
type Order int

const (
	Asc Order = iota
	Desc
)

// Eq is an equality predicate on an indexed column.
type Eq struct {
	Column string
	Value  interface{}
}

// By is shorthand for an Eq predicate.
func By(column string, value interface{}) Eq {
	return Eq{Column: column, Value: value}
}

// Store wraps the bun connection together with the id generator and clock used
// for server-assigned fields.
type Store struct {
	db  *bun.DB
	ids *ids.Generator
	now func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithIDs(g *ids.Generator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{
		db:  db,
		ids: ids.OrDefault(1),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Insert stamps doc with a new id and creation time and writes it. Returns the id.
func (s *Store) Insert(ctx context.Context, doc models.Document) (string, error) {
	doc.Stamp(s.ids.Next(), s.now())
	if _, err := s.db.NewInsert().Model(doc).Exec(ctx); err != nil {
		return "", fmt.Errorf("insert %T: %w", doc, err)
	}
	return doc.Key(), nil
}

// InsertIfAbsent inserts doc unless a row with the same values in the unique
// conflict columns exists. Reports whether a row was written.
func (s *Store) InsertIfAbsent(ctx context.Context, doc models.Document, conflict ...string) (bool, error) {
	return insertIfAbsent(ctx, s.db, s, doc, conflict)
}

// Toggle deletes the rows of doc's table matching conds; when none existed it
// inserts doc instead. Both steps run in one transaction and the insert is
// conflict-aware, so concurrent toggles cannot leave duplicate rows.
// Reports whether the row is present afterwards.
func (s *Store) Toggle(ctx context.Context, doc models.Document, conds ...Eq) (bool, error) {
	var present bool
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewDelete().Model(doc)
		for _, c := range conds {
			q = q.Where("? = ?", bun.Ident(c.Column), c.Value)
		}
		res, err := q.Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			present = false
			return nil
		}
		cols := make([]string, len(conds))
		for i, c := range conds {
			cols[i] = c.Column
		}
		if _, err := insertIfAbsent(ctx, tx, s, doc, cols); err != nil {
			return err
		}
		present = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("toggle %T: %w", doc, err)
	}
	return present, nil
}

// Patch writes the given columns of doc, matched by primary key. Reports false
// when no row with doc's id exists.
func (s *Store) Patch(ctx context.Context, doc interface{}, columns ...string) (bool, error) {
	if len(columns) == 0 {
		return s.db.NewSelect().Model(doc).WherePK().Exists(ctx)
	}
	res, err := s.db.NewUpdate().Model(doc).Column(columns...).WherePK().Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("patch %T: %w", doc, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get loads the row with the given id, or nil when there is none.
func Get[T any](ctx context.Context, s *Store, id string) (*T, error) {
	return First[T](ctx, s, By("id", id))
}

// First returns the first row matching conds, or nil.
func First[T any](ctx context.Context, s *Store, conds ...Eq) (*T, error) {
	row := new(T)
	q := s.db.NewSelect().Model(row)
	for _, c := range conds {
		q = q.Where("? = ?", bun.Ident(c.Column), c.Value)
	}
	if err := q.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("first %T: %w", row, err)
	}
	return row, nil
}

// Collect returns all rows matching conds ordered by creation time.
func Collect[T any](ctx context.Context, s *Store, order Order, conds ...Eq) ([]T, error) {
	rows := []T{}
	q := s.db.NewSelect().Model(&rows)
	for _, c := range conds {
		q = q.Where("? = ?", bun.Ident(c.Column), c.Value)
	}
	if order == Desc {
		q = q.OrderExpr("created_at DESC, id DESC")
	} else {
		q = q.OrderExpr("created_at ASC, id ASC")
	}
	if err := q.Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collect %T: %w", rows, err)
	}
	return rows, nil
}

// Count returns the number of rows matching conds.
func Count[T any](ctx context.Context, s *Store, conds ...Eq) (int, error) {
	q := s.db.NewSelect().Model((*T)(nil))
	for _, c := range conds {
		q = q.Where("? = ?", bun.Ident(c.Column), c.Value)
	}
	n, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %T: %w", (*T)(nil), err)
	}
	return n, nil
}

// Delete removes the row with the given id. Reports whether a row was removed.
func Delete[T any](ctx context.Context, s *Store, id string) (bool, error) {
	n, err := DeleteWhere[T](ctx, s, By("id", id))
	return n > 0, err
}

// DeleteWhere removes all rows matching conds and returns how many were removed.
func DeleteWhere[T any](ctx context.Context, s *Store, conds ...Eq) (int, error) {
	if len(conds) == 0 {
		return 0, errors.New("delete without predicate")
	}
	q := s.db.NewDelete().Model((*T)(nil))
	for _, c := range conds {
		q = q.Where("? = ?", bun.Ident(c.Column), c.Value)
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete %T: %w", (*T)(nil), err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func insertIfAbsent(ctx context.Context, db bun.IDB, s *Store, doc models.Document, conflict []string) (bool, error) {
	doc.Stamp(s.ids.Next(), s.now())
	q := db.NewInsert().Model(doc)
	if len(conflict) > 0 {
		q = q.On(fmt.Sprintf("CONFLICT (%s) DO NOTHING", strings.Join(conflict, ", ")))
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("insert %T: %w", doc, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
