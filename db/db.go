package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	_ "modernc.org/sqlite"

	"github.com/Porx312/ProjectD/config"
	"github.com/Porx312/ProjectD/models"
)

// Setup opens the configured store connection and verifies it.
func Setup(cfg *config.Config) *bun.DB {
	var (
		db  *bun.DB
		err error
	)
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err = OpenSQLite(cfg.SQLiteDSN)
	default:
		db = OpenPostgres(cfg.PostgresDSN())
	}
	if err != nil {
		log.Fatal("failed to open database:", err)
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// OpenPostgres opens a PostgreSQL connection through pgdriver.
func OpenPostgres(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// OpenSQLite opens a SQLite database. The pool is pinned to a single connection
// so that in-memory databases keep their contents and writers never contend.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

type index struct {
	model   interface{}
	name    string
	columns []string
	unique  bool
}

// indexes are the secondary keys every lookup goes through. The
// (user, track) pairs are unique so star and save writes can rely on conflicts.
var indexes = []index{
	{(*models.User)(nil), "users_by_user_id", []string{"user_id"}, true},
	{(*models.Track)(nil), "tracks_by_user_id", []string{"user_id", "created_at"}, false},
	{(*models.Track)(nil), "tracks_by_created_at", []string{"created_at"}, false},
	{(*models.Corner)(nil), "corners_by_track", []string{"track_id"}, false},
	{(*models.UserTime)(nil), "user_times_by_corner", []string{"corner_id"}, false},
	{(*models.UserTime)(nil), "user_times_by_user_id", []string{"user_id"}, false},
	{(*models.UserTime)(nil), "user_times_by_corner_and_user", []string{"corner_id", "user_id"}, false},
	{(*models.TrackComment)(nil), "track_comments_by_track_id", []string{"track_id"}, false},
	{(*models.TrackStar)(nil), "track_stars_by_user_id", []string{"user_id"}, false},
	{(*models.TrackStar)(nil), "track_stars_by_track_id", []string{"track_id"}, false},
	{(*models.TrackStar)(nil), "track_stars_by_user_id_and_track_id", []string{"user_id", "track_id"}, true},
	{(*models.SavedTrack)(nil), "saved_tracks_by_user_id", []string{"user_id"}, false},
	{(*models.SavedTrack)(nil), "saved_tracks_by_track_id", []string{"track_id"}, false},
	{(*models.SavedTrack)(nil), "saved_tracks_by_user_and_track", []string{"user_id", "track_id"}, true},
}

// CreateTables creates all tables and their indexes. It is idempotent.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Track)(nil),
		(*models.Corner)(nil),
		(*models.UserTime)(nil),
		(*models.TrackComment)(nil),
		(*models.TrackStar)(nil),
		(*models.SavedTrack)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	for _, ix := range indexes {
		q := db.NewCreateIndex().Model(ix.model).Index(ix.name).Column(ix.columns...).IfNotExists()
		if ix.unique {
			q = q.Unique()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("creating index %s: %w", ix.name, err)
		}
	}

	return nil
}
