package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"time"

	"github.com/spf13/afero"
	"github.com/uptrace/bun"

	"github.com/Porx312/ProjectD/models"
)

const batchSize = 500

// timeFields are document fields holding epoch milliseconds.
var timeFields = []string{"createdAt", "savedAt", "proSince"}

type tableCount struct {
	table string
	rows  int
}

type importer struct {
	fs afero.Fs
	db *bun.DB
}

func (imp *importer) run(ctx context.Context) ([]tableCount, error) {
	steps := []struct {
		table string
		fn    func(context.Context, string) (int, error)
	}{
		{"users", importTable[models.User](imp)},
		{"tracks", importTable[models.Track](imp)},
		{"corners", importTable[models.Corner](imp)},
		{"userTimes", importTable[models.UserTime](imp)},
		{"trackComments", importTable[models.TrackComment](imp)},
		{"trackStars", importTable[models.TrackStar](imp)},
		{"savedTracks", importTable[models.SavedTrack](imp)},
	}

	counts := make([]tableCount, 0, len(steps))
	for _, s := range steps {
		n, err := s.fn(ctx, path.Join(s.table, "documents.jsonl"))
		if err != nil {
			return counts, fmt.Errorf("%s: %w", s.table, err)
		}
		counts = append(counts, tableCount{table: s.table, rows: n})
	}
	return counts, nil
}

// importTable returns a loader for one exported table. A missing export file
// counts as an empty table.
func importTable[T any, PT interface {
	*T
	models.Document
}](imp *importer) func(context.Context, string) (int, error) {
	return func(ctx context.Context, name string) (int, error) {
		f, err := imp.fs.Open(name)
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		defer f.Close()

		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

		var (
			batch []T
			total int
			line  int
		)
		for sc.Scan() {
			line++
			if len(sc.Bytes()) == 0 {
				continue
			}
			var row T
			if err := decodeDocument(sc.Bytes(), PT(&row)); err != nil {
				return total, fmt.Errorf("line %d: %w", line, err)
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := bulkInsert(ctx, imp.db, batch); err != nil {
					return total, err
				}
				total += len(batch)
				batch = batch[:0]
			}
		}
		if err := sc.Err(); err != nil {
			return total, err
		}
		if err := bulkInsert(ctx, imp.db, batch); err != nil {
			return total, err
		}
		return total + len(batch), nil
	}
}

// decodeDocument maps one exported document onto a model. The system fields
// _id and _creationTime become the id and creation time.
func decodeDocument(b []byte, doc models.Document) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var id string
	if err := json.Unmarshal(raw["_id"], &id); err != nil || id == "" {
		return errors.New("document without _id")
	}
	var created float64
	if v, ok := raw["_creationTime"]; ok {
		if err := json.Unmarshal(v, &created); err != nil {
			return fmt.Errorf("_creationTime: %w", err)
		}
	}
	delete(raw, "_id")
	delete(raw, "_creationTime")

	for _, k := range timeFields {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var ms float64
		if err := json.Unmarshal(v, &ms); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		ts, err := json.Marshal(fromMillis(ms))
		if err != nil {
			return err
		}
		raw[k] = ts
	}

	fixed, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(fixed, doc); err != nil {
		return err
	}
	doc.Stamp(id, fromMillis(created))
	return nil
}

func fromMillis(ms float64) time.Time {
	sec, frac := math.Modf(ms / 1000)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC().Truncate(time.Microsecond)
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, db *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}
