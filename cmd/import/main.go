// cmd/import/main.go
// Loads a Convex snapshot export into the configured database. The export
// directory holds one <table>/documents.jsonl file per table. Document ids
// and creation times are kept, so re-running the import is idempotent.
//
// Usage:
//
//	npx convex export --path snapshot.zip && unzip snapshot.zip -d snapshot
//	go run ./cmd/import -dir snapshot
package main

import (
	"context"
	"flag"
	"log"

	"github.com/spf13/afero"

	"github.com/Porx312/ProjectD/config"
	bundb "github.com/Porx312/ProjectD/db"
)

func main() {
	dir := flag.String("dir", "", "unpacked snapshot export directory (required)")
	flag.Parse()

	if *dir == "" {
		log.Fatal("-dir is required")
	}

	ctx := context.Background()
	cfg := config.Load()

	db := bundb.Setup(cfg)
	defer db.Close()

	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	imp := &importer{fs: afero.NewBasePathFs(afero.NewOsFs(), *dir), db: db}
	counts, err := imp.run(ctx)
	if err != nil {
		log.Fatalf("import: %v", err)
	}
	for _, c := range counts {
		log.Printf("%-15s  %d rows imported", c.table, c.rows)
	}
	log.Println("import complete")
}
