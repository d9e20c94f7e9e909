// cmd/mktoken/main.go
// Issues an identity token signed with JWT_SECRET for local development and
// optionally creates the matching profile.
//
// Usage:
//
//	go run ./cmd/mktoken -sub user_takumi -name "Takumi Fujiwara" -profile
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Porx312/ProjectD/access"
	"github.com/Porx312/ProjectD/config"
	bundb "github.com/Porx312/ProjectD/db"
	"github.com/Porx312/ProjectD/identity"
	"github.com/Porx312/ProjectD/ids"
	mw "github.com/Porx312/ProjectD/middleware"
	"github.com/Porx312/ProjectD/store"
)

func main() {
	sub := flag.String("sub", "", "subject, the external user id (required)")
	name := flag.String("name", "", "display name claim")
	nickname := flag.String("nickname", "", "nickname claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	profile := flag.Bool("profile", false, "also create the user's profile row")
	flag.Parse()

	if *sub == "" {
		log.Fatal("-sub is required")
	}

	cfg := config.Load()
	id := identity.Identity{Subject: *sub, Name: *name, Nickname: *nickname}

	token, err := mw.IssueToken(cfg.JWTKey(), id, *ttl)
	if err != nil {
		log.Fatal("sign token:", err)
	}

	if *profile {
		ctx := context.Background()
		db := bundb.Setup(cfg)
		defer db.Close()
		if err := bundb.CreateTables(ctx, db); err != nil {
			log.Fatal("create tables:", err)
		}

		st := store.New(db, store.WithIDs(ids.OrDefault(cfg.SnowflakeNode)))
		profiles := access.New(st, nil, nil, nil).Profiles
		var displayName *string
		if n := id.DisplayName(); n != identity.UnknownUser {
			displayName = &n
		}
		profileID, err := profiles.Create(ctx, *sub, displayName)
		if err != nil {
			log.Fatal("create profile:", err)
		}
		log.Printf("profile %s ready for %q", profileID, *sub)
	}

	fmt.Println(token)
}
