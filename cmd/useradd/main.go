// Command useradd provisions a shop account. The HTTP API has no sign-up route.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/service"
)

func main() {
	username := flag.String("username", "", "account name")
	password := flag.String("password", "", "account password")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = logging.IntoContext(ctx, logger)

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	defer db.Close(gdb)

	if err := db.Migrate(ctx, gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	store := repo.New(gdb)
	svc := &service.AuthService{Users: store, Sessions: store}

	u, err := svc.CreateUser(ctx, *username, *password)
	switch {
	case errors.Is(err, service.ErrConflict):
		log.Fatalf("user %q already exists", *username)
	case err != nil:
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("created user %q with id %d\n", u.Username, u.ID)
}
