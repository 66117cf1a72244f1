// Command formsctl runs maintenance tasks and issues credentials for the
// forms backend.
//
//	formsctl normalize-responses
//	formsctl default-folders
//	formsctl token -user u1 -email a@b.c -role admin -ttl 24h
//	formsctl hash-key -key <api key>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"forms-backend/src/config"
	"forms-backend/src/jobs"
	"forms-backend/src/store"
	"forms-backend/src/utils"

	"golang.org/x/crypto/bcrypt"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: formsctl <normalize-responses|default-folders|token|hash-key> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cfg := config.Load()

	var err error
	switch name := os.Args[1]; name {
	case "normalize-responses", "default-folders":
		err = runMaintenance(cfg, name)
	case "token":
		err = issueToken(cfg, os.Args[2:])
	case "hash-key":
		err = hashKey(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func runMaintenance(cfg config.Config, name string) error {
	taskType, _ := jobs.TaskType(name)
	ctx := context.Background()
	backend := store.Open(ctx, store.Options{
		URI:            cfg.MongoURI,
		DBName:         cfg.MongoDBName,
		ConnectTimeout: cfg.MongoConnectTimeout,
		Mongo:          store.MongoOptions{QueryTimeout: cfg.MongoQueryTimeout},
	})
	defer backend.Close(ctx)
	if backend.Mode != store.ModeDurable {
		return fmt.Errorf("MongoDB unavailable at %s", cfg.MongoURI)
	}
	n, err := jobs.NewHandlers(backend).Run(ctx, taskType)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d record(s) updated\n", name, n)
	return nil
}

func issueToken(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	user := fs.String("user", "", "user id (required)")
	email := fs.String("email", "", "user email")
	role := fs.String("role", utils.RoleUser, "admin | designer | user")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	_ = fs.Parse(args)

	if *user == "" {
		return fmt.Errorf("-user is required")
	}
	switch *role {
	case utils.RoleAdmin, utils.RoleDesigner, utils.RoleUser:
	default:
		return fmt.Errorf("unknown role %q", *role)
	}
	token, err := utils.GenerateJWT([]byte(cfg.JWTSecret), *user, *email, *role, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func hashKey(args []string) error {
	fs := flag.NewFlagSet("hash-key", flag.ExitOnError)
	key := fs.String("key", "", "API key to hash (required)")
	_ = fs.Parse(args)

	if *key == "" {
		return fmt.Errorf("-key is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*key), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Println(string(hash))
	return nil
}
