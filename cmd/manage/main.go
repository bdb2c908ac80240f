// Command manage runs administrative tasks against the configured database.
//
//	manage -config config/local.yml migrate
//	manage -config config/local.yml createsuperuser -username root -email root@example.com
//
// The superuser password is read from -password or the SUPERUSER_PASSWORD
// environment variable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"reviewhub/proj/internal/config"
	"reviewhub/proj/internal/domain/errs"
	"reviewhub/proj/internal/lib/logger"
	"reviewhub/proj/internal/services/users"
	"reviewhub/proj/internal/storage/postgres"
	"reviewhub/proj/internal/storage/postgres/models"

	"github.com/fatih/color"
)

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config path] <migrate|createsuperuser> [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfg := config.MustLoad(*cfgPath)
	if cfg.Storage != config.StoragePostgres {
		fail(fmt.Errorf("manage commands need postgres storage, got %q", cfg.Storage))
	}

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "migrate":
		err = postgres.Migrate(cfg.DB.Dsn)
		if err == nil {
			color.Green("migrations applied")
		}
	case "createsuperuser":
		err = createSuperuser(cfg, flag.Args()[1:])
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		fail(err)
	}
}

func createSuperuser(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("createsuperuser", flag.ExitOnError)
	username := fs.String("username", "", "superuser username")
	email := fs.String("email", "", "superuser email")
	password := fs.String("password", os.Getenv("SUPERUSER_PASSWORD"), "superuser password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.DB.Dsn, 2, time.Minute)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := users.New(logger.SetupLogger(cfg.Debug), models.New(db).Users)
	user, err := svc.CreateSuperuser(ctx, users.SuperuserInput{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return err
	}
	color.Green("superuser %q created (id %d)", user.Username, user.ID)
	return nil
}

func fail(err error) {
	if vErr, ok := errs.AsValidation(err); ok {
		for field, msg := range vErr.Errors {
			color.Red("%s: %s", field, msg)
		}
		os.Exit(1)
	}
	color.Red("error: %s", err)
	os.Exit(1)
}
