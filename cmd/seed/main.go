package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/accord-hospitals/interview-portal/backend/internal/config"
	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/notify"
	"github.com/accord-hospitals/interview-portal/backend/internal/repository"
	"github.com/accord-hospitals/interview-portal/backend/internal/seed"
	"github.com/accord-hospitals/interview-portal/backend/internal/service"
	"github.com/accord-hospitals/interview-portal/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var id int64
	var status string
	var email string
	var name string
	var password string
	var file string

	flag.IntVar(&op, "op", 0, "operation (1: random candidates, 2: unit head account, 3: override status, 4: import candidates from CSV, 5: active HOD account)")
	flag.IntVar(&n, "n", 5, "number of random candidates")
	flag.Int64Var(&id, "id", 0, "application id for -op 3")
	flag.StringVar(&status, "status", string(domain.StatusOffered), "status for -op 3")
	flag.StringVar(&email, "email", "", "account email for -op 2 and -op 5")
	flag.StringVar(&name, "name", "", "account full name for -op 2 and -op 5")
	flag.StringVar(&password, "password", "", "account password for -op 2 and -op 5 (defaults to SEED_PASSWORD)")
	flag.StringVar(&file, "file", "", "CSV file for -op 4")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.Migrate(context.Background()); err != nil {
		logger.Error("failed to migrate database", "error", err)
		return
	}

	if password == "" {
		password = cfg.Seed.Password
	}

	switch op {
	case 0:
		slog.Error("no operation specified")
	case 1:
		if n <= 0 {
			slog.Error("n must be positive")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			app, err := utils.GenerateRandomApplication()
			if err != nil {
				slog.Error("failed to generate application", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateApplication(context.Background(), app); err != nil {
				slog.Error("failed to insert application", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("inserted applications", slog.Int("count", cnt))
	case 2, 5:
		role := domain.RoleUnitHead
		if op == 5 {
			role = domain.RoleHOD
		}

		accounts := service.NewAccountService(repo, service.NewBcryptHasher(), nil)
		account, err := accounts.CreateAccount(context.Background(), role, name, email, password)
		if err != nil {
			slog.Error("failed to create account", slog.String("role", string(role)), slog.String("error", err.Error()))
			return
		}

		slog.Info("account created", slog.Int64("id", account.ID), slog.String("role", string(account.Role)), slog.String("email", account.Email))
	case 3:
		if id <= 0 {
			slog.Error("id must be positive")
			return
		}
		if !domain.Status(status).Valid() {
			slog.Error("unknown status", slog.String("status", status))
			return
		}

		if err := repo.OverrideApplicationStatus(context.Background(), id, domain.Status(status)); err != nil {
			slog.Error("failed to override status", slog.Int64("id", id), slog.String("error", err.Error()))
			return
		}

		slog.Info("status overridden", slog.Int64("id", id), slog.String("status", status))
	case 4:
		f, err := os.Open(file)
		if err != nil {
			slog.Error("failed to open CSV file", slog.String("error", err.Error()))
			return
		}
		defer f.Close()

		transport, err := notify.NewSMTPTransport(cfg, logger)
		if err != nil {
			slog.Error("failed to create mail client", slog.String("error", err.Error()))
			return
		}
		defer transport.Close()

		renderer, err := notify.NewRenderer(cfg.Email.OrganizationName)
		if err != nil {
			slog.Error("failed to load mail templates", slog.String("error", err.Error()))
			return
		}
		dispatcher := notify.NewDispatcher(logger, renderer, transport, cfg.Email.OrganizationName)

		applications := service.NewApplicationService(repo, repo, dispatcher)
		cnt, err := seed.ImportCandidates(context.Background(), applications, f)
		if err != nil {
			slog.Error("failed to import candidates", slog.String("error", err.Error()))
			return
		}

		slog.Info("imported candidates", slog.Int("count", cnt))
	default:
		slog.Error("unknown operation")
	}
}
