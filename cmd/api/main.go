package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/accord-hospitals/interview-portal/backend/internal/config"
	"github.com/accord-hospitals/interview-portal/backend/internal/handler"
	"github.com/accord-hospitals/interview-portal/backend/internal/notify"
	"github.com/accord-hospitals/interview-portal/backend/internal/repository"
	"github.com/accord-hospitals/interview-portal/backend/internal/service"
	"github.com/accord-hospitals/interview-portal/backend/internal/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * config
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	/**********************************************
	 * database
	 **********************************************/
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

	// sql.Open does not connect, ping to fail fast
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)
	if err := repo.Migrate(context.Background()); err != nil {
		logger.Error("failed to migrate database", "error", err)
		return
	}

	/**********************************************
	 * mail transport
	 **********************************************/
	var transport notify.Transport
	switch cfg.Email.Transport {
	case config.MailTransportQueue:
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			logger.Error("failed to open channel", "error", err)
			return
		}
		defer ch.Close()

		if _, err := notify.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
			logger.Error("failed to declare queue", "error", err)
			return
		}
		transport = notify.NewQueueTransport(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	default:
		smtp, err := notify.NewSMTPTransport(cfg, logger)
		if err != nil {
			logger.Error("failed to create mail client", "error", err)
			return
		}
		defer smtp.Close()
		transport = smtp
	}

	renderer, err := notify.NewRenderer(cfg.Email.OrganizationName)
	if err != nil {
		logger.Error("failed to load mail templates", "error", err)
		return
	}
	dispatcher := notify.NewDispatcher(logger, renderer, transport, cfg.Email.OrganizationName)

	/**********************************************
	 * services
	 **********************************************/
	accounts := service.NewAccountService(repo, service.NewBcryptHasher(), dispatcher)
	services := handler.Services{
		Accounts:     accounts,
		Applications: service.NewApplicationService(repo, repo, dispatcher),
		Exports:      service.NewExportService(repo, repo),
	}

	hr, created, err := accounts.EnsureHR(context.Background(), cfg.InitialHR.Email, cfg.InitialHR.Password, cfg.InitialHR.FullName)
	if err != nil {
		logger.Error("failed to bootstrap HR account", "error", err)
		return
	}
	if created {
		logger.Info("HR account created", "email", hr.Email)
	}

	artifacts, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		logger.Error("failed to prepare upload directory", "error", err)
		return
	}

	/**********************************************
	 * redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()
	limiter := handler.NewRedisLimiter(rdb, time.Duration(cfg.Redis.OperationTimeout)*time.Millisecond)

	/**********************************************
	 * handler
	 **********************************************/
	h, err := handler.NewHandler(cfg, services, artifacts, limiter)
	if err != nil {
		logger.Error("failed to create handler", "error", err)
		return
	}
	h.RegisterRoutes()

	/**********************************************
	 * HTTP server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logger.Info("shutting down server")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
