package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/corehr/hrm-backend/internal/config"
	"github.com/corehr/hrm-backend/internal/repository"
	"github.com/corehr/hrm-backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var employees int
	var days int
	var months int

	flag.IntVar(&employees, "employees", 10, "number of demo employees to insert")
	flag.IntVar(&days, "days", 30, "days of attendance history to backfill")
	flag.IntVar(&months, "months", 3, "months of payroll history to generate")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
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

	// sql.Open does not dial, so verify the DSN before seeding
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	if employees <= 0 {
		logger.Error("employees must be positive")
		return
	}

	ids := seed.Employees(cfg, repo, employees)
	if len(ids) == 0 {
		logger.Error("no employees were inserted, aborting")
		return
	}

	if days > 0 {
		seed.Attendance(cfg, repo, ids, days)
	}
	seed.Leaves(repo, ids)
	if months > 0 {
		seed.Payroll(repo, months)
	}

	logger.Info("seeding complete")
}
