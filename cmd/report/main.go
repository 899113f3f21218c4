package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/accord-hospitals/interview-portal/backend/internal/config"
	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
	"github.com/accord-hospitals/interview-portal/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
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
		os.Exit(1)
	}
	defer dbpool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	stats, err := repo.DepartmentStats(context.Background())
	if err != nil {
		logger.Error("failed to load department statistics", "error", err)
		return
	}
	if len(stats) == 0 {
		color.Red("No applications yet.")
		return
	}

	color.Cyan("\n=== %s applications by department ===", cfg.Email.OrganizationName)
	renderStats(stats)
}

func renderStats(stats []domain.DepartmentStat) {
	counts := make(map[string]map[domain.Status]int)
	for _, s := range stats {
		dept := s.Department
		if dept == "" {
			dept = "(none)"
		}
		if counts[dept] == nil {
			counts[dept] = make(map[domain.Status]int)
		}
		counts[dept][s.Status] += s.Count
	}

	departments := make([]string, 0, len(counts))
	for dept := range counts {
		departments = append(departments, dept)
	}
	sort.Strings(departments)

	header := []string{"Department"}
	for _, status := range domain.Statuses {
		header = append(header, string(status))
	}
	header = append(header, "Total")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)

	totals := make([]int, len(domain.Statuses)+1)
	for _, dept := range departments {
		row := []string{dept}
		sum := 0
		for i, status := range domain.Statuses {
			n := counts[dept][status]
			row = append(row, strconv.Itoa(n))
			totals[i] += n
			sum += n
		}
		totals[len(totals)-1] += sum
		row = append(row, strconv.Itoa(sum))
		table.Append(row)
	}

	footer := []string{"Total"}
	for _, n := range totals {
		footer = append(footer, strconv.Itoa(n))
	}
	table.SetFooter(footer)
	table.Render()

	color.Yellow("\n%d applications across %d departments", totals[len(totals)-1], len(departments))
}
