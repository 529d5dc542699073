package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/attend/internal/config"
	"github.com/your-org/attend/internal/models"
	"github.com/your-org/attend/internal/observability"
	"github.com/your-org/attend/internal/payroll"
	"github.com/your-org/attend/internal/queue"
	"github.com/your-org/attend/internal/storage"
)

// The payroll worker recomputes an employee's month whenever one of their
// attendance events is recorded. DeliverAll replays retained history on a
// fresh durable consumer, so a restarted worker converges on the same
// figures.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting payroll worker", "timezone", cfg.Attendance.Timezone)

	zone, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		slog.Error("load timezone", "zone", cfg.Attendance.Timezone, "error", err)
		os.Exit(1)
	}

	// Connect to Postgres
	db, err := storage.NewPostgresStore(cfg.Database, cfg.Attendance.Timezone)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to NATS
	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeScans(ctx, "payroll-worker", true, func(ctx context.Context, msg jetstream.Msg) error {
		var scan models.ScanEvent
		if err := json.Unmarshal(msg.Data(), &scan); err != nil {
			slog.Error("unmarshal scan event", "error", err)
			return nil // don't retry on unmarshal errors
		}

		if err := recomputeMonth(ctx, db, zone, scan); err != nil {
			return fmt.Errorf("recompute payroll for %s: %w", scan.EmployeeID, err)
		}
		return nil
	})
	if err != nil {
		slog.Error("start scan consumer", "error", err)
		os.Exit(1)
	}

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		slog.Info("worker metrics listening", "addr", ":8082")
		if err := http.ListenAndServe(":8082", mux); err != nil {
			slog.Error("metrics server error", "error", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second)
	slog.Info("worker stopped")
}

// recomputeMonth rebuilds the payroll record for the month the event's own
// timestamp falls in, in the deployment zone.
func recomputeMonth(ctx context.Context, db *storage.PostgresStore, zone *time.Location, scan models.ScanEvent) error {
	emp, err := db.GetEmployee(ctx, scan.EmployeeID)
	if err != nil {
		return err
	}
	if emp == nil {
		slog.Warn("scan for unknown employee", "employee", scan.EmployeeID)
		return nil
	}

	local := scan.Timestamp.In(zone)
	year, month := local.Year(), int(local.Month())

	present, err := db.PresentDays(ctx, emp.ID, year, month)
	if err != nil {
		return err
	}

	workingDays := len(payroll.MonthDays(year, month, zone, time.Now()))
	absent := workingDays - present
	if absent < 0 {
		absent = 0
	}
	figures := payroll.Compute(emp.BaseSalary, emp.DeductionPerDay, absent)

	record := &models.PayrollRecord{
		EmployeeID:     emp.ID,
		Year:           year,
		Month:          month,
		WorkingDays:    workingDays,
		PresentDays:    present,
		AbsentDays:     absent,
		BaseSalary:     figures.BaseSalary,
		TotalDeduction: figures.TotalDeduction,
		NetSalary:      figures.NetSalary,
	}
	if err := db.UpsertPayrollRecord(ctx, record); err != nil {
		return err
	}

	observability.PayrollRecomputed.Inc()
	slog.Info("payroll recomputed",
		"employee", emp.Name,
		"year", year,
		"month", month,
		"present", present,
		"net", figures.NetSalary,
	)
	return nil
}
