package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/attend/internal/attendance"
	"github.com/your-org/attend/internal/config"
	"github.com/your-org/attend/internal/observability"
	"github.com/your-org/attend/internal/storage"
	"github.com/your-org/attend/internal/vision"
)

// The importer bulk-registers employees from a directory of photos. Each
// file becomes one employee named after the file (spaces for underscores,
// extension dropped). Files without a detectable face are skipped.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	dir := flag.String("dir", "", "directory of employee photos")
	locationStr := flag.String("location", "", "location id to assign employees to (optional)")
	baseSalary := flag.Float64("base-salary", 0, "base monthly salary for imported employees")
	deduction := flag.Float64("deduction-per-day", 0, "deduction per absent day")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "usage: importer -dir /path/to/photos [-location <uuid>]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting employee importer", "dir", *dir)

	var locationID *uuid.UUID
	if *locationStr != "" {
		id, err := uuid.Parse(*locationStr)
		if err != nil {
			slog.Error("invalid location id", "value", *locationStr)
			os.Exit(1)
		}
		locationID = &id
	}

	zone, err := time.LoadLocation(cfg.Attendance.Timezone)
	if err != nil {
		slog.Error("load timezone", "zone", cfg.Attendance.Timezone, "error", err)
		os.Exit(1)
	}

	db, err := storage.NewPostgresStore(cfg.Database, cfg.Attendance.Timezone)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		slog.Error("ensure schema", "error", err)
		os.Exit(1)
	}

	ort.SetSharedLibraryPath(getONNXLibPath())
	if err := ort.InitializeEnvironment(); err != nil {
		slog.Error("init onnx runtime", "error", err)
		os.Exit(1)
	}
	defer ort.DestroyEnvironment()

	extractor, err := vision.NewExtractor(cfg.Vision)
	if err != nil {
		slog.Error("init vision extractor", "error", err)
		os.Exit(1)
	}
	defer extractor.Close()

	engine := attendance.NewEngine(db, extractor.Extract, attendance.Options{
		Tolerance: cfg.Attendance.Tolerance,
		RadiusKm:  cfg.Attendance.GeofenceRadius,
		Zone:      zone,
	})

	entries, err := os.ReadDir(*dir)
	if err != nil {
		slog.Error("read photo directory", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var imported, skipped int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("read photo", "file", entry.Name(), "error", err)
			skipped++
			continue
		}

		name := strings.ReplaceAll(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())), "_", " ")

		result, err := engine.RegisterEmployee(ctx, attendance.RegisterInput{
			Name:            name,
			FaceImage:       data,
			LocationID:      locationID,
			BaseSalary:      *baseSalary,
			DeductionPerDay: *deduction,
		})
		if err != nil {
			slog.Warn("register employee", "file", entry.Name(), "error", err)
			skipped++
			continue
		}
		if result.Status != attendance.StatusRegistered {
			slog.Warn("photo skipped", "file", entry.Name(), "status", string(result.Status))
			skipped++
			continue
		}

		slog.Info("employee imported", "name", name, "id", result.Employee.ID)
		imported++
	}

	slog.Info("import complete", "imported", imported, "skipped", skipped)
}

// getONNXLibPath returns the ONNX Runtime shared library path.
func getONNXLibPath() string {
	switch runtime.GOOS {
	case "windows":
		return "onnxruntime.dll"
	case "linux":
		return "libonnxruntime.so"
	case "darwin":
		return "libonnxruntime.dylib"
	default:
		return "onnxruntime.dll"
	}
}
