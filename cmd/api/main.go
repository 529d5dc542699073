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
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/your-org/attend/internal/api"
	"github.com/your-org/attend/internal/api/ws"
	"github.com/your-org/attend/internal/attendance"
	"github.com/your-org/attend/internal/config"
	"github.com/your-org/attend/internal/models"
	"github.com/your-org/attend/internal/observability"
	"github.com/your-org/attend/internal/queue"
	"github.com/your-org/attend/internal/storage"
	"github.com/your-org/attend/internal/vision"
	"github.com/your-org/attend/pkg/dto"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting attendance API service", "port", cfg.Server.Port)

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

	if err := db.EnsureSchema(context.Background()); err != nil {
		slog.Error("ensure schema", "error", err)
		os.Exit(1)
	}

	// Connect to MinIO
	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}
	if err := minioStore.EnsureBucket(context.Background()); err != nil {
		slog.Warn("ensure minio bucket", "error", err)
	}

	// Connect to NATS
	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(context.Background()); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Consume recorded events and fan them out to connected dashboards.
	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create event consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeScans(ctx, "api-events", false, func(ctx context.Context, msg jetstream.Msg) error {
		var scan models.ScanEvent
		if err := json.Unmarshal(msg.Data(), &scan); err != nil {
			return err
		}

		evt := dto.EventResponse{
			ID:           scan.EventID,
			EmployeeID:   scan.EmployeeID,
			EmployeeName: scan.EmployeeName,
			Kind:         string(scan.Kind),
			Timestamp:    scan.Timestamp.In(zone).Format(time.RFC3339),
			SiteID:       scan.SiteID,
			DistanceKm:   scan.DistanceKm,
			Confidence:   scan.Confidence,
		}
		if scan.SnapshotKey != "" {
			evt.SnapshotURL = "/v1/photos/" + scan.SnapshotKey
		}

		hub.BroadcastEvent(&dto.WSEvent{
			Type:       "attendance_" + string(scan.Kind),
			LocationID: scan.LocationID,
			Data:       evt,
		})
		return nil
	})
	if err != nil {
		slog.Warn("start event consumer", "error", err)
	}

	// Initialize ONNX Runtime for face extraction. A failed init keeps the
	// service up with the scan and register endpoints degraded.
	extract := attendance.ExtractFunc(func([]byte) ([]float32, error) {
		return nil, fmt.Errorf("face recognition unavailable")
	})

	ort.SetSharedLibraryPath(getONNXLibPath())
	if err := ort.InitializeEnvironment(); err != nil {
		slog.Warn("onnx runtime init failed — scan/register will be unavailable", "error", err)
	} else {
		extractor, err := vision.NewExtractor(cfg.Vision)
		if err != nil {
			slog.Warn("vision extractor init failed — scan/register will be unavailable", "error", err)
		} else {
			extract = extractor.Extract
			defer extractor.Close()
			defer ort.DestroyEnvironment()
			slog.Info("vision extractor ready")
		}
	}

	engine := attendance.NewEngine(db, extract, attendance.Options{
		Tolerance: cfg.Attendance.Tolerance,
		RadiusKm:  cfg.Attendance.GeofenceRadius,
		Zone:      zone,
		Snapshots: minioStore,
		Publisher: producer,
	})

	// Setup router
	router := api.NewRouter(api.RouterConfig{
		AdminKey:      cfg.Server.AdminKey,
		SuperadminKey: cfg.Server.SuperadminKey,
		DB:            db,
		MinIO:         minioStore,
		Producer:      producer,
		Hub:           hub,
		Engine:        engine,
		Extract:       extract,
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
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
