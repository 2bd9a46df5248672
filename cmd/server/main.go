// Copyright 2025 FIAP Grupo 11SOAT
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/config"
	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/storage"
	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/uplog"
	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/util"
	"github.com/FIAP-Grupo-11SOAT/upload-lambda/service/upload"
)

func main() {
	if err := config.InitConfig(); err != nil {
		uplog.Fatalf("Failed to initialize configuration: %v", err)
	}
	cfg := config.Get()

	if level, err := uplog.ParseLevel(cfg.LogLevel); err != nil {
		uplog.Warnf("Invalid log level %q, keeping default: %v", cfg.LogLevel, err)
	} else {
		uplog.SetLevel(level)
	}

	if cfg.WorkDir != "" {
		if err := util.EnsureDir(cfg.WorkDir); err != nil {
			uplog.Fatalf("Failed to create work dir %s: %v", cfg.WorkDir, err)
		}
	}

	if cfg.FFmpegPath == "" {
		if _, err := exec.LookPath("ffmpeg"); err != nil {
			uplog.Warn("ffmpeg not found on PATH; relying on fallback locations")
		}
	}

	ctx := context.Background()

	records, err := storage.NewRedisRecordStore(ctx, cfg.RedisAddr, cfg.Table)
	if err != nil {
		uplog.Fatalf("Failed to connect to record store: %v", err)
	}

	// A missing bucket is a per-request 500, not a startup failure: the
	// handler rejects work before ever touching the object store.
	var objects storage.ObjectStore
	if cfg.Bucket == "" {
		uplog.Warn("BUCKET not configured; uploads will be rejected")
	} else {
		objects, err = storage.NewMinioStore(ctx, storage.MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.Bucket,
		})
		if err != nil {
			uplog.Fatalf("Failed to initialize object store: %v", err)
		}
	}
	if cfg.Table == "" {
		uplog.Warn("TABLE not configured; uploads will be rejected")
	}

	handler := upload.NewHandler(cfg, records, objects, upload.NewFFmpegExtractor(cfg.FFmpegPath))

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: cors.Default().Handler(mux),
	}

	// Setup graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		uplog.Info("Shutting down server...")

		if err := records.Close(); err != nil {
			uplog.Errorf("Error closing record store: %v", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			uplog.Errorf("Server shutdown error: %v", err)
		}

		uplog.Info("Server shutdown complete")
		os.Exit(0)
	}()

	uplog.Infof("Server starting on %v", cfg.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		uplog.Fatalf("Failed to start server: %v", err)
	}
}
