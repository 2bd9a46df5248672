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

package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/FIAP-Grupo-11SOAT/upload-lambda/pkg/uplog"
)

// Config holds every process-level setting. It is loaded once and passed
// down explicitly; nothing in the pipeline reads the environment directly.
type Config struct {
	Addr     string `mapstructure:"addr"`
	LogLevel string `mapstructure:"logLevel"`

	// Bucket and Table are required and have no defaults. The handler
	// refuses every request until both are set.
	Bucket string `mapstructure:"bucket"`
	Table  string `mapstructure:"table"`

	RedisAddr string `mapstructure:"redisAddr"`

	MinioEndpoint  string `mapstructure:"minioEndpoint"`
	MinioAccessKey string `mapstructure:"minioAccessKey"`
	MinioSecretKey string `mapstructure:"minioSecretKey"`
	MinioUseSSL    bool   `mapstructure:"minioUseSSL"`

	// WorkDir is the parent of per-request scratch directories.
	// Empty means the system temp dir.
	WorkDir string `mapstructure:"workDir"`

	// FFmpegPath overrides decoder binary discovery when set.
	FFmpegPath string `mapstructure:"ffmpegPath"`
}

var (
	once sync.Once

	mu sync.RWMutex

	config Config
)

func InitConfig() error {
	var initErr error
	once.Do(func() {
		initErr = LoadAndWatch()
	})
	return initErr
}

func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return config
}

func LoadAndWatch() error {
	pflag.String("addr", "", "HTTP service address (e.g., '127.0.0.1:8080')")
	pflag.String("bucket", "", "Object store bucket for output archives.")
	pflag.String("table", "", "Record store table tracking upload status.")
	pflag.String("workDir", "", "Parent directory for per-request scratch space.")
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return fmt.Errorf("failed to bind pflags: %w", err)
	}

	// Deployment environments configure the service through the
	// environment rather than a config file.
	envBindings := map[string]string{
		"bucket":         "BUCKET",
		"table":          "TABLE",
		"addr":           "ADDR",
		"logLevel":       "LOG_LEVEL",
		"redisAddr":      "REDIS_ADDR",
		"minioEndpoint":  "MINIO_ENDPOINT",
		"minioAccessKey": "MINIO_ACCESS_KEY_ID",
		"minioSecretKey": "MINIO_SECRET_ACCESS_KEY",
		"minioUseSSL":    "MINIO_USE_SSL",
		"workDir":        "WORK_DIR",
		"ffmpegPath":     "FFMPEG_PATH",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/upload-lambda/")

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			uplog.Infof("Config file not found.")
		} else {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	}

	viper.SetDefault("addr", "127.0.0.1:8080")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("redisAddr", "localhost:6379")
	viper.SetDefault("minioUseSSL", false)

	mu.Lock()
	if err := viper.Unmarshal(&config); err != nil {
		mu.Unlock()
		return fmt.Errorf("the initial configuration cannot be decoded into the struct: %w", err)
	}
	mu.Unlock()

	viper.OnConfigChange(func(e fsnotify.Event) {
		uplog.Infof("Config file changed: %s. Reloading...", e.Name)

		mu.Lock()
		defer mu.Unlock()

		if err := viper.Unmarshal(&config); err != nil {
			uplog.Errorf("Error while reloading config: %v", err)
			return
		}

		newLogLevel, err := uplog.ParseLevel(config.LogLevel)
		if err != nil {
			uplog.Warnf("New log level in config is invalid: %v. Keeping previous level.", err)
		} else {
			uplog.SetLevel(newLogLevel)
			uplog.Infof("Log level reloaded successfully to: %s", config.LogLevel)
		}
	})
	viper.WatchConfig()

	return nil
}
