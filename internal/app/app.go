package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/yusukebe/url-shortener/internal/registry"
	"github.com/yusukebe/url-shortener/pkg/background"
	"github.com/yusukebe/url-shortener/pkg/url/keygen"
	"github.com/yusukebe/url-shortener/storage"
)

const SecretKeyLength = 32

type Config struct {
	BaseURL               *url.URL      `env:"BASE_URL"`
	ServerAddress         string        `env:"SERVER_ADDRESS" envDefault:"localhost:8080"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	FileStoragePath       string        `env:"FILE_STORAGE_PATH"`
	SQLiteStoragePath     string        `env:"SQLITE_STORAGE_PATH"`
	SecretKey             string        `env:"SECRET_KEY"`
	DatabaseDSN           string        `env:"DATABASE_DSN"`
	DatabaseQueryTimeout  time.Duration `env:"DATABASE_QUERY_TIMEOUT" envDefault:"1s"`
	FlushConcurrency      int           `env:"FLUSH_CONCURRENCY" envDefault:"2"`
	FlushJobTimeout       time.Duration `env:"FLUSH_JOB_TIMEOUT" envDefault:"5s"`
	FlushAddTimeout       time.Duration `env:"FLUSH_ADD_TIMEOUT" envDefault:"100ms"`
}

type App struct {
	Config    *Config
	Storage   storage.LinkStore
	Registry  *registry.Registry
	DB        *pgxpool.Pool
	SecretKey []byte
	flusher   *background.Pool
}

type Override func(*Config) error

func New(overrides ...Override) (*App, error) {
	var cfg Config
	// Получаем настройки приложения из environment-переменных
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	// даем возможность переопределить настройки, например в тестах или при использовании флагов
	for _, override := range overrides {
		if err := override(&cfg); err != nil {
			return nil, err
		}
	}

	db, store, err := configureStorage(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to configure storage due to %w", err)
	}

	secretKey, err := configureSecretKey(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to configure secret key due to %w", err)
	}

	flusher := background.NewPool(background.PoolConfig{
		Concurrency:   cfg.FlushConcurrency,
		DoJobTimeout:  cfg.FlushJobTimeout,
		AddJobTimeout: cfg.FlushAddTimeout,
	})

	app := &App{
		Config:    &cfg,
		Storage:   store,
		Registry:  registry.New(store, keygen.NewUUIDGenerator(), flusher),
		DB:        db,
		SecretKey: secretKey,
		flusher:   flusher,
	}
	return app, nil
}

func (app *App) Close() {
	app.flusher.Close()
	if err := app.Storage.Close(); err != nil {
		log.Printf("failed to close storage %s due to %s; possible data loss", app.Storage, err)
	}
	if app.DB != nil {
		app.DB.Close()
	}
}

// configureStorage инициализирует тип хранилища
// в зависимости от настроек сервиса, заданных переменными окружения
func configureStorage(cfg *Config) (*pgxpool.Pool, storage.LinkStore, error) {
	if cfg.DatabaseDSN != "" {
		db, err := ConfigureDatabase(cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := storage.NewDatabaseLinkStore(db, cfg.DatabaseQueryTimeout)
		if err != nil {
			return nil, nil, err
		}
		return db, store, nil
	}
	if cfg.SQLiteStoragePath != "" {
		store, err := storage.NewSQLiteLinkStore(cfg.SQLiteStoragePath, cfg.DatabaseQueryTimeout)
		if err != nil {
			return nil, nil, err
		}
		return nil, store, nil
	}
	if cfg.FileStoragePath != "" {
		store, err := storage.NewFileLinkStore(cfg.FileStoragePath)
		if err != nil {
			return nil, nil, err
		}
		return nil, store, nil
	}
	return nil, storage.NewLocmemLinkStore(), nil
}

// configureSecretKey декодирует в слайс байт секретный ключ приложения,
// установленный environment переменной в виде hex-строки
// В случае отсутствия ключа, его значение генерируется рандомно
func configureSecretKey(cfg *Config) ([]byte, error) {
	if cfg.SecretKey != "" {
		confKey, err := hex.DecodeString(cfg.SecretKey)
		if err != nil {
			return nil, err
		}
		return confKey, nil
	}
	return GenerateSecretKey(SecretKeyLength)
}

func GenerateSecretKey(length int) ([]byte, error) {
	randKey := make([]byte, length)
	if _, err := rand.Read(randKey); err != nil {
		return nil, err
	}
	return randKey, nil
}

func ConfigureDatabase(cfg *Config) (*pgxpool.Pool, error) {
	return pgxpool.Connect(context.Background(), cfg.DatabaseDSN)
}
