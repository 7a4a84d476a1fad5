package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskstore/internal/config"
	"taskstore/internal/migrations"
	"taskstore/internal/repo"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

type App struct {
	cfg    config.Config
	log    zerolog.Logger
	pg     *pgxpool.Pool
	sqlite *sql.DB
	tasks  repo.TaskRepo
	router *gin.Engine
}

// New opens the configured store, brings its schema up to date and builds the router.
func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}
	ctx := context.Background()

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		if err := runMigrations(ctx, "pgx", cfg.Store.PGDSN, goose.DialectPostgres, log); err != nil {
			return nil, err
		}
		db, err := newPostgres(ctx, cfg.Store.PGDSN)
		if err != nil {
			return nil, err
		}
		a.pg = db
		a.tasks = repo.NewPGTaskRepo(db)
	default:
		if err := runMigrations(ctx, "sqlite", repo.SQLiteDSN(cfg.Store.SQLitePath), goose.DialectSQLite3, log); err != nil {
			return nil, err
		}
		db, err := repo.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.sqlite = db
		a.tasks = repo.NewSQLiteTaskRepo(db)
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("store ready")

	a.router = newRouter(cfg, log, a.tasks)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Close releases the store handles. pgxpool waits for borrowed connections,
// so the wait is bounded by ctx.
func (a *App) Close(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- a.closeStores() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("close stores: %w", ctx.Err())
	}
}

func (a *App) closeStores() error {
	if a.pg != nil {
		a.pg.Close()
	}
	if a.sqlite != nil {
		if err := a.sqlite.Close(); err != nil {
			return fmt.Errorf("sqlite close: %w", err)
		}
	}
	return nil
}

func newPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

// runMigrations applies the schema on a short-lived handle of its own.
func runMigrations(ctx context.Context, driver, dsn string, dialect goose.Dialect, log zerolog.Logger) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("migrations open db: %w", err)
	}
	defer db.Close()

	return migrations.Up(ctx, db, dialect, log)
}

func newRouter(cfg config.Config, log zerolog.Logger, tasks repo.TaskRepo) *gin.Engine {
	if cfg.App.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, log, tasks)
	return r
}
