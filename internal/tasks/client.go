package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Config holds task queue settings.
type Config struct {
	Workers         int
	ReleaseAfter    time.Duration
	CleanupInterval time.Duration
}

// Client wraps backlite to provide background task processing.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	config Config

	mu      sync.RWMutex
	started bool
}

// NewClient creates a task queue client with a dedicated SQLite database
// stored alongside the main database with a "-tasks" suffix.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	dir := filepath.Dir(mainDBPath)
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	tasksDBPath := filepath.Join(dir, name+"-tasks"+ext)

	db, err := sql.Open("sqlite3", tasksDBPath+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &stdLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create backlite client: %w", err)
	}

	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install backlite schema: %w", err)
	}

	return &Client{
		client: client,
		db:     db,
		config: cfg,
	}, nil
}

// Register registers task queues. Must be called before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start begins processing tasks until the context is cancelled.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	c.client.Start(ctx)
}

// Stop waits for in-flight tasks to finish within the context deadline.
func (c *Client) Stop(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	c.client.Stop(ctx)
	c.started = false
}

// Add enqueues one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) error {
	_, err := c.client.Add(tasks...).Save()
	return err
}

// Close releases the underlying database connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// stdLogger adapts backlite logging to the standard logger.
type stdLogger struct{}

func (l *stdLogger) Debug(msg string, args ...any) {}

func (l *stdLogger) Info(msg string, args ...any) {
	log.Printf("[TASKS] "+msg, args...)
}

func (l *stdLogger) Warn(msg string, args ...any) {
	log.Printf("[TASKS] WARN "+msg, args...)
}

func (l *stdLogger) Error(msg string, args ...any) {
	log.Printf("[TASKS] ERROR "+msg, args...)
}
