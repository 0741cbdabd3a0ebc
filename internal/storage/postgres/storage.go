package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/tableside/internal/domain/errors"
	"github.com/polkiloo/tableside/internal/domain/model"
	"github.com/polkiloo/tableside/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// RetryPolicy bounds how often a failing storage call is repeated.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy is used when no policy is configured.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Backoff: 100 * time.Millisecond}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
	retry  RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

type orderRepository struct {
	storage *Storage
}

type feedbackRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, retry RetryPolicy, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if retry.Attempts <= 0 {
		retry.Attempts = DefaultRetryPolicy.Attempts
	}
	if retry.Backoff < 0 {
		retry.Backoff = DefaultRetryPolicy.Backoff
	}

	storage := &Storage{pool: pool, logger: logger, retry: retry, sleep: sleepContext}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Feedback() repository.FeedbackRepository {
	return &feedbackRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            items JSONB NOT NULL,
            status TEXT NOT NULL,
            table_number INTEGER NOT NULL CHECK (table_number > 0),
            total DOUBLE PRECISION NOT NULL,
            estimated_time INTEGER NOT NULL CHECK (estimated_time >= 0),
            created_at TIMESTAMPTZ NOT NULL,
            status_changed_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS feedback (
            id TEXT PRIMARY KEY,
            order_id TEXT,
            name TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
            comment TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_created ON feedback(created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, items, status, table_number, total, estimated_time, created_at, status_changed_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*model.Order, error) {
	var (
		o     model.Order
		items []byte
	)
	if err := row.Scan(&o.ID, &items, &o.Status, &o.TableNumber, &o.Total, &o.EstimatedTime, &o.CreatedAt, &o.StatusChangedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order model.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}

	const query = `INSERT INTO orders (` + orderColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	return r.storage.withRetry(ctx, "create order", func(ctx context.Context) error {
		_, err := r.storage.pool.Exec(ctx, query, order.ID, items, order.Status, order.TableNumber, order.Total,
			order.EstimatedTime, order.CreatedAt, order.StatusChangedAt, order.UpdatedAt)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	})
}

func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var order *model.Order
	err := r.storage.withRetry(ctx, "get order", func(ctx context.Context) error {
		o, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, statuses []model.OrderStatus, limit int) ([]model.Order, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at LIMIT $1`
	args := []any{limitArg}
	if len(statuses) > 0 {
		names := make([]string, 0, len(statuses))
		for _, s := range statuses {
			names = append(names, string(s))
		}
		query = `SELECT ` + orderColumns + ` FROM orders WHERE status = ANY($1) ORDER BY created_at LIMIT $2`
		args = []any{names, limitArg}
	}

	var result []model.Order
	err := r.storage.withRetry(ctx, "list orders", func(ctx context.Context) error {
		rows, err := r.storage.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		result = result[:0]
		for rows.Next() {
			o, err := scanOrder(rows)
			if err != nil {
				return err
			}
			result = append(result, *o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus, at time.Time) (*model.Order, error) {
	const query = `UPDATE orders SET status=$3, status_changed_at=$4, updated_at=$4
                   WHERE id=$1 AND status=$2
                   RETURNING ` + orderColumns
	var order *model.Order
	err := r.storage.withRetry(ctx, "update order status", func(ctx context.Context) error {
		o, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id, from, to, at))
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.Get(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, domainErrors.ErrInvalidTransition
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Save(ctx context.Context, order model.Order) error {
	const (
		lockQuery   = `SELECT status, updated_at FROM orders WHERE id=$1 FOR UPDATE`
		updateQuery = `UPDATE orders SET status=$2, estimated_time=$3, status_changed_at=$4, updated_at=GREATEST(updated_at, $5) WHERE id=$1`
	)
	return r.storage.withRetry(ctx, "save order", func(ctx context.Context) error {
		return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
			var (
				status model.OrderStatus
				stored time.Time
			)
			if err := tx.QueryRow(ctx, lockQuery, order.ID).Scan(&status, &stored); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domainErrors.ErrOrderNotFound
				}
				return err
			}
			if !supersedes(order, status, stored) {
				r.storage.logger.Debug("dropping stale order write",
					slog.String("order_id", order.ID),
					slog.String("stored_status", string(status)),
					slog.String("incoming_status", string(order.Status)),
					slog.Time("stored", stored),
					slog.Time("incoming", order.UpdatedAt),
				)
				return domainErrors.ErrInvalidTransition
			}
			_, err := tx.Exec(ctx, updateQuery, order.ID, order.Status, order.EstimatedTime, order.StatusChangedAt, order.UpdatedAt)
			return err
		})
	})
}

// supersedes reports whether order may overwrite a row in status stored at
// updatedAt. A later status always wins; within a status the newer write wins.
func supersedes(order model.Order, status model.OrderStatus, updatedAt time.Time) bool {
	switch incoming, current := order.Status.Rank(), status.Rank(); {
	case incoming > current:
		return true
	case incoming < current:
		return false
	default:
		return !updatedAt.After(order.UpdatedAt)
	}
}

// --- FeedbackRepository implementation ---

func (r *feedbackRepository) Create(ctx context.Context, feedback model.Feedback) error {
	const query = `INSERT INTO feedback (id, order_id, name, email, rating, comment, created_at)
                   VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)`
	return r.storage.withRetry(ctx, "create feedback", func(ctx context.Context) error {
		_, err := r.storage.pool.Exec(ctx, query, feedback.ID, feedback.OrderID, feedback.Name, feedback.Email,
			feedback.Rating, feedback.Comment, feedback.CreatedAt)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	})
}

func (r *feedbackRepository) List(ctx context.Context, limit int) ([]model.Feedback, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	const query = `SELECT id, COALESCE(order_id, ''), name, email, rating, comment, created_at
                   FROM feedback ORDER BY created_at DESC LIMIT $1`
	var result []model.Feedback
	err := r.storage.withRetry(ctx, "list feedback", func(ctx context.Context) error {
		rows, err := r.storage.pool.Query(ctx, query, limitArg)
		if err != nil {
			return err
		}
		defer rows.Close()

		result = result[:0]
		for rows.Next() {
			var f model.Feedback
			if err := rows.Scan(&f.ID, &f.OrderID, &f.Name, &f.Email, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
				return err
			}
			result = append(result, f)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}

// withRetry repeats fn while it fails with a connectivity error. After the last
// attempt the failure is reported as ErrPersistenceUnavailable.
func (s *Storage) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	attempts := s.retry.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := s.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	delay := s.retry.Backoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		if s.logger != nil {
			s.logger.Warn("storage call failed, retrying",
				slog.String("op", op),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			break
		}
		delay *= 2
	}
	return fmt.Errorf("%s: %w: %w", op, domainErrors.ErrPersistenceUnavailable, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
