package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/earning-bot/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const upsertUserQuery = `
INSERT INTO users (id, balance, last_earn, referrals, ref_code, referred_by)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	balance = EXCLUDED.balance,
	last_earn = EXCLUDED.last_earn,
	referrals = EXCLUDED.referrals,
	referred_by = COALESCE(users.referred_by, EXCLUDED.referred_by)`

// PostgresStore хранит реестр в таблице users PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore создаёт хранилище и инициализирует схему БД через миграции.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}

	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) withRetry(ctx context.Context, fn func() error) error {
	var err error
	delays := []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if i < len(delays) && isRetryable(err) {
			timer := time.NewTimer(delays[i])
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			continue
		}

		break
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	// Упрощенная проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Load читает все записи пользователей.
func (s *PostgresStore) Load(ctx context.Context) (*model.Ledger, error) {
	ledger := model.NewLedger()

	err := s.withRetry(ctx, func() error {
		rows, err := s.pool.Query(ctx,
			`SELECT id, balance, last_earn, referrals, ref_code, referred_by
			 FROM users
			 ORDER BY id`,
		)
		if err != nil {
			return fmt.Errorf("select users: %w", err)
		}
		defer rows.Close()

		fresh := model.NewLedger()
		for rows.Next() {
			var (
				id int64
				u  model.User
			)
			if err := rows.Scan(&id, &u.Balance, &u.LastEarn, &u.Referrals, &u.RefCode, &u.ReferredBy); err != nil {
				return fmt.Errorf("scan user: %w", err)
			}
			fresh.Put(id, &u)
		}

		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows error: %w", err)
		}

		ledger = fresh
		return nil
	})
	if err != nil {
		return model.NewLedger(), err
	}

	return ledger, nil
}

// Save записывает все записи реестра одной транзакцией.
// Однажды установленный referred_by в БД не перезаписывается.
func (s *PostgresStore) Save(ctx context.Context, l *model.Ledger) error {
	return s.withRetry(ctx, func() error {
		tx, err := s.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		batch := &pgx.Batch{}
		for _, id := range l.IDs() {
			u, _ := l.Get(id)
			batch.Queue(upsertUserQuery, id, u.Balance, u.LastEarn, u.Referrals, u.RefCode, u.ReferredBy)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return fmt.Errorf("%w: %s", ErrRefCodeTaken, pgErr.Detail)
			}
			return fmt.Errorf("upsert users: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}

		return nil
	})
}
