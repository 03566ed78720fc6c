package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mmeshcher/earning-bot/internal/model"
)

const (
	defaultRedisPrefix = "earnbot"
	lockTTL            = 10 * time.Second
	lockRetryInterval  = 50 * time.Millisecond
)

// Освобождает блокировку только если она всё ещё принадлежит владельцу токена.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisStore хранит реестр в хэше Redis. Ключ поля равен идентификатору пользователя, значение содержит JSON записи.
type RedisStore struct {
	client   *redis.Client
	usersKey string
	lockKey  string
}

// NewRedisStore подключается к Redis и проверяет соединение.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStoreFromClient(client, defaultRedisPrefix), nil
}

// NewRedisStoreFromClient создаёт хранилище поверх готового клиента с префиксом ключей prefix.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client:   client,
		usersKey: prefix + ":users",
		lockKey:  prefix + ":lock",
	}
}

// Load читает все записи пользователей из хэша.
func (s *RedisStore) Load(ctx context.Context) (*model.Ledger, error) {
	raw, err := s.client.HGetAll(ctx, s.usersKey).Result()
	if err != nil {
		return model.NewLedger(), fmt.Errorf("hgetall users: %w", err)
	}

	ledger := model.NewLedger()
	for field, value := range raw {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return model.NewLedger(), fmt.Errorf("%w: invalid user id %q", ErrLedgerCorrupted, field)
		}

		var u model.User
		if err := json.Unmarshal([]byte(value), &u); err != nil {
			return model.NewLedger(), fmt.Errorf("%w: user %d: %v", ErrLedgerCorrupted, id, err)
		}
		ledger.Put(id, &u)
	}

	return ledger, nil
}

// Save записывает все записи реестра в одной транзакции MULTI/EXEC.
func (s *RedisStore) Save(ctx context.Context, l *model.Ledger) error {
	if l.Len() == 0 {
		return nil
	}

	values := make(map[string]any, l.Len())
	for _, id := range l.IDs() {
		u, _ := l.Get(id)
		data, err := json.Marshal(u)
		if err != nil {
			return fmt.Errorf("encode user %d: %w", id, err)
		}
		values[strconv.FormatInt(id, 10)] = data
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.usersKey, values)
		return nil
	})
	if err != nil {
		return fmt.Errorf("hset users: %w", err)
	}

	return nil
}

// Lock захватывает распределённую блокировку реестра, ожидая её освобождения
// до отмены контекста. Возвращённая функция освобождает блокировку.
func (s *RedisStore) Lock(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	for {
		ok, err := s.client.SetNX(ctx, s.lockKey, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLockNotAcquired, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(lockRetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %v", ErrLockNotAcquired, ctx.Err())
		case <-timer.C:
		}
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseLockScript.Run(releaseCtx, s.client, []string{s.lockKey}, token).Err()
	}, nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
