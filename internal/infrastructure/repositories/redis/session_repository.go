package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"playgate/internal/core/domain"
	"playgate/internal/core/ports"
	"playgate/pkg/distributed"
)

// RedisSessionRepository stores each account's device sessions in one
// hash keyed by device id. Admission runs as a single Lua script, so the
// cap check and the insert cannot interleave with another admit.
type RedisSessionRepository struct {
	client *redis.Client
	prefix string
}

// admitScript refreshes an existing device session in place (keeping its
// created_at) or inserts a new one only while the hash is below cap.
// Returns 1 for admitted, 0 for blocked.
var admitScript = redis.NewScript(`
local key = KEYS[1]
local device = ARGV[1]
local payload = ARGV[2]
local cap = tonumber(ARGV[3])

local existing = redis.call("HGET", key, device)
if existing then
	local old = cjson.decode(existing)
	local new = cjson.decode(payload)
	new["created_at"] = old["created_at"]
	if new["device_label"] == "" then
		new["device_label"] = old["device_label"]
	end
	redis.call("HSET", key, device, cjson.encode(new))
	return 1
end

if redis.call("HLEN", key) >= cap then
	return 0
end

redis.call("HSET", key, device, payload)
return 1
`)

func NewRedisSessionRepository(client *redis.Client) ports.SessionRepository {
	return &RedisSessionRepository{
		client: client,
		prefix: "playgate:sessions:",
	}
}

func (r *RedisSessionRepository) accountKey(id domain.AccountID) string {
	return r.prefix + string(id)
}

func (r *RedisSessionRepository) AdmitOrRefresh(ctx context.Context, session *domain.DeviceSession, cap int) (domain.AdmitStatus, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	key := r.accountKey(session.AccountID)
	admitted, err := admitScript.Run(ctx, r.client, []string{key}, string(session.DeviceID), string(data), cap).Int()
	if err != nil {
		return "", fmt.Errorf("failed to run admit script: %w", err)
	}
	if admitted == 1 {
		return domain.AdmitAccepted, nil
	}
	return domain.AdmitBlocked, nil
}

func (r *RedisSessionRepository) Get(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) (*domain.DeviceSession, error) {
	data, err := r.client.HGet(ctx, r.accountKey(accountID), string(deviceID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var session domain.DeviceSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *RedisSessionRepository) ListByAccount(ctx context.Context, accountID domain.AccountID) ([]*domain.DeviceSession, error) {
	entries, err := r.client.HGetAll(ctx, r.accountKey(accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions from Redis: %w", err)
	}

	sessions := make([]*domain.DeviceSession, 0, len(entries))
	for _, data := range entries {
		var session domain.DeviceSession
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, nil
}

func (r *RedisSessionRepository) CountByAccount(ctx context.Context, accountID domain.AccountID) (int, error) {
	count, err := r.client.HLen(ctx, r.accountKey(accountID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions in Redis: %w", err)
	}
	return int(count), nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, accountID domain.AccountID, deviceID domain.DeviceID) error {
	if err := r.client.HDel(ctx, r.accountKey(accountID), string(deviceID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}

// DeleteAllExcept evicts the account's sessions device by device under the
// account lock, so two concurrent sign-out-all calls do not interleave.
func (r *RedisSessionRepository) DeleteAllExcept(ctx context.Context, accountID domain.AccountID, keep domain.DeviceID) error {
	lock := distributed.NewAccountLock(r.client, string(accountID), 5*time.Second)
	if err := lock.Lock(ctx); err != nil {
		return err
	}
	defer lock.Unlock(ctx)

	key := r.accountKey(accountID)
	devices, err := r.client.HKeys(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to list devices from Redis: %w", err)
	}

	for _, device := range devices {
		if keep != "" && device == string(keep) {
			continue
		}
		if err := r.client.HDel(ctx, key, device).Err(); err != nil {
			return fmt.Errorf("failed to delete session from Redis: %w", err)
		}
	}
	return nil
}
