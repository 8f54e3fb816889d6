package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"workshop-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	equipmentListKey = "equipment:list"
	equipmentListTTL = 2 * time.Minute
)

var client *redis.Client

// Init initializes the Redis connection. The cache is optional: when Redis
// is unavailable the client stays nil and every operation degrades to a
// no-op, so reads fall through to PostgreSQL.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetEquipmentList returns the cached equipment list, or (nil, false) on a
// miss or when the cache is unavailable.
func GetEquipmentList(ctx context.Context) ([]*models.Equipment, bool) {
	if client == nil {
		return nil, false
	}

	data, err := client.Get(ctx, equipmentListKey).Bytes()
	if err != nil {
		return nil, false
	}

	var list []*models.Equipment
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false
	}
	return list, true
}

// SetEquipmentList caches the equipment list.
func SetEquipmentList(ctx context.Context, list []*models.Equipment) {
	if client == nil {
		return
	}

	data, err := json.Marshal(list)
	if err != nil {
		return
	}
	client.Set(ctx, equipmentListKey, data, equipmentListTTL)
}

// InvalidateEquipmentCaches drops cached equipment data. Called after any
// equipment or payment mutation.
func InvalidateEquipmentCaches(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, equipmentListKey)
}
