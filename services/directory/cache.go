package directory

import (
	"context"
	"encoding/json"
	"time"

	"medconnect/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const defaultCacheTTL = 5 * time.Minute

type cacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedDirectory serves doctor, hospital and medical test reads from Redis. Slot lookups and
// booking validation hit these on every request. Cache failures fall through to the wrapped service.
type CachedDirectory struct {
	DirectoryService
	cache  cacheStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedDirectory(inner DirectoryService, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedDirectory {
	return newCachedDirectory(inner, client, ttl, logger)
}

func newCachedDirectory(inner DirectoryService, store cacheStore, ttl time.Duration, logger *zap.Logger) *CachedDirectory {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDirectory{DirectoryService: inner, cache: store, ttl: ttl, logger: logger}
}

func doctorKey(id string) string   { return "directory:doctor:" + id }
func hospitalKey(id string) string { return "directory:hospital:" + id }
func testKey(id string) string     { return "directory:test:" + id }

// cached returns the value under key, loading and storing it on a miss.
func cached[T any](ctx context.Context, d *CachedDirectory, key string, load func() (*T, error)) (*T, error) {
	if raw, err := d.cache.Get(ctx, key).Result(); err == nil {
		var out T
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return &out, nil
		}
	} else if err != redis.Nil {
		d.logger.Debug("Directory cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err := load()
	if err != nil {
		return nil, err
	}
	if body, err := json.Marshal(v); err == nil {
		if err := d.cache.Set(ctx, key, body, d.ttl).Err(); err != nil {
			d.logger.Debug("Directory cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

func (d *CachedDirectory) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	return cached(ctx, d, doctorKey(id), func() (*models.Doctor, error) {
		return d.DirectoryService.GetDoctor(ctx, id)
	})
}

func (d *CachedDirectory) GetHospital(ctx context.Context, id string) (*models.Hospital, error) {
	return cached(ctx, d, hospitalKey(id), func() (*models.Hospital, error) {
		return d.DirectoryService.GetHospital(ctx, id)
	})
}

func (d *CachedDirectory) GetMedicalTest(ctx context.Context, id string) (*models.MedicalTest, error) {
	return cached(ctx, d, testKey(id), func() (*models.MedicalTest, error) {
		return d.DirectoryService.GetMedicalTest(ctx, id)
	})
}

// SetDoctorAvailability writes through and drops the cached doctor.
func (d *CachedDirectory) SetDoctorAvailability(ctx context.Context, doctorID string, windows []models.AvailabilityWindow) (*models.Doctor, error) {
	doc, err := d.DirectoryService.SetDoctorAvailability(ctx, doctorID, windows)
	if err != nil {
		return nil, err
	}
	if err := d.cache.Del(ctx, doctorKey(doctorID)).Err(); err != nil {
		d.logger.Warn("Directory cache invalidation failed", zap.String("doctorId", doctorID), zap.Error(err))
	}
	return doc, nil
}
