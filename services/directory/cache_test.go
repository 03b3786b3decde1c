package directory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medconnect/models"
	"medconnect/services/booking"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string]string
	down bool
}

func (m *mapCache) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	m.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (m *mapCache) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func seed(t *testing.T, s *DefaultDirectoryService) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Hospitals.Create(ctx, &models.Hospital{ID: "hosp-1", Name: "General"}))
	require.NoError(t, s.Doctors.Create(ctx, &models.Doctor{ID: "doc-1", UserID: "doc-u", Name: "Dr Ada", HospitalID: "hosp-1"}))
}

func TestCachedDirectoryServesRepeatReadsFromCache(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	seed(t, svc)

	store := &mapCache{data: map[string]string{}}
	cd := newCachedDirectory(svc, store, time.Minute, nil)

	d, err := cd.GetDoctor(ctx, "doc-1")
	require.NoError(t, err)
	assert.Contains(t, store.data, doctorKey("doc-1"))

	// change the source behind the cache's back
	store.data[doctorKey("doc-1")] = `{"id":"doc-1","name":"Cached Name"}`
	again, err := cd.GetDoctor(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Cached Name", again.Name)
	assert.NotEqual(t, d.Name, again.Name)

	_, err = cd.SetDoctorAvailability(ctx, "doc-1", []models.AvailabilityWindow{{DayOfWeek: 1, StartTime: "9:00", EndTime: "12:00"}})
	require.NoError(t, err)
	assert.NotContains(t, store.data, doctorKey("doc-1"))

	fresh, err := cd.GetDoctor(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, fresh.Availability, 1)
}

func TestCachedDirectoryFallsThroughWhenCacheIsDown(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	seed(t, svc)

	cd := newCachedDirectory(svc, &mapCache{data: map[string]string{}, down: true}, 0, nil)
	h, err := cd.GetHospital(ctx, "hosp-1")
	require.NoError(t, err)
	assert.Equal(t, "hosp-1", h.ID)

	_, err = cd.GetMedicalTest(ctx, "missing")
	var nf *booking.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
