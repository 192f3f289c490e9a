package geo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fleetlink/fleetlink/internal/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// mockGeoClient mocks the upstream geo client
type mockGeoClient struct {
	mock.Mock
}

func (m *mockGeoClient) Geocode(ctx context.Context, pincode string) (*Location, error) {
	args := m.Called(ctx, pincode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Location), args.Error(1)
}

func (m *mockGeoClient) Route(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (*Route, error) {
	args := m.Called(ctx, fromLat, fromLon, toLat, toLon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Route), args.Error(1)
}

func newCachedClient(t *testing.T, upstream Client) (*CachedClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClientFromAddr(mr.Addr())
	t.Cleanup(func() { _ = cache.Close() })
	return NewCachedClient(upstream, cache, time.Hour), mr
}

func TestCachedClient_Geocode(t *testing.T) {
	bangalore := &Location{Pincode: "560001", Lat: 12.9716, Lon: 77.5946}

	t.Run("caches the first lookup", func(t *testing.T) {
		upstream := new(mockGeoClient)
		upstream.On("Geocode", mock.Anything, "560001").Return(bangalore, nil).Once()

		client, mr := newCachedClient(t, upstream)

		loc, err := client.Geocode(context.Background(), "560001")
		assert.NoError(t, err)
		assert.Equal(t, bangalore, loc)
		assert.True(t, mr.Exists("geocode:560001"))

		// Second call is served from the cache; Once() above fails the
		// test if the upstream is hit again.
		loc, err = client.Geocode(context.Background(), "560001")
		assert.NoError(t, err)
		assert.Equal(t, bangalore, loc)

		upstream.AssertExpectations(t)
	})

	t.Run("corrupt cache entry is dropped", func(t *testing.T) {
		upstream := new(mockGeoClient)
		upstream.On("Geocode", mock.Anything, "560001").Return(bangalore, nil).Once()

		client, mr := newCachedClient(t, upstream)
		mr.Set("geocode:560001", "{not json")

		loc, err := client.Geocode(context.Background(), "560001")
		assert.NoError(t, err)
		assert.Equal(t, bangalore, loc)

		upstream.AssertExpectations(t)
	})

	t.Run("cache outage degrades to the upstream", func(t *testing.T) {
		upstream := new(mockGeoClient)
		upstream.On("Geocode", mock.Anything, "560001").Return(bangalore, nil).Once()

		client, mr := newCachedClient(t, upstream)
		mr.Close()

		loc, err := client.Geocode(context.Background(), "560001")
		assert.NoError(t, err)
		assert.Equal(t, bangalore, loc)

		upstream.AssertExpectations(t)
	})

	t.Run("upstream error is not cached", func(t *testing.T) {
		upstream := new(mockGeoClient)
		upstream.On("Geocode", mock.Anything, "999999").Return(nil, assert.AnError)

		client, mr := newCachedClient(t, upstream)

		_, err := client.Geocode(context.Background(), "999999")
		assert.Error(t, err)
		assert.False(t, mr.Exists("geocode:999999"))
	})
}

func TestCachedClient_Route(t *testing.T) {
	route := &Route{DistanceMeters: 4200.5, DurationSeconds: 612.3, Polyline: "abc123"}

	upstream := new(mockGeoClient)
	upstream.On("Route", mock.Anything, 12.9716, 77.5946, 12.985, 77.6101).Return(route, nil)

	client, _ := newCachedClient(t, upstream)

	got, err := client.Route(context.Background(), 12.9716, 77.5946, 12.985, 77.6101)
	assert.NoError(t, err)
	assert.Equal(t, route, got)
}
