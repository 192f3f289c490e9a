package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fleetlink/fleetlink/internal/infrastructure/geo"
	"github.com/fleetlink/fleetlink/internal/pkg/redis"
)

// Manual smoke check for the Redis-backed geocode cache. Needs a running
// Redis and network access to Nominatim.
func main() {
	fmt.Println("=========================================")
	fmt.Println("Geocode Cache Check")
	fmt.Println("=========================================")
	fmt.Println()

	client, err := redis.NewClient(redis.Config{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	if err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Println("✅ Connected to Redis")
	fmt.Println()

	ctx := context.Background()

	fmt.Println("Test 0: PING")
	if err := client.Ping(ctx); err != nil {
		fmt.Printf("❌ PING failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ PONG")
	fmt.Println()

	geoClient := geo.NewCachedClient(
		geo.NewHTTPClient(
			getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			getEnv("OSRM_URL", "https://router.project-osrm.org"),
			getEnv("GEO_COUNTRY_CODE", "in"),
			10*time.Second,
		),
		client,
		24*time.Hour,
	)

	pincode := getEnv("CHECK_PINCODE", "560001")

	fmt.Printf("Test 1: Geocode %s (cold)\n", pincode)
	started := time.Now()
	loc, err := geoClient.Geocode(ctx, pincode)
	if err != nil {
		fmt.Printf("❌ Geocode failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ %s -> (%.4f, %.4f) in %s\n", pincode, loc.Lat, loc.Lon, time.Since(started))
	fmt.Println()

	fmt.Printf("Test 2: Geocode %s (cached)\n", pincode)
	started = time.Now()
	if _, err := geoClient.Geocode(ctx, pincode); err != nil {
		fmt.Printf("❌ Cached geocode failed: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(started)
	fmt.Printf("✅ Served in %s\n", elapsed)
	fmt.Println()

	fmt.Println("Test 3: Cache key present")
	if _, err := client.Get(ctx, "geocode:"+pincode); err != nil {
		fmt.Printf("❌ Cache key missing: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Cache key present")
	fmt.Println()

	fmt.Println("=========================================")
	fmt.Println("All checks passed")
	fmt.Println("=========================================")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
