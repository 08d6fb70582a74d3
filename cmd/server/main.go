package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/yourusername/floodgate/api"
	"github.com/yourusername/floodgate/metrics"
	"github.com/yourusername/floodgate/pkg/floodgate"
	"github.com/yourusername/floodgate/store"
)

func main() {
	// Configuration
	port := getEnv("PORT", "8080")
	redisAddr := getEnv("REDIS_ADDR", "")
	configFile := getEnv("CONFIG_FILE", "")

	// Choose storage backend
	var storage store.Store
	if redisAddr != "" {
		redisStore := store.NewRedisStore(store.RedisConfig{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
			TTL:      24 * time.Hour,
		})

		if err := redisStore.Ping(); err != nil {
			log.Fatal("❌ Failed to connect to Redis:", err)
		}
		fmt.Println("✅ Connected to Redis at", redisAddr)
		storage = redisStore
	} else {
		fmt.Println("⚠️  Using in-memory storage (not suitable for production)")
		storage = store.NewMemoryStore()
	}

	// Create metrics tracker
	metricsTracker := metrics.New()

	// Build the limiter
	opts := []floodgate.Option{
		floodgate.WithStore(storage),
		floodgate.WithRecorder(metricsTracker),
	}
	if configFile != "" {
		opts = append(opts, floodgate.WithConfigFile(configFile))
		fmt.Println("📄 Loaded config from", configFile)
	}

	limiter, err := floodgate.New(opts...)
	if err != nil {
		log.Fatal("❌ Failed to create limiter:", err)
	}

	// Create API handlers
	handler := api.NewHandler(limiter)
	metricsHandler := api.NewMetricsHandler(metricsTracker)

	// Routes
	http.HandleFunc("/check", handler.CheckAdmission)
	http.HandleFunc("/status", handler.UserStatus)
	http.HandleFunc("/stats", handler.Stats)
	http.HandleFunc("/metrics", metricsHandler.ServeHTTP)
	http.HandleFunc("/admin/reset", handler.ResetUser)
	http.HandleFunc("/admin/unban", handler.UnbanUser)
	http.HandleFunc("/admin/priority", handler.SetPriority)
	http.HandleFunc("/admin/cleanup", handler.Cleanup)
	http.HandleFunc("/health", handler.Health)
	http.HandleFunc("/dashboard", dashboardHandler)
	http.HandleFunc("/", rootHandler)

	// Prune stale user state in the background
	go func() {
		for range time.Tick(time.Hour) {
			if removed := limiter.Cleanup(24 * time.Hour); removed > 0 {
				log.Printf("cleanup removed %d stale users", removed)
			}
		}
	}()

	// Start server
	addr := ":" + port
	fmt.Println("🚦 Floodgate Admission Control Service")
	fmt.Println("📍 Listening on http://localhost" + addr)
	fmt.Println("⚙️  Strategy:", limiter.Strategy())
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  POST /check           - Check if a request is admitted")
	fmt.Println("  GET  /status          - Per-user status (?user_id=)")
	fmt.Println("  GET  /stats           - Aggregate limiter stats (JSON)")
	fmt.Println("  GET  /metrics         - Per-user metrics (JSON)")
	fmt.Println("  POST /admin/reset     - Reset a user's counters")
	fmt.Println("  POST /admin/unban     - Clear a user's ban and cooldown")
	fmt.Println("  POST /admin/priority  - Grant a user priority limits")
	fmt.Println("  POST /admin/cleanup   - Prune stale user state")
	fmt.Println("  GET  /dashboard       - View dashboard (HTML)")
	fmt.Println("  GET  /health          - Health check")
	fmt.Println()
	fmt.Println("📊 Dashboard: http://localhost" + addr + "/dashboard")
	fmt.Println()

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service": "Floodgate Admission Control Service",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /check": "Check if a request is admitted",
			"GET /status": "Per-user status",
			"GET /stats":  "Aggregate limiter stats",
			"GET /health": "Health check",
		},
		"docs": "https://github.com/yourusername/floodgate",
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
