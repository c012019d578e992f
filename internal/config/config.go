package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	JWTSecret            string
	AdminBootstrapSecret string

	RedisAddr     string
	AlertsWorker  bool
	ExpoPushURL   string
	VAPIDPublic   string
	VAPIDPrivate  string
	VAPIDSubject  string
	CloudinaryURL string

	DefaultSearchRadiusKm int
	LikableMaxCount       int
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}

	return Config{
		Port:       getEnv("PORT", "8080"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "cuttr"),

		JWTSecret:            getEnv("JWT_SECRET", ""),
		AdminBootstrapSecret: getEnv("ADMIN_BOOTSTRAP_SECRET", ""),

		RedisAddr:     redisAddr(),
		AlertsWorker:  getEnvBool("ALERTS_WORKER", true),
		ExpoPushURL:   getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		VAPIDPublic:   getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivate:  getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:  getEnv("VAPID_SUBJECT", "mailto:admin@cuttr.local"),
		CloudinaryURL: getEnv("CLOUDINARY_URL", ""),

		DefaultSearchRadiusKm: getEnvInt("DEFAULT_SEARCH_RADIUS_KM", 10),
		LikableMaxCount:       getEnvInt("LIKABLE_MAX_COUNT", 20),
	}
}

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		return host + ":" + getEnv("REDIS_PORT", "6379")
	}
	// docker-compose service name unless running locally
	if os.Getenv("RUN_LOCAL") == "true" {
		return "127.0.0.1:6379"
	}
	return "redis:6379"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
