package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds all tunables read from the environment.
type Settings struct {
	Port               string
	DatabaseURL        string
	AllowedOrigins     []string
	Stakes             []int64
	RegistrationWindow time.Duration
	DrawInterval       time.Duration
	AnnounceCooldown   time.Duration
	CompletionBonus    int64 // coins per finished round
	DepositGiftDivisor int64 // gift coins = amount / divisor
}

// Load reads .env (if present) and builds Settings with defaults.
func Load() Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	s := Settings{
		Port:               getEnv("PORT", "4000"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		Stakes:             parseStakes(getEnv("STAKES", "10,20,50,100")),
		RegistrationWindow: getDuration("REGISTRATION_WINDOW", 30*time.Second),
		DrawInterval:       getDuration("DRAW_INTERVAL", 2*time.Second),
		AnnounceCooldown:   getDuration("ANNOUNCE_COOLDOWN", 10*time.Second),
		CompletionBonus:    getInt64("COMPLETION_BONUS_COINS", 10),
		DepositGiftDivisor: getInt64("DEPOSIT_GIFT_DIVISOR", 5),
	}

	if s.DatabaseURL == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}
	return s
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("[WARN] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseStakes(v string) []int64 {
	var out []int64
	for _, p := range strings.Split(v, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || n <= 0 {
			log.Printf("[WARN] skipping invalid stake %q", p)
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		out = []int64{10, 50}
	}
	return out
}
