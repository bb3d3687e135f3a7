// file: internals/configs/config.go
package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	JWTSecret string

	// WordPress REST credentials (application password)
	WordpressBaseURL string
	WordpressUser    string
	WordpressAppPass string

	MidtransServerKey string

	// AES-256 key (base64) for social tokens at rest
	TokenCipherKey string

	// LinkedIn OAuth app (three-legged flow)
	LinkedInClientID     string
	LinkedInClientSecret string
	LinkedInRedirectURL  string

	// Drafting assistant; empty key switches the client to stub mode
	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	// Coin economy. The ledger never reads these; callers pass deltas.
	PublishCost   int
	PublishReward int
	CoinPriceIDR  int64
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")

	WordpressBaseURL = GetEnv("WORDPRESS_BASE_URL")
	WordpressUser = GetEnv("WORDPRESS_USER")
	WordpressAppPass = GetEnv("WORDPRESS_APP_PASSWORD")

	MidtransServerKey = GetEnv("MIDTRANS_SERVER_KEY")
	TokenCipherKey = GetEnv("SOCIAL_TOKEN_KEY")

	LinkedInClientID = GetEnv("LINKEDIN_CLIENT_ID")
	LinkedInClientSecret = GetEnv("LINKEDIN_CLIENT_SECRET")
	LinkedInRedirectURL = GetEnv("LINKEDIN_REDIRECT_URL")

	AIAPIKey = GetEnv("AI_API_KEY")
	AIBaseURL = GetEnvOrDefault("AI_BASE_URL", "https://api.openai.com/v1")
	AIModel = GetEnvOrDefault("AI_MODEL", "gpt-4o-mini")

	PublishCost = GetEnvInt("PUBLISH_COST_COINS", 99)
	PublishReward = GetEnvInt("PUBLISH_REWARD_COINS", 50)
	CoinPriceIDR = int64(GetEnvInt("COIN_PRICE_IDR", 1000))

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	}
	if WordpressBaseURL == "" {
		log.Println("❌ WORDPRESS_BASE_URL is not set, publish will fail!")
	}
	if TokenCipherKey == "" {
		log.Println("❌ SOCIAL_TOKEN_KEY is not set, social connect will fail!")
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func GetEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func GetEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
