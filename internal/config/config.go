package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port     string
	Prod     bool
	MongoURI string
	MongoDB  string

	// PublicBaseURL is what goes into verification links. Empty means the
	// service builds a localhost link from Port.
	PublicBaseURL string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	RabbitURL      string
	RabbitExchange string
}

func Load() Config {
	return Config{
		Port:          getenv("APP_PORT", "8080"),
		Prod:          getenv("APP_ENV", "dev") == "prod",
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getenv("MONGO_DB", "accounts_db"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", ""),

		SMTPHost: getenv("SMTP_HOST", ""),
		SMTPPort: atoi(getenv("SMTP_PORT", "587")),
		SMTPUser: getenv("EMAIL_USER", ""),
		SMTPPass: getenv("EMAIL_PASS", ""),
		SMTPFrom: getenv("EMAIL_FROM", ""),

		S3Endpoint:  getenv("S3_ENDPOINT", ""),
		S3Region:    getenv("S3_REGION", "us-east-1"),
		S3Bucket:    getenv("S3_BUCKET", "profile-images"),
		S3AccessKey: getenv("S3_ACCESS_KEY", ""),
		S3SecretKey: getenv("S3_SECRET_KEY", ""),

		RabbitURL:      getenv("RABBIT_URL", ""),
		RabbitExchange: getenv("RABBIT_EXCHANGE", "account.events"),
	}
}

// BaseURL is the origin used when building verification links.
func (c Config) BaseURL() string {
	if c.PublicBaseURL != "" {
		return c.PublicBaseURL
	}
	return "http://localhost:" + c.Port
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
