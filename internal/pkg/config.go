package pkg

import (
	"os"
	"strconv"
	"strings"
)

// Config 启动配置，全部来自环境变量，缺省值适合本地开发
type Config struct {
	HTTPAddr string

	MySQLDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	SMTP SMTPConfig

	// 推荐打分权重（共同好友数为主，karma 默认不参与）
	RecommendMutualWeight float64
	RecommendKarmaWeight  float64
}

// LoadConfig 启动时调用一次
func LoadConfig() *Config {
	cfg := &Config{
		HTTPAddr: getEnv("NOVA_HTTP_ADDR", ":8080"),
		MySQLDSN: getEnv("NOVA_MYSQL_DSN",
			"user:password@tcp(127.0.0.1:3306)/nova_social?charset=utf8mb4&parseTime=True"),
		RedisAddr:     getEnv("NOVA_REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("NOVA_REDIS_PASSWORD", ""),
		KafkaTopic:    getEnv("NOVA_KAFKA_TOPIC", "nova-social-events"),
	}

	cfg.RedisDB, _ = strconv.Atoi(getEnv("NOVA_REDIS_DB", "0"))
	cfg.KafkaBrokers = strings.Split(getEnv("NOVA_KAFKA_BROKERS", "127.0.0.1:9092"), ",")

	cfg.SMTP = SMTPConfig{
		Host:     getEnv("NOVA_SMTP_HOST", "smtp.example.com"),
		Port:     atoiDefault(getEnv("NOVA_SMTP_PORT", "587"), 587),
		Username: getEnv("NOVA_SMTP_USERNAME", "no-reply@example.com"),
		Password: getEnv("NOVA_SMTP_PASSWORD", ""),
		From:     getEnv("NOVA_SMTP_FROM", "NoReply <no-reply@example.com>"),
	}

	cfg.RecommendMutualWeight = atofDefault(getEnv("NOVA_RECOMMEND_MUTUAL_WEIGHT", "1"), 1)
	cfg.RecommendKarmaWeight = atofDefault(getEnv("NOVA_RECOMMEND_KARMA_WEIGHT", "0"), 0)

	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func atofDefault(s string, def float64) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}
