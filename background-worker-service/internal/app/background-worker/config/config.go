package config

import (
	"os"
	"strconv"
	"strings"
)

// Config содержит все настройки Background Worker Service
// Worker слушает Kafka топик review_events и дергает служебные endpoints
// Reviews Service и Achievements Service
type Config struct {
	Kafka        KafkaConfig
	Reviews      ReviewsClientConfig
	Achievements AchievementsClientConfig
	CronSchedule CronScheduleConfig
	Internal     InternalConfig
}

// KafkaConfig - настройки Kafka для подписки на события отзывов
type KafkaConfig struct {
	Brokers  []string // Список брокеров Kafka (формат: host:port)
	Topic    string   // Топик для прослушивания (review_events)
	GroupID  string   // ID группы потребителей для распределения нагрузки
	MinBytes int      // Минимум байт для fetch запроса
	MaxBytes int      // Максимум байт для fetch запроса
}

// ReviewsClientConfig - адрес Reviews Service для служебных вызовов пересчёта
type ReviewsClientConfig struct {
	BaseURL    string
	TimeoutSec int
}

// AchievementsClientConfig - адрес Achievements Service для проверки значков
type AchievementsClientConfig struct {
	BaseURL    string
	TimeoutSec int
}

// CronScheduleConfig - расписание repair sweep
// Периодический полный пересчёт статистики чинит пропущенные события
type CronScheduleConfig struct {
	StatsSweep string
}

// InternalConfig - статический токен для служебных endpoints соседних сервисов
type InternalConfig struct {
	Token string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	return &Config{
		Kafka: KafkaConfig{
			Brokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:    getEnv("KAFKA_TOPIC", "review_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "background-worker-group"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		Reviews: ReviewsClientConfig{
			BaseURL:    getEnv("REVIEWS_SERVICE_URL", "http://localhost:8083"),
			TimeoutSec: getEnvInt("REVIEWS_SERVICE_TIMEOUT", 10),
		},
		Achievements: AchievementsClientConfig{
			BaseURL:    getEnv("ACHIEVEMENTS_SERVICE_URL", "http://localhost:8084"),
			TimeoutSec: getEnvInt("ACHIEVEMENTS_SERVICE_TIMEOUT", 10),
		},
		CronSchedule: CronScheduleConfig{
			// По умолчанию полный пересчёт статистики каждый час
			StatsSweep: getEnv("CRON_STATS_SWEEP", "0 0 * * * *"),
		},
		Internal: InternalConfig{
			Token: getEnv("INTERNAL_TOKEN", "internal-token-change-this-in-production"),
		},
	}, nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
