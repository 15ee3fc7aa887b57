package config

import (
	"fmt"
	"os"
)

// Config содержит все настройки приложения
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Internal InternalConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// MongoDBConfig - настройки подключения к MongoDB (история отзывов, read-only)
type MongoDBConfig struct {
	URI      string
	Database string
}

// DatabaseConfig - настройки подключения к PostgreSQL (выданные значки)
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// CatalogConfig - путь к YAML каталогу значков
// Пустой путь включает встроенный каталог
type CatalogConfig struct {
	Path string
}

// InternalConfig - статический токен для служебных endpoints
type InternalConfig struct {
	Token string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8084"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "reviews_service"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "placepulse"),
			Password: getEnv("DB_PASSWORD", "placepulse"),
			DBName:   getEnv("DB_NAME", "placepulse"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Catalog: CatalogConfig{
			Path: getEnv("BADGE_CATALOG_PATH", ""),
		},
		Internal: InternalConfig{
			Token: getEnv("INTERNAL_TOKEN", "internal-token-change-this-in-production"),
		},
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL для GORM
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
