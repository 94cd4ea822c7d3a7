package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hadirin/hadirin-backend-go/internal/domain/attendance"
	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Storage    StorageConfig
	Attendance attendance.Policy
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// StorageConfig holds evidence photo storage configuration
type StorageConfig struct {
	BasePath string
	BaseURL  string
}

func Load() (*Config, error) {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hadirin"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	config.Attendance = loadAttendancePolicy()

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadAttendancePolicy reads the attendance policy from the environment.
// Every key falls back to the built-in default.
func loadAttendancePolicy() attendance.Policy {
	def := attendance.DefaultPolicy()

	policy := attendance.Policy{
		Office: attendance.OfficePolicy{
			Latitude:     getEnvFloat("OFFICE_LATITUDE", def.Office.Latitude),
			Longitude:    getEnvFloat("OFFICE_LONGITUDE", def.Office.Longitude),
			RadiusMeters: getEnvFloat("OFFICE_RADIUS_METERS", def.Office.RadiusMeters),
			Name:         getEnv("OFFICE_NAME", def.Office.Name),
			Address:      getEnv("OFFICE_ADDRESS", def.Office.Address),
		},
		FieldWork: attendance.FieldWorkPolicy{
			EnableGeofence:       getEnvBool("FIELD_WORK_ENABLE_GEOFENCE", def.FieldWork.EnableGeofence),
			MandatoryPhoto:       getEnvBool("FIELD_WORK_MANDATORY_PHOTO", def.FieldWork.MandatoryPhoto),
			MandatoryDescription: getEnvBool("FIELD_WORK_MANDATORY_DESCRIPTION", def.FieldWork.MandatoryDescription),
			MandatoryClientName:  getEnvBool("FIELD_WORK_MANDATORY_CLIENT_NAME", def.FieldWork.MandatoryClientName),
			MinDescriptionLength: getEnvInt("FIELD_WORK_MIN_DESCRIPTION_LENGTH", def.FieldWork.MinDescriptionLength),
		},
		AntiFakeGPS: attendance.AntiFakeGPSPolicy{
			EnablePrecisionCheck:         getEnvBool("ANTI_FAKE_GPS_PRECISION_CHECK", def.AntiFakeGPS.EnablePrecisionCheck),
			EnableAccuracyValidation:     getEnvBool("ANTI_FAKE_GPS_ACCURACY_VALIDATION", def.AntiFakeGPS.EnableAccuracyValidation),
			EnableTeleportationDetection: getEnvBool("ANTI_FAKE_GPS_TELEPORTATION_DETECTION", def.AntiFakeGPS.EnableTeleportationDetection),
			MinGPSAccuracyMeters:         getEnvFloat("ANTI_FAKE_GPS_MIN_ACCURACY_METERS", def.AntiFakeGPS.MinGPSAccuracyMeters),
			SuspiciousPrecisionDecimals:  getEnvInt("ANTI_FAKE_GPS_SUSPICIOUS_PRECISION_DECIMALS", def.AntiFakeGPS.SuspiciousPrecisionDecimals),
			MaxTravelSpeedKmh:            getEnvFloat("ANTI_FAKE_GPS_MAX_TRAVEL_SPEED_KMH", def.AntiFakeGPS.MaxTravelSpeedKmh),
			Mode:                         attendance.FraudMode(getEnv("ANTI_FAKE_GPS_MODE", string(def.AntiFakeGPS.Mode))),
		},
		WorkStartTime: getEnv("WORK_START_TIME", def.WorkStartTime),
		Timezone:      getEnv("ATTENDANCE_TIMEZONE", def.Timezone),
	}

	return policy.Normalize()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
