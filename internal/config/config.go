package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 进程配置
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Media    MediaConfig
	Storage  StorageConfig
	JWT      JWTConfig
	Redis    RedisConfig
	LogLevel string
	DevMode  bool
}

type ServerConfig struct {
	Port           string
	AllowOrigins   []string      // CORS 白名单，为空时允许全部
	UploadCooldown time.Duration // 同一用户两次上传的最小间隔
	LoginPerMinute int           // 每 IP 每分钟登录次数，0 表示不限
}

type DBConfig struct {
	Driver          string // postgres | sqlite
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifeTime int // 分钟
}

// MediaConfig 图片上传相关配置
type MediaConfig struct {
	MaxUploadBytes int64
	MaxPixels      int64 // 解码前的像素总数上限
	ThumbWidth     int
	ThumbHeight    int
	SweepCron      string // 清理残留临时文件的 cron 表达式（秒级）
	SweepMaxAge    time.Duration
}

// StorageConfig 媒体存储后端
type StorageConfig struct {
	Provider  string // local | s3
	BasePath  string // local: 媒体根目录
	URLPrefix string // 对外访问前缀，例如 /uploads
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // S3 兼容服务的自定义端点
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

type RedisConfig struct {
	Addr       string // 为空时不启用菜单缓存
	Password   string
	DB         int
	MenuTTL    time.Duration
	WarmupCron string // 菜单预热 cron 表达式（秒级）
}

// Load 加载配置：先读取 .env（可选），再读取环境变量
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			AllowOrigins:   splitList(getEnv("CORS_ORIGINS", "")),
			UploadCooldown: time.Duration(getEnvInt("UPLOAD_COOLDOWN_SEC", 2)) * time.Second,
			LoginPerMinute: getEnvInt("LOGIN_PER_MINUTE", 30),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:             getEnv("DB_DSN", "restaurant.db?_foreign_keys=1"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifeTime: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 60),
		},
		Media: MediaConfig{
			MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 8*1024*1024),
			MaxPixels:      getEnvInt64("MAX_IMAGE_PIXELS", 178956970),
			ThumbWidth:     getEnvInt("THUMB_WIDTH", 100),
			ThumbHeight:    getEnvInt("THUMB_HEIGHT", 100),
			SweepCron:      getEnv("MEDIA_SWEEP_CRON", "0 */30 * * * *"),
			SweepMaxAge:    time.Duration(getEnvInt("MEDIA_SWEEP_MAX_AGE_MIN", 60)) * time.Minute,
		},
		Storage: StorageConfig{
			Provider:  strings.ToLower(getEnv("STORAGE_PROVIDER", "local")),
			BasePath:  getEnv("UPLOAD_DIR", "./static/uploads"),
			URLPrefix: getEnv("MEDIA_URL_PREFIX", "/uploads"),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "restaurant-dev-secret-change-me"),
			TTL:    time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
			Issuer: getEnv("JWT_ISSUER", "restaurant-hub"),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			MenuTTL:    time.Duration(getEnvInt("MENU_CACHE_TTL_SEC", 300)) * time.Second,
			WarmupCron: getEnv("MENU_WARMUP_CRON", "0 */10 * * * *"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  getEnv("APP_ENV", "dev") == "dev",
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB config: unsupported driver %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("invalid DB config: DB_DSN must not be empty")
	}
	if c.Media.ThumbWidth <= 0 || c.Media.ThumbHeight <= 0 {
		return fmt.Errorf("invalid media config: thumbnail box must be positive")
	}
	if c.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid media config: MAX_UPLOAD_BYTES must be positive")
	}
	if c.Storage.Provider == "s3" && c.Storage.Bucket == "" {
		return fmt.Errorf("invalid storage config: S3_BUCKET is required for s3 provider")
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
