package config

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores the application configuration.
type Config struct {
	Port      string
	PublicURL string // Base address used to build public song file URLs
	APIURL    string // Media Store address used by the client commands

	// 数据库配置
	DBDriver   string // mysql, postgres, mongo or memory
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	MongoURI   string
	MongoDB    string

	// Redis配置，RedisHost 为空时不启用缓存
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// 文件存储配置
	StorageDriver  string // local or minio
	UploadDir      string // Base directory for all uploads
	AudioUploadDir string // Subdirectory for audio files: UploadDir/audio
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioRegion    string

	FFmpegPath    string
	MaxUploadSize int64 // Upload body limit in bytes

	LogLevel string
	LogFile  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("public_url", "http://localhost:8080")
	v.SetDefault("api_url", "http://localhost:8080")

	v.SetDefault("db_driver", "mysql")
	v.SetDefault("db_host", "127.0.0.1")
	v.SetDefault("db_port", "3306")
	v.SetDefault("db_user", "root")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "tunebox")
	v.SetDefault("mongo_uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo_db", "tunebox")

	v.SetDefault("redis_host", "")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("cache_ttl", "5m")

	v.SetDefault("storage_driver", "local")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("minio_endpoint", "127.0.0.1:9000")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_bucket", "tunebox")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_region", "us-east-1")

	v.SetDefault("ffmpeg_path", "ffmpeg")
	v.SetDefault("max_upload_size", "200MB")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	uploadBase := v.GetString("upload_dir")

	return &Config{
		Port:      v.GetString("port"),
		PublicURL: strings.TrimRight(v.GetString("public_url"), "/"),
		APIURL:    strings.TrimRight(v.GetString("api_url"), "/"),

		DBDriver:   strings.ToLower(v.GetString("db_driver")),
		DBHost:     v.GetString("db_host"),
		DBPort:     v.GetString("db_port"),
		DBUser:     v.GetString("db_user"),
		DBPassword: v.GetString("db_password"),
		DBName:     v.GetString("db_name"),
		MongoURI:   v.GetString("mongo_uri"),
		MongoDB:    v.GetString("mongo_db"),

		RedisHost:     v.GetString("redis_host"),
		RedisPort:     v.GetString("redis_port"),
		RedisPassword: v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),
		CacheTTL:      v.GetDuration("cache_ttl"),

		StorageDriver:  strings.ToLower(v.GetString("storage_driver")),
		UploadDir:      uploadBase,
		AudioUploadDir: filepath.Join(uploadBase, "audio"),
		MinioEndpoint:  v.GetString("minio_endpoint"),
		MinioAccessKey: v.GetString("minio_access_key"),
		MinioSecretKey: v.GetString("minio_secret_key"),
		MinioBucket:    v.GetString("minio_bucket"),
		MinioUseSSL:    v.GetBool("minio_use_ssl"),
		MinioRegion:    v.GetString("minio_region"),

		FFmpegPath:    v.GetString("ffmpeg_path"),
		MaxUploadSize: int64(v.GetSizeInBytes("max_upload_size")),

		LogLevel: v.GetString("log_level"),
		LogFile:  v.GetString("log_file"),
	}
}

// RedisEnabled reports whether a Redis cache should be used.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// SongFileURL returns the public URL under which a stored song object is served.
func (c *Config) SongFileURL(key string) string {
	return c.PublicURL + "/songs/" + key
}
