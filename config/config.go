package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string `mapstructure:"service_name"`
	Env         string `mapstructure:"env"`
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	CORSOrigin  string `mapstructure:"cors_origin"`

	MongoURI            string        `mapstructure:"mongo_uri"`
	MongoDB             string        `mapstructure:"mongo_db"`
	MongoHealthInterval string        `mapstructure:"mongo_health_interval"`
	MongoTimeout        time.Duration `mapstructure:"mongo_timeout"`

	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Incident IncidentConfig `mapstructure:"incidents"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Consul   ConsulConfig   `mapstructure:"consul"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type AuthConfig struct {
	Enforce   bool          `mapstructure:"enforce"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	SeedUsers bool          `mapstructure:"seed_users"`
}

type StorageConfig struct {
	Driver         string `mapstructure:"driver"` // local, s3 or firebase
	LocalDir       string `mapstructure:"local_dir"`
	PublicPrefix   string `mapstructure:"public_prefix"`
	MaxUploadMB    int    `mapstructure:"max_upload_mb"`
	S3Bucket       string `mapstructure:"s3_bucket"`
	S3Endpoint     string `mapstructure:"s3_endpoint"`
	S3Region       string `mapstructure:"s3_region"`
	S3AccessKey    string `mapstructure:"s3_access_key"`
	S3SecretKey    string `mapstructure:"s3_secret_key"`
	S3PublicURL    string `mapstructure:"s3_public_url"`
	FirebaseBucket string `mapstructure:"firebase_bucket"`
}

type NotifyConfig struct {
	DefaultTenant string        `mapstructure:"default_tenant"`
	TimeZone      string        `mapstructure:"time_zone"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	PushTopic     string        `mapstructure:"push_topic"`
}

type IncidentConfig struct {
	BBoxPrefilter bool `mapstructure:"bbox_prefilter"`
}

type RedisConfig struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	RateLimit  int           `mapstructure:"rate_limit"`
	RateWindow time.Duration `mapstructure:"rate_window"`
}

type ConsulConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type FirebaseConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	ProjectID       string `mapstructure:"project_id"`
}

func LoadConfig() *Config {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Failed to read config file: %v", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Notify.DefaultTenant == "" {
		cfg.Notify.DefaultTenant = "default"
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "rakshak-service")
	v.SetDefault("env", "development")
	v.SetDefault("host", "localhost")
	v.SetDefault("port", "3001")
	v.SetDefault("cors_origin", "*")

	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "rakshak")
	v.SetDefault("mongo_health_interval", "@every 5s")
	v.SetDefault("mongo_timeout", 8*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/rakshak.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)

	v.SetDefault("auth.enforce", false)
	v.SetDefault("auth.jwt_secret", "change-me")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.seed_users", true)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.public_prefix", "/uploads")
	v.SetDefault("storage.max_upload_mb", 5)
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_endpoint", "")
	v.SetDefault("storage.s3_region", "auto")
	v.SetDefault("storage.s3_access_key", "")
	v.SetDefault("storage.s3_secret_key", "")
	v.SetDefault("storage.s3_public_url", "")
	v.SetDefault("storage.firebase_bucket", "")

	v.SetDefault("notify.default_tenant", "default")
	v.SetDefault("notify.time_zone", "Asia/Kolkata")
	v.SetDefault("notify.timeout", 30*time.Second)
	v.SetDefault("notify.max_concurrent", 16)
	v.SetDefault("notify.push_topic", "sos-alerts")

	v.SetDefault("incidents.bbox_prefilter", false)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.rate_limit", 20)
	v.SetDefault("redis.rate_window", time.Minute)

	v.SetDefault("consul.enabled", false)
	v.SetDefault("consul.address", "localhost:8500")

	v.SetDefault("firebase.credentials_file", "")
	v.SetDefault("firebase.project_id", "")
}
