package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type ActivityConfig struct {
	Env          string `yaml:"env" env:"ACTIVITY_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	ActivityDB   `yaml:"activity_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka_service"`
	Redis        `yaml:"redis"`
	RateLimit    `yaml:"rate_limit"`
	Engine       `yaml:"engine"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"ACTIVITY_HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"ACTIVITY_HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env-separator:","`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"ACTIVITY_GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"ACTIVITY_GRPC_PORT" env-default:"50051"`
}

type ActivityDB struct {
	Dsn            string `yaml:"dsn" env:"ACTIVITY_DB_DSN" env-required:"true"`
	MigrationsPath string `yaml:"migrations_path" env:"ACTIVITY_MIGRATIONS_PATH" env-default:"migrations"`
	MaxOpenConns   int    `yaml:"max_open_conns" env-default:"20"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"ACTIVITY_LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	// LogOutput is "stdout" or a file path rotated by lumberjack.
	LogOutput  string `yaml:"log_output" env-default:"stdout"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"100"`
	MaxBackups int    `yaml:"max_backups" env-default:"5"`
	MaxAgeDays int    `yaml:"max_age_days" env-default:"14"`
}

type KafkaService struct {
	Host  string `yaml:"host" env:"ACTIVITY_KAFKA_HOST" env-default:"localhost"`
	Port  string `yaml:"port" env:"ACTIVITY_KAFKA_PORT" env-default:"9092"`
	Topic string `yaml:"topic" env:"ACTIVITY_KAFKA_TOPIC" env-default:"activity-events"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"ACTIVITY_REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"ACTIVITY_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"ACTIVITY_REDIS_DB" env-default:"0"`
}

type RateLimit struct {
	Requests int           `yaml:"requests" env-default:"30"`
	Window   time.Duration `yaml:"window" env-default:"1m"`
}

type Engine struct {
	CodeAttempts        int           `yaml:"code_attempts" env-default:"5"`
	ExpirySweepInterval time.Duration `yaml:"expiry_sweep_interval" env-default:"1m"`
	GroupSweepInterval  time.Duration `yaml:"group_sweep_interval" env-default:"30s"`
	NearbyDefaultLimit  int           `yaml:"nearby_default_limit" env-default:"10"`
	NotifyTimeout       time.Duration `yaml:"notify_timeout" env-default:"5s"`
}

func (k KafkaService) Brokers() []string {
	return []string{k.Host + ":" + k.Port}
}

func MustLoad() *ActivityConfig {

	// Processing env config variable and file
	configPath := os.Getenv("ACTIVITY_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("ACTIVITY_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return cfg
}

// Load reads the YAML file at path and applies env overrides.
func Load(path string) (*ActivityConfig, error) {
	var cfg ActivityConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
