package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
}

type StorageConf struct {
	Backend    string `mapstructure:"backend"` // local | s3
	Root       string `mapstructure:"root"`    // base dir for the local backend
	Thumbnails bool   `mapstructure:"thumbnails"`
}

type MongoConf struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type AWSConf struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
}

type RedisConf struct {
	Addr                string `mapstructure:"addr"`
	Password            string `mapstructure:"password"`
	DB                  int    `mapstructure:"db"`
	UploadLimit         int    `mapstructure:"upload_limit"`
	UploadWindowSeconds int    `mapstructure:"upload_window_seconds"`
}

type KafkaConf struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type JWTConf struct {
	PublicKeyPath string `mapstructure:"public_key_path"`
}

type StatsConf struct {
	// Timezone used to bucket events into calendar dates. Chosen once,
	// applied consistently.
	Timezone string `mapstructure:"timezone"`
}

type Config struct {
	App     AppConf     `mapstructure:"app"`
	Storage StorageConf `mapstructure:"storage"`
	Mongo   MongoConf   `mapstructure:"mongodb"`
	AWS     AWSConf     `mapstructure:"aws"`
	Redis   RedisConf   `mapstructure:"redis"`
	Kafka   KafkaConf   `mapstructure:"kafka"`
	JWT     JWTConf     `mapstructure:"jwt"`
	Stats   StatsConf   `mapstructure:"stats"`
	Log     struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	// derived
	ShutdownTimeout time.Duration
	Location        *time.Location
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.App.ShutdownSecond == 0 {
		cfg.App.ShutdownSecond = 15
	}
	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "local"
	}
	if cfg.Storage.Root == "" {
		cfg.Storage.Root = "upload"
	}
	if cfg.Mongo.Collection == "" {
		cfg.Mongo.Collection = "profile_stats"
	}
	if cfg.Redis.UploadLimit == 0 {
		cfg.Redis.UploadLimit = 30
	}
	if cfg.Redis.UploadWindowSeconds == 0 {
		cfg.Redis.UploadWindowSeconds = 60
	}

	if cfg.Stats.Timezone == "" {
		cfg.Stats.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(cfg.Stats.Timezone)
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	return &cfg, nil
}
