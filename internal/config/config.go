package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Redis   RedisConfig   `yaml:"redis"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Session SessionConfig `yaml:"session"`
	Storage StorageConfig `yaml:"storage"`
	S3      S3Config      `yaml:"s3"`
	SMB     SMBConfig     `yaml:"smb"`
	NFS     NFSConfig     `yaml:"nfs"`
	Queue   QueueConfig   `yaml:"queue"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type SessionConfig struct {
	TTL string `yaml:"ttl"`
}

type StorageConfig struct {
	Type       string `yaml:"type"`
	FolderPath string `yaml:"folder_path"`
}

type S3Config struct {
	Endpoint   string `yaml:"endpoint"`
	Region     string `yaml:"region"`
	Bucket     string `yaml:"bucket"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	PathPrefix string `yaml:"path_prefix"`
}

type SMBConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Share    string `yaml:"share"`
	Path     string `yaml:"path"`
	Domain   string `yaml:"domain"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type NFSConfig struct {
	Server string `yaml:"server"`
	Export string `yaml:"export"`
	Path   string `yaml:"path"`
}

type QueueConfig struct {
	Concurrency int `yaml:"concurrency"`
	MaxRetry    int `yaml:"max_retry"`
}

// Load reads the yaml config at filename, falling back to defaults when
// filename is empty or the file does not exist. Environment variables
// override whatever the file provided.
func Load(filename string) (*Config, error) {
	cfg := defaults()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server:  ServerConfig{Host: "0.0.0.0", Port: "5000"},
		Redis:   RedisConfig{Addr: "127.0.0.1:6379"},
		Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: "files_manager"},
		Session: SessionConfig{TTL: "24h"},
		Storage: StorageConfig{Type: "local", FolderPath: "/tmp/files_manager"},
		Queue:   QueueConfig{Concurrency: 10, MaxRetry: 3},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("DB_DATABASE"); v != "" {
		c.Mongo.Database = v
	}
	if v := os.Getenv("FOLDER_PATH"); v != "" {
		c.Storage.FolderPath = v
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo uri is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo database is required")
	}
	if _, err := c.GetSessionTTL(); err != nil {
		return fmt.Errorf("invalid session ttl: %w", err)
	}
	if c.Queue.Concurrency <= 0 {
		return fmt.Errorf("queue concurrency must be positive")
	}

	return c.validateStorage(c.Storage.Type)
}

func (c *Config) validateStorage(storageType string) error {
	switch storageType {
	case "local":
		if c.Storage.FolderPath == "" {
			return fmt.Errorf("folder_path is required for local storage")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required for s3 storage")
		}
	case "smb":
		if c.SMB.Server == "" {
			return fmt.Errorf("smb server is required for smb storage")
		}
		if c.SMB.Share == "" {
			return fmt.Errorf("smb share is required for smb storage")
		}
	case "nfs":
		if c.NFS.Server == "" {
			return fmt.Errorf("nfs server is required for nfs storage")
		}
		if c.NFS.Export == "" {
			return fmt.Errorf("nfs export is required for nfs storage")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", storageType)
	}
	return nil
}

func (c *Config) GetSessionTTL() (time.Duration, error) {
	return time.ParseDuration(c.Session.TTL)
}
