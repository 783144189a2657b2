package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

const (
	defaultMongoURI        = "mongodb://localhost:27017"
	defaultMongoDBName     = "blog"
	defaultConnectTimeout  = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultEventsTopic     = "blog-api.blog.events"
	defaultPublishTimeout  = 5 * time.Second
)

type AppConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Server  ServerConfig  `yaml:"server"`
	Events  EventsConfig  `yaml:"events"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MongoConfig 는 문서 저장소 접속 정보다. URI 는 MONGODB_URI 로 덮어쓸 수 있다.
type MongoConfig struct {
	URI            string        `yaml:"uri"`
	DBName         string        `yaml:"db_name"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// ServerConfig controls the HTTP listener.
// An empty Port means the process does not bind a listener at all.
type ServerConfig struct {
	Port               string        `yaml:"port"`
	H2C                bool          `yaml:"h2c"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
}

// EventsConfig 는 블로그 변경 이벤트 발행 설정이다.
// Brokers 가 비어 있으면 이벤트 발행을 하지 않는다.
type EventsConfig struct {
	Brokers        string        `yaml:"brokers"`
	Topic          string        `yaml:"topic"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

var config *AppConfig

func InitApp() {
	c, err := Load(GetBasePath())
	if err != nil {
		panic(err)
	}
	config = c
}

// Load reads .env and config.yaml from basePath (both optional), then applies
// environment overrides and defaults.
func Load(basePath string) (*AppConfig, error) {
	// load environment variables
	_ = godotenv.Load(filepath.Join(basePath, ENV_FILE))

	var c AppConfig
	data, err := os.ReadFile(filepath.Join(basePath, CONFIG_FILE))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", CONFIG_FILE, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// config.yaml 없이 환경변수만으로도 동작한다.
	default:
		return nil, fmt.Errorf("read %s: %w", CONFIG_FILE, err)
	}

	c.applyEnv()
	c.applyDefaults()
	return &c, nil
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv("MONGODB_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("MONGODB_DB_NAME"); v != "" {
		c.Mongo.DBName = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); v != "" {
		c.Events.Brokers = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSAllowedOrigins = origins
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = defaultMongoURI
	}
	if c.Mongo.DBName == "" {
		c.Mongo.DBName = defaultMongoDBName
	}
	if c.Mongo.ConnectTimeout <= 0 {
		c.Mongo.ConnectTimeout = defaultConnectTimeout
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Events.Topic == "" {
		c.Events.Topic = defaultEventsTopic
	}
	if c.Events.PublishTimeout <= 0 {
		c.Events.PublishTimeout = defaultPublishTimeout
	}
}

// ListenAddr returns the address the HTTP server binds to, or "" when no port is configured.
func (s ServerConfig) ListenAddr() string {
	if s.Port == "" {
		return ""
	}
	if strings.Contains(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
