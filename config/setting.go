package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type serverConfig struct {
	Port        int    `koanf:"port" validate:"required"`
	Mode        string `koanf:"mode" validate:"required"`
	Concurrency int    `koanf:"concurrency"`
	BodyLimit   int    `koanf:"body_limit"`
	AppName     string `koanf:"app_name"`
}

type logLevel string

const (
	Debug logLevel = "debug"
	Info  logLevel = "info"
	Warn  logLevel = "warn"
	Error logLevel = "error"
	Fatal logLevel = "fatal"
	Panic logLevel = "panic"
)

type Module string

const (
	ModuleServer       Module = "server"
	ModuleSetting      Module = "setting"
	ModuleDatabase     Module = "database"
	ModuleScorer       Module = "scorer"
	ModuleEmbedding    Module = "embedding"
	ModuleVariantIndex Module = "variantindex"
	ModuleAICheck      Module = "aicheck"
	ModuleCache        Module = "cache"
	ModuleOrchestrator Module = "orchestrator"
	ModuleVerify       Module = "verify"
	ModuleAILog        Module = "ailog"
)

type databaseConfig struct {
	Host         string   `koanf:"host" validate:"required"`
	Port         int      `koanf:"port" validate:"required"`
	User         string   `koanf:"user" validate:"required"`
	Password     string   `koanf:"password"`
	Name         string   `koanf:"name" validate:"required"`
	Replicas     []string `koanf:"replicas"`
	MaxIdleConns int      `koanf:"max_idle_conns"`
	MaxOpenConns int      `koanf:"max_open_conns"`
	MaxLifetime  int      `koanf:"max_lifetime"`
}

type openaiConfig struct {
	Key            string `koanf:"key"`
	Model          string `koanf:"model" validate:"required"`
	EmbeddingModel string `koanf:"embedding_model" validate:"required"`
}

type groqConfig struct {
	Key     string `koanf:"key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

type geminiConfig struct {
	Key   string `koanf:"key"`
	Model string `koanf:"model"`
}

type cohereConfig struct {
	Key   string `koanf:"key"`
	Model string `koanf:"model"`
}

type localLLMConfig struct {
	Endpoint string `koanf:"endpoint"`
	Model    string `koanf:"model"`
}

// aiConfig controls the remote verification fallback.
type aiConfig struct {
	Enabled         bool    `koanf:"enabled"`
	Provider        string  `koanf:"provider"`
	Temperature     float32 `koanf:"temperature"`
	MaxOutputTokens int     `koanf:"max_output_tokens"`
	TimeoutSeconds  int     `koanf:"timeout_seconds"`
	CacheTTLSeconds int     `koanf:"cache_ttl_seconds"`
}

// thresholdsConfig holds the default scoring tier cut-offs; callers may
// override any of them per request.
type thresholdsConfig struct {
	FuzzyStrict    float64 `koanf:"fuzzy_strict"`
	FuzzySoft      float64 `koanf:"fuzzy_soft"`
	Semantic       float64 `koanf:"semantic"`
	EmbedMaxTokens int     `koanf:"embed_max_tokens"`
}

type milvusConfig struct {
	Enabled         bool            `koanf:"enabled"`
	Address         string          `koanf:"address"`
	Collection      string          `koanf:"collection"`
	IndexHNSWConfig indexHNSWConfig `koanf:"index_hnsw_config"`
}

type indexHNSWConfig struct {
	MetricType     string `koanf:"metric_type"`
	M              int    `koanf:"m"`
	EfConstruction int    `koanf:"ef_construction"`
}

type s3Config struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Region    string `koanf:"region"`
	UseSSL    bool   `koanf:"use_ssl"`
	Bucket    string `koanf:"bucket"`
}

type ailogConfig struct {
	Enabled bool   `koanf:"enabled"`
	File    string `koanf:"file"`
	Archive bool   `koanf:"archive"`
}

type config struct {
	Server     serverConfig     `koanf:"server"`
	Database   databaseConfig   `koanf:"database"`
	OpenAI     openaiConfig     `koanf:"openai"`
	Groq       groqConfig       `koanf:"groq"`
	Gemini     geminiConfig     `koanf:"gemini"`
	Cohere     cohereConfig     `koanf:"cohere"`
	LocalLLM   localLLMConfig   `koanf:"local_llm"`
	AI         aiConfig         `koanf:"ai"`
	Thresholds thresholdsConfig `koanf:"thresholds"`
	Milvus     milvusConfig     `koanf:"milvus"`
	S3         s3Config         `koanf:"s3"`
	AILog      ailogConfig      `koanf:"ailog"`
	LogLevel   logLevel         `koanf:"log_level"`
	Dns        string           `koanf:"dns"`
}

func buildMySQLDSN(cfg databaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)
}

var defaultConfig = config{
	Server: serverConfig{
		Port:    8000,
		Mode:    "release",
		AppName: "answer-grader",
	},
	Database: databaseConfig{
		Host:     "127.0.0.1",
		Port:     3306,
		User:     "root",
		Password: "",
		Name:     "grader",
	},
	OpenAI: openaiConfig{
		Key:            "",
		Model:          "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
	},
	Groq: groqConfig{
		Model:   "llama-3.1-8b-instant",
		BaseURL: "https://api.groq.com/openai/v1",
	},
	Gemini: geminiConfig{
		Model: "gemini-2.5-flash",
	},
	Cohere: cohereConfig{
		Model: "command-light",
	},
	LocalLLM: localLLMConfig{
		Endpoint: "http://localhost:11434",
		Model:    "llama3",
	},
	AI: aiConfig{
		Enabled:         true,
		Provider:        "groq",
		Temperature:     0.1,
		MaxOutputTokens: 200,
		TimeoutSeconds:  30,
		CacheTTLSeconds: 3600,
	},
	Thresholds: thresholdsConfig{
		FuzzyStrict:    95,
		FuzzySoft:      90,
		Semantic:       0.75,
		EmbedMaxTokens: 512,
	},
	Milvus: milvusConfig{
		Enabled:    false,
		Address:    "localhost:19530",
		Collection: "variant_embeddings",
		IndexHNSWConfig: indexHNSWConfig{
			MetricType:     "COSINE",
			M:              16,
			EfConstruction: 128,
		},
	},
	S3: s3Config{
		Endpoint:  "http://localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Region:    "us-east-1",
		UseSSL:    false,
		Bucket:    "ai-check-logs",
	},
	AILog: ailogConfig{
		Enabled: true,
		File:    "logs/ai_checks.log",
		Archive: false,
	},
	LogLevel: Info,
}

var (
	Cfg  = defaultConfig
	once sync.Once
)

// Init loads configuration once: defaults, then the yaml file at path, then
// APP_-prefixed environment variables. Commands call it explicitly; importing
// this package alone yields defaults plus config.yaml when present.
func Init(path string) error {
	var initErr error
	once.Do(func() {
		k := koanf.New(".")

		validate := validator.New()
		// defaults
		Cfg = defaultConfig

		// file
		if e := k.Load(file.Provider(path), yaml.Parser()); e != nil && !os.IsNotExist(e) {
			initErr = e
			return
		}

		// env APP_SERVER_PORT -> server.port
		if e := k.Load(env.Provider("APP_", ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "APP_")), "_", ".")
		}), nil); e != nil {
			initErr = e
			return
		}

		// bind
		if e := k.Unmarshal("", &Cfg); e != nil {
			log.Errorf("failed to unmarshal config: %v", e)
			initErr = e
			return
		}

		if Cfg.Dns == "" {
			Cfg.Dns = buildMySQLDSN(Cfg.Database)
		}

		// validate config
		if err := validate.Struct(Cfg); err != nil {
			if errs, ok := err.(validator.ValidationErrors); ok {
				var sb strings.Builder
				sb.WriteString(fmt.Sprintf("%v Config validation failed:\n", ModuleSetting))

				for _, e := range errs {
					sb.WriteString(
						fmt.Sprintf("  - %s: failed '%s' (value: %v)\n", e.Field(), e.Tag(), e.Value()),
					)
				}

				log.Error(sb.String())
			} else {
				log.Errorf("config validation failed: %v", err)
			}
		}
	})
	return initErr
}

func init() {
	_ = Init("config.yaml")
}
