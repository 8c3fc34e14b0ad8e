package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合客户端与本地网关的配置项。
type Config struct {
	Client ClientConfig
	Server ServerConfig
	AI     AIConfig
	Log    LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	client, err := loadClientConfig()
	if err != nil {
		return nil, err
	}

	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Client: client, Server: server, AI: ai, Log: logCfg}, nil
}

// ClientConfig describes how the navigator reaches the hosted assistant.
type ClientConfig struct {
	WebSocketURL    string
	APIBaseURL      string
	ResponseTimeout time.Duration
	HTTPTimeout     time.Duration
	StateFile       string
	UseTranslateAPI bool
}

func loadClientConfig() (ClientConfig, error) {
	responseTimeout, err := parseSecondsEnv("NAVIGATOR_RESPONSE_TIMEOUT", 30*time.Second)
	if err != nil {
		return ClientConfig{}, err
	}

	httpTimeout, err := parseSecondsEnv("NAVIGATOR_HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return ClientConfig{}, err
	}

	useTranslate, err := parseBoolEnv("NAVIGATOR_USE_TRANSLATE", false)
	if err != nil {
		return ClientConfig{}, err
	}

	stateFile := strings.TrimSpace(os.Getenv("NAVIGATOR_STATE_FILE"))
	if stateFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		stateFile = filepath.Join(home, ".learning-navigator", "state.yaml")
	}

	apiURL := getEnvOrDefault("NAVIGATOR_API_URL", "http://localhost:8080/")
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}

	return ClientConfig{
		WebSocketURL:    getEnvOrDefault("NAVIGATOR_WS_URL", "ws://localhost:8080/ws"),
		APIBaseURL:      apiURL,
		ResponseTimeout: responseTimeout,
		HTTPTimeout:     httpTimeout,
		StateFile:       stateFile,
		UseTranslateAPI: useTranslate,
	}, nil
}

// ServerConfig 描述本地网关的 HTTP 服务配置。
type ServerConfig struct {
	Addr              string
	CORSOrigins       []string
	HeartbeatInterval time.Duration
	// JWTSecret 为空时只解析 token，不校验签名。
	JWTSecret string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	addr, err := parseListenAddr(os.Getenv("PORT"))
	if err != nil {
		return ServerConfig{}, err
	}

	heartbeat, err := parseSecondsEnv("GATEWAY_HEARTBEAT_INTERVAL", 0)
	if err != nil {
		return ServerConfig{}, err
	}

	var origins []string
	for _, origin := range strings.Split(getEnvOrDefault("GATEWAY_CORS_ORIGINS", "*"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return ServerConfig{
		Addr:              addr,
		CORSOrigins:       origins,
		HeartbeatInterval: heartbeat,
		JWTSecret:         strings.TrimSpace(os.Getenv("GATEWAY_JWT_SECRET")),
	}, nil
}

func parseListenAddr(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// AIConfig 描述大模型相关配置，网关用它回答问题和给会话分类。
type AIConfig struct {
	APIKey            string
	AccessKey         string
	SecretKey         string
	Model             string
	BaseURL           string
	Region            string
	Temperature       *float64
	TopP              *float64
	MaxTokens         *int
	ClassifierEnabled bool
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + Model or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	classifier, err := parseBoolEnv("AI_CLASSIFIER_ENABLED", false)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:            strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:         strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:         strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:             strings.TrimSpace(os.Getenv("Model")),
		BaseURL:           getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:            getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:       temperature,
		TopP:              topP,
		MaxTokens:         maxTokens,
		ClassifierEnabled: classifier,
	}, nil
}

// LogConfig controls the zerolog setup.
type LogConfig struct {
	Level  string
	Pretty bool
}

func loadLogConfig() (LogConfig, error) {
	pretty, err := parseBoolEnv("LOG_PRETTY", true)
	if err != nil {
		return LogConfig{}, err
	}
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Pretty: pretty,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

// parseSecondsEnv reads a whole number of seconds; negative values are rejected.
func parseSecondsEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	seconds, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if seconds == nil {
		return defaultValue, nil
	}
	if *seconds < 0 {
		return 0, fmt.Errorf("invalid %s value %d: must not be negative", key, *seconds)
	}
	return time.Duration(*seconds) * time.Second, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
