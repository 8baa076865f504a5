package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every runtime setting for the service.
type Config struct {
	Server     ServerConfig
	Session    SessionConfig
	Payment    PaymentConfig
	AI         AIConfig
	Moderation ModerationConfig
}

// Load reads configuration from environment variables. Missing secrets that
// would make issued credentials forgeable or payments unverifiable are hard
// startup errors, never silent defaults.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	payment, err := loadPaymentConfig(server.PublicBaseURL)
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	moderation, err := loadModerationConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:     server,
		Session:    session,
		Payment:    payment,
		AI:         ai,
		Moderation: moderation,
	}, nil
}

// ServerConfig describes the HTTP listener and public addressing.
type ServerConfig struct {
	Addr          string
	PublicBaseURL string
	Production    bool
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	addr := port
	if !strings.Contains(port, ":") {
		if strings.Contains(port, " ") {
			return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
		}
		addr = ":" + port
	}

	baseURL := strings.TrimRight(getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"), "/")

	env := getEnvOrDefault("APP_ENV", "development")

	return ServerConfig{
		Addr:          addr,
		PublicBaseURL: baseURL,
		Production:    env == "production",
	}, nil
}

// SessionConfig holds the credential signing secret and lifetime.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

func loadSessionConfig() (SessionConfig, error) {
	secret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if secret == "" {
		return SessionConfig{}, errors.New("SESSION_SECRET is required")
	}

	ttlHours := 24
	if override, err := parseOptionalIntEnv("SESSION_TTL_HOURS"); err != nil {
		return SessionConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return SessionConfig{}, fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", *override)
		}
		ttlHours = *override
	}

	return SessionConfig{
		Secret: secret,
		TTL:    time.Duration(ttlHours) * time.Hour,
	}, nil
}

// PaymentConfig describes the Stripe checkout product.
type PaymentConfig struct {
	SecretKey          string
	ProductName        string
	ProductDescription string
	Currency           string
	AmountCents        int64
	BaseURL            string
}

func loadPaymentConfig(publicBaseURL string) (PaymentConfig, error) {
	secretKey := strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY"))
	if secretKey == "" {
		return PaymentConfig{}, errors.New("STRIPE_SECRET_KEY is required")
	}

	amount := int64(500)
	if override, err := parseOptionalIntEnv("CHECKOUT_AMOUNT_CENTS"); err != nil {
		return PaymentConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return PaymentConfig{}, fmt.Errorf("CHECKOUT_AMOUNT_CENTS must be positive, got %d", *override)
		}
		amount = int64(*override)
	}

	return PaymentConfig{
		SecretKey:          secretKey,
		ProductName:        getEnvOrDefault("CHECKOUT_PRODUCT_NAME", "Chat Session with Amanda Nyong"),
		ProductDescription: getEnvOrDefault("CHECKOUT_PRODUCT_DESCRIPTION", "One private chat session with Amanda - your AI friend"),
		Currency:           strings.ToLower(getEnvOrDefault("CHECKOUT_CURRENCY", "usd")),
		AmountCents:        amount,
		BaseURL:            publicBaseURL,
	}, nil
}

// AIConfig describes the completion model used by the conversation relay.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float64
	MaxTokens   *int
	Stream      bool
	Timeout     time.Duration
}

// Enabled reports whether the relay has the credentials it needs.
func (c AIConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// NewChatModel builds the chat model instance from configuration. The Ark
// component speaks the OpenAI-compatible protocol, so pointing BaseURL at the
// x.ai endpoint is all the relay needs.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, errors.New("completion API key or model missing")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	})
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("AI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		def := 0.8
		temperature = &def
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}
	if maxTokens == nil {
		def := 500
		maxTokens = &def
	}

	stream, err := parseBoolEnv("AI_STREAM", true)
	if err != nil {
		return AIConfig{}, err
	}

	timeout, err := parseTimeoutEnv("AI_TIMEOUT_SECONDS", 30*time.Second)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("XAI_API_KEY")),
		BaseURL:     getEnvOrDefault("AI_BASE_URL", "https://api.x.ai/v1"),
		Model:       getEnvOrDefault("AI_MODEL", "grok-3"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Stream:      stream,
		Timeout:     timeout,
	}, nil
}

// ModerationConfig describes the content gate.
type ModerationConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// FailOpen controls the policy when the moderation call itself errors:
	// true treats the input as allowed, false rejects the turn.
	FailOpen bool
	Timeout  time.Duration
}

// Enabled reports whether moderation credentials are configured.
func (c ModerationConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadModerationConfig() (ModerationConfig, error) {
	failOpen, err := parseBoolEnv("MODERATION_FAIL_OPEN", true)
	if err != nil {
		return ModerationConfig{}, err
	}

	timeout, err := parseTimeoutEnv("MODERATION_TIMEOUT_SECONDS", 10*time.Second)
	if err != nil {
		return ModerationConfig{}, err
	}

	return ModerationConfig{
		APIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL:  strings.TrimSpace(os.Getenv("MODERATION_BASE_URL")),
		Model:    getEnvOrDefault("MODERATION_MODEL", "omni-moderation-latest"),
		FailOpen: failOpen,
		Timeout:  timeout,
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

func parseTimeoutEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	override, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if override == nil {
		return defaultValue, nil
	}
	if *override < 1 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, *override)
	}
	return time.Duration(*override) * time.Second, nil
}
