package infra

import (
	"fmt"
	"time"
)

type PgConfig struct {
	ConnectionString   string
	Database           string
	Hostname           string
	Password           string
	Port               string
	User               string
	MaxPoolConnections int
	SslMode            string
}

func (config PgConfig) GetConnectionString() string {
	if config.ConnectionString != "" {
		return config.ConnectionString
	}

	if config.SslMode == "" {
		config.SslMode = "prefer"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s database=%s sslmode=%s",
		config.Hostname, config.Port, config.User, config.Password, config.Database, config.SslMode)
}

type GraderProviderType string

const (
	GraderProviderTypeOpenAI GraderProviderType = "openai"
)

// GraderConfiguration holds the LLM provider settings shared by all grading
// personas. Per-persona model overrides live in persona_configs.
type GraderConfiguration struct {
	ProviderType   GraderProviderType
	ProviderUrl    string
	ProviderKey    string
	DefaultModel   string
	PersonaTimeout time.Duration
}

type EmbeddingConfiguration struct {
	BaseUrl string
	ApiKey  string
	Model   string
}

type SandboxConfiguration struct {
	BaseUrl        string
	ApiKey         string
	TimeoutSeconds int
	MemoryLimitMb  int
	CpuLimit       float64
	// HostGracePeriod pads the HTTP timeout so the host can report its own
	// timeout verdict before the client gives up.
	HostGracePeriod time.Duration
}

type LmsConfiguration struct {
	BaseUrl     string
	ApiKey      string
	MaxAttempts int
}
