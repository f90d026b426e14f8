package cmd

import (
	"time"

	"github.com/campuskit/grader-backend/infra"
	"github.com/campuskit/grader-backend/utils"
)

func pgConfigFromEnv() infra.PgConfig {
	return infra.PgConfig{
		ConnectionString:   utils.GetEnv("PG_CONNECTION_STRING", ""),
		Database:           "grader",
		Hostname:           utils.GetEnv("PG_HOSTNAME", ""),
		Password:           utils.GetEnv("PG_PASSWORD", ""),
		Port:               utils.GetEnv("PG_PORT", "5432"),
		User:               utils.GetEnv("PG_USER", ""),
		MaxPoolConnections: utils.GetEnv("PG_MAX_POOL_SIZE", infra.MAX_CONNECTIONS),
		SslMode:            utils.GetEnv("PG_SSL_MODE", "prefer"),
	}
}

func graderConfigFromEnv() infra.GraderConfiguration {
	return infra.GraderConfiguration{
		ProviderType:   infra.GraderProviderType(utils.GetEnv("GRADER_PROVIDER_TYPE", string(infra.GraderProviderTypeOpenAI))),
		ProviderUrl:    utils.GetEnv("GRADER_PROVIDER_URL", ""),
		ProviderKey:    utils.GetEnv("GRADER_PROVIDER_KEY", ""),
		DefaultModel:   utils.GetEnv("GRADER_DEFAULT_MODEL", "gpt-4o"),
		PersonaTimeout: time.Duration(utils.GetEnv("GRADER_PERSONA_TIMEOUT_SECOND", 60)) * time.Second,
	}
}

func embeddingConfigFromEnv() infra.EmbeddingConfiguration {
	return infra.EmbeddingConfiguration{
		BaseUrl: utils.GetEnv("EMBEDDING_BASE_URL", ""),
		ApiKey:  utils.GetEnv("EMBEDDING_API_KEY", ""),
		Model:   utils.GetEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
	}
}

func sandboxConfigFromEnv() infra.SandboxConfiguration {
	return infra.SandboxConfiguration{
		BaseUrl:         utils.GetEnv("SANDBOX_BASE_URL", ""),
		ApiKey:          utils.GetEnv("SANDBOX_API_KEY", ""),
		TimeoutSeconds:  utils.GetEnv("SANDBOX_TIMEOUT_SECOND", 10),
		MemoryLimitMb:   utils.GetEnv("SANDBOX_MEMORY_LIMIT_MB", 256),
		CpuLimit:        utils.GetEnv("SANDBOX_CPU_LIMIT", 1.0),
		HostGracePeriod: time.Duration(utils.GetEnv("SANDBOX_HOST_GRACE_PERIOD_SECOND", 5)) * time.Second,
	}
}

func lmsConfigFromEnv() infra.LmsConfiguration {
	return infra.LmsConfiguration{
		BaseUrl:     utils.GetEnv("LMS_BASE_URL", ""),
		ApiKey:      utils.GetEnv("LMS_API_KEY", ""),
		MaxAttempts: utils.GetEnv("LMS_MAX_ATTEMPTS", 3),
	}
}
