package utils

import (
	"log"
	"os"
	"strconv"
	"time"
)

type EnvValue interface {
	string | int | float64 | bool | time.Duration
}

func parseEnv[V EnvValue](envVar, envValue string) V {
	var (
		out V
		err error
	)
	switch ptr := any(&out).(type) {
	case *string:
		*ptr = envValue
	case *int:
		*ptr, err = strconv.Atoi(envValue)
	case *float64:
		*ptr, err = strconv.ParseFloat(envValue, 64)
	case *bool:
		*ptr, err = strconv.ParseBool(envValue)
	case *time.Duration:
		*ptr, err = time.ParseDuration(envValue)
	}
	if err != nil {
		log.Fatalf("environment variable %s is not valid: cannot parse '%s' (%v)", envVar, envValue, err)
	}
	return out
}

// GetEnv returns the value of the environment variable, or the default value if it is unset or empty.
func GetEnv[V EnvValue](envVar string, defaultValue V) V {
	envValue, ok := os.LookupEnv(envVar)
	if !ok || envValue == "" {
		return defaultValue
	}
	return parseEnv[V](envVar, envValue)
}

// GetRequiredEnv exits the process when the environment variable is unset or empty.
func GetRequiredEnv[V EnvValue](envVar string) V {
	envValue, ok := os.LookupEnv(envVar)
	if !ok || envValue == "" {
		log.Fatalf("%s environment variable is required", envVar)
	}
	return parseEnv[V](envVar, envValue)
}
