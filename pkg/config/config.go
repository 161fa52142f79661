package config

import (
	"os"
	"strconv"
	"strings"

	"uploadcare-loader/pkg/loader"
)

type Config struct {
	Port           string
	AllowedDomains []string
	RateLimit      int
	RateBurst      int
	TrustedProxies []string
	Loader         loader.Options
}

func Load() *Config {
	rateLimit := getEnvInt("RATE_LIMIT", 100)

	return &Config{
		Port:           getEnv("PORT", "3000"),
		AllowedDomains: splitList(getEnv("ALLOWED_DOMAINS", "*")),
		RateLimit:      rateLimit,
		RateBurst:      getEnvInt("RATE_BURST", rateLimit),
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
		Loader: loader.Options{
			PublicKey:                getEnv("UPLOADCARE_PUBLIC_KEY", ""),
			CustomProxyDomain:        getEnv("UPLOADCARE_CUSTOM_PROXY_DOMAIN", ""),
			CustomCDNDomain:          getEnv("UPLOADCARE_CUSTOM_CDN_DOMAIN", ""),
			AppBaseURL:               getEnv("UPLOADCARE_APP_BASE_URL", ""),
			TransformationParameters: getEnv("UPLOADCARE_TRANSFORMATION_PARAMETERS", ""),
			Mode:                     loader.ParseMode(getEnv("APP_ENV", string(loader.ModeProduction))),
		},
	}
}

// Validate reports configuration the loader would reject on every call.
func (c *Config) Validate() error {
	if c.Loader.Mode == loader.ModeDevelopment {
		return nil
	}
	if strings.TrimSpace(c.Loader.PublicKey) == "" && strings.TrimSpace(c.Loader.CustomProxyDomain) == "" {
		return loader.ErrMissingCredentials
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
