package config

import "time"

type AppConfig struct {
	ListenAddr        string          `yaml:"listen_addr" env:"VGC_LISTEN_ADDR" env-default:"127.0.0.1:8090"`
	DBPath            string          `yaml:"db_path" env:"VGC_DB_PATH" env-default:"data/console.db"`
	AppEnv            string          `yaml:"app_env" env:"VGC_APP_ENV"`
	InactivityTimeout time.Duration   `yaml:"inactivity_timeout" env:"VGC_INACTIVITY_TIMEOUT" env-default:"30m"`
	TokenKey          string          `yaml:"token_key" env:"VGC_TOKEN_KEY"`
	Gateway           GatewayConfig   `yaml:"gateway"`
	Scheduler         SchedulerConfig `yaml:"scheduler"`
	Security          SecurityConfig  `yaml:"security"`
}

type GatewayConfig struct {
	BaseURL        string `yaml:"base_url" env:"VGC_GATEWAY_BASE_URL" env-default:"https://api.npfvigilant.example/api/v1"`
	TimeoutSec     int    `yaml:"timeout_sec" env:"VGC_GATEWAY_TIMEOUT" env-default:"30"`
	VerifyTLS      bool   `yaml:"verify_tls" env:"VGC_GATEWAY_VERIFY_TLS" env-default:"true"`
	DefaultPerPage int    `yaml:"default_per_page" env:"VGC_GATEWAY_PER_PAGE" env-default:"10"`
}

type SchedulerConfig struct {
	Enabled                 bool `yaml:"enabled" env:"VGC_SCHEDULER_ENABLED" env-default:"true"`
	NotificationPollMinutes int  `yaml:"notification_poll_minutes" env:"VGC_SCHEDULER_NOTIFICATION_POLL_MINUTES" env-default:"5"`
	IdleSweepMinutes        int  `yaml:"idle_sweep_minutes" env:"VGC_SCHEDULER_IDLE_SWEEP_MINUTES" env-default:"1"`
}

type SecurityConfig struct {
	LoginRateLimit   int      `yaml:"login_rate_limit" env:"VGC_SECURITY_LOGIN_RATE_LIMIT" env-default:"5"`
	TrustedProxies   []string `yaml:"trusted_proxies" env:"VGC_SECURITY_TRUSTED_PROXIES" env-separator:","`
	OTPPendingTTLMin int      `yaml:"otp_pending_ttl_min" env:"VGC_SECURITY_OTP_PENDING_TTL_MIN" env-default:"5"`
	OTPMaxAttempts   int      `yaml:"otp_max_attempts" env:"VGC_SECURITY_OTP_MAX_ATTEMPTS" env-default:"5"`
}

const maxInactivityTimeout = 30 * time.Minute

// EffectiveInactivityTimeout clamps the configured idle window. Expiry is a
// local decision; the remote platform is never asked whether a session died.
func (c *AppConfig) EffectiveInactivityTimeout() time.Duration {
	timeout := maxInactivityTimeout
	if c != nil && c.InactivityTimeout > 0 {
		timeout = c.InactivityTimeout
	}
	if timeout > maxInactivityTimeout {
		return maxInactivityTimeout
	}
	return timeout
}

func (c *AppConfig) GatewayTimeout() time.Duration {
	if c == nil || c.Gateway.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Gateway.TimeoutSec) * time.Second
}

func (c *AppConfig) OTPPendingTTL() time.Duration {
	if c == nil || c.Security.OTPPendingTTLMin <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Security.OTPPendingTTLMin) * time.Minute
}
