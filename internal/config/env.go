// internal/config/env.go
package config

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Env var names for optional sink credentials and runtime overrides.
const (
	EnvLogLevel      = "BRIDGE_LOG_LEVEL"
	EnvListen        = "BRIDGE_LISTEN"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvS3AccessKey   = "S3_ACCESS_KEY"
	EnvS3SecretKey   = "S3_SECRET_KEY"
	EnvMQTTPassword  = "MQTT_PASSWORD"
	EnvInfluxToken   = "INFLUX_TOKEN"
)

// ResolveSecrets fills cfg.Secrets from the environment.
// Call after Normalize so every channel has a route env name.
// Empty values count as absent.
func ResolveSecrets(cfg *Config, lookup LookupFunc) {
	get := func(key string) string {
		if key == "" {
			return ""
		}
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return v
	}

	s := Secrets{
		BotToken:      get(cfg.Provider.Discord.TokenEnv),
		Routes:        make(map[string]string, len(cfg.Bridge.Channels)),
		RedisPassword: get(EnvRedisPassword),
		S3AccessKey:   get(EnvS3AccessKey),
		S3SecretKey:   get(EnvS3SecretKey),
		MQTTPassword:  get(EnvMQTTPassword),
		InfluxToken:   get(EnvInfluxToken),
	}
	for _, ch := range cfg.Bridge.Channels {
		if u := get(ch.RouteEnv); u != "" {
			s.Routes[ch.Slug] = u
		}
	}
	cfg.Secrets = s
}

// ApplyEnvOverrides lets the environment override a few runtime knobs.
func ApplyEnvOverrides(cfg *Config, lookup LookupFunc) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := lookup(EnvListen); ok && v != "" {
		cfg.API.Listen = v
	}
}
