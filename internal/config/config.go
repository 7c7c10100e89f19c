// internal/config/config.go
package config

type Config struct {
	Bridge   BridgeConfig   `yaml:"bridge"`
	Provider ProviderConfig `yaml:"provider"`
	Poll     PollConfig     `yaml:"poll"`
	Output   OutputConfig   `yaml:"output"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Secrets never come from the file. See ResolveSecrets.
	Secrets Secrets `yaml:"-"`
}

// ---- BRIDGE ----

type BridgeConfig struct {
	SourceID           string          `yaml:"source_id"`
	DefaultChannel     string          `yaml:"default_channel"`
	DefaultSender      string          `yaml:"default_sender"`
	DefaultDisplayName string          `yaml:"default_display_name"`
	AvatarBase         string          `yaml:"avatar_base"`
	Senders            []SenderConfig  `yaml:"senders"`
	Channels           []ChannelConfig `yaml:"channels"`
}

// SenderConfig maps a display name to an agent id.
// Order matters: the first matching entry wins.
type SenderConfig struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"`
}

type ChannelConfig struct {
	Slug        string `yaml:"slug"`
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`

	// RouteEnv names the env var holding the outbound webhook URL.
	// Default: DISCORD_WEBHOOK_<SLUG>.
	RouteEnv string `yaml:"route_env"`
}

// ---- PROVIDER ----

type ProviderConfig struct {
	OpenClaw OpenClawConfig `yaml:"openclaw"`
	Discord  DiscordConfig  `yaml:"discord"`
}

type OpenClawConfig struct {
	StatusCommand   []string `yaml:"status_command"`
	DiskCommand     []string `yaml:"disk_command"`
	StatusTimeoutMs int      `yaml:"status_timeout_ms"`
	DiskTimeoutMs   int      `yaml:"disk_timeout_ms"`
}

type DiscordConfig struct {
	APIBase      string `yaml:"api_base"`
	UserAgent    string `yaml:"user_agent"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	TokenEnv     string `yaml:"token_env"`
	MessageLimit int    `yaml:"message_limit"`
}

// ---- POLL ----

type PollConfig struct {
	StatusIntervalMs   int `yaml:"status_interval_ms"`
	MessagesIntervalMs int `yaml:"messages_interval_ms"`
}

// ---- OUTPUT ----

type OutputConfig struct {
	Dir             string   `yaml:"dir"`
	StatusFile      string   `yaml:"status_file"`
	MessagesFile    string   `yaml:"messages_file"`
	StatusMirrors   []string `yaml:"status_mirrors"`
	MessagesMirrors []string `yaml:"messages_mirrors"`

	// Optional sinks; nil means disabled.
	Redis  *RedisConfig  `yaml:"redis"`
	S3     *S3Config     `yaml:"s3"`
	MQTT   *MQTTConfig   `yaml:"mqtt"`
	Kafka  *KafkaConfig  `yaml:"kafka"`
	Influx *InfluxConfig `yaml:"influx"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	DB        int    `yaml:"db"`
	Prefix    string `yaml:"prefix"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type S3Config struct {
	Endpoint string `yaml:"endpoint"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	UseTLS   bool   `yaml:"use_tls"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type InfluxConfig struct {
	URL    string `yaml:"url"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// ---- API / LOGGING ----

type APIConfig struct {
	Listen string `yaml:"listen"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---- SECRETS (env only) ----

type Secrets struct {
	BotToken      string
	Routes        map[string]string // channel slug -> webhook URL
	RedisPassword string
	S3AccessKey   string
	S3SecretKey   string
	MQTTPassword  string
	InfluxToken   string
}
