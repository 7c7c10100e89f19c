// cmd/bridge/sinks.go
package main

import (
	"log/slog"
	"path/filepath"

	"github.com/tamzrod/openpad-bridge/internal/config"
	"github.com/tamzrod/openpad-bridge/internal/writer"
	"github.com/tamzrod/openpad-bridge/internal/writer/file"
	"github.com/tamzrod/openpad-bridge/internal/writer/influx"
	"github.com/tamzrod/openpad-bridge/internal/writer/kafka"
	"github.com/tamzrod/openpad-bridge/internal/writer/mqtt"
	"github.com/tamzrod/openpad-bridge/internal/writer/redis"
	"github.com/tamzrod/openpad-bridge/internal/writer/s3"
)

// buildPublisher wires the file sink plus every optional sink present in cfg.
func buildPublisher(cfg *config.Config, logger *slog.Logger) (*writer.Publisher, error) {
	out := cfg.Output
	pub := writer.New()

	// ---- file (always) ----
	fw, err := file.New(file.Config{Paths: map[writer.Kind][]string{
		writer.KindStatus:   append([]string{filepath.Join(out.Dir, out.StatusFile)}, out.StatusMirrors...),
		writer.KindMessages: append([]string{filepath.Join(out.Dir, out.MessagesFile)}, out.MessagesMirrors...),
	}})
	if err != nil {
		return nil, err
	}
	pub.Add("file", fw)

	// ---- optional ----
	if r := out.Redis; r != nil {
		pub.Add("redis", redis.New(redis.Config{
			Addr:     r.Addr,
			Password: cfg.Secrets.RedisPassword,
			DB:       r.DB,
			Prefix:   r.Prefix,
			Timeout:  ms(r.TimeoutMs),
		}))
	}

	if s := out.S3; s != nil {
		sw, err := s3.New(s3.Config{
			Endpoint:  s.Endpoint,
			AccessKey: cfg.Secrets.S3AccessKey,
			SecretKey: cfg.Secrets.S3SecretKey,
			UseTLS:    s.UseTLS,
			Bucket:    s.Bucket,
			Prefix:    s.Prefix,
		})
		if err != nil {
			pub.Close()
			return nil, err
		}
		pub.Add("s3", sw)
	}

	if m := out.MQTT; m != nil {
		pub.Add("mqtt", mqtt.New(mqtt.Config{
			BrokerURL:   m.Broker,
			ClientID:    m.ClientID,
			Username:    m.Username,
			Password:    cfg.Secrets.MQTTPassword,
			TopicPrefix: m.TopicPrefix,
			QoS:         m.QoS,
			Timeout:     ms(m.TimeoutMs),
		}))
	}

	if k := out.Kafka; k != nil {
		pub.Add("kafka", kafka.New(kafka.Config{Brokers: k.Brokers, Topic: k.Topic}))
	}

	if i := out.Influx; i != nil {
		pub.Add("influx", influx.New(influx.Config{
			URL:    i.URL,
			Token:  cfg.Secrets.InfluxToken,
			Org:    i.Org,
			Bucket: i.Bucket,
		}, cfg.Bridge.SourceID))
	}

	logger.Debug("sinks configured", "sinks", pub.Sinks())
	return pub, nil
}
