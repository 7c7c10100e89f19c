// internal/writer/influx/influx.go
package influx

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/tamzrod/openpad-bridge/internal/chat"
	"github.com/tamzrod/openpad-bridge/internal/status"
	"github.com/tamzrod/openpad-bridge/internal/writer"
)

const (
	MeasurementStatus  = "bridge_status"
	MeasurementChannel = "bridge_channel"
)

type Config struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// PointWriter is satisfied by api.WriteAPIBlocking.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Writer turns snapshots into time series points. Only numeric
// observables are recorded; the documents themselves are not stored.
type Writer struct {
	api    PointWriter
	source string
	close  func()
}

func New(cfg Config, sourceID string) *Writer {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	w := NewWithAPI(client.WriteAPIBlocking(cfg.Org, cfg.Bucket), sourceID)
	w.close = client.Close
	return w
}

func NewWithAPI(api PointWriter, sourceID string) *Writer {
	return &Writer{api: api, source: sourceID}
}

func (w *Writer) Write(ctx context.Context, doc writer.Document) error {
	var points []*write.Point

	switch v := doc.Value.(type) {
	case status.Snapshot:
		points = w.statusPoints(v)
	case chat.Aggregate:
		points = w.channelPoints(v)
	default:
		return fmt.Errorf("influx writer: unsupported value %T for kind %s", doc.Value, doc.Kind)
	}

	if len(points) == 0 {
		return nil
	}
	if err := w.api.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("influx writer: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	if w.close != nil {
		w.close()
	}
	return nil
}

func (w *Writer) statusPoints(s status.Snapshot) []*write.Point {
	fields := map[string]interface{}{}

	if n, ok := s.Count(status.SectionSessions); ok {
		fields["sessions"] = n
	}

	var disk map[string]float64
	if err := json.Unmarshal(s.Section(status.SectionDisk), &disk); err == nil {
		for k, v := range disk {
			fields["disk_"+k] = v
		}
	}

	if len(fields) == 0 {
		return nil
	}

	at := time.UnixMilli(s.CapturedAtMillis)
	tags := map[string]string{"source": w.source}
	return []*write.Point{write.NewPoint(MeasurementStatus, tags, fields, at)}
}

func (w *Writer) channelPoints(a chat.Aggregate) []*write.Point {
	slugs := make([]string, 0, len(a.Channels))
	for slug := range a.Channels {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	at := a.UpdatedAt
	if at.IsZero() {
		at = time.Now()
	}

	points := make([]*write.Point, 0, len(slugs))
	for _, slug := range slugs {
		tags := map[string]string{
			"source":  a.SourceID,
			"channel": slug,
		}
		fields := map[string]interface{}{
			"message_count": len(a.Channels[slug].Messages),
		}
		points = append(points, write.NewPoint(MeasurementChannel, tags, fields, at))
	}
	return points
}
