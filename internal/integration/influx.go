package integration

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// InfluxMeasurement is the measurement name observations are written under.
const InfluxMeasurement = "netnext_status"

// ObservationMirror copies recorded observations into an external
// time-series store.
type ObservationMirror interface {
	Mirror(ctx context.Context, obs ...models.Observation) error
	Close()
}

// pointWriter is the subset of api.WriteAPIBlocking used by the mirror.
type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

type influxMirror struct {
	client influxdb2.Client
	writer pointWriter
}

// NewInfluxMirror connects to InfluxDB and checks its health before
// returning a mirror writing into cfg.Bucket.
func NewInfluxMirror(ctx context.Context, cfg models.InfluxConfig) (ObservationMirror, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	health, err := client.Health(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("checking influxdb health at %s: %w", cfg.URL, err)
	}
	if health.Status != "pass" {
		client.Close()
		return nil, fmt.Errorf("influxdb at %s is not ready: status %s", cfg.URL, health.Status)
	}
	return &influxMirror{
		client: client,
		writer: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
	}, nil
}

// ObservationPoint converts an observation into an InfluxDB point stamped at
// the start of its day. The open field is 1 while net-next is Open.
func ObservationPoint(obs models.Observation) *write.Point {
	open := 0
	if obs.State == models.StateOpen {
		open = 1
	}
	return influxdb2.NewPoint(
		InfluxMeasurement,
		map[string]string{"state": string(obs.State)},
		map[string]interface{}{"open": open},
		models.Day(obs.Date),
	)
}

func (m *influxMirror) Mirror(ctx context.Context, obs ...models.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	points := make([]*write.Point, 0, len(obs))
	for _, o := range obs {
		points = append(points, ObservationPoint(o))
	}
	if err := m.writer.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("writing %d points to influxdb: %w", len(points), err)
	}
	return nil
}

func (m *influxMirror) Close() {
	if m.client != nil {
		m.client.Close()
	}
}
