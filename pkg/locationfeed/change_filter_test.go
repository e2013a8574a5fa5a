package locationfeed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/ctdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	fixes    []ctdf.DeviceFix
	failures int
}

func (p *recordingPublisher) Publish(_ context.Context, fix ctdf.DeviceFix) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("redis down")
	}

	p.fixes = append(p.fixes, fix)
	return nil
}

var filterConfig = ChangeDetectionConfig{
	MinLocationChangeMeters: 25,
	MinSpeedChangeKmh:       5,
	MaxTimeBetweenPublishes: 5 * time.Minute,
}

func TestChangeFilterReasons(t *testing.T) {
	start := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	base := ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.5, Lon: -0.12, Speed: 20, Updated: start}
	filter := NewChangeFilter(Discard{}, filterConfig)

	cases := []struct {
		name    string
		fix     ctdf.DeviceFix
		publish bool
		reason  string
	}{
		{"same place", ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.5, Lon: -0.12, Speed: 22, Updated: start.Add(time.Minute)}, false, "no_significant_changes"},
		{"moved", ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.501, Lon: -0.12, Speed: 20, Updated: start.Add(time.Minute)}, true, "location_changed_111.2m"},
		{"sped up", ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.5, Lon: -0.12, Speed: 30, Updated: start.Add(time.Minute)}, true, "speed_changed_10.0kmh"},
		{"stopped", ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.5, Lon: -0.12, Speed: 0, Updated: start.Add(time.Minute)}, true, "moving_state_changed"},
		{"stale", ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.5, Lon: -0.12, Speed: 20, Updated: start.Add(6 * time.Minute)}, true, "max_time_exceeded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			publish, reason := filter.shouldPublish(base, true, tc.fix)

			assert.Equal(t, tc.publish, publish)
			assert.Equal(t, tc.reason, reason)
		})
	}

	publish, reason := filter.shouldPublish(ctdf.DeviceFix{}, false, base)
	assert.True(t, publish)
	assert.Equal(t, "new_device", reason)
}

func TestChangeFilterPublish(t *testing.T) {
	start := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	next := &recordingPublisher{}
	filter := NewChangeFilter(next, filterConfig)
	ctx := context.Background()

	require.NoError(t, filter.Publish(ctx, ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.5, Lon: -0.12, Speed: 20, Updated: start}))
	require.NoError(t, filter.Publish(ctx, ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.5, Lon: -0.12, Speed: 21, Updated: start.Add(10 * time.Second)}))
	require.NoError(t, filter.Publish(ctx, ctdf.DeviceFix{DeviceID: "BUS_2", Lat: 51.5, Lon: -0.12, Speed: 20, Updated: start}))
	require.NoError(t, filter.Publish(ctx, ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.6, Lon: -0.12, Speed: 21, Updated: start.Add(20 * time.Second)}))

	require.Len(t, next.fixes, 3)
	assert.Equal(t, "BUS_1", next.fixes[0].DeviceID)
	assert.Equal(t, "BUS_2", next.fixes[1].DeviceID)
	assert.Equal(t, 51.6, next.fixes[2].Lat)
}

func TestChangeFilterZeroConfigPublishesAnyChange(t *testing.T) {
	next := &recordingPublisher{}
	filter := NewChangeFilter(next, ChangeDetectionConfig{})
	ctx := context.Background()
	fix := ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 1, Lon: 1, Speed: 10}

	require.NoError(t, filter.Publish(ctx, fix))
	require.NoError(t, filter.Publish(ctx, fix))

	fix.Lat = 1.00001
	require.NoError(t, filter.Publish(ctx, fix))

	assert.Len(t, next.fixes, 2)
}

func TestChangeFilterRetriesAfterFailedPublish(t *testing.T) {
	start := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	next := &recordingPublisher{failures: 1}
	filter := NewChangeFilter(next, filterConfig)

	first := ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.5, Lon: -0.12, Speed: 20, Updated: start}
	assert.EqualError(t, filter.Publish(context.Background(), first), "redis down")
	assert.Empty(t, next.fixes)

	second := first
	second.Updated = start.Add(time.Minute)
	require.NoError(t, filter.Publish(context.Background(), second))
	require.Len(t, next.fixes, 1)
	assert.Equal(t, second, next.fixes[0])

	third := second
	third.Updated = start.Add(2 * time.Minute)
	require.NoError(t, filter.Publish(context.Background(), third))
	assert.Len(t, next.fixes, 1)
}

func TestChangeFilterFailedPublishKeepsPreviousFix(t *testing.T) {
	start := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	next := &recordingPublisher{}
	filter := NewChangeFilter(next, filterConfig)

	delivered := ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.5, Lon: -0.12, Speed: 20, Updated: start}
	require.NoError(t, filter.Publish(context.Background(), delivered))

	moved := ctdf.DeviceFix{DeviceID: "BUS_1", Lat: 51.501, Lon: -0.12, Speed: 20, Updated: start.Add(time.Minute)}
	next.failures = 1
	assert.Error(t, filter.Publish(context.Background(), moved))

	moved.Updated = start.Add(2 * time.Minute)
	require.NoError(t, filter.Publish(context.Background(), moved))
	require.Len(t, next.fixes, 2)
	assert.Equal(t, delivered, next.fixes[0])
	assert.Equal(t, moved, next.fixes[1])
}
