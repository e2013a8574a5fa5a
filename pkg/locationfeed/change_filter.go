package locationfeed

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/ctdf"
	"github.com/rs/zerolog/log"
)

// ChangeDetectionConfig holds thresholds for deciding whether a fix is worth publishing
type ChangeDetectionConfig struct {
	// Minimum distance in meters before publishing a moved device
	MinLocationChangeMeters float64
	// Minimum change in km/h before publishing a new speed
	MinSpeedChangeKmh float64
	// Publish after this duration even if nothing changed
	MaxTimeBetweenPublishes time.Duration
}

// ChangeFilter wraps a Publisher and drops fixes that are not meaningfully different
// from the last one published for the same device
type ChangeFilter struct {
	next   Publisher
	config ChangeDetectionConfig

	mutex     sync.Mutex
	published map[string]ctdf.DeviceFix
}

func NewChangeFilter(next Publisher, config ChangeDetectionConfig) *ChangeFilter {
	return &ChangeFilter{
		next:      next,
		config:    config,
		published: map[string]ctdf.DeviceFix{},
	}
}

// Publish forwards fix when it is significant compared with the last fix delivered for the
// device. A fix only counts as delivered once the wrapped publisher accepts it.
func (f *ChangeFilter) Publish(ctx context.Context, fix ctdf.DeviceFix) error {
	f.mutex.Lock()
	previous, seen := f.published[fix.DeviceID]
	f.mutex.Unlock()

	publish, reason := f.shouldPublish(previous, seen, fix)

	log.Debug().
		Str("device_id", fix.DeviceID).
		Str("reason", reason).
		Bool("publish", publish).
		Msg("Location feed change check")

	if !publish {
		return nil
	}

	if err := f.next.Publish(ctx, fix); err != nil {
		return err
	}

	f.mutex.Lock()
	f.published[fix.DeviceID] = fix
	f.mutex.Unlock()

	return nil
}

// shouldPublish reports whether fix differs enough from previous, with the reason
func (f *ChangeFilter) shouldPublish(previous ctdf.DeviceFix, seen bool, fix ctdf.DeviceFix) (bool, string) {
	if !seen {
		return true, "new_device"
	}

	if f.config.MaxTimeBetweenPublishes > 0 && fix.Updated.Sub(previous.Updated) >= f.config.MaxTimeBetweenPublishes {
		return true, "max_time_exceeded"
	}

	// Going from stopped to moving or back is always significant
	if (previous.Speed < 0.1) != (fix.Speed < 0.1) {
		return true, "moving_state_changed"
	}

	speedDifference := math.Abs(previous.Speed - fix.Speed)
	if speedDifference >= f.config.MinSpeedChangeKmh && speedDifference > 0 {
		return true, fmt.Sprintf("speed_changed_%.1fkmh", speedDifference)
	}

	distance := previous.Location().Distance(fix.Location()) * 1000
	if distance >= f.config.MinLocationChangeMeters && distance > 0 {
		return true, fmt.Sprintf("location_changed_%.1fm", distance)
	}

	return false, "no_significant_changes"
}
