package position

import (
	"context"
	"time"

	"github.com/thdelmas/Rooster/internal/domain/sunrise"
)

// StaticSource delivers a single fixed position, for hosts without a live
// position feed.
type StaticSource struct {
	// fix is the position to deliver, without its observation time.
	fix sunrise.Position
}

// NewStaticSource creates a source that will deliver the given coordinates.
func NewStaticSource(altitude, latitude, longitude float64) (*StaticSource, error) {
	fix := sunrise.Position{
		Altitude:  altitude,
		Latitude:  latitude,
		Longitude: longitude,
	}

	if err := fix.Validate(); err != nil {
		return nil, err
	}

	return &StaticSource{
		fix: fix,
	}, nil
}

// Subscribe delivers the configured fix exactly once, stamped with the
// current wall clock. Delivery is asynchronous like a real feed.
func (s *StaticSource) Subscribe(ctx context.Context, deliver func(sunrise.Position)) error {
	fix := s.fix
	fix.ObservedAt = time.Now()

	go func() {
		if ctx.Err() != nil {
			return
		}

		deliver(fix)
	}()

	return nil
}
