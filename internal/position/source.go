package position

import (
	"context"
	"errors"

	"github.com/thdelmas/Rooster/internal/domain/sunrise"
)

// ErrPermissionDenied is returned when the feed refuses access to position
// data. It is terminal for the session: the toggle stays disabled.
var ErrPermissionDenied = errors.New("location access denied")

// Source produces geographic fixes.
//
// A source may deliver any number of updates after Subscribe returns;
// consuming only the first one is the subscriber's responsibility.
// A source that cannot produce fixes at all simply never calls deliver.
type Source interface {
	Subscribe(ctx context.Context, deliver func(sunrise.Position)) error
}
