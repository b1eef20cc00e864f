package outbox

import (
	"context"
	"errors"

	domoutbox "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/outbox"
)

type tee []domoutbox.Publisher

// Tee publishes every event to each non-nil publisher in order and joins their errors.
func Tee(pubs ...domoutbox.Publisher) domoutbox.Publisher {
	out := make(tee, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (t tee) Publish(ctx context.Context, e domoutbox.Event) error {
	var errs []error
	for _, p := range t {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
