package geo

import (
	"context"
	"errors"
	"time"
)

// State is the lifecycle of a position request.
type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
)

// Locator is the host environment's position source.
type Locator interface {
	Locate(ctx context.Context) (Point, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Point, error)

func (f LocatorFunc) Locate(ctx context.Context) (Point, error) {
	return f(ctx)
}

// Location is the observable result of RequestLocation.
type Location struct {
	State State
	Point Point
	Err   error
}

// StaticLocator serves a fixed position, or ErrPermissionDenied when none
// was configured.
type StaticLocator struct {
	point *Point
}

func NewStaticLocator(lat, lng *float64) StaticLocator {
	if lat == nil || lng == nil {
		return StaticLocator{}
	}
	return StaticLocator{point: &Point{Lat: *lat, Lng: *lng}}
}

func (s StaticLocator) Locate(ctx context.Context) (Point, error) {
	if err := ctx.Err(); err != nil {
		return Point{}, err
	}
	if s.point == nil {
		return Point{}, ErrPermissionDenied
	}
	if !s.point.Valid() {
		return Point{}, ErrUnavailable
	}
	return *s.point, nil
}

// RequestLocation asks locator for the current position, bounded by
// timeout. onChange, when set, observes every state transition starting
// with StateLoading.
func RequestLocation(ctx context.Context, locator Locator, timeout time.Duration, onChange func(Location)) Location {
	notify := func(loc Location) Location {
		if onChange != nil {
			onChange(loc)
		}
		return loc
	}
	notify(Location{State: StateLoading})

	if locator == nil {
		return notify(Location{State: StateFailed, Err: ErrUnavailable})
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		point Point
		err   error
	}
	done := make(chan result, 1)
	go func() {
		p, err := locator.Locate(ctx)
		done <- result{point: p, err: err}
	}()

	select {
	case <-ctx.Done():
		return notify(Location{State: StateFailed, Err: ctx.Err()})
	case res := <-done:
		if res.err != nil {
			return notify(Location{State: StateFailed, Err: res.err})
		}
		return notify(Location{State: StateReady, Point: res.point})
	}
}
