package audio

import "context"

// DurationProber reports the playable length of an audio file.
type DurationProber interface {
	Duration(ctx context.Context, inputFile string) (float64, error)
}

// NopProber always reports an unknown (zero) duration.
type NopProber struct{}

func (NopProber) Duration(context.Context, string) (float64, error) { return 0, nil }
