package timezone

import (
	"cowork/config"
	"cowork/shared/constant"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrNonexistentLocalTime = errors.New("local time does not exist in the application timezone")

var appLocation atomic.Pointer[time.Location]

func init() {
	name := config.Get().App.Timezone

	loc, err := Load(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("unknown timezone, falling back to UTC")

		loc = time.UTC
	}

	appLocation.Store(loc)

	log.Debug().Str("timezone", loc.String()).Msg("application timezone set")
}

// Load resolves an IANA zone name. An empty name means UTC.
func Load(name string) (*time.Location, error) {
	if name == constant.Empty {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}

	return loc, nil
}

// SetLocation replaces the application zone and returns a func restoring the previous one.
func SetLocation(loc *time.Location) func() {
	previous := appLocation.Swap(loc)

	return func() {
		appLocation.Store(previous)
	}
}

func GetLocation() *time.Location {
	if loc := appLocation.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// ParseLocal reads a yyyy-MM-ddTHH:mm:ss value as wall-clock time in the application zone.
// Values falling inside a daylight saving gap are rejected instead of being shifted.
func ParseLocal(value string) (time.Time, error) {
	t, err := Parse(constant.LocalDateTimeFormat, value)
	if err != nil {
		return time.Time{}, err
	}

	if FormatLocal(t) != value {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNonexistentLocalTime, value)
	}

	return t, nil
}

func FormatLocal(t time.Time) string {
	return Format(t, constant.LocalDateTimeFormat)
}
