package admission

import (
	"time"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// Config holds the clock windows and geofence defaults.
type Config struct {
	TimeIn            Window
	TimeOut           Window
	Location          *time.Location
	EnforceTimeWindow bool
	DefaultRadius     int
}

// DefaultConfig returns the standard windows: Time In 06:00-08:30 and
// Time Out 20:30-21:00, enforced, with a 200 m default radius.
func DefaultConfig() Config {
	return Config{
		TimeIn:            Window{Start: 6 * 60, End: 8*60 + 30},
		TimeOut:           Window{Start: 20*60 + 30, End: 21 * 60},
		Location:          defaultLocation(),
		EnforceTimeWindow: true,
		DefaultRadius:     models.DefaultRadiusMeters,
	}
}

func defaultLocation() *time.Location {
	return time.Local
}
