package db

import (
	"strings"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/db/migrations"
)

// SchemaVersion returns the number of embedded SQL migrations, which equals
// the schema version the binary expects. Reported by the health endpoint.
func SchemaVersion() int {
	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		return 0
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			count++
		}
	}

	return count
}
