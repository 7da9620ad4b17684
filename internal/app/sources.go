package app

import (
	"github.com/MrSnakeDoc/harbor/internal/config"
	"github.com/MrSnakeDoc/harbor/internal/importer"
	"github.com/MrSnakeDoc/harbor/internal/sources/crossftp"
	"github.com/MrSnakeDoc/harbor/internal/sources/filezilla"
)

// Sources returns every supported client with its file location resolved
// from prefs, falling back to the client's default path.
func Sources(prefs config.Preferences) []importer.Source {
	return []importer.Source{
		crossftp.New(prefs.Location(crossftp.LocationKey, config.DefaultCrossFTPLocation())),
		filezilla.New(prefs.Location(filezilla.LocationKey, config.DefaultFileZillaLocation())),
	}
}
