package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Preferences are flat key/value settings read from a YAML file:
//
//	bookmark.import.crossftp.location: /home/alice/.crossftp/sites.xml
//	bookmark.import.filezilla.location: /srv/shared/sitemanager.xml
type Preferences map[string]string

// LoadPreferences reads path. An empty path or a missing file yields
// empty preferences.
func LoadPreferences(path string) (Preferences, error) {
	if path == "" {
		return Preferences{}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Preferences{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	prefs := Preferences{}
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return prefs, nil
}

// Location returns the path stored under key, or def. A leading "~/" is
// expanded to the home directory.
func (p Preferences) Location(key, def string) string {
	v := p[key]
	if v == "" {
		v = def
	}
	if len(v) >= 2 && v[:2] == "~/" {
		v = filepath.Join(xdg.Home, v[2:])
	}
	return v
}

// DefaultCrossFTPLocation is where CrossFTP keeps its site manager.
func DefaultCrossFTPLocation() string {
	return filepath.Join(xdg.Home, ".crossftp", "sites.xml")
}

// DefaultFileZillaLocation is where FileZilla 3 keeps its site manager.
func DefaultFileZillaLocation() string {
	return filepath.Join(xdg.ConfigHome, "filezilla", "sitemanager.xml")
}
