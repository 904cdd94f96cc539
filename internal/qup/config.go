package qup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	defaultForkHost   = "github.com"
	defaultOwner      = "qtile"
	defaultProject    = "qtile"
	defaultAURPackage = "qtile-git"
	defaultAURURL     = "https://aur.archlinux.org/qtile-git"
	cacheNamespace    = "yay"
)

// defaultArtifacts are the files a non-pacman-managed install leaves behind.
// Removed by hand when pacman does not know about the package.
var defaultArtifacts = []string{
	"/usr/bin/qtile",
	"/usr/lib/python3.12/site-packages/libqtile",
	"/usr/share/doc/qtile-git",
	"/usr/share/licenses/qtile-git/LICENSE",
	"/usr/share/wayland-sessions/qtile-wayland.desktop",
	"/usr/share/xsessions/qtile.desktop",
}

// Config holds everything resolved once at startup. No package-level mutable
// configuration state; callers receive this explicitly.
type Config struct {
	ForkHost   string   // host serving forks of the project
	Owner      string   // canonical upstream owner
	Project    string   // upstream project name
	AURPackage string   // AUR package providing the build recipe
	AURURL     string   // clone endpoint of the recipe repository
	RepoDir    string   // cached working directory for one run
	Artifacts  []string // installed paths removed in the manual-uninstall branch
}

// UpstreamURL is the canonical clone URL of the project, used for the
// tag-fetching remote injected into the recipe.
func (c *Config) UpstreamURL() string {
	return fmt.Sprintf("https://%s/%s/%s.git", c.ForkHost, c.Owner, c.Project)
}

// fileConfig is the optional on-disk configuration; every field overrides a
// default when non-empty.
type fileConfig struct {
	ForkHost   string   `toml:"fork_host"`
	AURURL     string   `toml:"aur_url"`
	AURPackage string   `toml:"aur_package"`
	Artifacts  []string `toml:"artifacts"`
}

// loadConfig resolves defaults, the optional config file and environment
// overrides into a Config, in that order.
func loadConfig() (*Config, error) {
	cfg := &Config{
		ForkHost:   defaultForkHost,
		Owner:      defaultOwner,
		Project:    defaultProject,
		AURPackage: defaultAURPackage,
		AURURL:     defaultAURURL,
		Artifacts:  defaultArtifacts,
	}

	if confDir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(confDir, "qup", "config.toml")
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err == nil {
			if fc.ForkHost != "" {
				cfg.ForkHost = fc.ForkHost
			}
			if fc.AURURL != "" {
				cfg.AURURL = fc.AURURL
			}
			if fc.AURPackage != "" {
				cfg.AURPackage = fc.AURPackage
			}
			if len(fc.Artifacts) > 0 {
				cfg.Artifacts = fc.Artifacts
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("could not parse %s: %v", path, err)
		}
	}

	// QUP_* env overrides win over the config file
	if v := os.Getenv("QUP_FORK_HOST"); v != "" {
		cfg.ForkHost = v
	}
	if v := os.Getenv("QUP_AUR_URL"); v != "" {
		cfg.AURURL = v
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not resolve home directory: %v", err)
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	cfg.RepoDir = filepath.Join(cacheHome, cacheNamespace, cfg.AURPackage)

	return cfg, nil
}
