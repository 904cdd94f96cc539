package qup

import "fmt"

// Selectors capture which upstream content the rebuild should target.
// The CLI edge guarantees Fork/Path are mutually exclusive, as are
// Commit/Branch/Tag.
type Selectors struct {
	Fork    string
	Path    string
	Commit  string
	Branch  string
	Tag     string
	Restart bool
}

// Resolve derives the source reference the recipe will build from: an origin
// URL plus an optional ref qualifier. Qualifier precedence is commit, then
// tag, then branch; none means the default branch.
func (s Selectors) Resolve(cfg *Config) string {
	var origin string
	switch {
	case s.Path != "":
		origin = "file://" + s.Path
	case s.Fork != "":
		origin = fmt.Sprintf("https://%s/%s/%s", cfg.ForkHost, s.Fork, cfg.Project)
	default:
		origin = fmt.Sprintf("https://%s/%s/%s", cfg.ForkHost, cfg.Owner, cfg.Project)
	}

	switch {
	case s.Commit != "":
		infof("selected repo `%s` - commit `%s`", origin, s.Commit)
		return origin + "#commit=" + s.Commit
	case s.Tag != "":
		infof("selected repo `%s` - tag `%s`", origin, s.Tag)
		return origin + "#tag=" + s.Tag
	case s.Branch != "":
		infof("selected repo `%s` - branch `%s`", origin, s.Branch)
		return origin + "#branch=" + s.Branch
	default:
		infof("selected repo `%s` - default branch", origin)
		return origin
	}
}
