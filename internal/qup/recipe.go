package qup

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

const recipeFile = "PKGBUILD"

var (
	licenseRe  = regexp.MustCompile(`license=\(.*\)`)
	sourceRe   = regexp.MustCompile(`source=\(.*\)`)
	describeRe = regexp.MustCompile(`.*git describe`)
)

// patchRecipe rewrites the PKGBUILD in repoDir so it builds from source
// instead of the recipe's own pinned origin:
//
//   - a groups=('modified') marker goes in after every license declaration
//   - the line after the source declaration becomes the new git+ source entry
//   - the checkout step gains an upstream remote plus a forced tag fetch, so
//     `git describe` keeps producing a usable pkgver when building from a
//     fork or shallow local checkout
//
// The scan walks the original line order while mutating a growing copy, so
// each insertion shifts what later iterations see. The describe lookahead in
// particular reads the already-mutated buffer. Recipes matching the expected
// PKGBUILD layout patch correctly; see DESIGN.md for the ordering caveat.
func patchRecipe(repoDir, project, upstreamURL, source string) error {
	infof("modifying PKGBUILD")

	path := filepath.Join(repoDir, recipeFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", errRecipeRead, err)
	}

	cdRe := regexp.MustCompile(`.*cd ` + regexp.QuoteMeta(project))

	lines := splitInclusive(string(data))
	orig := slices.Clone(lines)

	for index, line := range orig {
		if licenseRe.MatchString(line) {
			lines = slices.Insert(lines, index+1, "groups=('modified')\n")
		}
		if sourceRe.MatchString(line) && index+1 < len(lines) {
			lines[index+1] = fmt.Sprintf("source=('git+%s')\n", source)
		}
		if cdRe.MatchString(line) && index+2 < len(lines) && describeRe.MatchString(lines[index+2]) {
			lines = slices.Insert(lines, index+2,
				"  git remote add upstream "+upstreamURL+"\n")
			lines = slices.Insert(lines, index+3,
				"  git fetch upstream --tags --force\n")
		}
	}

	// Whole-document rewrite via rename so a failed write never leaves a
	// truncated recipe behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.Join(lines, "")), 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", errRecipeWrite, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", errRecipeWrite, err)
	}
	return nil
}

// splitInclusive splits after every newline, keeping the terminator on each
// line, so plain concatenation reproduces the document byte for byte.
func splitInclusive(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}
