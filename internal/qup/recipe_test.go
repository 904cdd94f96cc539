package qup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testRef = "https://github.com/alice/qtile#branch=next"

func writeRecipe(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, recipeFile), []byte(content), 0o644))
	return dir
}

func readRecipe(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, recipeFile))
	require.NoError(t, err)
	return string(data)
}

func TestPatchRecipeMissingFile(t *testing.T) {
	err := patchRecipe(t.TempDir(), "qtile", "https://github.com/qtile/qtile.git", testRef)
	require.Error(t, err)
	require.True(t, errors.Is(err, errRecipeRead))
}

func TestPatchRecipeNoMatchesIsNoop(t *testing.T) {
	content := "pkgname=qtile-git\npkgrel=1\n"
	dir := writeRecipe(t, content)
	require.NoError(t, patchRecipe(dir, "qtile", "https://github.com/qtile/qtile.git", testRef))
	require.Equal(t, content, readRecipe(t, dir))
}

func TestPatchRecipeReplacesSourcePlaceholder(t *testing.T) {
	// No license line here, so the placeholder after the source declaration
	// is the line that gets replaced.
	content := "pkgname=qtile-git\n" +
		"source=('qtile::git+https://github.com/qtile/qtile.git')\n" +
		"placeholder\n" +
		"sha512sums=('SKIP')\n"
	dir := writeRecipe(t, content)
	require.NoError(t, patchRecipe(dir, "qtile", "https://github.com/qtile/qtile.git", testRef))

	want := "pkgname=qtile-git\n" +
		"source=('qtile::git+https://github.com/qtile/qtile.git')\n" +
		"source=('git+" + testRef + "')\n" +
		"sha512sums=('SKIP')\n"
	got := readRecipe(t, dir)
	require.Equal(t, want, got)
	require.Equal(t, strings.Count(content, "\n"), strings.Count(got, "\n"))
}

func TestPatchRecipeInsertsLicenseMarker(t *testing.T) {
	content := "license=('MIT')\npkgrel=1\n"
	dir := writeRecipe(t, content)
	require.NoError(t, patchRecipe(dir, "qtile", "https://github.com/qtile/qtile.git", testRef))
	require.Equal(t, "license=('MIT')\ngroups=('modified')\npkgrel=1\n", readRecipe(t, dir))
}

func TestPatchRecipeMarkerDuplicatesOnRepatch(t *testing.T) {
	// Patching is only idempotent against the pristine recipe; running it
	// again on its own output stacks another marker.
	dir := writeRecipe(t, "license=('MIT')\npkgrel=1\n")
	require.NoError(t, patchRecipe(dir, "qtile", "https://github.com/qtile/qtile.git", testRef))
	require.NoError(t, patchRecipe(dir, "qtile", "https://github.com/qtile/qtile.git", testRef))
	require.Equal(t, 2, strings.Count(readRecipe(t, dir), "groups=('modified')\n"))
}

func TestPatchRecipeInsertsTagFetch(t *testing.T) {
	content := "pkgver() {\n" +
		"  cd qtile\n" +
		"  true\n" +
		"  git describe --long --tags\n" +
		"}\n"
	dir := writeRecipe(t, content)
	require.NoError(t, patchRecipe(dir, "qtile", "https://github.com/qtile/qtile.git", testRef))

	want := "pkgver() {\n" +
		"  cd qtile\n" +
		"  true\n" +
		"  git remote add upstream https://github.com/qtile/qtile.git\n" +
		"  git fetch upstream --tags --force\n" +
		"  git describe --long --tags\n" +
		"}\n"
	require.Equal(t, want, readRecipe(t, dir))
}

func TestPatchRecipeFullDocument(t *testing.T) {
	// The realistic layout: license before source before pkgver(). The
	// license insertion shifts the live buffer by one, which is what makes
	// the source replacement land on the source declaration itself and the
	// describe lookahead line up with the checkout step.
	content := "pkgname=qtile-git\n" +
		"pkgver=0.23.0\n" +
		"license=('MIT')\n" +
		"source=('qtile::git+https://github.com/qtile/qtile.git')\n" +
		"sha512sums=('SKIP')\n" +
		"pkgver() {\n" +
		"  cd qtile\n" +
		"  git describe --long --tags | sed 's/^v//'\n" +
		"}\n" +
		"build() {\n" +
		"  cd qtile\n" +
		"  make\n" +
		"}\n"
	dir := writeRecipe(t, content)
	require.NoError(t, patchRecipe(dir, "qtile", "https://github.com/qtile/qtile.git", testRef))

	want := "pkgname=qtile-git\n" +
		"pkgver=0.23.0\n" +
		"license=('MIT')\n" +
		"groups=('modified')\n" +
		"source=('git+" + testRef + "')\n" +
		"sha512sums=('SKIP')\n" +
		"pkgver() {\n" +
		"  cd qtile\n" +
		"  git remote add upstream https://github.com/qtile/qtile.git\n" +
		"  git fetch upstream --tags --force\n" +
		"  git describe --long --tags | sed 's/^v//'\n" +
		"}\n" +
		"build() {\n" +
		"  cd qtile\n" +
		"  make\n" +
		"}\n"
	require.Equal(t, want, readRecipe(t, dir))
}

func TestSplitInclusive(t *testing.T) {
	require.Nil(t, splitInclusive(""))
	require.Equal(t, []string{"a\n", "b\n"}, splitInclusive("a\nb\n"))
	require.Equal(t, []string{"a\n", "b"}, splitInclusive("a\nb"))
	require.Equal(t, []string{"\n"}, splitInclusive("\n"))
}
