package qup

import (
	"archive/tar"
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
	"lukechampine.com/blake3"
)

// pkgInfo is the subset of .PKGINFO we report before installing.
type pkgInfo struct {
	Name    string
	Version string
}

// readPkgInfo extracts .PKGINFO from a makepkg-produced package archive.
// makepkg compresses with whatever PKGEXT selects, so zst, xz and gz are all
// handled.
func readPkgInfo(path string) (*pkgInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open package %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader
	switch {
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd reader for %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	case strings.HasSuffix(path, ".xz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz reader for %s: %w", path, err)
		}
		r = xr
	case strings.HasSuffix(path, ".gz"):
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip reader for %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	default:
		return nil, fmt.Errorf("unrecognized package extension: %s", path)
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading package %s: %w", path, err)
		}
		if filepath.Clean(hdr.Name) == ".PKGINFO" {
			return parsePkgInfo(tr)
		}
	}
	return nil, fmt.Errorf("no .PKGINFO in %s", path)
}

func parsePkgInfo(r io.Reader) (*pkgInfo, error) {
	info := &pkgInfo{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "pkgname":
			info.Name = strings.TrimSpace(val)
		case "pkgver":
			info.Version = strings.TrimSpace(val)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parsing .PKGINFO: %w", err)
	}
	return info, nil
}

// b3sum returns the hex BLAKE3 checksum (32-byte output, no key) of a file.
func b3sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("checksumming %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
