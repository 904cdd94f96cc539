package qup

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

const sectionRule = "-------------------------------"

// yesReader feeds an endless stream of affirmative answers to external tools
// that might prompt, standing in for yes(1).
type yesReader struct{}

func (yesReader) Read(p []byte) (int, error) {
	const answer = "y\n"
	for i := range p {
		p[i] = answer[i%len(answer)]
	}
	return len(p), nil
}

// writeSection emits a phase banner into the install log.
func writeSection(w io.Writer, name string) {
	fmt.Fprintf(w, "\n%s %s %s\n\n", sectionRule, name, sectionRule)
}

// Orchestrator sequences build, removal of the old package, install of the
// new one and the optional live restart. Each phase appends its merged
// stdout/stderr to install.log in the working directory; any phase failure
// stops the pipeline.
type Orchestrator struct {
	cfg     *Config
	user    *Executor     // runs the unprivileged build
	root    *Executor     // runs pacman queries and the install
	client  commandCaller // live-process control endpoint
	restart bool
}

// LogPath is where the current run's install log lives.
func (o *Orchestrator) LogPath() string {
	return filepath.Join(o.cfg.RepoDir, "install.log")
}

// Run drives the build/remove/install/restart sequence against the patched
// recipe in the working directory.
func (o *Orchestrator) Run() error {
	logPath := o.LogPath()
	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", logPath, err)
	}
	defer f.Close()

	if err := o.build(f, logPath); err != nil {
		return err
	}
	o.removeOld(f)
	if err := o.install(f, logPath); err != nil {
		return err
	}
	fmt.Fprintf(f, "\n%s package installed successfully %s\n", sectionRule, sectionRule)

	return o.maybeRestart()
}

// build runs the recipe through makepkg: remove build deps after success,
// build unprivileged, skip the test suite.
func (o *Orchestrator) build(f *os.File, logPath string) error {
	infof("building with `makepkg`")
	writeSection(f, "building new package")

	cmd := exec.Command("makepkg", "-rsc", "--nocheck")
	cmd.Dir = o.cfg.RepoDir
	cmd.Stdin = yesReader{}
	cmd.Stdout = f
	cmd.Stderr = f
	if err := o.user.Run(cmd); err != nil {
		cPrintf(colError, "%s build failed, check in %s\n", o.cfg.Project, logPath)
		return fmt.Errorf("%w: see %s", errBuildFailed, logPath)
	}
	return nil
}

// removeOld checks whether pacman knows about the package. If it does, the
// forced install below replaces it in place. If it does not, stray artifacts
// from an unmanaged install are deleted by hand. The query's own failure only
// selects the branch; it is never fatal.
func (o *Orchestrator) removeOld(f *os.File) {
	infof("removing old package")
	writeSection(f, "removing old package")

	query := exec.Command("pacman", "-Qq", o.cfg.AURPackage)
	query.Dir = o.cfg.RepoDir
	query.Stdin = yesReader{}
	query.Stdout = f
	query.Stderr = f
	if err := o.root.Run(query); err != nil {
		if err := removeArtifacts(o.cfg.Artifacts); err != nil {
			cPrintf(colWarn, "could not clean up old artifacts: %v\n", err)
		}
	}
}

// install locates the built package archive and installs it with forced
// overwrite. The archive's identity and checksum are recorded in the log
// first so a failed install is attributable to a specific file.
func (o *Orchestrator) install(f *os.File, logPath string) error {
	pkg, err := pickPackage(o.cfg.RepoDir)
	if err != nil {
		return fmt.Errorf("%w: %v", errInstallFailed, err)
	}
	if info, err := readPkgInfo(pkg); err == nil {
		infof("installing %s %s", info.Name, info.Version)
		fmt.Fprintf(f, "package: %s %s\n", info.Name, info.Version)
	} else {
		debugf("could not read package metadata: %v\n", err)
	}
	if sum, err := b3sum(pkg); err == nil {
		fmt.Fprintf(f, "b3sum: %s  %s\n", sum, filepath.Base(pkg))
	}

	infof("installing new package")
	writeSection(f, "installing new package")

	cmd := exec.Command("pacman", "-U", pkg, "--overwrite", "*")
	cmd.Dir = o.cfg.RepoDir
	cmd.Stdin = yesReader{}
	cmd.Stdout = f
	cmd.Stderr = f
	if err := o.root.Run(cmd); err != nil {
		cPrintf(colError, "%s install failed, check in %s\n", o.cfg.Project, logPath)
		return fmt.Errorf("%w: see %s", errInstallFailed, logPath)
	}
	return nil
}

// maybeRestart signals the running instance to restart, or reminds the user
// to do it by hand. The install is already complete either way.
func (o *Orchestrator) maybeRestart() error {
	if !o.restart {
		infof("please restart %s", o.cfg.Project)
		return nil
	}

	infof("restarting")
	reply, err := o.client.Call("restart", nil, nil)
	if err != nil {
		return fmt.Errorf("%w: %v\n%s is probably not running", errRestartFailed, err, o.cfg.Project)
	}
	if reply != nil {
		return fmt.Errorf("%w, please restart manually", errRestartFailed)
	}
	return nil
}

// pickPackage finds the archive makepkg just produced. PKGEXT decides the
// compression, so each known extension is tried in turn.
func pickPackage(dir string) (string, error) {
	for _, pattern := range []string{"*.pkg.tar.zst", "*.pkg.tar.xz", "*.pkg.tar.gz"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", err
		}
		if len(matches) > 0 {
			if len(matches) > 1 {
				debugf("multiple package archives in %s, taking %s\n", dir, matches[0])
			}
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("%w in %s", errNoPackage, dir)
}

// removeArtifacts deletes leftover installed paths from an unmanaged install.
// Absent paths are expected and skipped; a directory gets a recursive delete,
// anything else a single remove.
func removeArtifacts(paths []string) error {
	for _, p := range paths {
		info, err := os.Lstat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("could not inspect %s: %w", p, err)
		}
		if info.IsDir() {
			if err := os.RemoveAll(p); err != nil {
				return fmt.Errorf("could not remove %s: %w", p, err)
			}
			continue
		}
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("could not remove %s: %w", p, err)
		}
	}
	return nil
}
