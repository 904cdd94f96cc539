package qup

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// RepositoryCache owns the cached recipe checkout for one run. The directory
// is cleared before every run and repopulated by Fetch.
type RepositoryCache struct {
	Dir    string
	Prompt *Prompter
	Root   *Executor
}

// Clear recursively deletes the working directory if it exists. A permission
// failure gets one interactive recovery attempt through the prompter and a
// privileged rm; declining or a failed retry is fatal.
func (c *RepositoryCache) Clear() error {
	if _, err := os.Stat(c.Dir); os.IsNotExist(err) {
		return nil
	}
	infof("removing cached AUR repo %s", c.Dir)

	err := os.RemoveAll(c.Dir)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EACCES) && !errors.Is(err, unix.EPERM) {
		return fmt.Errorf("couldn't remove AUR cached repo: %w", err)
	}

	cPrintln(colError, "couldn't remove AUR cached repo")
	cPrintf(colError, "\tError: %v\n", err)
	if !c.Prompt.Confirm("Would you like to try with root permissions?") {
		return fmt.Errorf("%w: %s left in place", errPermissionDenied, c.Dir)
	}
	if err := c.Root.Run(exec.Command("rm", "-rf", c.Dir)); err != nil {
		return fmt.Errorf("%w: privileged removal failed: %v", errPermissionDenied, err)
	}
	return nil
}

// Fetch clones the recipe repository into the working directory. The project
// source itself is not fetched here; the patched recipe points the build tool
// at it later.
func (c *RepositoryCache) Fetch(url string) error {
	cPrintf(colInfo, "cloning AUR repo %s into %s\n", url, c.Dir)
	stop := spinWhile("cloning " + url)
	_, err := git.PlainClone(c.Dir, false, &git.CloneOptions{URL: url})
	stop()
	if err != nil {
		return fmt.Errorf("AUR URL %s is unreachable, error: %v", url, err)
	}
	return nil
}

// spinWhile animates a spinner on the terminal until the returned stop
// function is called. A no-op when stdout is not a TTY.
func spinWhile(desc string) func() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				bar.Finish()
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()
	return func() {
		close(stop)
		<-done
	}
}
