package qup

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
)

// Main is the CLI entrypoint for cmd/qup.
func Main() {
	if os.Getenv("QUP_DEBUG") != "" {
		Debug = true
	}
	if err := newRootCmd().Execute(); err != nil {
		colError.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var sel Selectors

	root := &cobra.Command{
		Use:   "qup",
		Short: "Rebuild and reinstall qtile from a chosen upstream ref",
		Long: "qup rebuilds the AUR qtile-git package against a fork, branch, tag,\n" +
			"commit or local checkout, reinstalls it, and can restart the running\n" +
			"qtile instance afterwards.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(cmd.Context(), sel)
		},
	}

	fl := root.Flags()
	fl.StringVarP(&sel.Fork, "fork", "f", defaultOwner, "fork owner to build from")
	fl.StringVarP(&sel.Path, "path", "p", "", "local checkout to build from")
	fl.StringVarP(&sel.Commit, "commit", "c", "", "commit to build")
	fl.StringVarP(&sel.Branch, "branch", "b", "", "branch to build")
	fl.StringVarP(&sel.Tag, "tag", "t", "", "tag to build")
	fl.BoolVarP(&sel.Restart, "restart", "r", false, "restart the running qtile after install")
	root.MarkFlagsMutuallyExclusive("fork", "path")
	root.MarkFlagsMutuallyExclusive("commit", "branch", "tag")

	root.AddCommand(newLogCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cobra.OnFinalize(stop)
	root.SetContext(ctx)

	return root
}

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "View the install log from the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return showLog(filepath.Join(cfg.RepoDir, "install.log"))
		},
	}
}

// update runs the whole pipeline: resolve the source reference, reset and
// refetch the recipe cache, patch the recipe, then build and install.
func update(ctx context.Context, sel Selectors) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	source := sel.Resolve(cfg)

	rootExec := &Executor{Context: ctx, ShouldRunAsRoot: true}
	userExec := &Executor{Context: ctx}

	cache := &RepositoryCache{
		Dir:    cfg.RepoDir,
		Prompt: &Prompter{In: os.Stdin},
		Root:   rootExec,
	}
	if err := cache.Clear(); err != nil {
		return err
	}
	if err := cache.Fetch(cfg.AURURL); err != nil {
		return err
	}

	if err := patchRecipe(cfg.RepoDir, cfg.Project, cfg.UpstreamURL(), source); err != nil {
		return err
	}

	o := &Orchestrator{
		cfg:     cfg,
		user:    userExec,
		root:    rootExec,
		client:  &IPCClient{SocketPath: os.Getenv("QTILE_SOCKET")},
		restart: sel.Restart,
	}
	return o.Run()
}
