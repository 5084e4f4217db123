package main

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
)

// cli carries the global flag values shared by every subcommand.
type cli struct {
	version    string
	configPath string
	prefsPath  string
	jsonOutput bool
}

func newRootCmd(version string) *cobra.Command {
	c := &cli{version: version}

	root := &cobra.Command{
		Use:   "shelf",
		Short: "Browse and curate the DummyJSON product catalog",
		Long: `shelf browses the DummyJSON product catalog in the terminal.

Likes, local edits, created products and deletions are kept on this
machine and layered over the remote catalog. Run without a subcommand to
open the interactive browser.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), c.options())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ~/.config/shelf/config.toml)")
	flags.StringVar(&c.prefsPath, "prefs", "", "preferences file (default ~/.config/shelf/prefs.toml)")
	flags.BoolVar(&c.jsonOutput, "json", false, "output as JSON")

	root.AddCommand(
		c.listCmd(),
		c.showCmd(),
		c.likeCmd(),
		c.deleteCmd(),
		c.versionCmd(),
	)
	return root
}

func (c *cli) options() app.Options {
	return app.Options{
		ConfigPath: c.configPath,
		PrefsPath:  c.prefsPath,
		Version:    c.version,
	}
}

// withSession opens a session for the duration of one command.
func (c *cli) withSession(run func(cmd *cobra.Command, s *app.Session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		s, err := app.Open(cmd.Context(), c.options())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := s.Close(); err == nil && cerr != nil {
				err = errors.Wrap(cerr, "close session")
			}
		}()
		return run(cmd, s, args)
	}
}
