package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() (*cobra.Command, *commandContext) {
	ctx := newCommandContext()

	var query string
	var force bool

	rootCmd := &cobra.Command{
		Use:   "wikigenre [PATH]",
		Short: "Tag audio files with album genres from Wikipedia",
		Long: `wikigenre looks up album genres and writes them to audio file tags.

With PATH (a file or glob pattern) every matching track without a genre is
tagged. With -q it prints the genres of "[artist - ]album; ..." items. With
neither it reads "Artist - [Album CD1 #01] Title" lines from stdin and
prints one line of genres per matched line.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			ctx.flagSet = cmd.Flags().Changed
			_, err := ctx.ensureLogger()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case query != "":
				return runQuery(cmd, ctx, query)
			case len(args) == 1:
				return runTag(cmd, ctx, args[0], force)
			default:
				return runStdin(cmd, ctx)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.flags.config, "config", "c", "", "Configuration file path")
	flags.StringVar(&ctx.flags.source, "source", "", "Genre source: wikipedia, lastfm or spotify")
	flags.IntVarP(&ctx.flags.jobs, "jobs", "j", 0, "Tracks tagged or items looked up at once")
	flags.IntVar(&ctx.flags.timeout, "timeout", 0, "Seconds allowed for each source lookup")
	flags.StringVar(&ctx.flags.logLevel, "log-level", "", "Log level: debug, info, warning or error")
	flags.StringVar(&ctx.flags.seenFile, "seen-file", "", "File recording tagged tracks to skip on later runs")

	rootCmd.Flags().StringVarP(&query, "query", "q", "", `Print genres for "[artist - ]album; ..." instead of tagging`)
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "Retag tracks that already have a genre")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newRunsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newLogoutCommand(ctx))

	return rootCmd, ctx
}
