package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/justestif/go-wikigenre/internal/db"
)

func newRunsCommand(cc *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent tagging runs, or the tracks of one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var id uuid.UUID
			if runID != "" {
				parsed, err := uuid.Parse(runID)
				if err != nil {
					return fmt.Errorf("invalid run id %q: %w", runID, err)
				}
				id = parsed
			}

			database, err := cc.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			if database == nil {
				return errors.New("run history needs database.url (or WIKIGENRE_DATABASE_URL)")
			}
			defer database.Close()

			out := cmd.OutOrStdout()
			if id != uuid.Nil {
				tracks, err := database.ProcessedTracks(id).ForRun(cmd.Context(), id)
				if err != nil {
					return err
				}
				printRunTracks(out, tracks)
				return nil
			}

			runs, err := database.Runs().Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printRuns(out, runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the tracks first processed by this run ID")
	return cmd
}

func printRuns(w io.Writer, runs []db.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	tw := newTable("ID", "Started", "Source", "Path", "Tagged", "Skipped", "No genres", "Failed", "Duration")
	for _, run := range runs {
		duration := "running"
		if run.FinishedAt != nil {
			duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
		}
		source := run.Source
		if run.Force {
			source += " (force)"
		}
		tw.AppendRow(row(
			run.ID.String(),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			source,
			run.Pattern,
			strconv.Itoa(run.Counts.Tagged),
			strconv.Itoa(run.Counts.Skipped),
			strconv.Itoa(run.Counts.NoGenres),
			strconv.Itoa(run.Counts.Failed),
			duration,
		))
	}
	alignRight(tw, 5, 6, 7, 8, 9)
	fmt.Fprintln(w, tw.Render())
}

func printRunTracks(w io.Writer, tracks []db.ProcessedTrack) {
	if len(tracks) == 0 {
		fmt.Fprintln(w, "No tracks recorded for this run.")
		return
	}
	for _, t := range tracks {
		fmt.Fprintf(w, "%s  %s\n", t.ProcessedAt.Local().Format("2006-01-02 15:04:05"), t.Path)
	}
}
