package cli

import (
	"context"

	"github.com/cuongbtq/hireboard/internal/board"
	"github.com/spf13/cobra"
)

func (a *app) boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board <job-id>",
		Short: "Show a job's candidates grouped by pipeline stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(a, cmd, nil, func(ctx context.Context, s *session) error {
				if err := s.coord.LoadBoard(ctx, args[0]); err != nil {
					return err
				}
				state := s.coord.Store().Snapshot()
				columns := board.CandidatesByStage(state, args[0])
				if s.json {
					return s.printJSON(columns)
				}
				renderBoard(s.out, state.Jobs[args[0]], columns)
				return nil
			})
		},
	}
}

func (a *app) activityCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent pipeline activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(a, cmd, nil, func(ctx context.Context, s *session) error {
				page, err := s.client.ListActivity(ctx, limit, cursor)
				if err != nil {
					return err
				}
				if s.json {
					return s.printJSON(page)
				}
				renderActivity(s.out, page)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "entries per page")
	cmd.Flags().StringVar(&cursor, "cursor", "", "continue from a previous page's cursor")
	return cmd
}
