package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cuongbtq/hireboard/internal/board"
	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/spf13/cobra"
)

func (a *app) candidatesCmd() *cobra.Command {
	candidates := &cobra.Command{Use: "candidates", Aliases: []string{"cand"}, Short: "Browse and move candidates"}
	candidates.AddCommand(a.candidatesListCmd())
	candidates.AddCommand(a.candidatesShowCmd())
	candidates.AddCommand(a.candidatesMoveCmd())
	candidates.AddCommand(a.candidatesNoteCmd())
	return candidates
}

func (a *app) candidatesListCmd() *cobra.Command {
	var (
		search, stage, jobID string
		page                 int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List candidates, most recent applications first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter board.CandidateFilter
			filter.Search = search
			filter.JobID = jobID
			if stage != "" {
				parsed, err := domain.ParseStage(stage)
				if err != nil {
					return err
				}
				filter.Stage = parsed
			}

			prepare := func(s *board.State) {
				s.CandidateFilter = filter
				s.CandidatePage.Number = page
				s.CandidatePage = s.CandidatePage.Normalize()
			}
			return withSession(a, cmd, prepare, func(ctx context.Context, s *session) error {
				if err := s.coord.LoadCandidates(ctx); err != nil {
					return err
				}
				state := s.coord.Store().Snapshot()
				if s.json {
					return s.printJSON(board.CandidatesInOrder(state))
				}
				renderCandidates(s.out, state)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "search name, email and skills")
	cmd.Flags().StringVar(&stage, "stage", "", "stage filter")
	cmd.Flags().StringVar(&jobID, "job", "", "job id filter")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func (a *app) candidatesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <candidate-id>",
		Short: "Show a candidate with notes and timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(a, cmd, nil, func(ctx context.Context, s *session) error {
				candidate, err := s.coord.LoadCandidate(ctx, args[0])
				if err != nil {
					return err
				}
				if s.json {
					return s.printJSON(candidate)
				}
				renderCandidate(s.out, candidate)
				return nil
			})
		},
	}
}

func (a *app) candidatesMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <candidate-id> <stage>",
		Short: "Move a candidate to another pipeline stage",
		Long:  "Stages: " + stageList() + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.ParseStage(args[1])
			if err != nil {
				return err
			}

			return withSession(a, cmd, nil, func(ctx context.Context, s *session) error {
				current, err := s.coord.LoadCandidate(ctx, args[0])
				if err != nil {
					return err
				}

				moved, err := s.coord.MoveCandidate(ctx, current.ID, current.Stage, target)
				if errors.Is(err, board.ErrNoopTransition) {
					fmt.Fprintf(s.out, "%s is already in %s.\n", current.Name, target.Label())
					return nil
				}
				if err != nil {
					return err
				}
				if s.json {
					return s.printJSON(moved)
				}
				return nil
			})
		},
	}
}

func (a *app) candidatesNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <candidate-id> <text>...",
		Short: "Add a note to a candidate",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(a, cmd, nil, func(ctx context.Context, s *session) error {
				candidate, err := s.coord.AddNote(ctx, args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				if s.json {
					return s.printJSON(candidate)
				}
				return nil
			})
		},
	}
}

func stageList() string {
	names := make([]string, len(domain.Stages))
	for i, s := range domain.Stages {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
