package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cuongbtq/hireboard/internal/board"
	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/spf13/cobra"
)

func (a *app) jobsCmd() *cobra.Command {
	jobs := &cobra.Command{Use: "jobs", Short: "Manage job postings"}
	jobs.AddCommand(a.jobsListCmd())
	jobs.AddCommand(a.jobsShowCmd())
	jobs.AddCommand(a.jobsCreateCmd())
	jobs.AddCommand(a.jobsUpdateCmd())
	jobs.AddCommand(a.jobsArchiveCmd())
	jobs.AddCommand(a.jobsDeleteCmd())
	jobs.AddCommand(a.jobsMoveCmd())
	return jobs
}

type jobListFlags struct {
	search string
	status string
	page   int
}

func (f *jobListFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "search title and tags")
	cmd.Flags().StringVar(&f.status, "status", "", "status filter (active, draft, archived)")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
}

func (f *jobListFlags) prepare() (func(s *board.State), error) {
	var status domain.JobStatus
	if f.status != "" {
		parsed, err := domain.ParseJobStatus(f.status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	return func(s *board.State) {
		s.JobFilter = board.JobFilter{Search: f.search, Status: status}
		s.JobPage.Number = f.page
		s.JobPage = s.JobPage.Normalize()
	}, nil
}

func (a *app) jobsListCmd() *cobra.Command {
	var f jobListFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs in board order",
		RunE: func(cmd *cobra.Command, args []string) error {
			prepare, err := f.prepare()
			if err != nil {
				return err
			}
			return withSession(a, cmd, prepare, func(ctx context.Context, s *session) error {
				if err := s.coord.LoadJobs(ctx); err != nil {
					return err
				}
				state := s.coord.Store().Snapshot()
				if s.json {
					return s.printJSON(board.JobsInOrder(state))
				}
				renderJobs(s.out, state)
				return nil
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func (a *app) jobsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(a, cmd, nil, func(ctx context.Context, s *session) error {
				job, err := s.coord.LoadJob(ctx, args[0])
				if err != nil {
					return err
				}
				if s.json {
					return s.printJSON(job)
				}
				renderJob(s.out, job)
				return nil
			})
		},
	}
}

func (a *app) jobsCreateCmd() *cobra.Command {
	var (
		in     domain.JobInput
		tags   string
		status string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a job",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Tags = domain.ParseTags(tags)
			in.Status = domain.JobStatus(status)
			return withSession(a, cmd, nil, func(ctx context.Context, s *session) error {
				job, err := s.coord.CreateJob(ctx, in)
				if err != nil {
					return err
				}
				if s.json {
					return s.printJSON(job)
				}
				renderJob(s.out, job)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "job title (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "job description")
	cmd.Flags().StringVar(&in.Location, "location", "", "job location")
	cmd.Flags().StringVar(&in.Type, "type", "", "employment type, e.g. Full-time")
	cmd.Flags().StringVar(&in.Department, "department", "", "department")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default active)")
	return cmd
}

func (a *app) jobsUpdateCmd() *cobra.Command {
	var (
		title, description, location, jobType, department, tags, status string
	)
	cmd := &cobra.Command{
		Use:   "update <job-id>",
		Short: "Update fields of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.JobPatch
			changed := cmd.Flags().Changed
			if changed("title") {
				patch.Title = &title
			}
			if changed("description") {
				patch.Description = &description
			}
			if changed("location") {
				patch.Location = &location
			}
			if changed("type") {
				patch.Type = &jobType
			}
			if changed("department") {
				patch.Department = &department
			}
			if changed("tags") {
				parsed := domain.ParseTags(tags)
				patch.Tags = &parsed
			}
			if changed("status") {
				s := domain.JobStatus(status)
				patch.Status = &s
			}

			return withSession(a, cmd, nil, func(ctx context.Context, s *session) error {
				job, err := s.coord.UpdateJob(ctx, args[0], patch)
				if err != nil {
					return err
				}
				if s.json {
					return s.printJSON(job)
				}
				renderJob(s.out, job)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "job title")
	cmd.Flags().StringVar(&description, "description", "", "job description")
	cmd.Flags().StringVar(&location, "location", "", "job location")
	cmd.Flags().StringVar(&jobType, "type", "", "employment type")
	cmd.Flags().StringVar(&department, "department", "", "department")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags, replaces existing")
	cmd.Flags().StringVar(&status, "status", "", "status (active, draft, archived)")
	return cmd
}

func (a *app) jobsArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <job-id>",
		Short: "Archive a job, or restore it if already archived",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(a, cmd, nil, func(ctx context.Context, s *session) error {
				if _, err := s.coord.LoadJob(ctx, args[0]); err != nil {
					return err
				}
				job, err := s.coord.ToggleArchive(ctx, args[0])
				if err != nil {
					return err
				}
				if s.json {
					return s.printJSON(job)
				}
				return nil
			})
		},
	}
}

func (a *app) jobsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a job and its candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(a, cmd, nil, func(ctx context.Context, s *session) error {
				return s.coord.DeleteJob(ctx, args[0])
			})
		},
	}
}

func (a *app) jobsMoveCmd() *cobra.Command {
	var f jobListFlags
	cmd := &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move the job at one position of a list page to another",
		Long: `Positions are 1-based and refer to the page selected by --search, --status
and --page, as shown by "jobs list" with the same flags.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := position(args[0])
			if err != nil {
				return err
			}
			to, err := position(args[1])
			if err != nil {
				return err
			}
			prepare, err := f.prepare()
			if err != nil {
				return err
			}

			return withSession(a, cmd, prepare, func(ctx context.Context, s *session) error {
				if err := s.coord.LoadJobs(ctx); err != nil {
					return err
				}

				loaded := len(s.coord.Store().Snapshot().JobOrder)
				if from > loaded || to > loaded {
					return fmt.Errorf("position out of range: the page has %d jobs", loaded)
				}

				dst := to - 1
				err := s.coord.ReorderJobs(ctx, from-1, &dst)
				if errors.Is(err, board.ErrNoopReorder) {
					fmt.Fprintln(s.out, "Job order unchanged.")
					return nil
				}
				if err != nil {
					return err
				}

				state := s.coord.Store().Snapshot()
				if s.json {
					return s.printJSON(board.JobsInOrder(state))
				}
				renderJobs(s.out, state)
				return nil
			})
		},
	}
	f.bind(cmd)
	return cmd
}

// position parses a 1-based list position.
func position(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q: must be a positive number", raw)
	}
	return n, nil
}
