package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cuongbtq/hireboard/internal/board"
	"github.com/cuongbtq/hireboard/internal/client"
	"github.com/cuongbtq/hireboard/internal/domain"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const timeLayout = "2006-01-02 15:04"

func newTable(out io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	return tw
}

func renderJobs(out io.Writer, s board.State) {
	window := board.PageWindow(s.JobTotal, s.JobPage.Number, s.JobPage.Size)

	tw := newTable(out)
	tw.AppendHeader(table.Row{"#", "ID", "Title", "Status", "Department", "Location", "Tags"})
	for i, j := range board.JobsInOrder(s) {
		tw.AppendRow(table.Row{i + 1, j.ID, j.Title, j.Status, j.Department, j.Location, strings.Join(j.Tags, ", ")})
	}
	tw.AppendFooter(table.Row{"", "", pageSummary(window)})
	tw.Render()
}

func renderJob(out io.Writer, j domain.Job) {
	tw := newTable(out)
	tw.AppendRows([]table.Row{
		{"ID", j.ID},
		{"Title", j.Title},
		{"Status", j.Status},
		{"Type", j.Type},
		{"Department", j.Department},
		{"Location", j.Location},
		{"Tags", strings.Join(j.Tags, ", ")},
		{"Created", formatTime(j.CreatedAt)},
	})
	tw.Render()

	if j.Description != "" {
		fmt.Fprintln(out, j.Description)
	}
}

func renderCandidates(out io.Writer, s board.State) {
	window := board.PageWindow(s.CandidateTotal, s.CandidatePage.Number, s.CandidatePage.Size)

	tw := newTable(out)
	tw.AppendHeader(table.Row{"ID", "Name", "Email", "Stage", "Job", "Applied"})
	for _, c := range board.CandidatesInOrder(s) {
		tw.AppendRow(table.Row{c.ID, c.Name, c.Email, c.Stage.Label(), c.JobID, formatTime(c.AppliedAt)})
	}
	tw.AppendFooter(table.Row{"", pageSummary(window)})
	tw.Render()
}

func renderCandidate(out io.Writer, c domain.Candidate) {
	tw := newTable(out)
	tw.AppendRows([]table.Row{
		{"ID", c.ID},
		{"Name", c.Name},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Location", c.Location},
		{"Experience", c.Experience},
		{"Skills", strings.Join(c.Skills, ", ")},
		{"Stage", c.Stage.Label()},
		{"Job", c.JobID},
		{"Applied", formatTime(c.AppliedAt)},
	})
	tw.Render()

	if len(c.Notes) > 0 {
		notes := newTable(out)
		notes.SetTitle("Notes")
		notes.AppendHeader(table.Row{"When", "By", "Note"})
		for _, n := range c.Notes {
			notes.AppendRow(table.Row{formatTime(n.CreatedAt), n.CreatedBy, n.Content})
		}
		notes.Render()
	}

	if len(c.Timeline) > 0 {
		timeline := newTable(out)
		timeline.SetTitle("Timeline")
		timeline.AppendHeader(table.Row{"When", "By", "Event"})
		for _, e := range c.Timeline {
			timeline.AppendRow(table.Row{formatTime(e.CreatedAt), e.CreatedBy, e.Message})
		}
		timeline.Render()
	}
}

func renderBoard(out io.Writer, job domain.Job, columns map[domain.Stage][]domain.Candidate) {
	tw := newTable(out)
	if job.Title != "" {
		tw.SetTitle(job.Title)
	}

	header := table.Row{}
	depth := 0
	for _, stage := range domain.Stages {
		header = append(header, fmt.Sprintf("%s (%d)", stage.Label(), len(columns[stage])))
		depth = max(depth, len(columns[stage]))
	}
	tw.AppendHeader(header)

	for i := 0; i < depth; i++ {
		row := table.Row{}
		for _, stage := range domain.Stages {
			cell := ""
			if i < len(columns[stage]) {
				cell = columns[stage][i].Name
			}
			row = append(row, cell)
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

func renderActivity(out io.Writer, page client.ActivityPage) {
	tw := newTable(out)
	tw.AppendHeader(table.Row{"When", "Type", "Actor", "Message"})
	for _, e := range page.Entries {
		tw.AppendRow(table.Row{formatTime(e.OccurredAt), e.Type, e.Actor, e.Message})
	}
	tw.Render()

	if page.NextCursor != "" {
		fmt.Fprintf(out, "More: --cursor %s\n", page.NextCursor)
	}
}

func pageSummary(w board.Window) string {
	if w.Total == 0 {
		return "No results"
	}
	return fmt.Sprintf("%d-%d of %d (page %d/%d)", w.First, w.Last, w.Total, w.Page, w.TotalPages)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}
