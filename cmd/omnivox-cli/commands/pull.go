package commands

import (
	"errors"
	"fmt"
	"io"

	"omnivox-backend/internal/pipeline"
	"omnivox-backend/internal/records"
	"omnivox-backend/internal/student"

	"github.com/spf13/cobra"
)

var (
	pullNewest     int
	pullCourse     string
	pullWarnings   bool
	pullNoWhatsNew bool
)

func init() {
	pullCmd.Flags().IntVarP(&pullNewest, "newest", "n", 0, "only show the newest N documents and assignments (and the next N calendar events)")
	pullCmd.Flags().StringVar(&pullCourse, "course", "", "only show one course, approximate names are accepted")
	pullCmd.Flags().BoolVar(&pullWarnings, "warnings", false, "print every non fatal failure of the run")
	pullCmd.Flags().BoolVar(&pullNoWhatsNew, "no-whats-new", false, "skip the home page what's new section")
	rootCmd.AddCommand(pullCmd)
}

var pullCmd = &cobra.Command{
	Use:   "pull <institution> <student-number> <password>",
	Short: "Log into an institution's portal and print the student's documents, assignments and calendar.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := scrape(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		s := p.Student()

		course := ""
		if pullCourse != "" {
			resolved, ok := s.ResolveCourse(pullCourse)
			if !ok {
				return fmt.Errorf("%w '%s'", student.ErrUnknownCourse, pullCourse)
			}
			course = resolved
		}

		err = printStudent(cmd.OutOrStdout(), s, course, pullNewest)
		if err != nil {
			return err
		}

		if !pullNoWhatsNew {
			printWhatsNew(cmd, p)
		}
		if pullWarnings {
			for _, w := range p.Warnings() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
		}
		return nil
	},
}

func query(kind student.Kind, course string, newest int) student.Query {
	q := student.Query{Kind: kind, Course: course, N: newest, All: newest <= 0}
	// upcoming calendar events are the oldest ones still admitted
	q.Newest = kind != student.KindCalendarEvent
	return q
}

func printStudent(out io.Writer, s *student.Student, course string, newest int) error {
	courses := s.CourseNames()
	if course != "" {
		courses = []string{course}
	}

	for _, name := range courses {
		documents, err := s.RankedSlice(query(student.KindDocument, name, newest))
		if err != nil {
			return err
		}
		assignments, err := s.RankedSlice(query(student.KindAssignment, name, newest))
		if err != nil {
			return err
		}
		printDocuments(out, name+" - Documents", documents)
		printAssignments(out, name+" - Assignments", assignments)
	}

	events, err := s.RankedSlice(query(student.KindCalendarEvent, "", newest))
	if err != nil {
		return err
	}
	if course != "" {
		events = courseEvents(events, course)
	}
	printCalendarEvents(out, "Calendar", events)
	return nil
}

func courseEvents(events []records.Record, course string) []records.Record {
	var out []records.Record
	for _, e := range events {
		if e.CourseName() == course {
			out = append(out, e)
		}
	}
	return out
}

func printWhatsNew(cmd *cobra.Command, p *pipeline.Pipeline) {
	out := cmd.OutOrStdout()
	entries, err := p.WhatsNew(cmd.Context())
	if errors.Is(err, errors.ErrUnsupported) {
		return
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to read what's new: %s\n", err)
		return
	}

	fmt.Fprintln(out, "What's New")
	if len(entries) == 0 {
		fmt.Fprintln(out, "Nothing New")
		return
	}
	for _, entry := range entries {
		fmt.Fprintf(out, " - %s\n", entry)
	}
}
