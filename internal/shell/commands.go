package shell

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/harrybrwn/gradebook/internal/roster"
	"github.com/harrybrwn/gradebook/internal/store"
	"github.com/harrybrwn/gradebook/pkg/grade"
	"github.com/harrybrwn/gradebook/pkg/term"
	"github.com/jaytaylor/html2text"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type command struct {
	name    string
	aliases []string
	args    []string
	short   string
	// class is true when the command needs a selected class
	class bool
	nargs int
	run   func(*Shell, context.Context, *Session, []string) error
}

func (c *command) usage() string {
	if len(c.args) == 0 {
		return c.name
	}
	return c.name + " " + strings.Join(c.args, " ")
}

var (
	commands []*command
	index    map[string]*command
)

func init() {
	commands = []*command{
		{name: "new-class", args: []string{"<course>", "<term>", "<section>", `"<description>"`},
			short: "Create a new class", run: (*Shell).newClass},
		{name: "list-classes", short: "List all classes", run: (*Shell).listClasses},
		{name: "select-class", args: []string{"<class-id>"},
			short: "Select the class to work on", run: (*Shell).selectClass},
		{name: "show-class", short: "Show the selected class", run: (*Shell).showClass},
		{name: "add-category", args: []string{`"<name>"`, "<weight>"}, class: true,
			short: "Add a weighted category", run: (*Shell).addCategory},
		{name: "show-categories", class: true,
			short: "List the categories", run: (*Shell).showCategories},
		{name: "add-assignment", args: []string{`"<name>"`, `"<description>"`, "<points>", `"<category>"`}, class: true,
			short: "Add an assignment to a category", run: (*Shell).addAssignment},
		{name: "show-assignments", aliases: []string{"show-assignment"}, class: true,
			short: "List the assignments", run: (*Shell).showAssignments},
		{name: "add-student", args: []string{"<id>", "<username>", `"<name>"`}, class: true,
			short: "Add a student and enroll them", run: (*Shell).addStudent},
		{name: "show-students", class: true,
			short: "List the enrolled students", run: (*Shell).showStudents},
		{name: "grade", args: []string{"<student-id>", `"<assignment>"`, "<score>"}, class: true,
			short: "Record a student's score on an assignment", run: (*Shell).recordGrade},
		{name: "student-grades", args: []string{"<student-id>"}, class: true,
			short: "Show one student's grades", run: (*Shell).studentGrades},
		{name: "gradebook", class: true,
			short: "Show every student's weighted grade", run: (*Shell).gradebook},
		{name: "import-roster", args: []string{"<file>"}, class: true,
			short: "Enroll students from an xlsx or html roster", run: (*Shell).importRoster},
		{name: "export", args: []string{"<file.xlsx>"}, class: true,
			short: "Write the gradebook to a spreadsheet", run: (*Shell).export},
		{name: "help", aliases: []string{"h"}, short: "Show this help", run: (*Shell).help},
		{name: "exit", aliases: []string{"quit", "q"}, short: "Leave the shell", run: exit},
	}
	index = make(map[string]*command)
	for _, c := range commands {
		c.nargs = len(c.args)
		index[c.name] = c
		for _, a := range c.aliases {
			index[a] = c
		}
	}
}

func lookup(name string) (*command, bool) {
	c, ok := index[name]
	return c, ok
}

// Commands returns the names of all the shell commands.
func Commands() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	return names
}

func exit(*Shell, context.Context, *Session, []string) error { return ErrExit }

func (s *Shell) newClass(ctx context.Context, _ *Session, args []string) error {
	id, err := s.DB.CreateClass(ctx, store.Class{
		CourseNumber: args[0],
		Term:         args[1],
		Section:      args[2],
		Description:  args[3],
	})
	if err != nil {
		return err
	}
	log.WithField("class", id).Info("created class")
	fmt.Fprintln(s.Out, "Class created:", id)
	return nil
}

func (s *Shell) listClasses(ctx context.Context, _ *Session, _ []string) error {
	classes, err := s.DB.Classes(ctx)
	if err != nil {
		return err
	}
	tab := term.NewTable(s.Out)
	term.SetTableHeader(tab, []string{"id", "description", "students"}, s.Color)
	for _, c := range classes {
		tab.Append([]string{c.ID, c.Description, strconv.Itoa(c.Students)})
	}
	tab.Render()
	return nil
}

func (s *Shell) selectClass(ctx context.Context, sess *Session, args []string) error {
	c, err := s.DB.Class(ctx, args[0])
	if err != nil {
		return err
	}
	sess.ClassID = c.ID
	fmt.Fprintln(s.Out, "Now using class:", c.ID)
	return nil
}

func (s *Shell) showClass(_ context.Context, sess *Session, _ []string) error {
	if sess.ClassID == "" {
		fmt.Fprintln(s.Out, "No class selected.")
	} else {
		fmt.Fprintln(s.Out, "Current class:", sess.ClassID)
	}
	return nil
}

func (s *Shell) addCategory(ctx context.Context, sess *Session, args []string) error {
	weight, err := parseNumber("weight", args[1])
	if err != nil {
		return err
	}
	if err = s.DB.AddCategory(ctx, sess.ClassID, args[0], weight); err != nil {
		return err
	}
	fmt.Fprintln(s.Out, "Category added.")
	return nil
}

func (s *Shell) showCategories(ctx context.Context, sess *Session, _ []string) error {
	cats, err := s.DB.Categories(ctx, sess.ClassID)
	if err != nil {
		return err
	}
	tab := term.NewTable(s.Out)
	term.SetTableHeader(tab, []string{"category", "weight"}, s.Color)
	for _, c := range cats {
		tab.Append([]string{c.Name, term.Percent(c.Weight, s.Precision, false)})
	}
	tab.Render()
	return nil
}

func (s *Shell) addAssignment(ctx context.Context, sess *Session, args []string) error {
	points, err := parseNumber("points", args[2])
	if err != nil {
		return err
	}
	err = s.DB.AddAssignment(ctx, sess.ClassID, store.Assignment{
		Name:        args[0],
		Description: args[1],
		Points:      points,
		Category:    args[3],
	})
	if err != nil {
		return err
	}
	if points <= 0 {
		fmt.Fprintln(s.Err, "Warning: assignments worth no points are left out of grade totals")
	}
	fmt.Fprintln(s.Out, "Assignment added.")
	return nil
}

func (s *Shell) showAssignments(ctx context.Context, sess *Session, _ []string) error {
	list, err := s.DB.Assignments(ctx, sess.ClassID)
	if err != nil {
		return err
	}
	tab := term.NewTable(s.Out)
	term.SetTableHeader(tab, []string{"assignment", "points", "category", "description"}, s.Color)
	for _, a := range list {
		desc, err := html2text.FromString(a.Description, html2text.Options{OmitLinks: true})
		if err != nil {
			desc = a.Description
		}
		tab.Append([]string{a.Name, number(a.Points), a.Category, strings.Join(strings.Fields(desc), " ")})
	}
	tab.Render()
	return nil
}

func (s *Shell) addStudent(ctx context.Context, sess *Session, args []string) error {
	err := s.DB.AddStudent(ctx, sess.ClassID, store.Student{
		ID:       args[0],
		Username: args[1],
		Name:     args[2],
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out, "Student added and enrolled.")
	return nil
}

func (s *Shell) showStudents(ctx context.Context, sess *Session, _ []string) error {
	students, err := s.DB.Students(ctx, sess.ClassID)
	if err != nil {
		return err
	}
	tab := term.NewTable(s.Out)
	term.SetTableHeader(tab, []string{"id", "username", "name"}, s.Color)
	for _, st := range students {
		tab.Append([]string{st.ID, st.Username, st.Name})
	}
	tab.Render()
	return nil
}

func (s *Shell) recordGrade(ctx context.Context, sess *Session, args []string) error {
	score, err := parseNumber("score", args[2])
	if err != nil {
		return err
	}
	if err = s.DB.RecordGrade(ctx, sess.ClassID, args[0], args[1], score); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"class":      sess.ClassID,
		"student":    args[0],
		"assignment": args[1],
	}).Info("recorded grade")
	fmt.Fprintln(s.Out, "Grade recorded.")
	return nil
}

func (s *Shell) studentGrades(ctx context.Context, sess *Session, args []string) error {
	scores, err := s.DB.StudentGrades(ctx, sess.ClassID, args[0])
	if err != nil {
		return err
	}
	total, err := grade.Report(ctx, s.DB, sess.ClassID, args[0])
	if err != nil {
		return err
	}
	tab := term.NewTable(s.Out)
	term.SetTableHeader(tab, []string{"assignment", "score", "points"}, s.Color)
	for _, sc := range scores {
		tab.Append([]string{sc.Assignment, number(sc.Score), number(sc.Points)})
	}
	tab.Render()
	fmt.Fprintln(s.Out, "Total:", term.Percent(total, s.Precision, s.Color))
	return nil
}

func (s *Shell) gradebook(ctx context.Context, sess *Session, _ []string) error {
	students, err := s.DB.Students(ctx, sess.ClassID)
	if err != nil {
		return err
	}
	tab := term.NewTable(s.Out)
	term.SetTableHeader(tab, []string{"name", "id", "grade"}, s.Color)
	for _, st := range students {
		p, err := grade.Report(ctx, s.DB, sess.ClassID, st.ID)
		if err != nil {
			return err
		}
		tab.Append([]string{st.Name, st.ID, term.Percent(p, s.Precision, s.Color)})
	}
	tab.Render()
	return nil
}

func (s *Shell) importRoster(ctx context.Context, sess *Session, args []string) error {
	n, err := roster.Import(ctx, s.DB, sess.ClassID, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "Imported %d students.\n", n)
	return nil
}

func (s *Shell) export(ctx context.Context, sess *Session, args []string) error {
	if err := roster.Export(ctx, s.DB, sess.ClassID, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(s.Out, "Gradebook written to", args[0])
	return nil
}

func (s *Shell) help(context.Context, *Session, []string) error {
	tab := term.NewTable(s.Out)
	term.SetTableHeader(tab, []string{"command", "description"}, s.Color)
	for _, c := range commands {
		tab.Append([]string{c.usage(), c.short})
	}
	tab.Render()
	return nil
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseNumber(name, arg string) (float64, error) {
	f, err := strconv.ParseFloat(arg, 64)
	// NaN is stored as NULL and breaks every later read
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("invalid %s %q", name, arg)
	}
	return f, nil
}
