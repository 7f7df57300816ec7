package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/coursesphere/core/course"
)

func (cli *commandLine) courses(ctx context.Context, usr course.User) error {
	courses, err := cli.svc.MyCourses(ctx, usr.ID)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		fmt.Fprintln(cli.out, "No courses yet.")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE\tSTART\tEND\tINSTRUCTORS")
	for _, c := range courses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			c.ID, c.Name, course.RoleFor(c, usr.ID), c.StartDate, c.EndDate, c.Instructors.Len())
	}
	return w.Flush()
}

// openView loads a course view filtered & paginated as asked.
func (cli *commandLine) openView(ctx context.Context, usr course.User, id string, filter course.Filter, page int) (*course.CourseView, error) {
	view := cli.svc.NewCourseView(usr.ID)
	if err := view.Load(ctx, course.NewID(id)); err != nil {
		view.Close()
		return nil, err
	}
	view.SetFilter(filter)
	view.SetPage(page)
	return view, nil
}

func (cli *commandLine) showCourse(ctx context.Context, usr course.User, args []string) error {
	courseCmd := cli.newFlagSet("course")
	id := courseCmd.String("id", "", "The course id.")
	title := courseCmd.String("title", "", "Only show the lessons whose title contains this.")
	status := courseCmd.String("status", "", "Only show the lessons with this status.")
	page := courseCmd.Int("page", 1, "The page of lessons to show.")
	if err := cli.parse(courseCmd, args); err != nil {
		return err
	}
	if *id == "" {
		return usage(courseCmd)
	}

	view, err := cli.openView(ctx, usr, *id, course.Filter{Title: *title, Status: course.Status(*status)}, *page)
	if err != nil {
		return err
	}
	defer view.Close()
	return cli.printView(view)
}

func (cli *commandLine) printView(view *course.CourseView) error {
	c, perms, page := view.Course(), view.Permissions(), view.Page()

	fmt.Fprintf(cli.out, "%s (#%s), %s\n", c.Name, c.ID, perms.Role)
	if c.Description != "" {
		fmt.Fprintln(cli.out, c.Description)
	}
	fmt.Fprintf(cli.out, "From %s to %s, %d instructor(s)\n", c.StartDate, c.EndDate, c.Instructors.Len())
	if f := view.Filter(); !f.IsEmpty() {
		fmt.Fprintf(cli.out, "Filter: title=%q status=%q\n", f.Title, f.Status)
	}

	if page.Total == 0 {
		fmt.Fprintln(cli.out, "No lessons found.")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPUBLISH\tVIDEO")
	for _, l := range page.Lessons {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", l.ID, l.Title, l.Status, l.PublishDate, l.EmbedURL())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Page %d/%d (%d lessons)\n", page.Number, page.TotalPages, page.Total)
	return nil
}

// courseFlags declares the flags shared by create-course & edit-course.
type courseFlags struct {
	name, description, start, end *string
}

func (cli *commandLine) courseData(f courseFlags, prefill course.CourseData, set map[string]bool) (course.CourseData, error) {
	data := prefill
	if set["name"] {
		data.Name = *f.name
	}
	if set["description"] {
		data.Description = *f.description
	}
	var err error
	if set["start"] {
		if data.StartDate, err = parseDate("start_date", *f.start); err != nil {
			return data, err
		}
	}
	if set["end"] {
		if data.EndDate, err = parseDate("end_date", *f.end); err != nil {
			return data, err
		}
	}
	return data, nil
}

func (cli *commandLine) createCourse(ctx context.Context, usr course.User, args []string) error {
	createCmd := cli.newFlagSet("create-course")
	f := courseFlags{
		name:        createCmd.String("name", "", "The course name."),
		description: createCmd.String("description", "", "The course description."),
		start:       createCmd.String("start", "", "The start date (YYYY-MM-DD)."),
		end:         createCmd.String("end", "", "The end date (YYYY-MM-DD)."),
	}
	if err := cli.parse(createCmd, args); err != nil {
		return err
	}
	if createCmd.NFlag() == 0 {
		return usage(createCmd)
	}

	data, err := cli.courseData(f, course.CourseData{}, setFlags(createCmd))
	if err != nil {
		return err
	}
	c, err := cli.svc.CreateCourse(ctx, data, usr.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created course #%s\n", c.ID)
	return nil
}

func (cli *commandLine) editCourse(ctx context.Context, usr course.User, args []string) error {
	editCmd := cli.newFlagSet("edit-course")
	id := editCmd.String("id", "", "The course id.")
	f := courseFlags{
		name:        editCmd.String("name", "", "The new course name."),
		description: editCmd.String("description", "", "The new course description."),
		start:       editCmd.String("start", "", "The new start date (YYYY-MM-DD)."),
		end:         editCmd.String("end", "", "The new end date (YYYY-MM-DD)."),
	}
	if err := cli.parse(editCmd, args); err != nil {
		return err
	}
	if *id == "" {
		return usage(editCmd)
	}

	c, err := cli.svc.CourseForEdit(ctx, course.NewID(*id), usr.ID)
	if err != nil {
		return err
	}
	prefill := course.CourseData{Name: c.Name, Description: c.Description, StartDate: c.StartDate, EndDate: c.EndDate}
	data, err := cli.courseData(f, prefill, setFlags(editCmd))
	if err != nil {
		return err
	}
	_, err = cli.svc.UpdateCourse(ctx, c.ID, data, usr.ID)
	return err
}

func (cli *commandLine) addInstructor(ctx context.Context, usr course.User, args []string) error {
	addCmd := cli.newFlagSet("add-instructor")
	courseID := addCmd.String("course", "", "The course id.")
	id := addCmd.String("id", "", "The instructor id. A random instructor is added when empty.")
	if err := cli.parse(addCmd, args); err != nil {
		return err
	}
	if *courseID == "" {
		return usage(addCmd)
	}

	view, err := cli.openView(ctx, usr, *courseID, course.Filter{}, 1)
	if err != nil {
		return err
	}
	defer view.Close()

	if *id == "" {
		return view.AddRandomInstructor(ctx)
	}
	return view.AddInstructor(ctx, course.NewID(*id))
}

func (cli *commandLine) removeInstructor(ctx context.Context, usr course.User, args []string) error {
	rmCmd := cli.newFlagSet("remove-instructor")
	courseID := rmCmd.String("course", "", "The course id.")
	id := rmCmd.String("id", "", "The instructor id.")
	yes := rmCmd.Bool("yes", false, "Do not ask for confirmation.")
	if err := cli.parse(rmCmd, args); err != nil {
		return err
	}
	if *courseID == "" || *id == "" {
		return usage(rmCmd)
	}

	view, err := cli.openView(ctx, usr, *courseID, course.Filter{}, 1)
	if err != nil {
		return err
	}
	defer view.Close()
	return view.RemoveInstructor(ctx, course.NewID(*id), cli.confirmer(*yes))
}
