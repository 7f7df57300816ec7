package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/trezcool/coursesphere/core/course"
)

func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// saveLesson runs a lesson form: the flags given override the prefilled data.
func (cli *commandLine) saveLesson(ctx context.Context, usr course.User, name string, args []string, editing bool) error {
	lessonCmd := cli.newFlagSet(name)
	courseID := lessonCmd.String("course", "", "The course id.")
	var id *string
	if editing {
		id = lessonCmd.String("id", "", "The lesson id.")
	}
	title := lessonCmd.String("title", "", "The lesson title.")
	status := lessonCmd.String("status", "", "draft, published or archived.")
	publish := lessonCmd.String("publish", "", "The publish date (YYYY-MM-DD), in the future.")
	video := lessonCmd.String("video", "", "The lesson video URL.")
	if err := cli.parse(lessonCmd, args); err != nil {
		return err
	}
	if *courseID == "" || (editing && *id == "") {
		return usage(lessonCmd)
	}

	var lessonID course.ID
	if editing {
		lessonID = course.NewID(*id)
	}
	flow, err := cli.svc.OpenLessonForm(ctx, course.NewID(*courseID), lessonID, usr.ID)
	if err != nil {
		return err
	}

	data := flow.Data()
	set := setFlags(lessonCmd)
	if set["title"] {
		data.Title = *title
	}
	if set["status"] {
		data.Status = course.Status(*status)
	}
	if set["video"] {
		data.VideoURL = *video
	}
	if set["publish"] {
		if data.PublishDate, err = parseDate("publish_date", *publish); err != nil {
			return err
		}
	}

	l, err := flow.Submit(ctx, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Lesson #%s: %s (%s)\n", l.ID, l.Title, l.Status)
	return nil
}

func (cli *commandLine) deleteLesson(ctx context.Context, usr course.User, args []string) error {
	delCmd := cli.newFlagSet("delete-lesson")
	courseID := delCmd.String("course", "", "The course id.")
	id := delCmd.String("id", "", "The lesson id.")
	yes := delCmd.Bool("yes", false, "Do not ask for confirmation.")
	if err := cli.parse(delCmd, args); err != nil {
		return err
	}
	if *courseID == "" || *id == "" {
		return usage(delCmd)
	}

	view, err := cli.openView(ctx, usr, *courseID, course.Filter{}, 1)
	if err != nil {
		return err
	}
	defer view.Close()
	return view.DeleteLesson(ctx, course.NewID(*id), cli.confirmer(*yes))
}
