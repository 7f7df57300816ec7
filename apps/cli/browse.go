package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/trezcool/coursesphere/core/course"
)

var browseCommands = []string{"next", "prev", "page", "title", "status", "clear", "add", "remove", "delete", "reload", "help", "quit"}

func (cli *commandLine) printBrowseHelp() {
	fmt.Fprintln(cli.out, "Commands:")
	fmt.Fprintln(cli.out, "  next | prev | page N        - change page")
	fmt.Fprintln(cli.out, "  title TEXT | status STATUS  - filter the lessons")
	fmt.Fprintln(cli.out, "  clear                       - drop the filter")
	fmt.Fprintln(cli.out, "  add [ID] | remove ID        - manage instructors")
	fmt.Fprintln(cli.out, "  delete ID                   - delete a lesson")
	fmt.Fprintln(cli.out, "  reload | help | quit")
}

// browse keeps a course view open and applies one command per input line.
func (cli *commandLine) browse(ctx context.Context, usr course.User, args []string) error {
	browseCmd := cli.newFlagSet("browse")
	id := browseCmd.String("id", "", "The course id.")
	if err := cli.parse(browseCmd, args); err != nil {
		return err
	}
	if *id == "" {
		return usage(browseCmd)
	}

	view, err := cli.openView(ctx, usr, *id, course.Filter{}, 1)
	if err != nil {
		return err
	}
	defer view.Close()
	if err = cli.printView(view); err != nil {
		return err
	}

	for {
		fmt.Fprint(cli.out, "> ")
		line, err := cli.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			if err == io.EOF {
				fmt.Fprintln(cli.out)
				return nil
			}
			continue
		}

		quit, cmdErr := cli.browseCommand(ctx, view, fields[0], strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0])))
		if cmdErr != nil {
			cli.printError(cmdErr)
		} else if !quit {
			if pErr := cli.printView(view); pErr != nil {
				return pErr
			}
		}
		if quit || err == io.EOF {
			return nil
		}
	}
}

func (cli *commandLine) browseCommand(ctx context.Context, view *course.CourseView, cmd, arg string) (quit bool, err error) {
	switch cmd {
	case "q", "quit", "exit":
		return true, nil
	case "n", "next":
		view.SetPage(view.Page().Number + 1)
	case "p", "prev":
		view.SetPage(view.Page().Number - 1)
	case "page":
		n, convErr := strconv.Atoi(arg)
		if convErr != nil {
			return false, fmt.Errorf("invalid page %q", arg)
		}
		view.SetPage(n)
	case "title":
		f := view.Filter()
		f.Title = arg
		view.SetFilter(f)
	case "status":
		f := view.Filter()
		f.Status = course.Status(arg)
		view.SetFilter(f)
	case "clear":
		view.SetFilter(course.Filter{})
	case "add":
		if arg == "" {
			return false, view.AddRandomInstructor(ctx)
		}
		return false, view.AddInstructor(ctx, course.NewID(arg))
	case "remove":
		return false, view.RemoveInstructor(ctx, course.NewID(arg), cli)
	case "delete":
		return false, view.DeleteLesson(ctx, course.NewID(arg), cli)
	case "reload":
		return false, view.Load(ctx, view.Course().ID)
	case "h", "help":
		cli.printBrowseHelp()
	default:
		if s := closestCommand(cmd, browseCommands); s != "" {
			return false, fmt.Errorf("unknown command %q, did you mean %q?", cmd, s)
		}
		cli.printBrowseHelp()
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	return false, nil
}
