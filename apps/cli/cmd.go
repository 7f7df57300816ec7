package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
	"github.com/trezcool/coursesphere/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp          = errors.New("help provided")
	errLoginRequired = errors.New("not logged in, run `login` first")

	commands = []string{
		"login", "logout", "whoami", "courses", "course", "browse", "create-course", "edit-course",
		"add-instructor", "remove-instructor", "new-lesson", "edit-lesson", "delete-lesson",
	}
	suggestMinRatio = 0.7
)

type commandLine struct {
	svc        *course.Service
	store      *session.Store
	translator ut.Translator
	in         *bufio.Reader
	out        io.Writer
}

func newCommandLine(svc *course.Service, store *session.Store, translator ut.Translator, in io.Reader, out io.Writer) *commandLine {
	cli := &commandLine{
		store:      store,
		translator: translator,
		in:         bufio.NewReader(in),
		out:        out,
	}
	cli.svc = svc.WithNotifier(core.NotifierFunc(cli.notify))
	return cli
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                                     - log in (the password is prompted next)")
	fmt.Fprintln(cli.out, "  logout                                                 - log out")
	fmt.Fprintln(cli.out, "  whoami                                                 - show the logged in user")
	fmt.Fprintln(cli.out, "  courses                                                - list my courses")
	fmt.Fprintln(cli.out, "  course -id ID [-title T] [-status S] [-page N]         - show a course & its lessons")
	fmt.Fprintln(cli.out, "  browse -id ID                                          - browse a course interactively")
	fmt.Fprintln(cli.out, "  create-course -name N -start DATE -end DATE [-description D]")
	fmt.Fprintln(cli.out, "  edit-course -id ID [-name N] [-start DATE] [-end DATE] [-description D]")
	fmt.Fprintln(cli.out, "  add-instructor -course ID [-id ID]                     - add an instructor (a random one without -id)")
	fmt.Fprintln(cli.out, "  remove-instructor -course ID -id ID [-yes]             - remove an instructor")
	fmt.Fprintln(cli.out, "  new-lesson -course ID -title T -publish DATE -video URL [-status S]")
	fmt.Fprintln(cli.out, "  edit-lesson -course ID -id ID [-title T] [-publish DATE] [-video URL] [-status S]")
	fmt.Fprintln(cli.out, "  delete-lesson -course ID -id ID [-yes]                 - delete a lesson")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()
	cmd, rest := args[1], args[2:]

	switch cmd {
	case "login":
		return cli.login(ctx, rest)
	case "logout":
		return cli.logout()
	case "whoami":
		return cli.whoami()
	}

	usr, ok := cli.store.Get()
	if !ok {
		return errLoginRequired
	}
	switch cmd {
	case "courses":
		return cli.courses(ctx, usr)
	case "course":
		return cli.showCourse(ctx, usr, rest)
	case "browse":
		return cli.browse(ctx, usr, rest)
	case "create-course":
		return cli.createCourse(ctx, usr, rest)
	case "edit-course":
		return cli.editCourse(ctx, usr, rest)
	case "add-instructor":
		return cli.addInstructor(ctx, usr, rest)
	case "remove-instructor":
		return cli.removeInstructor(ctx, usr, rest)
	case "new-lesson":
		return cli.saveLesson(ctx, usr, cmd, rest, false)
	case "edit-lesson":
		return cli.saveLesson(ctx, usr, cmd, rest, true)
	case "delete-lesson":
		return cli.deleteLesson(ctx, usr, rest)
	default:
		if s := closestCommand(cmd, commands); s != "" {
			fmt.Fprintf(cli.out, "Unknown command %q, did you mean %q?\n", cmd, s)
			return errHelp
		}
		cli.printUsage()
		return errHelp
	}
}

// closestCommand returns the command of known that looks the most like cmd, if one is close enough.
func closestCommand(cmd string, known []string) string {
	best, bestRatio := "", 0.0
	for _, c := range known {
		ratio := difflib.NewMatcher(strings.Split(cmd, ""), strings.Split(c, "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = c, ratio
		}
	}
	if bestRatio < suggestMinRatio {
		return ""
	}
	return best
}

// newFlagSet returns a flag set that reports parse errors instead of exiting.
func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

// usage prints the usage of fs and returns errHelp.
func usage(fs *flag.FlagSet) error {
	fs.Usage()
	return errHelp
}

func (cli *commandLine) notify(n core.Notification) {
	fmt.Fprintf(cli.out, "[%s] %s\n", n.Level, n.Message)
}

// Confirm asks a yes/no question on the command line; anything but yes is a no.
func (cli *commandLine) Confirm(prompt string) bool {
	fmt.Fprintf(cli.out, "%s [y/N] ", prompt)
	answer, _ := cli.in.ReadString('\n')
	answer = core.CleanString(answer, true /* lower */)
	return answer == "y" || answer == "yes"
}

func (cli *commandLine) confirmer(yes bool) course.Confirmer {
	if yes {
		return course.Confirmed
	}
	return cli
}

// printError prints err for humans, one line per invalid field.
func (cli *commandLine) printError(err error) {
	fldErrs := core.FieldErrors(unwrap(err), cli.translator)
	if len(fldErrs) == 0 {
		fmt.Fprintf(cli.out, "error: %v\n", err)
		return
	}
	fields := make([]string, 0, len(fldErrs))
	for f := range fldErrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(cli.out, "error: %s: %s\n", f, fldErrs[f])
	}
}

func unwrap(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func parseDate(name, value string) (course.Date, error) {
	d, err := course.ParseDate(value)
	if err != nil {
		return course.Date{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: err.Error()})
	}
	return d, nil
}
