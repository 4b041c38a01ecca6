package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/guard"
	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/response"
	"github.com/stemsi/campus-portal/internal/session"
	"github.com/stemsi/campus-portal/internal/view"
)

const msgNoCourses = "No courses found."

var (
	errNotLoggedIn = errors.New("not logged in, run `portalctl login` first")
	errNotAllowed  = errors.New("this command is not available for your role")
	errSessionEnd  = errors.New(response.GetMessage(response.ErrSessionExpired))
)

type command struct {
	name string
	desc string
	run  func(c *cli, ctx context.Context) error
}

var commands = []command{
	{"login", "Log in and remember the session", (*cli).login},
	{"logout", "Forget the stored session", (*cli).logout},
	{"whoami", "Show the logged-in user and their pages", (*cli).whoami},
	{"courses", "List the course catalogue", (*cli).courses},
	{"my-grades", "Show your grades by course (students)", (*cli).myGrades},
	{"my-attendance", "Show your attendance by course (students)", (*cli).myAttendance},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: portalctl <command>")
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, cmd := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.name, cmd.desc)
	}
	tw.Flush()
}

// cli bundles the session, navigator and terminal streams every command uses.
type cli struct {
	api   *apiclient.Client
	store *session.Store
	nav   *guard.Navigator
	in    *bufio.Reader
	out   io.Writer

	readPassword func() (string, error)
}

func newCLI(api *apiclient.Client, store *session.Store, in io.Reader, out io.Writer) *cli {
	return &cli{
		api:   api,
		store: store,
		nav:   guard.NewNavigator(store),
		in:    bufio.NewReader(in),
		out:   out,
	}
}

func (c *cli) run(ctx context.Context, name string) error {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd.run(c, ctx)
		}
	}
	usage(c.out)
	return fmt.Errorf("unknown command %q", name)
}

// enter applies the route guard for path and returns the acting user.
func (c *cli) enter(ctx context.Context, path string) (*model.User, error) {
	d := c.nav.Navigate(ctx, path)
	if d.Stale {
		return nil, ctx.Err()
	}
	if d.State != guard.Authorized {
		if c.store.CurrentUser() == nil {
			return nil, errNotLoggedIn
		}
		return nil, errNotAllowed
	}
	return c.store.CurrentUser(), nil
}

// fail turns an API error into what the user should read.
func (c *cli) fail(err error) error {
	var authErr *apiclient.AuthorizationError
	if errors.As(err, &authErr) {
		return errSessionEnd
	}
	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) && reqErr.Detail != "" {
		return errors.New(reqErr.Detail)
	}
	return err
}

func (c *cli) login(ctx context.Context) error {
	fmt.Fprint(c.out, "Email: ")
	email, _ := c.in.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	fmt.Fprint(c.out, "Password: ")
	password, err := c.readPassword()
	fmt.Fprintln(c.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	sess, err := c.store.Login(ctx, model.Credentials{Email: email, Password: password})
	if err != nil {
		var authErr *session.AuthenticationError
		if errors.As(err, &authErr) {
			return errors.New(authErr.Reason)
		}
		return err
	}

	fmt.Fprintf(c.out, "Welcome, %s (%s)\n", sess.User.Name, sess.User.Role.Label())
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	c.store.Logout(ctx)
	fmt.Fprintln(c.out, "Logged out.")
	return nil
}

func (c *cli) whoami(ctx context.Context) error {
	user, err := c.enter(ctx, access.PathDashboard)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s <%s>\n", user.Name, user.Email)
	if _, err := access.Dispatch(user.Role); err != nil {
		fmt.Fprintln(c.out, response.GetMessage(response.ErrUnknownRole))
		return nil
	}

	fmt.Fprintf(c.out, "Role: %s\n\nPages:\n", user.Role.Label())
	for _, l := range access.LinksFor(user.Role) {
		fmt.Fprintf(c.out, "  %-24s %s\n", l.Label, l.Path)
	}
	return nil
}

func (c *cli) courses(ctx context.Context) error {
	if _, err := c.enter(ctx, access.PathCourses); err != nil {
		return err
	}

	courses, err := c.api.As(c.store).ListCourses(ctx)
	if err != nil {
		return c.fail(err)
	}
	if len(courses) == 0 {
		fmt.Fprintln(c.out, msgNoCourses)
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tDESCRIPTION")
	for _, course := range courses {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", course.Code, course.Name, course.DescriptionText())
	}
	return tw.Flush()
}

func (c *cli) myGrades(ctx context.Context) error {
	if _, err := c.enter(ctx, access.PathMyGrades); err != nil {
		return err
	}

	groups, err := view.LoadMyGrades(ctx, c.api.As(c.store))
	if err != nil {
		return c.fail(err)
	}
	if len(groups) == 0 {
		fmt.Fprintln(c.out, msgNoCourses)
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, g := range groups {
		fmt.Fprintf(tw, "%s  %s\n", g.Course.Code, g.Course.Name)
		if len(g.Grades) == 0 {
			fmt.Fprintln(tw, "  No grades recorded.")
		}
		for _, grade := range g.Grades {
			fmt.Fprintf(tw, "  %s\t%.1f\t%s\t%s\n",
				grade.AssignmentName, grade.Score, view.BandFor(grade.Score), grade.CommentText())
		}
	}
	return tw.Flush()
}

func (c *cli) myAttendance(ctx context.Context) error {
	if _, err := c.enter(ctx, access.PathMyAttendance); err != nil {
		return err
	}

	summaries, err := view.LoadMyAttendance(ctx, c.api.As(c.store))
	if err != nil {
		return c.fail(err)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(c.out, msgNoCourses)
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COURSE\tPRESENT\tABSENT\tLATE\tATTENDANCE")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", s.Course.Code, s.Present, s.Absent, s.Late, s.Percentage())
	}
	return tw.Flush()
}
