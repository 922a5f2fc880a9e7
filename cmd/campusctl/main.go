package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"campus/client/api"
	"campus/client/internal/config"
	"campus/client/session"
	"campus/client/token"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	store := token.NewFileStore(cfg.TokenFile)

	client, err := api.New(cfg.APIBaseURL, store,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithSessionEndedHandler(func() {
			fmt.Fprintln(os.Stderr, "session expired, please log in again")
		}),
	)
	if err != nil {
		log.Fatalf("client init failed: %v", err)
	}
	ctrl := session.NewController(client, store)

	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, ctrl, os.Args[2:])
	case "logout":
		err = ctrl.Logout(ctx)
	case "whoami":
		err = runWhoami(ctx, ctrl)
	case "roster":
		err = runRoster(ctx, ctrl, client, os.Args[2:])
	case "report":
		err = runReport(ctx, ctrl, client, os.Args[2:])
	case "lang":
		err = runLang(cfg, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: campusctl <command> [flags]

commands:
  login    -email <addr> [-password <pw>]   authenticate and store tokens
  logout                                    end the session and clear tokens
  whoami                                    show the current user
  roster   -course <id> -session <id>       print the attendance sheet
  report   -course <id>                     print per-student attendance rates
  report   -student <id> [-out <file>]      download the student PDF report
  lang     [code]                           show or set the display language`)
}

func runLogin(ctx context.Context, ctrl *session.Controller, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted if empty)")
	fs.Parse(args)

	if *email == "" {
		return fmt.Errorf("missing -email")
	}
	pw := *password
	if pw == "" {
		fmt.Fprint(os.Stderr, "password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		pw = strings.TrimSpace(line)
	}

	user, err := ctrl.Login(ctx, *email, pw)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", user.Email, user.Role)
	return nil
}

func runWhoami(ctx context.Context, ctrl *session.Controller) error {
	user, err := ctrl.Restore(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s %s <%s> role=%s\n", user.FirstName, user.LastName, user.Email, user.Role)
	return nil
}

func runRoster(ctx context.Context, ctrl *session.Controller, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("roster", flag.ExitOnError)
	courseID := fs.String("course", "", "course id")
	sessionID := fs.String("session", "", "session id")
	fs.Parse(args)

	if *courseID == "" || *sessionID == "" {
		return fmt.Errorf("missing -course or -session")
	}
	if err := requireSession(ctx, ctrl); err != nil {
		return err
	}

	sheet, err := client.Attendance.Sheet(ctx, *courseID, *sessionID)
	if err != nil {
		return err
	}
	for _, entry := range sheet {
		marker := " "
		if entry.Recorded() {
			marker = "*"
		}
		fmt.Printf("%s %-30s %s\n", marker, entry.Member.FullName(), entry.Record.Status)
	}
	return nil
}

func runReport(ctx context.Context, ctrl *session.Controller, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	courseID := fs.String("course", "", "course id")
	studentID := fs.String("student", "", "student id (downloads the PDF report)")
	out := fs.String("out", "report.pdf", "output path for -student")
	fs.Parse(args)

	if *courseID == "" && *studentID == "" {
		return fmt.Errorf("missing -course or -student")
	}
	if err := requireSession(ctx, ctrl); err != nil {
		return err
	}

	if *studentID != "" {
		pdf, err := client.Admin.StudentReportPDF(ctx, *studentID)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*out, pdf, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d bytes)\n", *out, len(pdf))
		return nil
	}

	summaries, err := client.Attendance.CourseSummary(ctx, *courseID)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		rate := 0.0
		if s.Sessions > 0 {
			rate = float64(s.Present) / float64(s.Sessions) * 100
		}
		fmt.Printf("%-36s present %d/%d (%.0f%%)\n", s.StudentID, s.Present, s.Sessions, rate)
	}
	return nil
}

func runLang(cfg config.Config, args []string) error {
	prefs := config.LoadPrefs(cfg.PrefsFile)
	if len(args) == 0 {
		fmt.Printf("%s (%s)\n", prefs.Language, prefs.Direction)
		return nil
	}
	lang := args[0]
	prefs.Language = lang
	prefs.Direction = config.DirectionFor(lang)
	if err := config.SavePrefs(cfg.PrefsFile, prefs); err != nil {
		return err
	}
	fmt.Printf("language set to %s (%s)\n", lang, prefs.Direction)
	return nil
}

func requireSession(ctx context.Context, ctrl *session.Controller) error {
	user, err := ctrl.Restore(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("not logged in, run campusctl login first")
	}
	return nil
}
