package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"preview/internal/bootstrap"
	interviewdto "preview/internal/modules/interview/dto"
	resultdto "preview/internal/modules/result/dto"
	"preview/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "preview",
		Short:         "AI mock interview client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.preview)")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newLoginCmd(&dataDir))
	root.AddCommand(newSignupCmd(&dataDir))
	root.AddCommand(newLogoutCmd(&dataDir))
	root.AddCommand(newWhoamiCmd(&dataDir))
	root.AddCommand(newImportTokensCmd(&dataDir))
	root.AddCommand(newInterviewCmd(&dataDir))
	root.AddCommand(newSessionCmd(&dataDir))
	root.AddCommand(newResultCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newReportsCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app)
		},
	}
}

func newLoginCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in and store the credential pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			identity, err := app.AuthCLI.Login(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (%s), token expires %s\n",
				identity.MemberID, identity.Role, identity.ExpiresAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func newSignupCmd(dataDir *string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "signup <email> <password>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			identity, err := app.AuthCLI.Signup(context.Background(), args[0], name, args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "account created, signed in as %s\n", identity.MemberID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func newLogoutCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored credential pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.AuthCLI.Logout(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			identity, err := app.AuthCLI.Whoami(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s), token expires %s\n",
				identity.MemberID, identity.Role, identity.ExpiresAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func newImportTokensCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import-tokens <access> <refresh>",
		Short: "Store a credential pair obtained elsewhere",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			identity, err := app.AuthCLI.ImportTokens(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tokens stored for %s\n", identity.MemberID)
			return nil
		},
	}
}

func newInterviewCmd(dataDir *string) *cobra.Command {
	iv := &cobra.Command{Use: "interview", Short: "Manage interviews"}

	var page, size int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List interviews",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			result, err := app.InterviewCLI.List(context.Background(), page, size)
			if err != nil {
				return err
			}
			for _, item := range result.Items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "#%-4d %-30s %-10s %-8s %s\n",
					item.ID, item.Title, item.Position, item.Level, item.Status)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d (%d total)\n",
				result.Page+1, result.TotalPages, result.TotalCount)
			return nil
		},
	}
	listCmd.Flags().IntVar(&page, "page", 0, "page number")
	listCmd.Flags().IntVar(&size, "size", 10, "page size")

	var ivType, position, level string
	var stacks []string
	createCmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create an interview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			created, err := app.InterviewCLI.Create(context.Background(), interviewdto.CreateInput{
				Title:      args[0],
				Type:       strings.ToUpper(ivType),
				Position:   strings.ToUpper(position),
				Level:      strings.ToUpper(level),
				TechStacks: stacks,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created #%d %s\n", created.ID, created.Title)
			return nil
		},
	}
	createCmd.Flags().StringVar(&ivType, "type", "TECHNICAL", "interview type")
	createCmd.Flags().StringVar(&position, "position", "BACKEND", "target position")
	createCmd.Flags().StringVar(&level, "level", "JUNIOR", "experience level")
	createCmd.Flags().StringSliceVar(&stacks, "stacks", nil, "tech stacks")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one interview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			iv, err := app.InterviewCLI.Get(context.Background(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "#%d %s\n", iv.ID, iv.Title)
			_, _ = fmt.Fprintf(out, "type:      %s\n", iv.Type)
			_, _ = fmt.Fprintf(out, "position:  %s (%s)\n", iv.Position, iv.Level)
			_, _ = fmt.Fprintf(out, "status:    %s\n", iv.Status)
			if iv.CurrentPhase != "" {
				_, _ = fmt.Fprintf(out, "phase:     %s\n", iv.CurrentPhase)
			}
			_, _ = fmt.Fprintf(out, "questions: %d\n", iv.TotalQuestions)
			if len(iv.TechStacks) > 0 {
				_, _ = fmt.Fprintf(out, "stacks:    %s\n", strings.Join(iv.TechStacks, ", "))
			}
			return nil
		},
	}

	startCmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Start an interview (generates questions)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.InterviewCLI.Start(context.Background(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "interview #%d started\n", id)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an interview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			if err := app.InterviewCLI.Delete(context.Background(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "interview #%d deleted\n", id)
			return nil
		},
	}

	iv.AddCommand(listCmd, createCmd, showCmd, startCmd, deleteCmd)
	return iv
}

func newSessionCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "session <id>",
		Short: "Run an interactive answer session",
		Long:  "Walks through the interview's questions. End each answer with a single '.' on its own line.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			return runSession(cmd, app, id)
		},
	}
}

func runSession(cmd *cobra.Command, app *bootstrap.App, id int64) error {
	ctx := context.Background()
	sess, err := app.InterviewCLI.BeginSession(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	snap := sess.Snapshot()
	_, _ = fmt.Fprintf(out, "%s\n", snap.Title)

	switch snap.State {
	case "no-questions":
		_, _ = fmt.Fprintln(out, "this interview has no questions yet; run `preview interview start` first")
		return nil
	case "complete":
		_, _ = fmt.Fprintln(out, "every question is already answered; see `preview result`")
		return nil
	}

	for {
		snap = sess.Snapshot()
		if !snap.HasCurrent {
			break
		}
		q := snap.Current
		_, _ = fmt.Fprintf(out, "\n[%s] Q%d", q.PhaseLabel, q.Sequence)
		if q.IsFollowUp {
			_, _ = fmt.Fprint(out, " (follow-up)")
		}
		_, _ = fmt.Fprintf(out, "  (%d/%d answered)\n%s\n", snap.AnsweredCount, snap.Total, q.Content)
		_, _ = fmt.Fprintln(out, "> answer, end with '.' on its own line:")

		var lines []string
		for scanner.Scan() {
			line := scanner.Text()
			if line == "." {
				break
			}
			lines = append(lines, line)
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		result, err := sess.Submit(ctx, strings.Join(lines, "\n"))
		if err != nil {
			_, _ = fmt.Fprintf(out, "submit failed: %v\n", err)
			continue
		}
		_, _ = fmt.Fprintf(out, "\nscore: %d\n%s\n", result.Feedback.Score, result.Feedback.Feedback)
		if result.Feedback.HasFollowUp {
			_, _ = fmt.Fprintln(out, "a follow-up question was added")
		}
		if result.Completed {
			break
		}
		if _, more := sess.Advance(); !more {
			break
		}
	}

	_, _ = fmt.Fprintf(out, "\nsession complete. run `preview result %d` for the report\n", id)
	return nil
}

func newResultCmd(dataDir *string) *cobra.Command {
	var noWait bool
	cmd := &cobra.Command{
		Use:   "result <id>",
		Short: "Show the interview result and AI report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}

			var report resultdto.ReportOutput
			if noWait {
				report, err = app.ResultCLI.Fetch(context.Background(), id)
			} else {
				report, err = app.ResultCLI.Load(context.Background(), id, func(stage resultdto.LoadingStage) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s\n", stage.Step, stage.Steps, stage.Title)
				})
			}
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "skip the staged loading display")
	return cmd
}

func printReport(cmd *cobra.Command, r resultdto.ReportOutput) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s\n", r.Title)
	if r.FromCache {
		_, _ = fmt.Fprintln(out, "(locally cached copy)")
	}
	_, _ = fmt.Fprintf(out, "answered %d/%d, average score %.1f\n", r.AnsweredQuestions, r.TotalQuestions, r.AverageScore)

	if r.HasAIReport {
		_, _ = fmt.Fprintf(out, "\noverall score: %d\n%s\n", r.AIReport.OverallScore, r.AIReport.Summary)
		printHeadedList(out, "strengths", r.AIReport.Strengths)
		printHeadedList(out, "improvements", r.AIReport.Improvements)
		printHeadedList(out, "recommended topics", r.AIReport.RecommendedTopics)
	}

	for _, phase := range r.Phases {
		_, _ = fmt.Fprintf(out, "\n== %s ==\n", phase.Label)
		for _, e := range phase.Entries {
			_, _ = fmt.Fprintf(out, "Q%d. %s\n", e.Sequence, e.Question)
			if !e.Answered {
				_, _ = fmt.Fprintln(out, "    (not answered)")
				continue
			}
			_, _ = fmt.Fprintf(out, "    answer:   %s\n", e.Answer)
			_, _ = fmt.Fprintf(out, "    feedback: %s (score %d)\n", e.Feedback, e.Score)
		}
	}
}

func printHeadedList(out io.Writer, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	_, _ = fmt.Fprintf(out, "\n%s:\n", heading)
	for _, item := range items {
		_, _ = fmt.Fprintf(out, "  - %s\n", item)
	}
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show locally recorded answers for an interview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			entries, err := app.InterviewCLI.Transcript(context.Background(), id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, "no recorded answers")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(out, "[%s] Q%d %s\n", e.Phase, e.Sequence, e.Question)
				_, _ = fmt.Fprintf(out, "    answer:   %s\n", e.Answer)
				_, _ = fmt.Fprintf(out, "    feedback: %s (score %d)\n", e.Feedback, e.Score)
			}
			return nil
		},
	}
}

func newReportsCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List locally cached result reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			summaries, err := app.ResultCLI.ListLocalReports(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				_, _ = fmt.Fprintln(out, "no cached reports")
				return nil
			}
			for _, s := range summaries {
				_, _ = fmt.Fprintf(out, "#%-4d %-30s avg %.1f  cached %s\n",
					s.InterviewID, s.Title, s.AverageScore, s.SavedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid interview id %q", raw)
	}
	return id, nil
}
