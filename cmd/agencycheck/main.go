package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"agencycheck/internal/bootstrap"
	exportdto "agencycheck/internal/modules/export/dto"
	journaldto "agencycheck/internal/modules/journal/dto"
	progressdto "agencycheck/internal/modules/progress/dto"
	"agencycheck/internal/platform/config"
)

type globalFlags struct {
	dataPath string
	asOf     string
	output   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "agencycheck",
		Short:         "Competency journal and progress reports for vocational training",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.dataPath, "data", ".", "data directory holding entries, curriculum.yaml and agencycheck.yaml")
	root.PersistentFlags().StringVar(&g.asOf, "as-of", "", "treat this date (YYYY-MM-DD) as today")
	root.PersistentFlags().StringVarP(&g.output, "output", "o", "text", "output format: text|json")

	root.AddCommand(newEntryCmd(g))
	root.AddCommand(newReportCmd(g))
	root.AddCommand(newCurriculumCmd(g))
	root.AddCommand(newExportCmd(g))
	root.AddCommand(newReindexCmd(g))
	root.AddCommand(newServeCmd(g))
	root.AddCommand(newTUICmd(g))
	return root
}

func loadApp(g *globalFlags) (*bootstrap.App, error) {
	return loadAppLogging(g, nil)
}

func loadAppLogging(g *globalFlags, logOut io.Writer) (*bootstrap.App, error) {
	cfg, err := config.New(g.dataPath)
	if err != nil {
		return nil, err
	}
	asOf, err := parseAsOf(g.asOf)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, bootstrap.Options{AsOf: asOf, LogOutput: logOut})
}

// parseAsOf reads a calendar date and pins it to the end of that day in UTC,
// so entries dated on it still fall inside every window.
func parseAsOf(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
	}
	return day.Add(24*time.Hour - time.Second), nil
}

func (g *globalFlags) jsonOutput() (bool, error) {
	switch g.output {
	case "json":
		return true, nil
	case "text", "":
		return false, nil
	}
	return false, fmt.Errorf("--output must be text or json, got %q", g.output)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ─── entry ───────────────────────────────────────────────────────────────────

func newEntryCmd(g *globalFlags) *cobra.Command {
	entry := &cobra.Command{Use: "entry", Short: "Journal entries"}

	var in journaldto.LogEntryInput
	var comps []string
	logCmd := &cobra.Command{
		Use:   "log --subject <id>",
		Short: "Log a practice entry",
		Example: `  agencycheck entry log --subject lena --theme t1 --competency c1-1:2:improved --hours 2
  agencycheck entry log --subject lena --category kitchen --task "set the table" --category-hours 1.5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := g.jsonOutput()
			if err != nil {
				return err
			}
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			out, err := app.JournalCLI.LogEntry(cmd.Context(), in, comps)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "logged %s for %s note=%s\n", out.ID, out.SubjectID, out.NotePath)
			return nil
		},
	}
	f := logCmd.Flags()
	f.StringVar(&in.SubjectID, "subject", "", "learner id")
	f.StringVar(&in.Date, "date", "", "practice date YYYY-MM-DD (default: creation time)")
	f.StringVar(&in.ThemeID, "theme", "", "theme id")
	f.StringArrayVar(&comps, "competency", nil, "competency as id[:hours[:status]], repeatable")
	f.StringVar(&in.CategoryID, "category", "", "work category id")
	f.StringArrayVar(&in.Tasks, "task", nil, "completed category task, repeatable")
	f.Float64Var(&in.HoursOnCompetencies, "hours", 0, "hours spent on competencies")
	f.Float64Var(&in.HoursOnCategory, "category-hours", 0, "hours spent on the work category")
	f.StringVar(&in.Status, "status", "", "practiced|improved|achieved")
	f.StringVar(&in.Where, "where", "", "where it happened")
	f.StringVar(&in.How, "how", "", "how it went")
	f.StringVar(&in.Note, "note", "", "free note")
	f.StringSliceVar(&in.Tags, "tag", nil, "sustainability|equity|digitality")
	_ = logCmd.MarkFlagRequired("subject")
	entry.AddCommand(logCmd)

	var role, note string
	annotate := &cobra.Command{
		Use:   "annotate <entry-id> --role <teacher|trainer> --note <text>",
		Short: "Set the teacher or trainer note on an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := g.jsonOutput()
			if err != nil {
				return err
			}
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			out, err := app.JournalCLI.Annotate(cmd.Context(), args[0], role, note)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "annotated %s as %s\n", out.ID, role)
			return nil
		},
	}
	annotate.Flags().StringVar(&role, "role", "", "teacher|trainer")
	annotate.Flags().StringVar(&note, "note", "", "note text; empty clears it")
	_ = annotate.MarkFlagRequired("role")
	entry.AddCommand(annotate)

	var listSubject string
	var limit int
	list := &cobra.Command{
		Use:   "list --subject <id>",
		Short: "List a learner's entries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := g.jsonOutput()
			if err != nil {
				return err
			}
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			entries, err := app.JournalCLI.ListEntries(cmd.Context(), listSubject, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no entries")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range entries {
				when := e.CreatedAt
				if e.Date != nil {
					when = *e.Date
				}
				ids := make([]string, len(e.Competencies))
				for i, c := range e.Competencies {
					ids[i] = c.ID
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, when.Format("2006-01-02"), e.Status, e.ThemeID, e.CategoryID, strings.Join(ids, ","))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&listSubject, "subject", "", "learner id")
	list.Flags().IntVar(&limit, "limit", 0, "maximum entries, 0 for all")
	_ = list.MarkFlagRequired("subject")
	entry.AddCommand(list)

	entry.AddCommand(&cobra.Command{
		Use:   "subjects",
		Short: "List learners with journal entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := g.jsonOutput()
			if err != nil {
				return err
			}
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			subjects, err := app.JournalCLI.ListSubjects(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), subjects)
			}
			for _, s := range subjects {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d entries\tlast %s\n", s.SubjectID, s.Entries, s.LastActivity.Format("2006-01-02"))
			}
			return nil
		},
	})

	var importSubject string
	importCmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import entries from a legacy JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, err := g.jsonOutput()
			if err != nil {
				return err
			}
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			out, err := app.JournalCLI.Import(cmd.Context(), args[0], importSubject)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported=%d duplicates=%d issues=%d\n", out.Imported, out.Duplicates, len(out.Issues))
			for _, issue := range out.Issues {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", issue.Ref, issue.Reason)
			}
			return nil
		},
	}
	importCmd.Flags().StringVar(&importSubject, "subject", "", "assign entries without a learner id to this one")
	entry.AddCommand(importCmd)

	return entry
}

// ─── report ──────────────────────────────────────────────────────────────────

func addReportFlags(cmd *cobra.Command, in *progressdto.ReportInput) {
	f := cmd.Flags()
	f.StringVar(&in.SubjectID, "subject", "", "learner id")
	f.StringVar(&in.Window, "window", "", "last7days|last30days|lastYear|trainingYear|all|custom (default from config)")
	f.StringVar(&in.From, "from", "", "custom window start YYYY-MM-DD")
	f.StringVar(&in.To, "to", "", "custom window end YYYY-MM-DD")
	f.StringVar(&in.ThemePolicy, "theme-policy", "", "theme credit policy, e.g. binary:2")
	f.StringVar(&in.CategoryPolicy, "category-policy", "", "category credit policy, e.g. binary:2")
	f.StringVar(&in.OverallPolicy, "overall-policy", "", "overall credit policy, e.g. graduated:3")
	_ = cmd.MarkFlagRequired("subject")
}

func newReportCmd(g *globalFlags) *cobra.Command {
	report := &cobra.Command{Use: "report", Short: "Progress reports"}

	var showIn progressdto.ReportInput
	show := &cobra.Command{
		Use:   "show --subject <id>",
		Short: "Compute and print a learner's progress report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := g.jsonOutput()
			if err != nil {
				return err
			}
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			if asJSON {
				r, err := app.ProgressCLI.Report(cmd.Context(), showIn)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), r)
			}
			out, err := app.ExportCLI.Render(cmd.Context(), exportdto.RenderInput{Report: showIn, Format: "markdown"})
			if err != nil {
				return err
			}
			return printMarkdown(cmd.OutOrStdout(), string(out.Content))
		},
	}
	addReportFlags(show, &showIn)
	report.AddCommand(show)

	var exportIn exportdto.ExportInput
	var opts []string
	exportCmd := &cobra.Command{
		Use:   "export --subject <id> --format <name>",
		Short: "Write a learner's report to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := g.jsonOutput()
			if err != nil {
				return err
			}
			options, err := parseOptions(opts)
			if err != nil {
				return err
			}
			exportIn.Options = options
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			out, err := app.ExportCLI.Export(cmd.Context(), exportIn)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d bytes)\n", out.Path, out.Format, out.Bytes)
			return nil
		},
	}
	addReportFlags(exportCmd, &exportIn.Report)
	exportCmd.Flags().StringVar(&exportIn.Format, "format", "xlsx", "export format, see 'agencycheck export formats'")
	exportCmd.Flags().StringVar(&exportIn.Path, "path", "", "output file or directory (default: current directory)")
	exportCmd.Flags().StringArrayVar(&opts, "opt", nil, "exporter option key=value, repeatable")
	report.AddCommand(exportCmd)

	return report
}

func parseOptions(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("--opt must be key=value, got %q", kv)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

// printMarkdown styles the report on a terminal and passes it through untouched otherwise.
func printMarkdown(w io.Writer, md string) error {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	styled, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, styled)
	return err
}

// ─── curriculum ──────────────────────────────────────────────────────────────

func newCurriculumCmd(g *globalFlags) *cobra.Command {
	curriculum := &cobra.Command{Use: "curriculum", Short: "Curriculum registry"}

	curriculum.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active curriculum",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := g.jsonOutput()
			if err != nil {
				return err
			}
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			cur, err := app.CurriculumCLI.Show(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), cur)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "source: %s\n", cur.Source)
			for _, th := range cur.Themes {
				_, _ = fmt.Fprintf(out, "%d. %s (%s)\n", th.Order, th.Title, th.ID)
				for _, c := range cur.Competencies {
					if c.ThemeID == th.ID {
						_, _ = fmt.Fprintf(out, "   %s  %s\n", c.ID, c.Text)
					}
				}
			}
			for _, cat := range cur.Categories {
				_, _ = fmt.Fprintf(out, "%s %s (%s) %d tasks\n", cat.Icon, cat.Title, cat.ID, len(cat.Tasks))
			}
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in curriculum to curriculum.yaml for editing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			out, err := app.CurriculumCLI.Init(cmd.Context(), force)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out.Path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing curriculum.yaml")
	curriculum.AddCommand(initCmd)

	return curriculum
}

// ─── export ──────────────────────────────────────────────────────────────────

func newExportCmd(g *globalFlags) *cobra.Command {
	export := &cobra.Command{Use: "export", Short: "Report exporters"}

	export.AddCommand(&cobra.Command{
		Use:   "formats",
		Short: "List built-in and plugin export formats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := g.jsonOutput()
			if err != nil {
				return err
			}
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			formats, err := app.ExportCLI.Formats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), formats)
			}
			for _, f := range formats {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f.Name, f.Source)
			}
			return nil
		},
	})

	export.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check configured exporter plugins",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := g.jsonOutput()
			if err != nil {
				return err
			}
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			results, err := app.ExportCLI.Doctor(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), results)
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no exporter plugins configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s formats=%s checksum=%t binary=%t lifecycle=%t\n",
					r.Name, strings.Join(r.Formats, ","), r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  error: %s\n", r.Error)
				}
			}
			return nil
		},
	})

	return export
}

// ─── maintenance and front ends ──────────────────────────────────────────────

func newReindexCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the entry index from the markdown notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			out, err := app.JournalCLI.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindexed %d entries\n", out.Entries)
			return nil
		},
	}
}

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for the web front end",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return bootstrap.Serve(ctx, app, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	return cmd
}

func newTUICmd(g *globalFlags) *cobra.Command {
	var opts bootstrap.TUIOptions
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			// The alt screen owns the terminal; log lines would tear it.
			app, err := loadAppLogging(g, io.Discard)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app, opts)
		},
	}
	cmd.Flags().StringVar(&opts.SubjectID, "subject", "", "learner to open (default: first with entries)")
	cmd.Flags().StringVar(&opts.Window, "window", "", "initial report window")
	return cmd
}
