package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khrees2412/jobmatch/internal/analysis"
	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/khrees2412/jobmatch/internal/database"
	"github.com/khrees2412/jobmatch/internal/document"
	"github.com/khrees2412/jobmatch/internal/scraper"
	"github.com/khrees2412/jobmatch/pkg/models"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze how well a resume matches a job description",
	Example: `  jobmatch analyze --resume ~/cv.pdf --jd-file posting.txt
  jobmatch analyze --resume-id 2 --jd-url https://startup.jobs/backend-engineer-123
  jobmatch analyze --jd "Senior Java engineer, agile team" --output json
  jobmatch analyze --interactive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output != outputText && output != outputJSON {
			return fmt.Errorf("%w: --output must be %s or %s", app.ErrInvalidArgument, outputText, outputJSON)
		}

		a := getApp(cmd)
		defer func() {
			if err := a.FlushMetrics(); err != nil {
				a.Logger.Warn("writing metrics", zap.Error(err))
			}
		}()

		resumeText, err := resolveResume(cmd, a)
		if err != nil {
			return err
		}
		jdText, err := resolveJobDescription(cmd, a)
		if err != nil {
			return err
		}

		return runAnalysis(cmd, a, output, resumeText, jdText)
	},
}

// runAnalysis checks both inputs before the classifier is loaded, then scores
// and renders the report
func runAnalysis(cmd *cobra.Command, a *app.App, output, resumeText, jdText string) error {
	hasResume := strings.TrimSpace(resumeText) != ""
	hasJD := strings.TrimSpace(jdText) != ""
	if !hasResume || !hasJD {
		a.Logger.Warn("inputs missing", zap.Bool("resume", hasResume), zap.Bool("job_description", hasJD))
		w := cmd.OutOrStdout()
		if output == outputJSON {
			// keep stdout parseable
			w = cmd.ErrOrStderr()
		}
		fmt.Fprintln(w, warningStyle.Render("⚠ Inputs missing!"))
		return fmt.Errorf("analysis error: %w", analysis.ErrMissingInput)
	}

	analyzer, err := a.Analyzer()
	if err != nil {
		return err
	}

	report, err := analyzer.Analyze(cmd.Context(), resumeText, jdText)
	if err != nil {
		return fmt.Errorf("analysis error: %w", err)
	}

	if output == outputJSON {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	renderReport(cmd.OutOrStdout(), report)
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("resume", "", "resume file (.pdf, .txt or .md)")
	analyzeCmd.Flags().Int("resume-id", 0, "stored resume ID (see 'jobmatch resume list')")
	analyzeCmd.Flags().String("jd", "", "job description text")
	analyzeCmd.Flags().String("jd-file", "", "job description file (.pdf, .txt or .md)")
	analyzeCmd.Flags().String("jd-url", "", "job posting URL, rendered with headless Chrome")
	analyzeCmd.Flags().BoolP("interactive", "i", false, "pick a stored resume and enter the job description interactively")
	analyzeCmd.Flags().StringP("output", "o", outputText, "output format: text or json")

	analyzeCmd.MarkFlagsMutuallyExclusive("resume", "resume-id")
	analyzeCmd.MarkFlagsMutuallyExclusive("jd", "jd-file", "jd-url")
}

// resolveResume reads the resume from a file, a stored record, an
// interactive choice or the default resume, in that order
func resolveResume(cmd *cobra.Command, a *app.App) (string, error) {
	path, _ := cmd.Flags().GetString("resume")
	id, _ := cmd.Flags().GetInt("resume-id")
	interactive, _ := cmd.Flags().GetBool("interactive")

	if path != "" {
		return document.ReadFile(path)
	}

	if err := a.OpenDatabase(); err != nil {
		return "", err
	}

	switch {
	case id != 0:
		resume, err := database.GetResume(id)
		if err != nil {
			return "", fmt.Errorf("resume %d: %w", id, err)
		}
		return resume.ContentText, nil
	case interactive:
		return selectResume()
	}

	resume, err := database.GetDefaultResume()
	if err != nil {
		return "", err
	}
	if resume == nil {
		return "", app.ErrNoResume
	}
	a.Logger.Debug("using default resume", zap.Int("id", resume.ID), zap.String("name", resume.Name))
	return resume.ContentText, nil
}

func selectResume() (string, error) {
	resumes, err := database.GetAllResumes()
	if err != nil {
		return "", err
	}
	if len(resumes) == 0 {
		return "", app.ErrNoResume
	}

	items := make([]string, len(resumes))
	for i, r := range resumes {
		items[i] = resumeLabel(r)
	}

	prompt := promptui.Select{
		Label: "Choose a resume and press ENTER",
		Items: items,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return resumes[idx].ContentText, nil
}

func resumeLabel(r *models.Resume) string {
	label := fmt.Sprintf("%d %s", r.ID, r.Name)
	if r.IsDefault {
		label += " [DEFAULT]"
	}
	return label
}

// resolveJobDescription reads the job description from text, a file, a URL
// or an interactive prompt
func resolveJobDescription(cmd *cobra.Command, a *app.App) (string, error) {
	text, _ := cmd.Flags().GetString("jd")
	path, _ := cmd.Flags().GetString("jd-file")
	url, _ := cmd.Flags().GetString("jd-url")
	interactive, _ := cmd.Flags().GetBool("interactive")

	switch {
	case text != "":
		return text, nil
	case path != "":
		return document.ReadFile(path)
	case url != "":
		return fetchJobDescription(cmd, a, url)
	case interactive:
		prompt := promptui.Prompt{
			Label: "Job description file or URL",
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("required")
				}
				return nil
			},
		}
		source, err := prompt.Run()
		if err != nil {
			return "", err
		}
		source = strings.TrimSpace(source)
		if scraper.ValidateURL(source) == nil {
			return fetchJobDescription(cmd, a, source)
		}
		return document.ReadFile(source)
	}
	return "", app.ErrNoJD
}

func fetchJobDescription(cmd *cobra.Command, a *app.App, url string) (string, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "⏳ Fetching %s...\n", url)
	return a.Fetcher().FetchJobDescription(cmd.Context(), url)
}

// formatScore renders a score the way the report shows it: one decimal and
// a percent sign
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64) + "%"
}

func renderReport(w io.Writer, r *analysis.Report) {
	if r.Result.Label == models.LabelCriticalMismatch {
		fmt.Fprintln(w, errorStyle.Render("🚨 Critical Domain Mismatch!"))
	}

	fmt.Fprintln(w, titleStyle.Render("Refined Match Score"))
	fmt.Fprintln(w, scoreStyle.Render(formatScore(r.Result.AdjustedScore)))

	if r.Result.Label == models.LabelStrongMatch {
		fmt.Fprintln(w, successStyle.Render("✅ Strong Candidate Match!"))
	} else {
		fmt.Fprintln(w, warningStyle.Render("⚖️ Partial or Weak Match."))
	}

	fmt.Fprintln(w, titleStyle.Render("Detailed Comparison"))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Resume Categories:"), valueStyle.Render(joinCategories(r.ResumeCategories)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("JD Categories:"), valueStyle.Render(joinCategories(r.JDCategories)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Shared:"), valueStyle.Render(joinCategories(r.Result.Overlap)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Classifier Probability:"), valueStyle.Render(strconv.FormatFloat(r.Result.RawProbability, 'f', 3, 64)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Taxonomy:"), valueStyle.Render(r.TaxonomyRef))
}

func joinCategories(cats models.CategorySet) string {
	if len(cats) == 0 {
		return "none"
	}
	return strings.Join(cats, ", ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
