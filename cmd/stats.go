package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khrees2412/jobmatch/internal/database"
	"github.com/khrees2412/jobmatch/internal/matcher"
	"github.com/khrees2412/jobmatch/pkg/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show which skill categories your stored resumes cover",
	Long: `Runs category detection over every stored resume with the active taxonomy.
A resume with no detected category is always scored as a critical mismatch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp(cmd)
		if err := a.OpenDatabase(); err != nil {
			return err
		}
		tax, err := a.Taxonomy()
		if err != nil {
			return err
		}

		resumes, err := database.GetAllResumes()
		if err != nil {
			return fmt.Errorf("fetching resumes: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(resumes) == 0 {
			fmt.Fprintln(out, "No resumes yet. Add one with 'jobmatch resume add <file>'")
			return nil
		}

		stats, err := calculateStats(matcher.NewExtractor(tax), resumes)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, titleStyle.Render("Resume Coverage ("+tax.Ref()+")"))

		fmt.Fprintf(out, "\n%s\n", labelStyle.Render("Overview"))
		fmt.Fprintf(out, "  Resumes: %d\n", stats.Total)
		fmt.Fprintf(out, "  Categories covered: %d of %d\n", len(stats.Breakdown), tax.Len())
		if len(stats.Uncategorized) > 0 {
			fmt.Fprintf(out, "  %s %s\n", warningStyle.Render("No category detected:"), strings.Join(stats.Uncategorized, ", "))
		}

		fmt.Fprintf(out, "\n%s\n", labelStyle.Render("Category Breakdown"))
		for _, code := range tax.Codes() {
			count := stats.Breakdown[code]
			if count == 0 {
				continue
			}
			percentage := float64(count) / float64(stats.Total) * 100
			fmt.Fprintf(out, "  %-5s %s %d (%.1f%%)\n", code, strings.Repeat("█", count), count, percentage)
		}
		return nil
	},
}

type Stats struct {
	Total         int
	Breakdown     map[string]int
	Uncategorized []string
}

func calculateStats(ext *matcher.Extractor, resumes []*models.Resume) (Stats, error) {
	stats := Stats{
		Total:     len(resumes),
		Breakdown: make(map[string]int),
	}

	for _, r := range resumes {
		_, cats, err := ext.ExtractFeatures(r.ContentText, models.SideResume)
		if err != nil {
			return Stats{}, err
		}
		if len(cats) == 0 {
			stats.Uncategorized = append(stats.Uncategorized, r.Name)
		}
		for _, code := range cats {
			stats.Breakdown[code]++
		}
	}
	return stats, nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
