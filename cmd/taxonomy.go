package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/khrees2412/jobmatch/internal/database"
	"github.com/khrees2412/jobmatch/internal/taxonomy"
	"github.com/khrees2412/jobmatch/pkg/models"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect and manage skill taxonomies",
	Long: `A taxonomy lists the skill categories and the keywords that detect them.
Its code order fixes the classifier's feature columns, so a model only works
with the taxonomy version it was trained on.`,
}

var showTaxonomyCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the categories and keywords of the active taxonomy",
	RunE: func(cmd *cobra.Command, args []string) error {
		tax, err := selectedTaxonomy(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Taxonomy "+tax.Ref()))
		for _, code := range tax.Codes() {
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-5s", code)), valueStyle.Render(strings.Join(tax.Keywords(code), ", ")))
		}
		return nil
	},
}

var validateTaxonomyCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a taxonomy document without importing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tax, err := taxonomy.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid: %s, %d categories, %d feature columns\n",
			args[0], tax.Ref(), tax.Len(), tax.Width())
		return nil
	},
}

var columnsTaxonomyCmd = &cobra.Command{
	Use:   "columns",
	Short: "Print the classifier feature columns in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		tax, err := selectedTaxonomy(cmd)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == outputJSON {
			return writeJSON(cmd.OutOrStdout(), tax.Columns())
		}
		for i, col := range tax.Columns() {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d %s\n", i, col)
		}
		return nil
	},
}

var importTaxonomyCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store a taxonomy version in the registry",
	Long: `Validates a taxonomy document and stores it under its name and version.
Stored versions are immutable; bump the version to change a taxonomy.
Select it with 'jobmatch config set --key taxonomy_ref --value name@version'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp(cmd)
		if err := a.OpenDatabase(); err != nil {
			return err
		}

		tax, err := taxonomy.Load(args[0])
		if err != nil {
			return err
		}
		doc, err := taxonomy.Encode(tax)
		if err != nil {
			return err
		}

		record := &models.TaxonomyRecord{Name: tax.Name(), Version: tax.Version(), Document: string(doc)}
		if err := database.SaveTaxonomy(record); err != nil {
			if errors.Is(err, database.ErrTaxonomyExists) {
				return fmt.Errorf("%s: %w", tax.Ref(), err)
			}
			return fmt.Errorf("saving taxonomy: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %s (%d categories)\n", tax.Ref(), tax.Len())
		return nil
	},
}

var listTaxonomiesCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported taxonomy versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp(cmd)
		if err := a.OpenDatabase(); err != nil {
			return err
		}

		records, err := database.ListTaxonomies()
		if err != nil {
			return fmt.Errorf("fetching taxonomies: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No taxonomies imported. The built-in default is in use.")
			return nil
		}

		fmt.Fprintln(out, titleStyle.Render("Imported Taxonomies"))
		for _, r := range records {
			ref := r.Name + "@" + r.Version
			marker := ""
			if ref == a.Config.TaxonomyRef {
				marker = " [ACTIVE]"
			}
			fmt.Fprintf(out, "%s%s  %s\n", ref, marker, valueStyle.Render(r.CreatedAt.Format("Jan 2, 2006")))
		}
		return nil
	},
}

var exportTaxonomyCmd = &cobra.Command{
	Use:   "export [name@version|default]",
	Short: "Write a taxonomy as YAML",
	Long:  "Exports the named taxonomy, or the active one when no argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := getApp(cmd)

		var (
			tax *taxonomy.Taxonomy
			err error
		)
		switch {
		case len(args) == 0:
			tax, err = a.Taxonomy()
		case args[0] == "default":
			tax = taxonomy.Default()
		default:
			var name, version string
			if name, version, err = app.ParseRef(args[0]); err != nil {
				return err
			}
			if err = a.OpenDatabase(); err != nil {
				return err
			}
			tax, err = app.LoadRegistered(name, version)
		}
		if err != nil {
			return err
		}

		doc, err := taxonomy.Encode(tax)
		if err != nil {
			return err
		}

		dest, _ := cmd.Flags().GetString("out")
		if dest == "" {
			_, err = cmd.OutOrStdout().Write(doc)
			return err
		}
		if err := os.WriteFile(dest, doc, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %s to %s\n", tax.Ref(), dest)
		return nil
	},
}

// selectedTaxonomy honours --file before the configured taxonomy
func selectedTaxonomy(cmd *cobra.Command) (*taxonomy.Taxonomy, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		return taxonomy.Load(path)
	}
	return getApp(cmd).Taxonomy()
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.AddCommand(showTaxonomyCmd)
	taxonomyCmd.AddCommand(validateTaxonomyCmd)
	taxonomyCmd.AddCommand(columnsTaxonomyCmd)
	taxonomyCmd.AddCommand(importTaxonomyCmd)
	taxonomyCmd.AddCommand(listTaxonomiesCmd)
	taxonomyCmd.AddCommand(exportTaxonomyCmd)

	showTaxonomyCmd.Flags().String("file", "", "taxonomy document to show instead of the configured one")
	columnsTaxonomyCmd.Flags().String("file", "", "taxonomy document to use instead of the configured one")
	columnsTaxonomyCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	exportTaxonomyCmd.Flags().String("out", "", "write to this file instead of stdout")
}
