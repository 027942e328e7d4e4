package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khrees2412/jobmatch/internal/config"
	"github.com/khrees2412/jobmatch/internal/database"
	"github.com/khrees2412/jobmatch/internal/document"
	"github.com/khrees2412/jobmatch/pkg/models"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage resumes",
	Long:  "Add, list, and manage the resumes used for matching",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return getApp(cmd).OpenDatabase()
	},
}

var addResumeCmd = &cobra.Command{
	Use:   "add <file-path>",
	Short: "Add a resume",
	Args:  cobra.ExactArgs(1),
	Example: `  jobmatch resume add ~/Documents/resume.pdf
  jobmatch resume add ./my-resume.pdf --name "Software Engineer Resume" --default`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]
		name, _ := cmd.Flags().GetString("name")
		setDefault, _ := cmd.Flags().GetBool("default")
		resumeDir := filepath.Join(filepath.Dir(config.GetConfigPath()), "resumes")
		resume, err := addResume(getApp(cmd).Logger, filePath, name, resumeDir, setDefault)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Resume added: %s (ID: %d, %d characters)\n", resume.Name, resume.ID, len([]rune(resume.ContentText)))
		if setDefault {
			fmt.Fprintln(out, "  Set as default resume")
		}
		return nil
	},
}

var listResumesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all resumes",
	RunE: func(cmd *cobra.Command, args []string) error {
		resumes, err := database.GetAllResumes()
		if err != nil {
			return fmt.Errorf("fetching resumes: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(resumes) == 0 {
			fmt.Fprintln(out, "No resumes found. Add a resume with 'jobmatch resume add <file>'")
			return nil
		}

		fmt.Fprintln(out, titleStyle.Render("Your Resumes"))
		for i, resume := range resumes {
			defaultMarker := ""
			if resume.IsDefault {
				defaultMarker = " [DEFAULT]"
			}
			fmt.Fprintf(out, "\n%d. %s%s\n", i+1, resume.Name, defaultMarker)
			fmt.Fprintf(out, "   %s %d\n", labelStyle.Render("ID:"), resume.ID)
			fmt.Fprintf(out, "   %s %s\n", labelStyle.Render("File:"), resume.FilePath)
			fmt.Fprintf(out, "   %s %d characters\n", labelStyle.Render("Text:"), len([]rune(resume.ContentText)))
			fmt.Fprintf(out, "   %s %s\n", labelStyle.Render("Added:"), resume.CreatedAt.Format("Jan 2, 2006"))
		}
		return nil
	},
}

var defaultResumeCmd = &cobra.Command{
	Use:   "default <id>",
	Short: "Mark a resume as the default for analyze",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid resume ID %q", args[0])
		}
		if err := database.SetDefaultResume(id); err != nil {
			return fmt.Errorf("resume %d: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Resume %d is now the default\n", id)
		return nil
	},
}

var removeResumeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a stored resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid resume ID %q", args[0])
		}
		resume, err := removeResume(getApp(cmd).Logger, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Resume removed: %s\n", resume.Name)
		return nil
	},
}

// addResume extracts the text of filePath, stores a private copy of the file
// in dir and records it
func addResume(log *zap.Logger, filePath, name, dir string, setDefault bool) (*models.Resume, error) {
	text, err := document.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("no text could be extracted from resume", zap.String("file", filePath))
	}

	destPath, err := copyFile(filePath, dir)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = filepath.Base(filePath)
	}

	resume := &models.Resume{
		Name:        name,
		FilePath:    destPath,
		ContentText: text,
		IsDefault:   setDefault,
	}
	if err := database.CreateResume(resume); err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("saving resume: %w", err)
	}
	return resume, nil
}

// removeResume deletes the record and its stored copy. The file the resume
// was added from is left alone.
func removeResume(log *zap.Logger, id int) (*models.Resume, error) {
	resume, err := database.GetResume(id)
	if err != nil {
		return nil, fmt.Errorf("resume %d: %w", id, err)
	}
	if err := database.DeleteResume(id); err != nil {
		return nil, err
	}
	if err := os.Remove(resume.FilePath); err != nil && !os.IsNotExist(err) {
		log.Warn("removing stored resume copy", zap.String("file", resume.FilePath), zap.Error(err))
	}
	return resume, nil
}

// copyFile copies src into dir under a new unique name and returns its path.
// Every stored resume owns its copy, even when file names collide.
func copyFile(src, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating resume directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp(dir, "*-"+filepath.Base(src))
	if err != nil {
		return "", fmt.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("copying file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("copying file: %w", err)
	}
	return out.Name(), nil
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(addResumeCmd)
	resumeCmd.AddCommand(listResumesCmd)
	resumeCmd.AddCommand(defaultResumeCmd)
	resumeCmd.AddCommand(removeResumeCmd)

	addResumeCmd.Flags().String("name", "", "Name for the resume")
	addResumeCmd.Flags().Bool("default", false, "Set as default resume")
}
