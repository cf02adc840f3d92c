package scaffold

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/grekz/tally/internal/config"
	"github.com/grekz/tally/internal/menu"
)

//go:embed templates/*
var templatesFS embed.FS

// Files written by Initialize, relative to the target directory.
const (
	ConfigFile = "tally.yml"
	MenuFile   = "menu.yml"
)

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// Initialize writes tally.yml and menu.yml into dir.
// If force is true, existing files are overwritten.
func Initialize(dir string, force bool, log io.Writer) error {
	if !force {
		if err := CheckExisting(dir); err != nil {
			return err
		}
	}

	files, err := getTemplateFiles()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	for _, file := range files {
		path := filepath.Join(dir, file.Path)
		if force {
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(log, "⚠️  Overwriting existing %s...\n", file.Path)
			}
		}
		if err := os.WriteFile(path, file.Content, file.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}

	return validateCreatedFiles(dir)
}

// getTemplateFiles reads all embedded templates
func getTemplateFiles() ([]FileInfo, error) {
	files := []FileInfo{}

	for _, name := range []string{ConfigFile, MenuFile} {
		content, err := templatesFS.ReadFile("templates/" + name + ".tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s template: %w", name, err)
		}
		files = append(files, FileInfo{
			Path:        name,
			Content:     content,
			Permissions: 0644,
		})
	}

	return files, nil
}

// validateCreatedFiles loads the written files through the same code paths
// the CLI uses, so a broken template fails here rather than at serve time.
func validateCreatedFiles(dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if err != nil {
		return fmt.Errorf("failed to read created %s: %w", ConfigFile, err)
	}
	if _, err := config.Parse(data, nil); err != nil {
		return fmt.Errorf("created %s is invalid: %w", ConfigFile, err)
	}

	if _, err := menu.Load(filepath.Join(dir, MenuFile)); err != nil {
		return fmt.Errorf("created %s is invalid: %w", MenuFile, err)
	}

	return nil
}

// PrintSuccess prints the success message with created files
func PrintSuccess(w io.Writer) {
	fmt.Fprintln(w, "\n✅ Successfully initialized tally project!")
	fmt.Fprintln(w, "\nCreated:")
	fmt.Fprintf(w, "  ✓ %s\n", ConfigFile)
	fmt.Fprintf(w, "  ✓ %s\n", MenuFile)
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintln(w, "  1. Point store.redis_url at your Redis, or set store.backend: sqlite")
	fmt.Fprintln(w, "  2. Run 'tally serve' to start the sheet service")
	fmt.Fprintln(w, "  3. Run 'tally rows' to list what has been submitted")
}
