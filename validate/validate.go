// Command validate provides a small CLI that validates difficulty presets in the
// ../configs directory. JSON and YAML files are both checked for:
//   - Structure and required fields (name, description)
//   - Board dimensions within the supported range
//   - A mine count that leaves at least one safe cell
//   - Density warnings when the first reveal cannot open a full 3x3 hole
//   - Names shared by more than one preset
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

// openingCells is the size of the mine-free block around a first reveal in the middle of the board
const openingCells = 9

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found. Warnings never
// invalidate a preset.
type ValidationResult struct {
	File     string
	Name     string
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.DecodeGameConfig(data, filepath.Ext(filePath))
	if err != nil {
		result.fail("Invalid preset: %v", err)
		return result
	}
	result.Name = config.Name

	if strings.TrimSpace(config.Name) == "" {
		result.fail("name is required")
	}
	if strings.TrimSpace(config.Description) == "" {
		result.fail("description is required")
	}

	if err := engine.ValidateDimensions(config.Width, config.Height, config.Mines); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), engine.ErrInvalidConfig.Error()+": "))
	}

	if !result.Valid {
		return result
	}

	cells := config.Width * config.Height
	if config.Mines > cells-openingCells {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d mines on %d cells: the first reveal cannot always open a 3x3 hole", config.Mines, cells))
	}
	if config.Mines == 0 {
		result.Warnings = append(result.Warnings, "no mines: the first reveal wins immediately")
	}

	// Add informational data
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d", config.Width, config.Height))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Mines: %d (%.1f%% density)", config.Mines, engine.MineDensity(config.Width, config.Height, config.Mines)*100))
	if config.Seed != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Seeded: %d", *config.Seed))
	}

	return result
}

// findPresets lists every JSON and YAML file in dir, sorted by name
func findPresets(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, errors.New("no preset files found")
	}
	sort.Strings(files)
	return files, nil
}

// duplicateNames reports preset names used by more than one file, ignoring case
func duplicateNames(results []ValidationResult) map[string][]string {
	byName := make(map[string][]string)
	for _, r := range results {
		if r.Name == "" {
			continue
		}
		key := strings.ToLower(r.Name)
		byName[key] = append(byName[key], r.File)
	}
	for name, files := range byName {
		if len(files) < 2 {
			delete(byName, name)
		}
	}
	return byName
}

// main scans ../configs (or the directory given as the first argument), validates
// every preset, prints a concise report and exits non-zero if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := findPresets(configDir)
	if err != nil {
		fmt.Printf("Error finding config files in %s: %v\n", configDir, err)
		os.Exit(1)
	}

	allValid := true
	var results []ValidationResult
	for _, file := range files {
		result := validateConfig(file)
		results = append(results, result)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Println("  ⚠️  " + warning)
		}
	}

	for name, dupes := range duplicateNames(results) {
		allValid = false
		fmt.Printf("\n❌ Preset name %q is used by %s\n", name, strings.Join(dupes, ", "))
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
