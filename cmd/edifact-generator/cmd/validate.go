package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/edifact-generator/internal/config"
	"github.com/rezonia/edifact-generator/internal/loader"
	"github.com/rezonia/edifact-generator/internal/model"
	"github.com/rezonia/edifact-generator/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice record files",
	Long: `Validate one or more invoice record files without encoding them.

Checks performed:
  - Schema: required fields present, length bounds respected
  - Business rules: supported charset and currency, strict date parsing,
    due date ordering, positive quantities, unique item ids

Examples:
  edifact-generator validate invoice.json
  edifact-generator validate records/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no record files found")
	}

	cfg := config.Default()
	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := validateFile(cfg, file)
		results = append(results, result)

		if !result.Valid {
			allValid = false
		}
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s: VALID\n", r.File)
			} else {
				fmt.Printf("✗ %s: INVALID [%s] %s\n", r.File, r.Code, r.Error)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

func validateFile(cfg config.Config, file string) *ValidationResult {
	result := &ValidationResult{
		File:  file,
		Valid: true,
	}

	rec, err := loader.LoadFile(file)
	if err != nil {
		result.Valid = false
		result.Error = err.Error()
		return result
	}

	err = validator.Schema(rec)
	if err == nil {
		err = validator.BusinessRules(rec, cfg)
	}
	if err != nil {
		result.Valid = false
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			result.Code = ve.Code
			result.Error = ve.Message
			result.Details = ve.Details
		} else {
			result.Error = err.Error()
		}
	}
	return result
}

// ValidationResult holds the result of validating a single record file
type ValidationResult struct {
	File    string         `json:"file"`
	Valid   bool           `json:"valid"`
	Code    string         `json:"code,omitempty"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}
