package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/edifact-generator/internal/config"
	"github.com/rezonia/edifact-generator/internal/edifact"
	"github.com/rezonia/edifact-generator/internal/loader"
	"github.com/rezonia/edifact-generator/internal/model"
	"github.com/rezonia/edifact-generator/internal/output"
)

var (
	outputFile  string
	outputDir   string
	useCRLF     bool
	messageRef  string
	senderID    string
	receiverID  string
	printStdout bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [files...]",
	Short: "Generate EDIFACT interchanges from record files",
	Long: `Generate one EDIFACT INVOIC interchange per record file.

Record files may be JSON or YAML; the format is detected from the content.
Each record is validated (schema, then business rules) before encoding.
By default the interchange is written to invoice_<invoice_number>.edi in
the current directory.

Examples:
  edifact-generator generate invoice.json
  edifact-generator generate invoice.yaml --crlf
  edifact-generator generate records/ --out-dir interchanges/
  edifact-generator generate invoice.json -o custom-name.edi
  edifact-generator generate invoice.json --stdout`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output filename (single input only; default: invoice_<number>.edi)")
	generateCmd.Flags().StringVar(&outputDir, "out-dir", "", "Directory to write interchanges into")
	generateCmd.Flags().BoolVar(&useCRLF, "crlf", false, "Join segments with CRLF instead of LF")
	generateCmd.Flags().StringVar(&messageRef, "message-ref", "", "Explicit message reference (max 14 chars; env: EDIFACT_MESSAGE_REF)")
	generateCmd.Flags().StringVar(&senderID, "sender", "", "Interchange sender id (env: EDIFACT_SENDER_ID)")
	generateCmd.Flags().StringVar(&receiverID, "receiver", "", "Interchange receiver id (env: EDIFACT_RECEIVER_ID)")
	generateCmd.Flags().BoolVar(&printStdout, "stdout", false, "Print interchange text instead of writing a file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no record files found")
	}
	if outputFile != "" && len(files) > 1 {
		return fmt.Errorf("--output is only valid with a single record file")
	}

	if messageRef == "" {
		messageRef = os.Getenv("EDIFACT_MESSAGE_REF")
	}
	if senderID == "" {
		senderID = os.Getenv("EDIFACT_SENDER_ID")
	}
	if receiverID == "" {
		receiverID = os.Getenv("EDIFACT_RECEIVER_ID")
	}

	cfg := config.Default()
	writer := output.NewWriter(logger)

	for _, file := range files {
		logger.Debug().Str("file", file).Msg("encoding record")

		rec, err := loader.LoadFile(file)
		if err != nil {
			return err
		}
		if senderID != "" {
			rec.SenderID = senderID
		}
		if receiverID != "" {
			rec.ReceiverID = receiverID
		}

		var opts []edifact.Option
		if useCRLF {
			opts = append(opts, edifact.WithLineEnding("\r\n"))
		}
		if messageRef != "" {
			opts = append(opts, edifact.WithMessageRef(messageRef))
		}

		gen := edifact.New(rec, cfg, opts...)
		text, err := gen.Encode()
		if err != nil {
			logEncodeError(file, err)
			return fmt.Errorf("%s: %w", file, err)
		}

		if printStdout {
			fmt.Println(text)
			continue
		}

		name := outputFile
		dir := outputDir
		if name == "" {
			name = output.DefaultFilename(rec.InvoiceNumber)
		} else if d := filepath.Dir(name); d != "." {
			// A path given via -o is split so the writer only ever sees a
			// bare filename.
			dir = filepath.Join(dir, d)
			name = filepath.Base(name)
		}
		if err := writer.Save(dir, name, text); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		logger.Info().
			Str("file", file).
			Str("output", filepath.Join(dir, name)).
			Str("message_ref", gen.MessageRef()).
			Msg("interchange written")
	}
	return nil
}

func logEncodeError(file string, err error) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		logger.Error().
			Str("file", file).
			Str("code", ve.Code).
			Interface("details", ve.Details).
			Msg("record failed validation")
		return
	}
	var ge *model.GenerationError
	if errors.As(err, &ge) {
		logger.Error().
			Str("file", file).
			Str("code", ge.Code).
			Interface("details", ge.Details).
			Msg("encoding failed")
		return
	}
	logger.Error().Str("file", file).Err(err).Msg("encoding failed")
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}

			if info.IsDir() {
				err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if !info.IsDir() && isRecordFile(path) {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
			} else {
				files = append(files, arg)
			}
		} else {
			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil {
					continue
				}
				if !info.IsDir() && isRecordFile(match) {
					files = append(files, match)
				}
			}
		}
	}

	return files, nil
}

func isRecordFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
