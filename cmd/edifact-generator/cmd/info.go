package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/edifact-generator/internal/config"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the effective encoding configuration",
	Long: `Print the configuration used for encoding: supported charsets,
currencies and date formats, length bounds, service characters, and the
decimal precision.`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]any{
			"charsets":          cfg.Charsets,
			"currencies":        cfg.Currencies,
			"date_formats":      cfg.DateFormats,
			"max_party_id_len":  cfg.MaxPartyIDLen,
			"max_name_len":      cfg.MaxNameLen,
			"max_item_id_len":   cfg.MaxItemIDLen,
			"max_free_text_len": cfg.MaxFreeTextLen,
			"max_segment_len":   cfg.MaxSegmentLen,
			"decimal_precision": cfg.DecimalPrecision,
			"delimiters": map[string]string{
				"segment_terminator":  string(cfg.Delimiters.SegmentTerminator),
				"element_separator":   string(cfg.Delimiters.ElementSeparator),
				"component_separator": string(cfg.Delimiters.ComponentSeparator),
				"decimal_mark":        string(cfg.Delimiters.DecimalMark),
				"release_char":        string(cfg.Delimiters.ReleaseChar),
				"repetition":          string(cfg.Delimiters.RepetitionSeparator),
			},
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Charsets\t%s\n", strings.Join(cfg.Charsets, ", "))
	fmt.Fprintf(w, "Currencies\t%s\n", strings.Join(cfg.Currencies, ", "))
	fmt.Fprintf(w, "Date formats\t%s\n", strings.Join(cfg.DateFormats, ", "))
	fmt.Fprintf(w, "Max party id length\t%d\n", cfg.MaxPartyIDLen)
	fmt.Fprintf(w, "Max name length\t%d\n", cfg.MaxNameLen)
	fmt.Fprintf(w, "Max item id length\t%d\n", cfg.MaxItemIDLen)
	fmt.Fprintf(w, "Max free text length\t%d\n", cfg.MaxFreeTextLen)
	fmt.Fprintf(w, "Max segment length\t%d\n", cfg.MaxSegmentLen)
	fmt.Fprintf(w, "Decimal precision\t%d\n", cfg.DecimalPrecision)
	fmt.Fprintf(w, "Segment terminator\t%c\n", cfg.Delimiters.SegmentTerminator)
	fmt.Fprintf(w, "Element separator\t%c\n", cfg.Delimiters.ElementSeparator)
	fmt.Fprintf(w, "Component separator\t%c\n", cfg.Delimiters.ComponentSeparator)
	fmt.Fprintf(w, "Release character\t%c\n", cfg.Delimiters.ReleaseChar)
	return w.Flush()
}
