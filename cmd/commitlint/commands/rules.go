package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JNZader/commitlint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the effective rule set",
	Long: `Print the rules that lint would apply, after resolving "extends" and
merging overrides, in evaluation order.

Examples:
  # Effective rules as YAML
  commitlint rules

  # Only enabled rules, as JSON
  commitlint rules --enabled --json

  # Rules that inspect the body
  commitlint rules --field body

  # Every rule commitlint knows
  commitlint rules --available

  # Built-in presets
  commitlint rules --presets`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

var (
	rulesJSON      bool
	rulesEnabled   bool
	rulesAvailable bool
	rulesPresets   bool
	rulesField     string
)

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "output as JSON")
	rulesCmd.Flags().BoolVar(&rulesEnabled, "enabled", false, "hide disabled rules")
	rulesCmd.Flags().BoolVar(&rulesAvailable, "available", false, "list every built-in rule")
	rulesCmd.Flags().BoolVar(&rulesPresets, "presets", false, "list built-in presets")
	rulesCmd.Flags().StringVar(&rulesField, "field", "", "only rules inspecting this field (header, type, scope, subject, body, footer, references)")
}

func runRules(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	switch {
	case rulesPresets:
		for _, name := range rules.Presets() {
			fmt.Fprintln(w, name)
		}
		return nil
	case rulesAvailable:
		return writeDefinitions(w)
	}

	rs, err := appConfig.RuleSet(cmd.Context())
	if err != nil {
		return failure(err)
	}
	if rulesEnabled {
		if rs, err = rules.NewRuleSet(rules.Enabled(rs)...); err != nil {
			return failure(err)
		}
	}
	if rulesField != "" {
		selected := rules.ByField(rs, rules.Field(strings.ToLower(rulesField)))
		if len(selected) == 0 {
			return failure(fmt.Errorf("--field %s: no rules inspect this field", rulesField))
		}
		if rs, err = rules.NewRuleSet(selected...); err != nil {
			return failure(err)
		}
	}

	if rulesJSON {
		data, err := json.MarshalIndent(rs, "", "  ")
		if err != nil {
			return failure(fmt.Errorf("failed to marshal rules: %w", err))
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rs); err != nil {
		return failure(fmt.Errorf("failed to marshal rules: %w", err))
	}
	return failure(enc.Close())
}

func writeDefinitions(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tFIELD\tDEFAULT WHEN\tDESCRIPTION")
	for _, d := range rules.Definitions() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, d.Field, d.Condition, d.Description)
	}
	return tw.Flush()
}
