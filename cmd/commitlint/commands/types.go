package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/JNZader/commitlint/internal/prompt"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List commit types from the prompt metadata",
	Long: `List the commit types configured under "prompt.questions.type.enum",
in order, with their emoji and description. Without a config file the
built-in table is shown.`,
	Args: cobra.NoArgs,
	RunE: runTypes,
}

var typesNoEmoji bool

func init() {
	rootCmd.AddCommand(typesCmd)

	typesCmd.Flags().BoolVar(&typesNoEmoji, "no-emoji", false, "hide the emoji column")
}

func runTypes(cmd *cobra.Command, args []string) error {
	meta, err := prompt.Load(appConfig.File())
	if err != nil {
		return failure(fmt.Errorf("failed to load prompt metadata: %w", err))
	}

	bold := color.New(color.Bold)
	if !appConfig.Output.Color {
		bold.DisableColor()
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, name := range meta.Types() {
		_, opt, _ := meta.Type(name)
		if typesNoEmoji {
			fmt.Fprintf(tw, "%s\t%s\n", bold.Sprint(name), opt.Description)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", prompt.Emojize(opt.Emoji), bold.Sprint(name), opt.Description)
	}
	return tw.Flush()
}
