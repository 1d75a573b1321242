package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JNZader/commitlint/internal/commit"
	"github.com/JNZader/commitlint/internal/git"
	"github.com/JNZader/commitlint/internal/prompt"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Generate a changelog from commit history",
	Long: `Generate a Markdown changelog from the commits of a range.

Commits are grouped by type under the titles of the prompt type table
("Features", "Bug Fixes", ...), in table order. Breaking changes get their
own section; commits whose type is not in the table are listed under
"Other Changes". Merge commits are skipped.

Without --from the range starts at the latest tag reachable from HEAD.

Examples:
  # Changes since the last tag
  commitlint changelog

  # Changes between two versions
  commitlint changelog --from v1.0.0 --to v1.1.0 --version 1.1.0

  # Append the unreleased section to an existing file
  commitlint changelog --unreleased --output CHANGELOG.md --append`,
	Args: cobra.NoArgs,
	RunE: runChangelog,
}

var (
	changelogFrom       string
	changelogTo         string
	changelogUnreleased bool
	changelogOutput     string
	changelogAppend     bool
	changelogVersion    string
	changelogNoHeader   bool
	changelogNoDate     bool
	changelogNoLinks    bool
)

func init() {
	rootCmd.AddCommand(changelogCmd)

	// Range flags
	changelogCmd.Flags().StringVar(&changelogFrom, "from", "", "start reference, exclusive (default: latest tag)")
	changelogCmd.Flags().StringVar(&changelogTo, "to", "", "end reference (default: HEAD)")
	changelogCmd.Flags().BoolVar(&changelogUnreleased, "unreleased", false, `title the section "Unreleased"`)

	// Output flags
	changelogCmd.Flags().StringVarP(&changelogOutput, "output", "o", "", "write to a file instead of stdout")
	changelogCmd.Flags().BoolVar(&changelogAppend, "append", false, "append to the output file")
	changelogCmd.Flags().StringVar(&changelogVersion, "version", "", "version name for the section header")

	// Format flags
	changelogCmd.Flags().BoolVar(&changelogNoHeader, "no-header", false, "skip the version header")
	changelogCmd.Flags().BoolVar(&changelogNoDate, "no-date", false, "skip the date in the header")
	changelogCmd.Flags().BoolVar(&changelogNoLinks, "no-links", false, "skip commit hashes")
}

func runChangelog(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	repo, err := requireRepo("changelog")
	if err != nil {
		return failure(err)
	}

	from := changelogFrom
	if from == "" {
		if from, err = repo.LatestTag(ctx); err != nil {
			return failure(err)
		}
		if from != "" {
			log.Info("changes since %s", from)
		}
	}

	commits, err := repo.Commits(ctx, git.RangeOptions{From: from, To: changelogTo, NoMerges: true})
	if err != nil {
		return failure(fmt.Errorf("getting commits: %w", err))
	}
	if len(commits) == 0 {
		if !isQuiet() {
			fmt.Fprintln(cmd.ErrOrStderr(), "No commits found in the specified range")
		}
		return nil
	}
	log.Debug("found %d commits", len(commits))

	meta, err := prompt.Load(appConfig.File())
	if err != nil {
		return failure(fmt.Errorf("failed to load prompt metadata: %w", err))
	}

	version := changelogVersion
	if version == "" && changelogUnreleased {
		version = "Unreleased"
	}
	content := buildChangelog(commits, meta).render(changelogOptions{
		Version:  version,
		Date:     time.Now(),
		NoHeader: changelogNoHeader,
		NoDate:   changelogNoDate,
		NoLinks:  changelogNoLinks,
	})

	if changelogOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return failure(err)
	}
	if err := writeChangelog(changelogOutput, content, changelogAppend); err != nil {
		return failure(err)
	}
	if !isQuiet() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Changelog written to %s\n", changelogOutput)
	}
	return nil
}

type changelogOptions struct {
	Version  string
	Date     time.Time
	NoHeader bool
	NoDate   bool
	NoLinks  bool
}

type changelogEntry struct {
	Scope       string
	Description string
	ShortHash   string
}

type changelogSection struct {
	Title   string
	Entries []changelogEntry
}

type changelog struct {
	Breaking []changelogEntry
	Sections []changelogSection
}

// buildChangelog groups commits by their type in the prompt table. Commits
// arrive newest first and keep that order within a section, sorted by scope.
func buildChangelog(commits []git.Commit, meta *prompt.Metadata) *changelog {
	cl := &changelog{}
	byType := map[string][]changelogEntry{}
	var other []changelogEntry

	for _, c := range commits {
		msg, err := commit.Parse(c.Message)
		if err != nil {
			log.Debug("skipping %s: %v", c.ShortHash, err)
			continue
		}

		entry := changelogEntry{Scope: msg.Scope, Description: msg.Subject, ShortHash: c.ShortHash}
		if msg.IsBreaking {
			entry.Description = strings.Join(strings.Fields(msg.BreakingDescription), " ")
			cl.Breaking = append(cl.Breaking, entry)
			continue
		}

		name, _, ok := meta.Type(msg.Type)
		if !ok {
			entry.Scope, entry.Description = "", msg.Header
			other = append(other, entry)
			continue
		}
		byType[name] = append(byType[name], entry)
	}

	for _, name := range meta.Types() {
		entries := byType[name]
		if len(entries) == 0 {
			continue
		}
		_, opt, _ := meta.Type(name)
		title := opt.Title
		if title == "" {
			title = name
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Scope < entries[j].Scope
		})
		cl.Sections = append(cl.Sections, changelogSection{Title: title, Entries: entries})
	}
	if len(other) > 0 {
		cl.Sections = append(cl.Sections, changelogSection{Title: "Other Changes", Entries: other})
	}

	return cl
}

func (cl *changelog) render(opts changelogOptions) string {
	var sb strings.Builder

	if !opts.NoHeader {
		title := opts.Version
		if title == "" {
			title = "Changelog"
		}
		sb.WriteString("## " + title)
		if !opts.NoDate {
			sb.WriteString(" (" + opts.Date.Format("2006-01-02") + ")")
		}
		sb.WriteString("\n\n")
	}

	if len(cl.Breaking) > 0 {
		writeChangelogSection(&sb, "BREAKING CHANGES", cl.Breaking, opts.NoLinks)
	}
	for _, s := range cl.Sections {
		writeChangelogSection(&sb, s.Title, s.Entries, opts.NoLinks)
	}

	return sb.String()
}

func writeChangelogSection(sb *strings.Builder, title string, entries []changelogEntry, noLinks bool) {
	sb.WriteString("### " + title + "\n\n")
	for _, e := range entries {
		sb.WriteString("- ")
		if e.Scope != "" {
			sb.WriteString("**" + e.Scope + ":** ")
		}
		sb.WriteString(e.Description)
		if !noLinks {
			sb.WriteString(" (" + e.ShortHash + ")")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func writeChangelog(filename, content string, appendToFile bool) error {
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendToFile {
		flag = os.O_APPEND | os.O_CREATE | os.O_WRONLY
	}

	file, err := os.OpenFile(filename, flag, 0o644) //nolint:gosec // user-specified output file
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(content); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
