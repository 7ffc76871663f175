package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/vmunix/linkview/internal/api"
	"github.com/vmunix/linkview/internal/match"
)

var matchCmd = &cobra.Command{
	Use:   "match <file-id>",
	Short: "Manually match a file against the metadata provider",
	Long: `Manually match a file against the metadata provider.

Without --pick, searches and lists candidates ranked by similarity to the
file's parsed title. With --pick N, commits candidate N from that list;
for tv, --season and --episode default to 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatchCmd,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().String("query", "", "Search query (defaults to the parsed title)")
	matchCmd.Flags().String("type", "", "Media type to search (movie|tv)")
	matchCmd.Flags().Int("year", 0, "Release year hint")
	matchCmd.Flags().Int("pick", 0, "Commit candidate N (1-based) from the result list")
	matchCmd.Flags().Int("season", 0, "Season number for tv matches")
	matchCmd.Flags().Int("episode", 0, "Episode number for tv matches")
}

func runMatchCmd(cmd *cobra.Command, args []string) error {
	fileID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid file id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newAPIClient(cfg)
	ctx := cmd.Context()

	detail, err := client.File(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to fetch file: %w", err)
	}

	session := match.NewSession(client, *detail)
	defer session.Close()

	query, _ := cmd.Flags().GetString("query")
	if query == "" {
		if detail.ParsedTitle != nil && *detail.ParsedTitle != "" {
			query = *detail.ParsedTitle
		} else {
			query = detail.SourceFilename
		}
	}
	mediaType, _ := cmd.Flags().GetString("type")
	if mediaType == "" && detail.MediaType != "unknown" {
		mediaType = detail.MediaType
	}
	year, _ := cmd.Flags().GetInt("year")

	results, err := session.Search(ctx, query, mediaType, year)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Printf("No candidates for %q\n", query)
		return nil
	}

	pick, _ := cmd.Flags().GetInt("pick")
	if pick == 0 {
		if jsonOutput {
			printJSON(results)
			return nil
		}
		fmt.Printf("Candidates for %s (file #%d):\n\n", text.Bold.Sprint(query), fileID)
		printCandidates(results)
		fmt.Println("\nCommit with: linkview match", fileID, "--pick N [--season S --episode E]")
		return nil
	}

	if err := session.Select(pick - 1); err != nil {
		return err
	}
	season, _ := cmd.Flags().GetInt("season")
	episode, _ := cmd.Flags().GetInt("episode")

	updated, err := session.Commit(ctx, season, episode)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	if jsonOutput {
		printJSON(updated)
		return nil
	}
	title := ""
	if updated.TMDBTitle != nil {
		title = *updated.TMDBTitle
	}
	fmt.Printf("Matched #%d -> %s  %s\n", updated.ID, text.Bold.Sprint(title),
		statusBadge(statusOf(updated.Status)))
	if updated.DestinationPath != nil {
		fmt.Println("Linked at:", *updated.DestinationPath)
	}
	return nil
}

func printCandidates(results []api.SearchResult) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Year", "Type", "Overview"})
	for i, r := range results {
		year := ""
		if r.Year != nil {
			year = strconv.Itoa(*r.Year)
		}
		tw.AppendRow(table.Row{i + 1, r.Title, year, r.MediaType, truncate(r.Overview, 60)})
	}
	fmt.Println(tw.Render())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
