package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file <file-id>",
	Short: "Show one file's detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runFileCmd,
}

func init() {
	rootCmd.AddCommand(fileCmd)
}

func runFileCmd(cmd *cobra.Command, args []string) error {
	fileID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid file id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newAPIClient(cfg)

	detail, err := client.File(cmd.Context(), fileID)
	if err != nil {
		return fmt.Errorf("failed to fetch file: %w", err)
	}
	if jsonOutput {
		printJSON(detail)
		return nil
	}

	fmt.Printf("%s  %s\n", text.Bold.Sprint(detail.SourceFilename), statusBadge(statusOf(detail.Status)))
	fmt.Println("  Source:", detail.SourcePath)
	if detail.ParsedTitle != nil {
		line := "  Parsed: " + *detail.ParsedTitle
		if detail.ParsedYear != nil {
			line += fmt.Sprintf(" (%d)", *detail.ParsedYear)
		}
		if detail.ParsedSeason != nil && detail.ParsedEpisode != nil {
			line += fmt.Sprintf(" S%02dE%02d", *detail.ParsedSeason, *detail.ParsedEpisode)
		}
		fmt.Println(line)
	}
	if detail.TMDBTitle != nil {
		line := "  Match:  " + *detail.TMDBTitle
		if detail.TMDBYear != nil {
			line += fmt.Sprintf(" (%d)", *detail.TMDBYear)
		}
		if detail.TMDBID != nil {
			line += fmt.Sprintf("  [tmdb:%d]", *detail.TMDBID)
		}
		fmt.Println(line)
	}
	if detail.DestinationPath != nil {
		fmt.Println("  Linked:", *detail.DestinationPath)
	}
	if detail.ErrorMessage != nil && *detail.ErrorMessage != "" {
		fmt.Println("  Error: ", text.FgRed.Sprint(*detail.ErrorMessage))
	}
	return nil
}
