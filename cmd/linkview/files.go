package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/linkview/internal/api"
	"github.com/vmunix/linkview/internal/render"
	"github.com/vmunix/linkview/internal/store"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Show the grouped media library",
	RunE:  runFilesCmd,
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.Flags().String("status", "", "Filter by status (pending|matched|manual|linked|failed|ignored)")
	filesCmd.Flags().String("type", "", "Filter by media type (movie|tv)")
	filesCmd.Flags().String("search", "", "Free-text search filter")
	filesCmd.Flags().Bool("collapsed", false, "Show group headers only")
}

func runFilesCmd(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newAPIClient(cfg)

	raw, err := client.GroupedFiles(cmd.Context(), filter, uint64(time.Now().UnixMilli()))
	if err != nil {
		return fmt.Errorf("failed to fetch files: %w", err)
	}

	if jsonOutput {
		printJSON(raw)
		return nil
	}

	groups, err := store.FromAPI(raw)
	if err != nil {
		return fmt.Errorf("bad server response: %w", err)
	}

	if len(groups) == 0 {
		fmt.Println("No files")
		return nil
	}

	st := store.New()
	st.SetTree(groups)
	collapsed, _ := cmd.Flags().GetBool("collapsed")
	if !collapsed {
		st.ExpandAllGroups()
	}

	fmt.Println(renderNodes(render.Tree(st.Tree(), st)))
	return nil
}

func filterFromFlags(cmd *cobra.Command) (api.GroupFilter, error) {
	status, _ := cmd.Flags().GetString("status")
	mediaType, _ := cmd.Flags().GetString("type")
	search, _ := cmd.Flags().GetString("search")

	if status != "" && !store.Status(status).Valid() {
		return api.GroupFilter{}, fmt.Errorf("unknown status %q", status)
	}
	if mediaType != "" && mediaType != "movie" && mediaType != "tv" {
		return api.GroupFilter{}, fmt.Errorf("unknown media type %q", mediaType)
	}

	return api.GroupFilter{Status: status, MediaType: mediaType, Search: search}, nil
}
