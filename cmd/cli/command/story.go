package command

import (
	"fmt"
	"strings"

	"talehub/cmd/cli/command/client"
	"talehub/cmd/cli/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "List published stories",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts client.FeedOptions
		opts.Page, _ = cmd.Flags().GetInt("page")
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Category, _ = cmd.Flags().GetString("category")
		opts.Sort, _ = cmd.Flags().GetString("sort")

		list, err := client.NewHTTPClient(apiURL).ListStories(opts)
		if err != nil {
			return fmt.Errorf("failed to fetch feed: %w", err)
		}
		printStoryList(list)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stories by title, description, category or tag",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		list, err := client.NewHTTPClient(apiURL).SearchStories(strings.Join(args, " "), page, limit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if len(list.Data) == 0 {
			fmt.Printf("No stories match %q\n", list.SearchQuery)
			return nil
		}
		printStoryList(list)
		return nil
	},
}

var mustWatchCmd = &cobra.Command{
	Use:   "must-watch",
	Short: "Show the most engaging stories",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		list, err := client.NewHTTPClient(apiURL).MustWatch(limit)
		if err != nil {
			return fmt.Errorf("failed to fetch must-watch list: %w", err)
		}
		for i, s := range list.Data {
			color.New(color.Bold).Printf("%2d. %s", i+1, s.Title)
			color.HiBlack("  score %.0f", s.EngagementScore)
			fmt.Printf("    ♥ %d  👁 %d  💬 %d  %s\n", s.LikesCount, s.Reads, s.CommentsCount, authorName(s.Author))
		}
		return nil
	},
}

func authorName(a *dto.Author) string {
	if a == nil {
		return ""
	}
	return "by " + a.Username
}

func printStoryList(list *dto.StoryList) {
	for _, s := range list.Data {
		color.New(color.Bold, color.FgCyan).Printf("%s", s.Title)
		fmt.Printf("  [%s] %s\n", s.Category, authorName(s.Author))
		if s.Description != "" {
			fmt.Printf("    %s\n", s.Description)
		}
		color.HiBlack("    ♥ %d  👁 %d  id %s", s.LikesCount, s.Reads, s.ID)
	}
	p := list.Pagination
	fmt.Printf("\npage %d/%d, %d stories\n", p.CurrentPage, p.TotalPages, p.TotalStories)
}

func init() {
	feedCmd.Flags().Int("page", 1, "page number")
	feedCmd.Flags().Int("limit", 5, "stories per page")
	feedCmd.Flags().String("category", "", "only this category")
	feedCmd.Flags().String("sort", "recent", "recent, popular or trending")

	searchCmd.Flags().Int("page", 1, "page number")
	searchCmd.Flags().Int("limit", 5, "stories per page")

	mustWatchCmd.Flags().Int("limit", 10, "number of stories")

	rootCmd.AddCommand(feedCmd, searchCmd, mustWatchCmd)
}
