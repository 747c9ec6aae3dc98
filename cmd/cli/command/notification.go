package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"talehub/cmd/cli/authentication"
	"talehub/cmd/cli/command/client"
	"talehub/cmd/cli/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List your notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		httpClient, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}

		list, err := httpClient.Notifications(page, 0)
		if err != nil {
			return fmt.Errorf("failed to fetch notifications: %w", err)
		}
		if len(list.Data) == 0 {
			fmt.Println("🔔 Nothing new")
			return nil
		}
		for _, n := range list.Data {
			printNotification(n)
		}
		p := list.Pagination
		fmt.Printf("\npage %d/%d, %d notifications\n", p.CurrentPage, p.TotalPages, p.TotalCount)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream new stories and your notifications until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Println("🔌 Connected, press Ctrl+C to stop")
		return client.Watch(ctx, apiURL, creds.AccessToken, printEvent)
	},
}

func printNotification(n dto.Notification) {
	marker := " "
	if !n.Read {
		marker = color.YellowString("●")
	}
	sender := ""
	if n.Sender != nil {
		sender = n.Sender.Username + " "
	}
	fmt.Printf("%s %s%s", marker, sender, n.Message)
	color.HiBlack("  %s", n.CreatedAt.Format("2006-01-02 15:04"))
}

func printEvent(ev dto.Event) {
	switch ev.Event {
	case "newStory":
		color.Cyan("📖 New story: %v", ev.Field("title"))
	case "newnotification":
		color.Yellow("🔔 %v", ev.Field("message"))
	case "error":
		color.Red("server rejected a frame: %v", ev.Data)
	}
}

func init() {
	notificationsCmd.Flags().Int("page", 1, "page number")
	rootCmd.AddCommand(notificationsCmd, watchCmd)
}
