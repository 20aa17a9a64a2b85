package commands

import (
	"context"
	"fmt"
	"time"

	"pocheclient/lib/scrapers/wallabag/feeds"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(credentialsCmd)
	rootCmd.AddCommand(feedCmd)
}

func findCredentials(ctx context.Context) (feeds.Client, feeds.Credentials, error) {
	coreClient, err := createClient(ctx)
	if err != nil {
		return feeds.Client{}, feeds.Credentials{}, err
	}
	client := feeds.NewClient(coreClient)
	creds, found, err := client.Credentials(ctx)
	if err != nil {
		return client, creds, fmt.Errorf("read feed credentials: %w", err)
	}
	if !found {
		return client, creds, fmt.Errorf("read feed credentials: no token on the config page")
	}
	return client, creds, nil
}

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Prints the feed user id and token, generating a token if there is none.",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, creds, err := findCredentials(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"User id", "Token", "Home feed"})
		t.AppendRow(table.Row{creds.UserID, creds.Token, feeds.URL(client.Core.BaseUrl, creds, feeds.Home)})
		t.Render()
		return nil
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed [home|fav|archive]",
	Short: "Lists the items of one of the personal feeds.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		feedType := feeds.Home
		if len(args) > 0 {
			parsed, ok := feeds.ParseType(args[0])
			if !ok {
				return fmt.Errorf("%q is not one of home, fav, archive", args[0])
			}
			feedType = parsed
		}

		client, creds, err := findCredentials(cmd.Context())
		if err != nil {
			return err
		}
		feed, err := client.Fetch(cmd.Context(), creds, feedType)
		if err != nil {
			return fmt.Errorf("fetch feed: %w", err)
		}

		t := newTable()
		t.SetTitle(feed.Title)
		t.AppendHeader(table.Row{"Published", "Title", "Link"})
		for _, item := range feed.Items {
			published := ""
			if !item.Published.IsZero() {
				published = item.Published.Local().Format(time.DateTime)
			}
			t.AppendRow(table.Row{published, item.Title, item.Link})
		}
		t.Render()
		return nil
	},
}
