package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"pocheclient/lib/scrapers/wallabag/edit"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(articleCommand(
		"archive", "Toggles the archived flag of an article.",
		edit.Client.ToggleArchive,
	))
	rootCmd.AddCommand(articleCommand(
		"favorite", "Toggles the favorite flag of an article.",
		edit.Client.ToggleFavorite,
	))
	rootCmd.AddCommand(articleCommand(
		"delete", "Deletes an article.",
		edit.Client.DeleteArticle,
	))
}

var errNotAuthenticated = errors.New("server did not accept the session")

func report(name string, ok bool, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", name, errNotAuthenticated)
	}
	slog.Info("done", "action", name)
	return nil
}

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Saves a link.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coreClient, err := createClient(cmd.Context())
		if err != nil {
			return err
		}
		ok, err := edit.NewClient(coreClient).AddLink(cmd.Context(), args[0])
		return report("add", ok, err)
	},
}

type articleAction func(c edit.Client, ctx context.Context, articleId int) (bool, error)

func articleCommand(name, short string, action articleAction) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <article_id>", name),
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			articleId, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("article id must be a number: %w", err)
			}
			coreClient, err := createClient(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := action(edit.NewClient(coreClient), cmd.Context(), articleId)
			return report(name, ok, err)
		},
	}
}
