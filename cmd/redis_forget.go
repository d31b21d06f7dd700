package cmd

import (
	"context"
	"fmt"
	"time"

	"tweet-to-toot/internal/redisclient"
	"tweet-to-toot/internal/storage"

	"github.com/spf13/cobra"
)

// forgetLinksCmd clears the resolved-link cache.
var forgetLinksCmd = &cobra.Command{
	Use:   "forget-links",
	Short: "Delete every cached link resolution",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := storage.NewRedisStore(rdb).ForgetResolvedLinks(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached links\n", n)
		return nil
	},
}

func init() {
	redisCmd.AddCommand(forgetLinksCmd)
}
