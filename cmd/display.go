package cmd

import (
	"fmt"
	"strings"

	"tweet-to-toot/internal/render"

	"github.com/spf13/cobra"
)

var displayFormat string

var displayCmd = &cobra.Command{
	Use:   "display <archive_dir>",
	Short: "Print the curated posts without publishing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := signalContext()
		defer cancel()

		posts, err := curatePosts(ctx, cfg, args[0])
		if err != nil {
			return err
		}
		return render.Render(cmd.OutOrStdout(), posts, displayFormat)
	},
}

func init() {
	addCurationFlags(displayCmd)
	displayCmd.Flags().StringVar(&displayFormat, "format", "text", fmt.Sprintf("output format (%s)", strings.Join(render.Formats, "|")))
	rootCmd.AddCommand(displayCmd)
}
