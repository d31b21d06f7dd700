package cmd

import (
	"fmt"

	"tweet-to-toot/internal/archive"

	"github.com/spf13/cobra"
)

var debugParseCmd = &cobra.Command{
	Use:   "debug-parse <archive_dir>",
	Short: "Debug: read an archive and print what was kept and dropped",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		reader := archive.New(args[0],
			archive.WithTweetsFile(cfg.Archive.TweetsFile),
			archive.WithMediaDir(cfg.Archive.MediaDir),
		)
		_, st, err := reader.Read()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "entries: %d\n", st.Entries)
		fmt.Fprintf(out, "replies: %d\n", st.Replies)
		fmt.Fprintf(out, "retweets: %d\n", st.Retweets)
		fmt.Fprintf(out, "posts: %d\n", st.Posts)
		fmt.Fprintf(out, "media attached: %d, missing: %d\n", st.MediaAttached, st.MediaMissing)
		fmt.Fprintf(out, "urls rejected: %d\n", st.URLsRejected)
		if st.MediaDirMissing {
			fmt.Fprintln(out, "media dir: not found")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugParseCmd)
}
