package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"tweet-to-toot/internal/ai"
	"tweet-to-toot/internal/config"
	"tweet-to-toot/internal/mastodon"
	"tweet-to-toot/internal/mediaprep"
	"tweet-to-toot/internal/publisher"
	"tweet-to-toot/worker"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <archive_dir>",
	Short: "Republish the curated posts on Mastodon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := checkMastodonConfig(cfg.Mastodon); err != nil {
			return err
		}
		if _, err := mastodon.ParseVisibility(cfg.Upload.Privacy); err != nil {
			return err
		}
		d, err := cfg.ParseDurations()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		posts, err := curatePosts(ctx, cfg, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		gov := publisher.NewGovernor(publisher.GovernorOptions{
			BatchSize:  cfg.Rate.BatchSize,
			Cooldown:   d.Cooldown,
			OnLimit:    func() { fmt.Fprintln(out, "Paused - rate limit reached") },
			OnProgress: countdown(out),
		})
		client := mastodon.New(cfg.Mastodon.Instance, d.MastodonTimeout, mastodon.WithRateLimitHook(gov.Observe))

		opts := []publisher.Option{publisher.WithPostDelay(d.PostDelay)}
		if cfg.Media.MaxImageBytes > 0 {
			opts = append(opts, publisher.WithPreparer(&mediaprep.Shrinker{
				MaxBytes:     cfg.Media.MaxImageBytes,
				Quality:      cfg.Media.WebPQuality,
				MaxDimension: cfg.Media.MaxDimension,
			}))
		}
		if cfg.Media.Describe {
			desc, err := ai.NewOpenAI(ai.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL})
			if err != nil {
				return err
			}
			opts = append(opts, publisher.WithDescriber(desc, cfg.Media.Language))
		}

		pub := publisher.New(publisher.MastodonService{Client: client}, publisher.Credentials{
			AppName:  cfg.Mastodon.AppName,
			Email:    cfg.Mastodon.Email,
			Password: cfg.Mastodon.Password,
		}, gov, opts...)

		up := &worker.Uploader{
			Publisher: pub,
			Pacer:     gov,
			Privacy:   cfg.Upload.Privacy,
			DateStamp: publisher.DateStamp{Enabled: cfg.Upload.DateStamp, Layout: cfg.Upload.DateStampLayout},
			Instance:  client.BaseURL(),
		}
		rep, runErr := up.Run(ctx, posts)
		fmt.Fprintf(out, "Done uploading: %d published, %d omitted, %d skipped, %d failed\n", rep.Published, rep.Omitted, len(rep.Skipped), len(rep.Failed))
		for _, idx := range rep.Skipped {
			fmt.Fprintf(out, "  index %d: skipped, rate budget exhausted\n", idx)
		}
		for _, f := range rep.Failed {
			fmt.Fprintf(out, "  index %d: %v\n", f.Index, f.Err)
		}
		if runErr != nil {
			if errors.Is(runErr, ctx.Err()) {
				slog.Warn("upload: interrupted", "published", rep.Published)
			}
			return runErr
		}
		if n := len(rep.Failed) + len(rep.Skipped); n > 0 {
			return fmt.Errorf("%d posts not published", n)
		}
		return nil
	},
}

func checkMastodonConfig(m config.MastodonConfig) error {
	var missing []string
	if strings.TrimSpace(m.Instance) == "" {
		missing = append(missing, "instance")
	}
	if strings.TrimSpace(m.Email) == "" {
		missing = append(missing, "email")
	}
	if m.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("mastodon config missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// countdown rewrites a single hh:mm:ss line while the cool-down runs.
func countdown(w io.Writer) func(time.Duration) {
	return func(left time.Duration) {
		fmt.Fprintf(w, "\rRestarting in %s", clock(left))
		if left <= 0 {
			fmt.Fprintln(w)
		}
	}
}

func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}

func init() {
	addCurationFlags(uploadCmd)
	f := uploadCmd.Flags()
	f.StringP("privacy", "p", "public", "status visibility (public|unlisted|private|direct)")
	f.BoolP("date-stamp", "d", false, "append the original post date to each status")
	f.String("app", "", "application name registered on the instance")
	f.String("instance", "", "Mastodon instance, e.g. mastodon.social")
	f.String("email", "", "account email")
	f.String("password", "", "account password")
	bindFlag(uploadCmd, "privacy", "upload.privacy")
	bindFlag(uploadCmd, "date-stamp", "upload.date_stamp")
	bindFlag(uploadCmd, "app", "mastodon.app_name")
	bindFlag(uploadCmd, "instance", "mastodon.instance")
	bindFlag(uploadCmd, "email", "mastodon.email")
	bindFlag(uploadCmd, "password", "mastodon.password")
	rootCmd.AddCommand(uploadCmd)
}
