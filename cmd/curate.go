package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tweet-to-toot/internal/archive"
	"tweet-to-toot/internal/config"
	"tweet-to-toot/internal/curator"
	"tweet-to-toot/internal/linkresolve"
	"tweet-to-toot/internal/model"
	"tweet-to-toot/internal/redisclient"
	"tweet-to-toot/internal/storage"

	"github.com/spf13/cobra"
)

// curationFlags are shared by display and upload.
type curationFlags struct {
	start   int
	end     int
	omit    string
	resolve bool
}

var curation curationFlags

func addCurationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&curation.start, "start-index", "s", 0, "first post index to include")
	f.IntVarP(&curation.end, "end-index", "e", curator.LastIndex, "last post index to include (-1 for the final post)")
	f.StringVarP(&curation.omit, "omit-indices", "o", "", "comma separated post indices to skip, e.g. 1,3")
	f.BoolVarP(&curation.resolve, "resolve-links", "r", false, "expand shortened links and drop links back to the source network")
}

// curatePosts reads the archive at root and applies the curation flags.
func curatePosts(ctx context.Context, cfg config.Config, root string) ([]model.Post, error) {
	d, err := cfg.ParseDurations()
	if err != nil {
		return nil, err
	}
	reader := archive.New(root,
		archive.WithTweetsFile(cfg.Archive.TweetsFile),
		archive.WithMediaDir(cfg.Archive.MediaDir),
	)
	raw, st, err := reader.Read()
	if err != nil {
		return nil, err
	}
	slog.Info("archive: read", "posts", st.Posts, "replies", st.Replies, "retweets", st.Retweets, "media_missing", st.MediaMissing)

	var resolver linkresolve.Resolver
	if curation.resolve {
		resolver = linkresolve.New(d.LinkTimeout, cfg.Links.UserAgent)
		if cfg.Links.Cache {
			rdb := redisclient.New(cfg.Redis)
			defer rdb.Close()
			resolver = &linkresolve.CachedResolver{
				Next:  resolver,
				Cache: storage.NewRedisStore(rdb),
				TTL:   d.LinkCacheTTL,
			}
		}
	}

	c := curator.New(resolver, curator.Options{
		StartIndex:   curation.start,
		EndIndex:     curation.end,
		OmitIndices:  curation.omit,
		ResolveLinks: curation.resolve,
		SelfDomains:  cfg.Links.SelfDomains,
	})
	return c.Curate(ctx, raw)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigc)
		select {
		case s := <-sigc:
			slog.Info("shutdown signal received", "signal", s.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
