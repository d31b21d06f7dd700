package worker

import (
	"context"
	"errors"
	"log/slog"

	"tweet-to-toot/internal/model"
	"tweet-to-toot/internal/publisher"
)

// Poster publishes one status. *publisher.Publisher implements it.
type Poster interface {
	Publish(ctx context.Context, text string, media []string, privacy string) (bool, error)
}

// skipCounter is implemented by posters that may drop a post while still
// reporting success. *publisher.Publisher implements it.
type skipCounter interface {
	Skipped() int
}

// Pacer blocks while the remote budget recovers. *publisher.Governor implements it.
type Pacer interface {
	CheckAndWait(ctx context.Context) error
}

// Uploader republishes curated posts one at a time, in order.
type Uploader struct {
	Publisher Poster
	Pacer     Pacer
	Privacy   string
	DateStamp publisher.DateStamp
	Instance  string // for log lines only
}

// Failure records a post that could not be published.
type Failure struct {
	Index int
	Err   error
}

// Report summarizes a run.
type Report struct {
	Published int
	Omitted   int
	// Skipped holds indices of posts dropped because the rate budget was exhausted.
	Skipped []int
	Failed  []Failure
}

// Run publishes every non-omitted post. Upload and publish errors are recorded
// and the loop moves on; an authentication error or cancellation stops it.
// The budget is checked after every attempt, so the post that exhausts it is
// still tried before the cool-down.
func (u *Uploader) Run(ctx context.Context, posts []model.Post) (Report, error) {
	var rep Report
	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if p.Omit {
			rep.Omitted++
			slog.Info("uploader: omitted", "index", p.Index)
			continue
		}

		text := publisher.ComposeText(p, u.DateStamp)
		skippedBefore := u.skipped()
		_, err := u.Publisher.Publish(ctx, text, p.Media, u.Privacy)
		switch {
		case errors.Is(err, publisher.ErrAuth):
			return rep, err
		case err != nil:
			rep.Failed = append(rep.Failed, Failure{Index: p.Index, Err: err})
			slog.Error("uploader: post failed", "index", p.Index, "error", err)
		case u.skipped() > skippedBefore:
			rep.Skipped = append(rep.Skipped, p.Index)
			slog.Warn("uploader: skipped, rate budget exhausted", "index", p.Index)
		default:
			rep.Published++
			slog.Info("uploader: uploaded", "instance", u.Instance, "index", p.Index)
		}

		if u.Pacer != nil {
			if err := u.Pacer.CheckAndWait(ctx); err != nil {
				return rep, err
			}
		}
	}
	return rep, nil
}

func (u *Uploader) skipped() int {
	if sc, ok := u.Publisher.(skipCounter); ok {
		return sc.Skipped()
	}
	return 0
}
