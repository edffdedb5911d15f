package tui

import (
	"context"
	"fmt"
	"io"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/config"
	"gitlab.com/tinyland/lab/appkit-mirror/pkg/mirror"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	Format string
	// Width truncates block lines. Zero disables truncation.
	Width  int
	Blocks []string
}

// Watch prints every block once. On each change notice it reprints every
// block whose rendered content differs from what it last printed, so a
// dropped notice is caught up by the next one. It returns nil when ctx is
// done or the change channel closes.
func Watch(ctx context.Context, src Feed, w io.Writer, opts WatchOptions) error {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	blocks := Blocks(opts.Blocks)
	if len(opts.Blocks) == 0 {
		blocks = Blocks(config.LayoutPreset("full"))
	}

	printed := make(map[string]string, len(blocks))
	flush := func(snap mirror.Snapshot) error {
		for _, b := range blocks {
			content := renderContent(b, snap, opts.Format, opts.Width)
			if prev, ok := printed[b.ID]; ok && prev == content {
				continue
			}
			printed[b.ID] = content
			if _, err := fmt.Fprintf(w, "%s\n%s\n\n", b.Label, content); err != nil {
				return fmt.Errorf("write %s block: %w", b.ID, err)
			}
		}
		return nil
	}

	if err := flush(src.Snapshot()); err != nil {
		return err
	}

	changes := src.Changes()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := flush(src.Snapshot()); err != nil {
				return err
			}
		}
	}
}
