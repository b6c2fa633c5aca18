package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/albumdash/internal/formatter"
	"github.com/desertthunder/albumdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// Report renders a progress report as CSV, Markdown or plain text.
func (r *Runner) Report(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	switch format {
	case formatter.FormatCSV, formatter.FormatMarkdown, formatter.FormatText:
	default:
		return fmt.Errorf("%w: --format must be csv, md or txt, got %q", shared.ErrInvalidFlag, format)
	}

	if err := r.open(ctx); err != nil {
		return err
	}
	report := formatter.NewReport(r.state.Album(), r.now(), r.threshold())

	if output := cmd.String("output"); output != "" {
		path, err := formatter.WriteReport(report, format, output)
		if err != nil {
			return err
		}
		r.logger.Info("report written", "path", path, "format", format)
		return r.writePlain("✓ Report written to %s\n", path)
	}

	data, err := formatter.Render(report, format)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}
