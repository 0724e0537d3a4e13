package utils

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescScanning   = "Scanning"
	DescPublishing = "Publishing"
)

// NewProgressBar creates a consistently styled progress bar on stderr.
//
// Parameters:
//   - total: Total number of items. Use -1 for unknown totals (spinner mode).
//   - description: Text shown before the bar (DescScanning, DescPublishing).
//
// Example:
//
//	bar := utils.NewProgressBar(len(files), utils.DescScanning)
//	defer bar.Finish()
//
//	for _, f := range files {
//	    // Hash file
//	    bar.Add(1)
//	}
func NewProgressBar(total int, description string) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionShowIts(),
		)
	}

	return progressbar.NewOptions(total, opts...)
}

// NewProgress returns a visible progress bar when enabled and a silent one
// otherwise, so callers never need a nil check
func NewProgress(enabled bool, total int, description string) *progressbar.ProgressBar {
	if !enabled {
		return progressbar.DefaultSilent(int64(total), description)
	}
	return NewProgressBar(total, description)
}
