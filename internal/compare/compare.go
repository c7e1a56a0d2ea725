// Package compare runs the matching pipeline: parse both inputs, locate the
// key columns, build the reference key set and filter the primary rows.
package compare

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/nconklindev/stylematch/internal/config"
	"github.com/nconklindev/stylematch/internal/matcher"
	"github.com/nconklindev/stylematch/internal/table"
	"github.com/nconklindev/stylematch/internal/types"

	"golang.org/x/sync/errgroup"
)

// Progress checkpoints reported on the progress channel.
const (
	ProgressStarted  = 0.10
	ProgressParsed   = 0.30
	ProgressKeyed    = 0.50
	ProgressFiltered = 0.90
	ProgressDone     = 1.00
)

// Options configures a comparison.
type Options struct {
	PrimaryColumn   string
	ReferenceColumn string
	PrimaryLabel    string
	ReferenceLabel  string
	OutputName      string

	// Delay pauses after each progress step so a progress bar can animate.
	Delay time.Duration
}

// OptionsFrom copies the comparison settings out of cfg.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		PrimaryColumn:   cfg.PrimaryColumn,
		ReferenceColumn: cfg.ReferenceColumn,
		PrimaryLabel:    cfg.PrimaryLabel,
		ReferenceLabel:  cfg.ReferenceLabel,
		OutputName:      cfg.OutputName,
		Delay:           cfg.ProgressDelay,
	}
}

// DefaultOptions mirrors config.Default.
func DefaultOptions() Options {
	cfg := config.Default()
	return OptionsFrom(&cfg)
}

// Compare extracts the rows of primary whose key column matches a value in the
// key column of reference. A nil input counts as not supplied.
//
// Progress, when non-nil, receives checkpoints between 0 and 1. Sends never
// block; a slow receiver misses intermediate values. On failure a final 0 is sent.
func Compare(primary, reference []byte, opts Options, progress chan<- float64) (*types.MatchResult, error) {
	report := func(p float64) {
		if progress != nil {
			select {
			case progress <- p:
			default:
			}
		}
		if opts.Delay > 0 && p > 0 {
			time.Sleep(opts.Delay)
		}
	}

	result, err := run(primary, reference, opts, report)
	if err != nil {
		report(0)
		return nil, err
	}
	return result, nil
}

func run(primary, reference []byte, opts Options, report func(float64)) (*types.MatchResult, error) {
	report(ProgressStarted)

	var missing []string
	if primary == nil {
		missing = append(missing, opts.PrimaryLabel)
	}
	if reference == nil {
		missing = append(missing, opts.ReferenceLabel)
	}
	if len(missing) > 0 {
		return nil, &InputMissingError{Missing: missing}
	}

	primaryTable, err := table.Parse(opts.PrimaryLabel, primary)
	if err != nil {
		return nil, err
	}
	referenceTable, err := table.Parse(opts.ReferenceLabel, reference)
	if err != nil {
		return nil, err
	}
	report(ProgressParsed)

	primaryCol, err := locate(primaryTable, opts.PrimaryColumn, opts.PrimaryLabel)
	if err != nil {
		return nil, err
	}
	referenceCol, err := locate(referenceTable, opts.ReferenceColumn, opts.ReferenceLabel)
	if err != nil {
		return nil, err
	}

	keys := matcher.BuildKeySet(referenceTable, referenceCol)
	report(ProgressKeyed)

	result := matcher.FilterRows(primaryTable, primaryCol, keys)
	report(ProgressFiltered)

	slog.Debug("comparison finished",
		"primary_rows", len(primaryTable.Body),
		"reference_rows", len(referenceTable.Body),
		"keys", keys.Len(),
		"matches", result.Count,
	)

	report(ProgressDone)
	return result, nil
}

func locate(t *types.RawTable, column, label string) (int, error) {
	idx := table.FindColumn(t.Header, column)
	if idx != table.NotFound {
		return idx, nil
	}

	err := &ColumnNotFoundError{Column: column, Table: label}
	want := matcher.Normalize(column)
	for _, cell := range t.Header {
		if cell.Present && matcher.Normalize(cell.Text) == want {
			err.Suggestions = append(err.Suggestions, cell.Text)
		}
	}
	return table.NotFound, err
}

// ReadInputs reads both files concurrently and returns once both are read.
// The first failure cancels the other read. An empty path counts as not supplied.
func ReadInputs(ctx context.Context, primaryPath, referencePath string, maxSize int64) ([]byte, []byte, error) {
	if primaryPath == "" || referencePath == "" {
		var missing []string
		if primaryPath == "" {
			missing = append(missing, "primary")
		}
		if referencePath == "" {
			missing = append(missing, "reference")
		}
		return nil, nil, &InputMissingError{Missing: missing}
	}

	var primary, reference []byte
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := readFile(ctx, primaryPath, maxSize)
		primary = data
		return err
	})
	g.Go(func() error {
		data, err := readFile(ctx, referencePath, maxSize)
		reference = data
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return primary, reference, nil
}

func readFile(ctx context.Context, path string, maxSize int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if maxSize > 0 {
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		if info.Size() > maxSize {
			return nil, fmt.Errorf("%s is larger than the %d byte limit", path, maxSize)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
