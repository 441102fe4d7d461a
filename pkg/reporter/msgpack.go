package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yaklabco/cfmtlint/pkg/api"
	"github.com/yaklabco/cfmtlint/pkg/runner"
)

// MsgpackFile is one record of the msgpack stream. Records are written back
// to back, one per file, so a host can decode them incrementally.
type MsgpackFile struct {
	Path        string           `msgpack:"path"`
	Diagnostics []api.Diagnostic `msgpack:"diagnostics"`
	Error       string           `msgpack:"error,omitempty"`
}

// MsgpackReporter streams results as MessagePack records.
type MsgpackReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewMsgpackReporter creates a new msgpack reporter.
func NewMsgpackReporter(opts Options) *MsgpackReporter {
	return &MsgpackReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *MsgpackReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	enc := msgpack.NewEncoder(r.bw)

	total := 0
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("msgpack report cancelled: %w", err)
		}

		record := MsgpackFile{
			Path:        r.opts.displayPath(file.Path),
			Diagnostics: []api.Diagnostic{},
		}
		if file.Error != nil {
			record.Error = file.Error.Error()
		}
		if file.Result != nil && file.Result.FileResult != nil {
			record.Diagnostics = api.FromLintAll(file.Result.Diagnostics)
		}

		if err := enc.Encode(&record); err != nil {
			return total, fmt.Errorf("encode msgpack record for %s: %w", record.Path, err)
		}
		total += len(record.Diagnostics)
	}

	return total, nil
}
