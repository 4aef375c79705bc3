package transfer

import (
	"log/slog"

	"github.com/dustin/go-humanize"
)

// Progress receives per-file transfer events. Rendering is up to the caller;
// the engine only reports what is happening. Implementations must be safe
// for concurrent use.
type Progress interface {
	// Start fires once the total size of a file is known.
	Start(name string, size int64)
	Complete(name string)
	Fail(name string, err error)
}

// LogProgress reports transfer events through the default structured logger.
type LogProgress struct{}

func (LogProgress) Start(name string, size int64) {
	slog.Info("download started", "file", name, "size", humanize.Bytes(uint64(size)))
}

func (LogProgress) Complete(name string) {
	slog.Info("download complete", "file", name)
}

func (LogProgress) Fail(name string, err error) {
	slog.Error("download failed", "file", name, "error", err)
}

// NopProgress discards all events.
type NopProgress struct{}

func (NopProgress) Start(name string, size int64) {}
func (NopProgress) Complete(name string)          {}
func (NopProgress) Fail(name string, err error)   {}
