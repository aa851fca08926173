package core

import (
	"os"

	"github.com/apex/log"
	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"
)

// ProgressReporter creates a tracker for each download with a known size.
type ProgressReporter interface {
	Track(name string, total int64) ProgressTracker
}

type ProgressTracker interface {
	IncrBy(n int)
	// Finish is called exactly once; completed is false when the body ended early.
	Finish(completed bool)
}

// NewProgressReporter draws a progress bar when out is a terminal and falls back
// to periodic log lines otherwise (container logs, CI).
func NewProgressReporter(out *os.File) ProgressReporter {
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		return barReporter{out: out}
	}
	return logReporter{step: 10}
}

// NoProgress discards all progress updates.
type NoProgress struct{}

func (NoProgress) Track(string, int64) ProgressTracker {
	return noTracker{}
}

type noTracker struct{}

func (noTracker) IncrBy(int)  {}
func (noTracker) Finish(bool) {}

type barReporter struct {
	out *os.File
}

func (r barReporter) Track(name string, total int64) ProgressTracker {
	p := mpb.New(mpb.WithOutput(r.out), mpb.WithWidth(40))
	bar := p.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DidentRight}),
			decor.CountersKibiByte("% .2f / % .2f"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
	return &barTracker{p: p, bar: bar}
}

type barTracker struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func (t *barTracker) IncrBy(n int) {
	t.bar.IncrBy(n)
}

func (t *barTracker) Finish(completed bool) {
	if !completed || !t.bar.Completed() {
		t.bar.Abort(false)
	}
	t.p.Wait()
}

type logReporter struct {
	step int64
}

func (r logReporter) Track(name string, total int64) ProgressTracker {
	return &logTracker{name: name, total: total, step: r.step}
}

type logTracker struct {
	name    string
	total   int64
	current int64
	step    int64
	last    int64
}

func (t *logTracker) IncrBy(n int) {
	t.current += int64(n)
	pct := t.current * 100 / t.total
	if pct > 100 {
		pct = 100
	}
	if pct/t.step > t.last/t.step {
		t.last = pct
		log.WithField("file", t.name).Infof("downloaded %d%% (%d/%d bytes)", pct, t.current, t.total)
	}
}

func (t *logTracker) Finish(completed bool) {
	if !completed {
		log.WithField("file", t.name).Warnf("download interrupted after %d of %d bytes", t.current, t.total)
	}
}
