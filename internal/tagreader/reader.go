// Package tagreader turns a line based NFC reader (keyboard wedge, serial
// FIFO, stdin) into a stream of tag scans.
package tagreader

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/jeffleon2/draftea-topup/config"
	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/retry"
	"github.com/sirupsen/logrus"
)

// Scan is one read. Err is set when the line could not be parsed as a tag;
// the stream carries on after it.
type Scan struct {
	Tag    models.TagIdentity
	ReadAt time.Time
	Err    error
}

// OpenFunc opens the underlying device. It is called again after the device
// reaches EOF or fails, which is what makes the stream restartable.
type OpenFunc func() (io.ReadCloser, error)

type Reader struct {
	open    OpenFunc
	reopen  config.RetryConfig
	restart bool
	now     func() time.Time
}

type Option func(*Reader)

// WithoutRestart ends the stream at the first EOF.
func WithoutRestart() Option {
	return func(r *Reader) { r.restart = false }
}

func WithReopenBackoff(cfg config.RetryConfig) Option {
	return func(r *Reader) { r.reopen = cfg }
}

func New(open OpenFunc, opts ...Option) *Reader {
	r := &Reader{
		open:    open,
		reopen:  config.RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 5 * time.Second},
		restart: true,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.reopen = retry.WithDefaults(r.reopen)
	return r
}

// Scans streams reads until ctx is done. Duplicates are delivered as read.
func (r *Reader) Scans(ctx context.Context) <-chan Scan {
	out := make(chan Scan)
	go func() {
		defer close(out)
		// n counts reopens since the device last produced a line
		n := 0
		for {
			rc, err := r.open()
			if err != nil {
				logrus.WithError(err).Warn("tag reader unavailable")
				if !r.restart {
					return
				}
			} else {
				read := r.pump(ctx, rc, out)
				rc.Close()
				if !r.restart || ctx.Err() != nil {
					return
				}
				if read > 0 {
					n = 0
				}
			}

			if retry.Wait(ctx, retry.Backoff(r.reopen, n)) != nil {
				return
			}
			n++
		}
	}()
	return out
}

// pump forwards lines from rc until it ends and returns how many it read.
func (r *Reader) pump(ctx context.Context, rc io.Reader, out chan<- Scan) int {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(rc)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			logrus.WithError(err).Warn("tag reader failed")
		}
	}()

	read := 0
	for {
		select {
		case <-ctx.Done():
			return read
		case line, ok := <-lines:
			if !ok {
				return read
			}
			if line == "" {
				continue
			}
			read++
			tag, err := models.ParseTagIdentity(line)
			select {
			case out <- Scan{Tag: tag, ReadAt: r.now(), Err: err}:
			case <-ctx.Done():
				return read
			}
		}
	}
}
