package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nxadm/tail"

	"empgrid/internal/model"
	"empgrid/internal/parse"
)

type SourceKind string

const (
	SourceStdin SourceKind = "stdin"
	SourceFile  SourceKind = "file"
)

type Options struct {
	Source      SourceKind
	Path        string
	Follow      bool
	ScanBufSize int // per-line max (bytes)
}

// Record is one decoded record with the place it came from.
type Record struct {
	Employee model.Employee
	Source   string
}

// Read streams records until the source is exhausted (or, when following,
// until ctx is cancelled). Undecodable lines are reported on the error
// channel and skipped.
func Read(ctx context.Context, opt Options) (<-chan Record, <-chan error) {
	out := make(chan Record, 256)
	errs := make(chan error, 16)

	go func() {
		defer close(out)
		defer close(errs)

		switch opt.Source {
		case SourceStdin:
			readFromReader(ctx, os.Stdin, "stdin", opt.ScanBufSize, out, errs)
		case SourceFile:
			if opt.Follow {
				readFromTail(ctx, opt.Path, out, errs)
				return
			}
			f, err := os.Open(opt.Path)
			if err != nil {
				send(ctx, errs, err)
				return
			}
			defer f.Close()
			readFromReader(ctx, f, opt.Path, opt.ScanBufSize, out, errs)
		default:
			send(ctx, errs, errors.New("unknown source kind"))
		}
	}()

	return out, errs
}

func readFromReader(ctx context.Context, r io.Reader, src string, maxBuf int, out chan<- Record, errs chan<- error) {
	if maxBuf <= 0 {
		maxBuf = 1024 * 1024
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxBuf)
	n := 0
	for scanner.Scan() {
		n++
		if !emit(ctx, scanner.Text(), fmt.Sprintf("%s:%d", src, n), out, errs) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		send(ctx, errs, err)
	}
}

// readFromTail starts at the end of the file: records already present are
// expected to have been loaded through -seed.
func readFromTail(ctx context.Context, path string, out chan<- Record, errs chan<- error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		send(ctx, errs, err)
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				send(ctx, errs, l.Err)
				continue
			}
			if !emit(ctx, l.Text, path, out, errs) {
				_ = t.Stop()
				return
			}
		}
	}
}

// emit decodes a line and forwards it; it returns false once ctx is done.
func emit(ctx context.Context, line, src string, out chan<- Record, errs chan<- error) bool {
	if strings.TrimSpace(line) == "" {
		return ctx.Err() == nil
	}
	e, err := parse.Line(line)
	if err != nil {
		return send(ctx, errs, fmt.Errorf("%s: %w", src, err))
	}
	select {
	case out <- Record{Employee: e, Source: src}:
		return true
	case <-ctx.Done():
		return false
	}
}

func send(ctx context.Context, errs chan<- error, err error) bool {
	select {
	case errs <- err:
		return true
	case <-ctx.Done():
		return false
	}
}
