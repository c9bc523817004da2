package main

import (
	"bufio"
	"bytes"
	"context"
	"testing"
	"time"

	"empgrid/internal/model"
	"empgrid/internal/parse"
	"empgrid/internal/source"
)

func TestRunWritesCountRecords(t *testing.T) {
	var buf bytes.Buffer
	n, err := run(context.Background(), bufio.NewWriter(&buf), source.New(7), "gen-", 500, 5, 0)
	if err != nil || n != 5 {
		t.Fatalf("run: n=%d err=%v", n, err)
	}
	recs, err := parse.Records(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 5 || recs[0].ID != "gen-500" || recs[4].ID != "gen-504" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	n, err := run(ctx, bufio.NewWriter(&buf), source.New(7), "gen-", 1, 0, 0)
	if err != nil || n != 0 {
		t.Fatalf("run after cancel: n=%d err=%v", n, err)
	}
}

func TestGeneratedIDsDoNotCollideWithLoadMore(t *testing.T) {
	var buf bytes.Buffer
	if _, err := run(context.Background(), bufio.NewWriter(&buf), source.New(3), "gen-", 1000, 40, 0); err != nil {
		t.Fatalf("run: %v", err)
	}
	streamed, err := parse.Records(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	c := model.NewCollection()
	if err := c.Append(streamed[0]); err != nil {
		t.Fatalf("append first: %v", err)
	}
	src := source.New(4)
	if err := c.Append(src.Synthesize(30, c.NextID())...); err != nil {
		t.Fatalf("load-more batch: %v", err)
	}
	for _, rec := range streamed[1:] {
		if err := c.Append(rec); err != nil {
			t.Fatalf("streamed %s dropped: %v", rec.ID, err)
		}
	}
	if c.Len() != 70 {
		t.Fatalf("len: %d", c.Len())
	}
}

func TestTickIntervalClamped(t *testing.T) {
	if got := tickInterval(1e12); got != time.Nanosecond {
		t.Fatalf("huge rate: %v", got)
	}
	if got := tickInterval(4); got != 250*time.Millisecond {
		t.Fatalf("rate 4: %v", got)
	}
}
