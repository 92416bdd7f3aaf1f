package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestRunLoadtestSmall(t *testing.T) {
	var out bytes.Buffer
	err := runLoadtest(context.Background(), &out, loadtestOptions{
		sessions:    20,
		concurrency: 4,
		ops:         200,
		prefix:      "bg-test",
	})
	if err != nil {
		t.Fatalf("runLoadtest: %v", err)
	}
	for _, phase := range []string{"guard: ops=200 failures=0", "rotate: ops=200 failures=0"} {
		if !strings.Contains(out.String(), phase) {
			t.Fatalf("output missing %q:\n%s", phase, out.String())
		}
	}
}

func TestRunLoadtestRejectsZero(t *testing.T) {
	var out bytes.Buffer
	if err := runLoadtest(context.Background(), &out, loadtestOptions{}); err == nil {
		t.Fatalf("expected error for zero options")
	}
}

func TestPercentile(t *testing.T) {
	samples := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(samples, 50); got != 5 {
		t.Fatalf("p50 = %v", got)
	}
	if got := percentile(samples, 100); got != 10 {
		t.Fatalf("p100 = %v", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Fatalf("empty = %v", got)
	}
}
