// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package metrics registers the run-wide Prometheus series for a
// codeindex run: how much got scanned, parsed, and written, and how
// long each stage took. Series accumulate in-process whether or not
// anything ever scrapes them; nothing in the engine depends on a
// scraper being attached.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type engineMetrics struct {
	once sync.Once

	filesScanned prometheus.Counter
	filesParsed  prometheus.Counter
	parseErrors  prometheus.Counter

	dirsWritten     prometheus.Counter
	bytesWritten    prometheus.Counter
	truncatedWrites prometheus.Counter

	parseDuration prometheus.Histogram
	writeDuration prometheus.Histogram
	runDuration   prometheus.Histogram
}

var m engineMetrics

func (e *engineMetrics) init() {
	e.once.Do(func() {
		e.filesScanned = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codeindex_files_scanned_total",
			Help: "Source files discovered by the scanner.",
		})
		e.filesParsed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codeindex_files_parsed_total",
			Help: "Source files successfully parsed.",
		})
		e.parseErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codeindex_parse_errors_total",
			Help: "Files that failed to parse.",
		})
		e.dirsWritten = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codeindex_dirs_written_total",
			Help: "Directories a README was written for.",
		})
		e.bytesWritten = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codeindex_bytes_written_total",
			Help: "Total Markdown bytes written across all READMEs.",
		})
		e.truncatedWrites = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codeindex_truncated_writes_total",
			Help: "READMEs truncated to stay under the size cap.",
		})

		buckets := []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30}
		e.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "codeindex_parse_seconds",
			Help:    "Per-file parse duration.",
			Buckets: buckets,
		})
		e.writeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "codeindex_write_seconds",
			Help:    "Per-directory README write duration.",
			Buckets: buckets,
		})
		e.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "codeindex_run_seconds",
			Help:    "Total run duration.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		})

		prometheus.MustRegister(
			e.filesScanned, e.filesParsed, e.parseErrors,
			e.dirsWritten, e.bytesWritten, e.truncatedWrites,
			e.parseDuration, e.writeDuration, e.runDuration,
		)
	})
}

// RecordFileScanned increments the scanned-files counter.
func RecordFileScanned() { m.init(); m.filesScanned.Inc() }

// RecordFileParsed increments the parsed-files counter.
func RecordFileParsed() { m.init(); m.filesParsed.Inc() }

// RecordParseError increments the parse-error counter.
func RecordParseError() { m.init(); m.parseErrors.Inc() }

// RecordDirWritten increments the directories-written counter.
func RecordDirWritten() { m.init(); m.dirsWritten.Inc() }

// RecordBytesWritten adds n to the total bytes-written counter.
func RecordBytesWritten(n int) { m.init(); m.bytesWritten.Add(float64(n)) }

// RecordTruncatedWrite increments the truncated-write counter.
func RecordTruncatedWrite() { m.init(); m.truncatedWrites.Inc() }

// ObserveParseDuration records a per-file parse duration in seconds.
func ObserveParseDuration(seconds float64) { m.init(); m.parseDuration.Observe(seconds) }

// ObserveWriteDuration records a per-directory write duration in seconds.
func ObserveWriteDuration(seconds float64) { m.init(); m.writeDuration.Observe(seconds) }

// ObserveRunDuration records the total run duration in seconds.
func ObserveRunDuration(seconds float64) { m.init(); m.runDuration.Observe(seconds) }

// Serve starts a /metrics HTTP endpoint at addr and blocks until ctx is
// canceled, then shuts the server down gracefully. Intended to run in
// its own goroutine; a non-empty addr is what makes scraping possible
// at all, since nothing else in the engine opens a listener.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics.http.start", "addr", addr, "path", "/metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		_ = srv.Shutdown(context.Background())
		return nil
	case err := <-errCh:
		return err
	}
}
