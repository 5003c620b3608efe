// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package metrics

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHelpers_DoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordFileScanned()
		RecordFileParsed()
		RecordParseError()
		RecordDirWritten()
		RecordBytesWritten(128)
		RecordTruncatedWrite()
		ObserveParseDuration(0.01)
		ObserveWriteDuration(0.02)
		ObserveRunDuration(1.5)
	})
}

func TestServe_ShutsDownOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", logger) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after context cancel")
	}
}
