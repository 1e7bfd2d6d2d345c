package app_test

import (
	"context"
	"io"
	"iter"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chip/internal/app"
	"go.trai.ch/chip/internal/core/domain"
	"go.trai.ch/chip/internal/core/ports"
	"go.uber.org/mock/gomock"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestApp_Watch_ServesMetrics(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.DefaultActiveReposFile, "sim\n")
	f.write(t, "sim/js/Main.ts", "main")
	addr := freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan ports.WatchEvent)
	f.watcher.EXPECT().Start(gomock.Any(), f.root, gomock.Any()).Return(nil)
	f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for e := range events {
			if !yield(e) {
				return
			}
		}
	}))
	f.watcher.EXPECT().Stop().DoAndReturn(func() error {
		close(events)
		return nil
	})

	done := make(chan error, 1)
	go func() {
		done <- f.app.Watch(ctx, app.WatchOptions{MetricsAddr: addr})
	}()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return false
		}
		body = string(data)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, body, `chip_files_total{outcome="transpiled",reason="not cached"} 1`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "watch did not stop after cancel")
	}
}

func TestApp_Watch_MetricsAddressInUse(t *testing.T) {
	f := newFixture(t)
	f.write(t, domain.DefaultActiveReposFile, "sim\n")
	f.write(t, "sim/js/Main.ts", "main")

	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = taken.Close() }()

	// No watcher expectations: the session fails before watching or transpiling.
	err = f.app.Watch(context.Background(), app.WatchOptions{MetricsAddr: taken.Addr().String()})
	require.ErrorContains(t, err, domain.ErrMetricsServerFailed.Error())
	assert.NoFileExists(t, f.artifact("sim/js/Main.js"))
}
