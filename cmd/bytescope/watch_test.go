package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	watched := writeFile(t, dir, "watched.dis", "0 NOP\n")
	other := writeFile(t, dir, "other.dis", "0 NOP\n")

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan []string, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{watched}, 20*time.Millisecond, zerolog.Nop(), func(changed []string) {
			select {
			case changes <- changed:
			default:
			}
		})
	}()

	// The watcher starts asynchronously, so keep touching the files until
	// a change is reported.
	abs, err := filepath.Abs(watched)
	require.Nil(t, err)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	timeout := time.After(10 * time.Second)
	var got []string
	for got == nil {
		select {
		case got = <-changes:
		case <-ticker.C:
			require.Nil(t, os.WriteFile(other, []byte("0 NOP\n"), 0o644))
			require.Nil(t, os.WriteFile(watched, []byte("0 NOP\n2 NOP\n"), 0o644))
		case <-timeout:
			t.Fatal("no change reported")
		}
	}
	require.Equal(t, []string{abs}, got)

	cancel()
	select {
	case err := <-done:
		require.Nil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchFilesMissingDirectory(t *testing.T) {
	err := watchFiles(context.Background(), []string{filepath.Join(t.TempDir(), "gone", "x.py")},
		time.Millisecond, zerolog.Nop(), func([]string) {})
	require.NotNil(t, err)
}
