package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcardimport/internal/platform/config"
)

const card = "BEGIN:VCARD\nVERSION:4.0\nFN:Jane Doe\nEND:VCARD\n"

func TestNewInProcess(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{Import: config.ImportConfig{Concurrency: 2, VocabCacheSize: 16}}

	a, err := New(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.Health)
	require.NoError(t, a.Ready(ctx))

	contact, err := a.Service.Import(ctx, card)
	require.NoError(t, err)

	found, err := a.Service.Get(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.ID, found.ID)
}

func TestReadyJoinsFailures(t *testing.T) {
	a := &App{Health: []HealthCheck{
		{Name: "postgres", Check: func(context.Context) error { return nil }},
		{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
	}}

	err := a.Ready(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: connection refused")
	assert.NotContains(t, err.Error(), "postgres")
}

func TestCloseRunsInReverse(t *testing.T) {
	var order []string
	a := &App{closers: []func(){
		func() { order = append(order, "sink") },
		func() { order = append(order, "publisher") },
	}}
	a.Close()
	a.Close()
	assert.Equal(t, []string{"publisher", "sink"}, order)
}
