package main

import (
	"context"
	"testing"
	"time"

	"github.com/joeycumines/go-eventfd"
	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStress(t *testing.T) {
	for _, tc := range []struct {
		name string
		cfg  config
	}{
		{`blocking`, config{writers: 4, readers: 2, posts: 200}},
		{`semaphore`, config{writers: 2, readers: 3, posts: 100, semaphore: true}},
		{`poll`, config{writers: 3, readers: 2, posts: 200, poll: true}},
		{`poll semaphore`, config{writers: 2, readers: 2, posts: 100, poll: true, semaphore: true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.timeout = 30 * time.Second
			pool, err := eventfd.NewPool(eventfd.WithCapacity(1), eventfd.WithMetrics(true))
			require.NoError(t, err)

			result, err := stress(context.Background(), pool, nil, tc.cfg)
			require.NoError(t, err)
			assert.Equal(t, result.posted, result.received)
			assert.Equal(t, uint64(tc.cfg.writers*tc.cfg.posts), result.posted)
			if tc.cfg.semaphore {
				assert.Equal(t, int(result.posted), result.reads)
			}

			// the object was released
			assert.Zero(t, pool.InUse())
			assert.Zero(t, pool.Table().Len())
		})
	}
}

func TestRun(t *testing.T) {
	require.NoError(t, run(context.Background(), config{
		logLevel: `err`,
		timeout:  30 * time.Second,
		writers:  2,
		readers:  1,
		posts:    50,
		capacity: 1,
	}))
	assert.Error(t, run(context.Background(), config{logLevel: `err`, writers: 0, readers: 1, posts: 1, capacity: 1}))
	assert.Error(t, run(context.Background(), config{logLevel: `nope`, writers: 1, readers: 1, posts: 1, capacity: 1}))
}

func TestParseLevel(t *testing.T) {
	for s, want := range map[string]logiface.Level{
		`err`:   logiface.LevelError,
		`ERROR`: logiface.LevelError,
		`warn`:  logiface.LevelWarning,
		`info`:  logiface.LevelInformational,
		`debug`: logiface.LevelDebug,
		`trace`: logiface.LevelTrace,
	} {
		level, err := parseLevel(s)
		require.NoError(t, err)
		assert.Equal(t, want, level)
	}
	_, err := parseLevel(`loud`)
	assert.Error(t, err)
}
