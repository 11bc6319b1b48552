// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

type payload struct {
	Slug  string   `json:"slug"`
	Kids  []string `json:"kids"`
	Color string   `json:"color"`
}

func TestConnectValkey(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()

	client, err := ConnectValkey(context.Background(), host, port, "")
	require.NoError(t, err)
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	require.NoError(t, err)
	assert.Equal(t, "PONG", pong)
}

func TestConnectValkey_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := ConnectValkey(context.Background(), host, port, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valkey ping")
}

func TestTaxonomyCache_SetAndGet(t *testing.T) {
	_, client := setupMiniredis(t)
	c := NewTaxonomyCache(client, time.Minute)
	ctx := context.Background()

	gen, ok := c.Generation(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(0), gen)

	var got payload
	assert.False(t, c.Get(ctx, gen, TopicsKey(), &got), "expected miss")

	want := payload{Slug: "kpop", Kids: []string{"idols", "venues"}, Color: "#C6FD09"}
	c.Set(ctx, gen, TopicsKey(), want)

	require.True(t, c.Get(ctx, gen, TopicsKey(), &got))
	assert.Equal(t, want, got)
}

func TestTaxonomyCache_TTL(t *testing.T) {
	mr, client := setupMiniredis(t)
	c := NewTaxonomyCache(client, 30*time.Second)
	ctx := context.Background()

	c.Set(ctx, 0, TagsKey("mood"), []string{"calm"})
	assert.Equal(t, 30*time.Second, mr.TTL(entryKey(0, TagsKey("mood"))))

	mr.FastForward(31 * time.Second)
	var got []string
	assert.False(t, c.Get(ctx, 0, TagsKey("mood"), &got))
}

func TestTaxonomyCache_CorruptEntryIsMiss(t *testing.T) {
	mr, client := setupMiniredis(t)
	c := NewTaxonomyCache(client, time.Minute)

	require.NoError(t, mr.Set(entryKey(0, TopicsKey()), "{not json"))

	var got payload
	assert.False(t, c.Get(context.Background(), 0, TopicsKey(), &got))
}

func TestTaxonomyCache_InvalidateAllKeepsForeignKeys(t *testing.T) {
	mr, client := setupMiniredis(t)
	c := NewTaxonomyCache(client, time.Minute)
	ctx := context.Background()

	c.Set(ctx, 0, TopicsKey(), []string{"a"})
	c.Set(ctx, 0, TagsKey(""), []string{"b"})
	c.Set(ctx, 0, TagsKey("season"), []string{"c"})
	require.NoError(t, mr.Set("session:abc", "keep"))

	c.InvalidateAll(ctx)

	assert.False(t, mr.Exists(entryKey(0, TopicsKey())))
	assert.False(t, mr.Exists(entryKey(0, TagsKey(""))))
	assert.False(t, mr.Exists(entryKey(0, TagsKey("season"))))
	assert.True(t, mr.Exists("session:abc"))

	gen, ok := c.Generation(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(1), gen)
	assert.Equal(t, time.Duration(0), mr.TTL(genKey), "generation must not expire")
}

func TestTaxonomyCache_LateWriteFromOldGenerationIsUnreachable(t *testing.T) {
	_, client := setupMiniredis(t)
	c := NewTaxonomyCache(client, time.Minute)
	ctx := context.Background()

	// A reader picks its generation, a writer invalidates, then the reader
	// stores what it loaded before the write.
	readerGen, ok := c.Generation(ctx)
	require.True(t, ok)
	c.InvalidateAll(ctx)
	c.Set(ctx, readerGen, TopicsKey(), []string{"stale"})

	gen, ok := c.Generation(ctx)
	require.True(t, ok)
	var got []string
	assert.False(t, c.Get(ctx, gen, TopicsKey(), &got))
}

func TestTaxonomyCache_ServerDownIsMiss(t *testing.T) {
	mr, client := setupMiniredis(t)
	c := NewTaxonomyCache(client, time.Minute)
	mr.Close()

	_, ok := c.Generation(context.Background())
	assert.False(t, ok)
	var got payload
	assert.False(t, c.Get(context.Background(), 0, TopicsKey(), &got))
	c.Set(context.Background(), 0, TopicsKey(), payload{})
	c.InvalidateAll(context.Background())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "topics", TopicsKey())
	assert.Equal(t, "tags", TagsKey(""))
	assert.Equal(t, "tags:g:mood", TagsKey("mood"))
	assert.NotEqual(t, TagsKey(""), TagsKey("all"))
	assert.Equal(t, "taxonomy:v3:tags:g:all", entryKey(3, TagsKey("all")))
}

func TestNewTaxonomyCache_DefaultTTL(t *testing.T) {
	_, client := setupMiniredis(t)
	assert.Equal(t, DefaultTTL, NewTaxonomyCache(client, 0).ttl)
}
