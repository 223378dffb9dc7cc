package cache

import (
	"testing"
	"time"
)

func newTestCache(ttl time.Duration) (*Cache, *time.Time) {
	c := New(ttl)
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCacheSetGet(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(time.Hour)

	c.Set("daily:21.42:39.82:01-03-2026:2", "timetable")

	got, ok := c.Get("daily:21.42:39.82:01-03-2026:2")
	if !ok {
		t.Fatal("Get() should hit immediately after Set()")
	}
	if got != "timetable" {
		t.Fatalf("Get() = %v, want timetable", got)
	}

	if _, ok := c.Get("daily:21.42:39.82:02-03-2026:2"); ok {
		t.Fatal("Get() on a different key should miss")
	}
}

func TestCacheExpiryEvictsLazily(t *testing.T) {
	t.Parallel()

	c, now := newTestCache(time.Hour)

	c.Set("k", 42)
	if c.Stats().Count != 1 {
		t.Fatalf("Stats().Count = %d, want 1", c.Stats().Count)
	}

	*now = now.Add(time.Hour + time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("Get() after TTL elapsed should miss")
	}
	if c.Stats().Count != 0 {
		t.Fatalf("Stats().Count after eviction = %d, want 0", c.Stats().Count)
	}
}

func TestCacheNoExpiryEntrySurvivesTime(t *testing.T) {
	t.Parallel()

	c, now := newTestCache(time.Hour)

	c.SetWithTTL("qibla:21.42:39.82", 136.6, NoExpiry)

	*now = now.Add(90 * 24 * time.Hour)

	got, ok := c.Get("qibla:21.42:39.82")
	if !ok {
		t.Fatal("NoExpiry entry should never expire by time")
	}
	if got != 136.6 {
		t.Fatalf("Get() = %v, want 136.6", got)
	}

	c.Invalidate("qibla:21.42:39.82")
	if _, ok := c.Get("qibla:21.42:39.82"); ok {
		t.Fatal("Invalidate() should remove a NoExpiry entry")
	}
}

func TestCacheClear(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(time.Hour)

	c.Set("a", 1)
	c.SetWithTTL("b", 2, NoExpiry)
	c.Clear()

	if stats := c.Stats(); stats.Count != 0 || len(stats.Keys) != 0 {
		t.Fatalf("Stats() after Clear() = %+v, want empty", stats)
	}
}

func TestCacheStatsSkipsExpired(t *testing.T) {
	t.Parallel()

	c, now := newTestCache(time.Hour)

	c.Set("old", 1)
	*now = now.Add(30 * time.Minute)
	c.Set("fresh", 2)
	*now = now.Add(45 * time.Minute)

	stats := c.Stats()
	if stats.Count != 1 {
		t.Fatalf("Stats().Count = %d, want 1", stats.Count)
	}
	if len(stats.Keys) != 1 || stats.Keys[0] != "fresh" {
		t.Fatalf("Stats().Keys = %v, want [fresh]", stats.Keys)
	}
}
