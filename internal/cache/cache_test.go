package cache

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/precisiondoc/precisiondoc/internal/model"
)

func TestKey_Deterministic(t *testing.T) {
	k1 := Key("qwen", "qwen-vl-max", "prompt", "/tmp/page.png")
	k2 := Key("qwen", "qwen-vl-max", "prompt", "/tmp/page.png")
	if k1 != k2 {
		t.Error("Expected identical keys for identical inputs")
	}
	if !strings.HasPrefix(k1, "precisiondoc:v1:") {
		t.Errorf("Unexpected key prefix: %s", k1)
	}
}

func TestKey_DiscriminatesInputs(t *testing.T) {
	base := Key("openai", "gpt-4o", "prompt", "")
	variants := []string{
		Key("qwen", "gpt-4o", "prompt", ""),
		Key("openai", "gpt-4o-mini", "prompt", ""),
		Key("openai", "gpt-4o", "other prompt", ""),
		Key("openai", "gpt-4o", "prompt", "/tmp/page.png"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("Variant %d collided with base key", i)
		}
	}
}

func TestLayeredCache_DiskSurvivesMemoryLoss(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Hour, dir, time.Hour)

	key := Key("openai", "gpt-4o", "p", "")
	if err := c.Set(key, []byte("response"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh layered cache over the same directory simulates a restart
	fresh := NewLayeredCache(time.Hour, dir, time.Hour)
	val, found := fresh.Get(key)
	if !found {
		t.Fatal("Expected disk hit after restart")
	}
	if string(val) != "response" {
		t.Errorf("Unexpected value %q", val)
	}
}

func TestLayeredCache_GetMissing(t *testing.T) {
	c := NewLayeredCache(time.Hour, t.TempDir(), time.Hour)
	if _, found := c.Get("precisiondoc:v1:missing"); found {
		t.Error("Expected miss for unknown key")
	}
}

func TestDiskCache_Expiration(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	key := Key("openai", "m", "p", "")
	if err := c.Set(key, []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestLayeredCache_Clear(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Hour, filepath.Join(dir, "cache"), time.Hour)

	key := Key("openai", "m", "p", "")
	if err := c.Set(key, []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("Expected miss after Clear")
	}
}

func TestFromConfig(t *testing.T) {
	if c := FromConfig(model.CacheConfig{Enabled: false}); c != nil {
		t.Error("Expected nil cache when disabled")
	}

	c := FromConfig(model.CacheConfig{Enabled: true, Dir: t.TempDir(), TTL: time.Hour})
	if c == nil {
		t.Fatal("Expected cache when enabled")
	}
	key := Key("openai", "m", "p", "")
	if err := c.Set(key, []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get(key); !found {
		t.Error("Expected hit")
	}
}
