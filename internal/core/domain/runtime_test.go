package domain

import (
	"sync"
	"testing"
)

func TestNewRuntimeConfig(t *testing.T) {
	config := NewRuntimeConfig("sqlite", "redis", "postgres")

	if config == nil {
		t.Fatal("expected non-nil config")
	}
	if config.VectorBackend != "sqlite" || config.ConversationBackend != "redis" || config.DocumentBackend != "postgres" {
		t.Errorf("unexpected backends %+v", config)
	}
	if config.EmbeddingAvailable() {
		t.Error("expected embedding to be unavailable initially")
	}
	if config.ChatAvailable() {
		t.Error("expected chat to be unavailable initially")
	}
}

func TestRuntimeConfig_Capabilities(t *testing.T) {
	config := NewRuntimeConfig("memory", "memory", "memory")

	if config.CanIngest() || config.CanChat() {
		t.Error("expected no capabilities initially")
	}

	config.SetEmbeddingAvailable(true)
	if !config.CanIngest() {
		t.Error("expected ingest after embedding available")
	}
	if config.CanChat() {
		t.Error("expected chat still unavailable")
	}

	config.SetChatAvailable(true)
	if !config.CanChat() {
		t.Error("expected chat after chat model available")
	}

	config.SetEmbeddingAvailable(false)
	if config.CanIngest() {
		t.Error("expected ingest unavailable after reset")
	}
}

func TestRuntimeConfig_ConcurrentAccess(t *testing.T) {
	config := NewRuntimeConfig("memory", "memory", "memory")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(v bool) {
			defer wg.Done()
			config.SetEmbeddingAvailable(v)
			config.SetChatAvailable(!v)
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			_ = config.CanIngest()
			_ = config.CanChat()
		}()
	}
	wg.Wait()
}
