package service

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiExtractorRequiresKeys(t *testing.T) {
	_, err := NewGeminiExtractor(nil, "gemini-2.0-flash", zerolog.Nop())
	assert.Error(t, err)
}

func TestGeminiExtractorRotationKeepsModelAvailable(t *testing.T) {
	e, err := NewGeminiExtractor([]string{"key-a", "key-b"}, "gemini-2.0-flash", zerolog.Nop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if e.generativeModel() == nil {
					t.Error("model unavailable during rotation")
					return
				}
			}
		}()
	}
	for j := 0; j < 10; j++ {
		require.NoError(t, e.rotateAPIKey())
	}
	wg.Wait()
	assert.NotNil(t, e.generativeModel())
}
