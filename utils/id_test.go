package utils

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTempName_Unique(t *testing.T) {
	const n = 64
	names := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			names <- TempName("mask", ".png")
		}()
	}
	wg.Wait()
	close(names)

	seen := map[string]bool{}
	for name := range names {
		assert.True(t, strings.HasPrefix(name, "mask_"))
		assert.True(t, strings.HasSuffix(name, ".png"))
		assert.False(t, seen[name], name)
		seen[name] = true
	}
}
