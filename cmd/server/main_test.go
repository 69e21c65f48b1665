package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorsConfig(t *testing.T) {
	all := corsConfig([]string{"*"})
	assert.True(t, all.AllowAllOrigins)
	assert.Empty(t, all.AllowOrigins)
	assert.False(t, all.AllowCredentials)
	assert.NoError(t, all.Validate())

	some := corsConfig([]string{"https://market.example.com"})
	assert.False(t, some.AllowAllOrigins)
	assert.Equal(t, []string{"https://market.example.com"}, some.AllowOrigins)
	assert.Contains(t, some.AllowHeaders, "X-User-Role")
	assert.NoError(t, some.Validate())
}
