package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrollDepth(t *testing.T) {
	at := time.Date(2016, 5, 1, 7, 0, 0, 0, time.UTC)
	data, err := scrollDepth(at, 42)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"time":"2016-05-01T07:00:00Z","value":{"0":100,"50":42}}]`, string(data))
}
