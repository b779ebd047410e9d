package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEnviron(t *testing.T) {
	got := MaskEnviron([]string{
		"PATH=/usr/bin",
		"DB_PASSWORD=hunter2",
		"GITHUB_TOKEN=abc",
		"aws_secret_access_key=xyz",
		"EMPTY=",
		"GLITCH_DEVICE=compact",
	})

	assert.Equal(t, [][2]string{
		{"DB_PASSWORD", "********"},
		{"EMPTY", ""},
		{"GITHUB_TOKEN", "********"},
		{"GLITCH_DEVICE", "compact"},
		{"PATH", "/usr/bin"},
		{"aws_secret_access_key", "********"},
	}, got)
}
