package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	paths := []string{
		"login", "logout", "whoami", "feed", "liked",
		"post create", "post show", "post delete",
		"like", "unlike", "comment add", "comment delete",
		"follow", "unfollow", "profile", "search", "browse", "version",
	}
	for _, path := range paths {
		c, _, err := rootCmd.Find(strings.Fields(path))
		require.NoError(t, err, path)
		assert.Equal(t, strings.Fields(path)[len(strings.Fields(path))-1], c.Name(), path)
	}
}

func TestArgValidation(t *testing.T) {
	cases := map[string][]string{
		"post create":    {},
		"comment add":    {"p1"},
		"comment delete": {"p1"},
		"like":           {},
	}
	for path, args := range cases {
		c, _, err := rootCmd.Find(strings.Fields(path))
		require.NoError(t, err)
		assert.Error(t, c.Args(c, args), path)
	}
}
