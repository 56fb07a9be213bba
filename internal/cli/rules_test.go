package cli_test

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listedRule struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Severity string   `json:"severity"`
	Enabled  bool     `json:"enabled"`
	Tags     []string `json:"tags"`
}

func listRules(t *testing.T, args ...string) []listedRule {
	t.Helper()

	stdout, _, err := execute(t, append([]string{"rules", "--format", "json"}, args...)...)
	require.NoError(t, err)

	var rules []listedRule
	require.NoError(t, json.Unmarshal([]byte(stdout), &rules))
	return rules
}

func TestRules_JSON(t *testing.T) {
	t.Parallel()

	rules := listRules(t)
	require.Len(t, rules, 26)

	assert.True(t, slices.IsSortedFunc(rules, func(a, b listedRule) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	}))

	idx := slices.IndexFunc(rules, func(r listedRule) bool { return r.ID == "TM010" })
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "crossref-resolution", rules[idx].Name)
}

func TestRules_Tag(t *testing.T) {
	t.Parallel()

	rules := listRules(t, "--tag", "crossref")
	require.NotEmpty(t, rules)

	for _, rule := range rules {
		assert.Contains(t, rule.Tags, "crossref", rule.ID)
	}

	assert.Empty(t, listRules(t, "--tag", "no-such-tag"))
}

func TestRules_Text(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "rules", "--rule-format", "id")
	require.NoError(t, err)

	assert.Contains(t, stdout, "TM001")
	assert.Contains(t, stdout, "TM026")
}
