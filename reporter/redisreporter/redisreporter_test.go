package redisreporter

import (
	"os"
	"testing"

	subgroups "github.com/antoniolopezmc/subgroups-sub001"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	"github.com/antoniolopezmc/subgroups-sub001/reporter"
	"github.com/antoniolopezmc/subgroups-sub001/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	redis "gopkg.in/redis.v5"
)

func client(t *testing.T) *redis.Client {
	addr := os.Getenv("SUBGROUPS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SUBGROUPS_TEST_REDIS_ADDR not set")
	}
	rc := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rc.Close() })
	return rc
}

func subgroup(value string, quality float64) *subgroups.Subgroup {
	return &subgroups.Subgroup{
		Pattern:        subgroups.Pattern{feature.NewSelector("a1", feature.Equal, value)},
		Target:         feature.NewTarget("class", "y"),
		Counts:         tree.Counts{TP: 1},
		Totals:         tree.Counts{TP: 2, FP: 2},
		Quality:        quality,
		QualityMeasure: "WRAcc",
	}
}

func TestReportStoresSubgroupsByQuality(t *testing.T) {
	rc := client(t)
	key := "subgroups-test:redisreporter"
	require.NoError(t, Reset(rc, key))
	defer Reset(rc, key)

	r := New(rc, key)
	require.NoError(t, r.Report(subgroup("a", 0.1)))
	require.NoError(t, r.Report(subgroup("b", 0.3)))
	require.NoError(t, r.Report(subgroup("c", 0.2)))
	require.NoError(t, r.Close())

	best, err := Best(rc, key, 2, func(data []byte) (*subgroups.Subgroup, error) {
		return reporter.DecodeJSON(data, nil)
	})
	require.NoError(t, err)
	assert.Equal(t, []*subgroups.Subgroup{subgroup("b", 0.3), subgroup("c", 0.2)}, best)
}

func TestReportFailsWithEmptyKey(t *testing.T) {
	r := New(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "")
	assert.Error(t, r.Report(subgroup("a", 0.1)))
}
