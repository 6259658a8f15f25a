package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	conf, err := Parse([]byte(`
app:
  env: test
mysql:
  host: 127.0.0.1
  port: 3306
  username: root
  password: secret
  database: ideabox
`))
	require.NoError(t, err)

	assert.Equal(t, "test", conf.App.Env)
	assert.Equal(t, 8080, conf.Server.Http)
	assert.Equal(t, 1.8, conf.Ranking.Hot.Gravity)
	assert.Equal(t, int64(20), conf.Ranking.Validation.MinNetSupport)
	assert.Len(t, conf.Reputation.Tiers, 6)
	assert.Equal(t, 200, conf.Sweep.BatchSize)
	assert.Equal(t,
		"root:secret@tcp(127.0.0.1:3306)/ideabox?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MySQL.Dsn())
	assert.False(t, conf.RocketMQ.Enabled())
}

func TestParse_OverlayKeepsUnsetFields(t *testing.T) {
	conf, err := Parse([]byte(`
ranking:
  hot:
    gravity: 1.5
  validation:
    min_comments: 2
reputation:
  min_vote_tier: 1
rocketmq:
  nameserver: ["127.0.0.1:9876"]
  topic: ideabox_events
`))
	require.NoError(t, err)

	assert.Equal(t, 1.5, conf.Ranking.Hot.Gravity)
	assert.Equal(t, 2.0, conf.Ranking.Hot.AgeOffset)
	assert.Equal(t, int64(2), conf.Ranking.Validation.MinComments)
	assert.Equal(t, 0.6, conf.Ranking.Validation.MinSupportRatio)
	assert.Equal(t, 1, conf.Reputation.MinVoteTier)
	assert.Equal(t, int64(3), conf.Reputation.Rewards.VoteWithReason)
	assert.True(t, conf.RocketMQ.Enabled())
}

func TestParse_RejectsBadTuning(t *testing.T) {
	_, err := Parse([]byte(`
ranking:
  hot:
    gravity: -1
`))
	assert.Error(t, err)

	_, err = Parse([]byte(`
sweep:
  concurrency: 0
`))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  debug: true\n"), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)
	assert.True(t, conf.Debug())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
