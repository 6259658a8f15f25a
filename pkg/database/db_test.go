package database

import (
	"Ideabox/models"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMigrate_Idempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	m := db.Migrator()
	for _, model := range models.All() {
		assert.True(t, m.HasTable(model))
	}
	assert.True(t, m.HasIndex(&models.Idea{}, "idx_author_id"))
	assert.True(t, m.HasIndex(&models.Comment{}, "idx_comment_author"))
	assert.True(t, m.HasIndex(&models.Vote{}, "uk_idea_voter"))
}
