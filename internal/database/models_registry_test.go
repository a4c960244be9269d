package database

import (
	"testing"

	modelspkg "folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesEngagementTables(t *testing.T) {
	var sawLike, sawComment bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.Like:
			sawLike = true
		case *modelspkg.Comment:
			sawComment = true
		}
	}
	require.True(t, sawLike, "PersistentModels should include Like")
	require.True(t, sawComment, "PersistentModels should include Comment")
}

func TestPersistentModels_UsersBeforeProfiles(t *testing.T) {
	list := PersistentModels()
	_, firstIsUser := list[0].(*modelspkg.User)
	_, secondIsProfile := list[1].(*modelspkg.Profile)
	assert.True(t, firstIsUser)
	assert.True(t, secondIsProfile)
}
