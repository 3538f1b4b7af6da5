package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-realworld/pkg/mailer"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, CompareHashAndPassword(hash, "password123"))
	assert.False(t, CompareHashAndPassword(hash, "nope"))

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestPrepareJob(t *testing.T) {
	job := mailer.EmailJob{To: "anna@example.com", Template: "new_follower"}
	PrepareJob(&job, "Conduit")
	assert.Equal(t, "anna@example.com", job.Data["Email"])
	assert.Equal(t, "Conduit", job.Data["AppName"])

	job = mailer.EmailJob{To: "x@example.com", Data: map[string]any{"AppName": "Mine"}}
	PrepareJob(&job, "Conduit")
	assert.Equal(t, "Mine", job.Data["AppName"])
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/b/avatars/1/x.png", PublicURL("b", "avatars/1/x.png"))
}
