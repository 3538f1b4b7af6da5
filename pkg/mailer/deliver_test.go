package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct{ to, subject, text, html string }

type fakeSender struct{ msgs []sent }

func (f *fakeSender) Send(_ context.Context, to, subject, text, html string) (string, error) {
	f.msgs = append(f.msgs, sent{to, subject, text, html})
	return "<id@example.com>", nil
}

func TestDeliverTemplate(t *testing.T) {
	s := &fakeSender{}
	id, err := Deliver(context.Background(), s, EmailJob{
		To:       "jake@example.com",
		Template: "new_follower",
		Data:     map[string]any{"Name": "jake", "Follower": "anna", "AppName": "Conduit"},
	})
	require.NoError(t, err)
	assert.Equal(t, "<id@example.com>", id)
	require.Len(t, s.msgs, 1)
	assert.Equal(t, "anna started following you", s.msgs[0].subject)
	assert.Contains(t, s.msgs[0].text, "anna is now following you on Conduit.")
}

func TestDeliverRaw(t *testing.T) {
	s := &fakeSender{}
	_, err := Deliver(context.Background(), s, EmailJob{To: "a@example.com", Subject: "hi", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, sent{"a@example.com", "hi", "", "<p>hi</p>"}, s.msgs[0])

	_, err = Deliver(context.Background(), s, EmailJob{To: "a@example.com", Subject: "hi"})
	assert.ErrorIs(t, err, ErrEmptyJob)

	_, err = Deliver(context.Background(), s, EmailJob{To: "a@example.com", Template: "nope"})
	assert.Error(t, err)
	assert.Len(t, s.msgs, 1)
}
