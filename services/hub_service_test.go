package services

import (
	"encoding/json"
	"testing"
	"time"

	"bookshelf/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []byte) models.WSMessage {
	t.Helper()
	select {
	case raw := <-ch:
		var msg models.WSMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
	return models.WSMessage{}
}

func TestHubService_PublishAndDirect(t *testing.T) {
	hub := NewHubService()
	defer hub.Close()

	alice := models.NewClient(hub.GetHub(), nil, 1)
	bob := models.NewClient(hub.GetHub(), nil, 2)
	require.True(t, hub.Register(alice))
	require.True(t, hub.Register(bob))

	hub.Publish(models.EventPostCreated, map[string]string{"title": "Hello"})
	assert.Equal(t, models.EventPostCreated, receive(t, alice.Send).Type)
	assert.Equal(t, models.EventPostCreated, receive(t, bob.Send).Type)

	hub.PublishToUser(2, models.EventCommentOnPost, map[string]string{"content": "hi"})
	assert.Equal(t, models.EventCommentOnPost, receive(t, bob.Send).Type)

	select {
	case <-alice.Send:
		t.Fatal("alice should not receive bob's direct message")
	case <-time.After(50 * time.Millisecond):
	}

	hub.Reply(alice, models.EventClientReady, nil)
	reply := receive(t, alice.Send)
	assert.Equal(t, models.EventClientReady, reply.Type)
	assert.Equal(t, alice.ID, reply.ClientID)

	hub.Unregister(alice)
	_, open := <-alice.Send
	assert.False(t, open)
}

func TestHubService_RegistrationAfterClose(t *testing.T) {
	hub := NewHubService()
	carol := models.NewClient(hub.GetHub(), nil, 3)
	require.True(t, hub.Register(carol))

	hub.Close()

	returned := make(chan bool)
	go func() {
		hub.Unregister(carol)
		returned <- hub.Register(models.NewClient(hub.GetHub(), nil, 4))
	}()

	select {
	case registered := <-returned:
		assert.False(t, registered)
	case <-time.After(time.Second):
		t.Fatal("registration calls blocked after the hub stopped")
	}

	_, open := <-carol.Send
	assert.False(t, open)
}
