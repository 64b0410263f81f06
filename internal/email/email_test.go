package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMessage() ChildCredentialsMessage {
	return ChildCredentialsMessage{
		ParentEmail: "grace@example.com",
		ParentName:  "Grace Hopper",
		LoginURL:    "https://mystudyswaps.com/child-login",
		Children: []ChildCredentials{
			{FirstName: "Ada", LastName: "Lovelace", Username: "adalovelace42", Password: "ada123", Age: 9, KeyStage: "KS2"},
		},
	}
}

func TestRenderChildCredentials(t *testing.T) {
	html, text, err := RenderChildCredentials(sampleMessage())
	require.NoError(t, err)

	assert.Contains(t, html, "adalovelace42")
	assert.Contains(t, html, "ada123")
	assert.Contains(t, html, `href="https://mystudyswaps.com/child-login"`)
	assert.Contains(t, text, "Username: adalovelace42")
	assert.Contains(t, text, "Age: 9 | Key Stage: KS2")
}

func TestRenderEscapesNames(t *testing.T) {
	msg := sampleMessage()
	msg.ParentName = "<script>x</script>"

	html, _, err := RenderChildCredentials(msg)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestSendGridSender(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(server.Close)

	sender := NewSendGridSender("sg-key", "noreply@mystudyswaps.com").withBaseURL(server.URL + "/v3/mail/send")
	require.NoError(t, sender.SendChildCredentials(context.Background(), sampleMessage()))

	assert.Equal(t, childCredentialsSubject, payload["subject"])
	from := payload["from"].(map[string]any)
	assert.Equal(t, "noreply@mystudyswaps.com", from["email"])
}

func TestSendGridSenderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	sender := NewSendGridSender("bad", "noreply@mystudyswaps.com").withBaseURL(server.URL + "/v3/mail/send")
	err := sender.SendChildCredentials(context.Background(), sampleMessage())
	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestDisabledAndMockSenders(t *testing.T) {
	assert.ErrorIs(t, NewDisabledSender().SendChildCredentials(context.Background(), sampleMessage()), ErrDisabled)

	mock := &MockSender{}
	require.NoError(t, mock.SendChildCredentials(context.Background(), sampleMessage()))
	assert.Len(t, mock.Messages(), 1)
}
