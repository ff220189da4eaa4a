package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody SendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer server.Close()

	client := NewClient("test-token").WithBaseURL(server.URL)
	err := client.SendMessage(context.Background(), SendMessageRequest{ChatID: 42, Text: "hello"})

	require.NoError(t, err)
	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, int64(42), gotBody.ChatID)
	assert.Equal(t, "hello", gotBody.Text)
}

func TestAPIErrorSurfacesDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	client := NewClient("test-token").WithBaseURL(server.URL)
	err := client.SendMessage(context.Background(), SendMessageRequest{ChatID: 1, Text: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestGetFileAndDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bottest-token/getFile":
			w.Write([]byte(`{"ok":true,"result":{"file_id":"abc","file_path":"voice/file_1.oga"}}`))
		case "/file/bottest-token/voice/file_1.oga":
			w.Write([]byte("audio-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient("test-token").WithBaseURL(server.URL)

	file, err := client.GetFile(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "voice/file_1.oga", file.FilePath)

	data, err := client.DownloadFile(context.Background(), file.FilePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), data)
}
