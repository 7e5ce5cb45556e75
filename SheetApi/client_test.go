package SheetApi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotConfigured(t *testing.T) {
	client := NewClient("")
	assert.False(t, client.Configured())

	_, err := client.FetchHistory(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = client.Dispatch(context.Background(), map[string]string{"action": "delete"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.False(t, client.Ping(context.Background()))
}

func TestFetchHistoryFlatRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "getHistory", r.URL.Query().Get("action"))
		io.WriteString(w, `[
			{"id": 1, "date": "11/03/2025", "userType": "Officeboy", "taskName": "Light On",
			 "status": "Completed", "completedTasks": "", "totalTasks": "10", "completionPercentage": 90.0}
		]`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	entries, err := client.FetchHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, FlexString("1"), entry.ID)
	assert.False(t, entry.Grouped())
	assert.Equal(t, "Officeboy", entry.SubmitterName())
	assert.EqualValues(t, 0, entry.CompletedTasks)
	assert.EqualValues(t, 10, entry.TotalTasks)
	assert.EqualValues(t, 90, entry.CompletionPercentage)
}

func TestFetchHistoryScriptError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error": "Spreadsheet not found"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchHistory(context.Background())

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Snippet, "Spreadsheet not found")
}

func TestFetchHistoryNonJSON(t *testing.T) {
	// Apps Script loves answering HTML error pages with status 200.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html><body>"+strings.Repeat("Authorization required. ", 20)+"</body></html>")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchHistory(context.Background())

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.LessOrEqual(t, len(malformed.Snippet), snippetLimit+3)
	assert.Contains(t, malformed.Error(), "not JSON")
}

func TestFetchDetailUnwrapsArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "getDetail", r.URL.Query().Get("action"))
		assert.Equal(t, "2025-11-03_opening_john", r.URL.Query().Get("id"))
		io.WriteString(w, `[{"id": "2025-11-03_opening_john", "name": "John Doe",
			"tasks": [{"taskName": "Light On", "status": "Completed"}]}]`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	entry, err := client.FetchDetail(context.Background(), "2025-11-03_opening_john")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "John Doe", entry.SubmitterName())
	assert.True(t, entry.Grouped())
}

func TestFetchDetailMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	entry, err := client.FetchDetail(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestFetchUserList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result": "success", "users": ["John Doe", "Jane Smith"]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	users, err := client.FetchUserList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"John Doe", "Jane Smith"}, users)
}

func TestFetchUserListFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result": "error", "message": "no user sheet"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchUserList(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no user sheet")
}

func TestAuthenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "authenticate", r.URL.Query().Get("action"))
		assert.Equal(t, "John Doe", r.URL.Query().Get("name"))
		io.WriteString(w, `{"result": "success", "user": {"name": "John Doe", "role": "Officeboy"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	user, err := client.Authenticate(context.Background(), "John Doe", "secret")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", user.Name)
	assert.Equal(t, "Officeboy", user.Role)
}

func TestAuthenticateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result": "error", "message": "wrong password"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Authenticate(context.Background(), "John Doe", "nope")
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestDispatch(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		// The script's response to writes is not machine-checkable; anything
		// it says must be ignored.
		io.WriteString(w, "whatever")
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Dispatch(context.Background(), map[string]string{"action": "delete", "id": "x"})
	require.NoError(t, err)
	assert.Equal(t, "delete", received["action"])
}

func TestDispatchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL)
	err := client.Dispatch(context.Background(), map[string]string{"action": "delete"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}

func TestDispatchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Dispatch(context.Background(), map[string]string{"action": "delete"})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "Checklist Data Logger")
	}))

	client := NewClient(server.URL)
	assert.True(t, client.Ping(context.Background()))

	server.Close()
	assert.False(t, client.Ping(context.Background()))
}
