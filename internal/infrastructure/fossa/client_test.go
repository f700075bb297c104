package fossa

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:        srv.URL + "/api",
		Token:          "secret",
		OrganizationId: 162,
		HTTPClient:     srv.Client(),
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClient_NoToken(t *testing.T) {
	client, err := NewClient(Config{}, zap.NewNop())
	assert.Nil(t, client)
	assert.ErrorIs(t, err, errNoToken)
}

func TestClient_ListTeams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/teams", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Foo","users":[{"id":10}]},{"id":2,"name":"Bar"}]`))
	})

	teams, err := client.ListTeams(context.Background())

	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Foo", teams[0].Name)
	assert.Equal(t, 10, teams[0].Users[0].Id)
}

func TestClient_ListUsers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)
		w.Write([]byte(`[{"id":10,"email":"a@x.com","username":"alice"}]`))
	})

	users, err := client.ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@x.com", users[0].Email)
}

func TestClient_CreateTeam(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/teams", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Foo", body["name"])
		assert.Equal(t, false, body["autoAddUsers"])
		assert.Equal(t, float64(4), body["defaultRoleId"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42,"name":"Foo"}`))
	})

	team, err := client.CreateTeam(context.Background(), CreateTeamRequest{Name: "Foo", DefaultRoleId: 4})

	require.NoError(t, err)
	assert.Equal(t, 42, team.Id)
}

func TestClient_UpdateTeamUsers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/teams/42/users", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"action":"add","users":[{"id":10,"roleId":4}]}`, string(body))
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpdateTeamUsers(context.Background(), 42, UpdateTeamUsersRequest{
		Action: ActionAdd,
		Users:  []TeamUserPayload{{Id: 10, RoleId: 4}},
	})

	assert.NoError(t, err)
}

func TestClient_Invite(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/organizations/162/invite", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `["b@x.com"]`, string(body))
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.Invite(context.Background(), []string{"b@x.com"}))
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"bad role"}`))
	})

	err := client.UpdateTeamUsers(context.Background(), 7, UpdateTeamUsersRequest{
		Action: ActionAdd,
		Users:  []TeamUserPayload{{Id: 1, RoleId: 4}},
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "/teams/7/users")
	assert.Contains(t, err.Error(), `"roleId":4`)
	assert.Contains(t, err.Error(), "400")
	assert.False(t, IsTransient(err))
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestClient_ServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListTeams(context.Background())

	assert.True(t, IsTransient(err))
}

func TestClient_TimeoutIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.ListUsers(ctx)

	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
	assert.True(t, IsTransient(err))
}
