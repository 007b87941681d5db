package service

import (
	"bytes"
	"encoding/json"
	"testing"

	"toolkit-keeper/internal/models"
	"toolkit-keeper/internal/rpc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	path   string
	params map[string]interface{}
}

type fakeClient struct {
	calls []call
	resp  *rpc.HTTPResponse
}

func (f *fakeClient) record(method, path string, params map[string]interface{}) (*rpc.HTTPResponse, error) {
	f.calls = append(f.calls, call{method, path, params})
	return f.resp, nil
}

func (f *fakeClient) Get(path string, params map[string]interface{}) (*rpc.HTTPResponse, error) {
	return f.record("GET", path, params)
}

func (f *fakeClient) Post(path string, data interface{}) (*rpc.HTTPResponse, error) {
	return f.record("POST", path, nil)
}

func (f *fakeClient) Delete(path string, params map[string]interface{}) (*rpc.HTTPResponse, error) {
	return f.record("DELETE", path, params)
}

func (f *fakeClient) Close() error { return nil }

func okBody(t *testing.T, v any) *rpc.HTTPResponse {
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return &rpc.HTTPResponse{StatusCode: 200, Body: body}
}

func withName(t *testing.T, name string) {
	old := instanceName
	instanceName = name
	t.Cleanup(func() { instanceName = old })
}

func TestListServicesPrintsTables(t *testing.T) {
	client := &fakeClient{resp: okBody(t, models.ServiceListResponse{
		State: "running",
		Systems: []models.ServiceDetail{
			{Name: "Boundary System", Contract: "systems.BoundarySystem", Type: "*systems.boundarySystem", Priority: 0},
		},
		Services: []models.ServiceDetail{
			{Name: "process", Contract: "systems.DiagnosticsDataProvider", Priority: 10, Parent: "Diagnostics System"},
		},
	})}
	var out bytes.Buffer
	require.NoError(t, listServices(client, &out))

	text := out.String()
	assert.Contains(t, text, "running")
	assert.Contains(t, text, "Boundary System")
	assert.Contains(t, text, "Diagnostics System")
	assert.Equal(t, "/toolkit/api/v1/services", client.calls[0].path)
}

func TestGetServiceSendsName(t *testing.T) {
	withName(t, "beat")
	client := &fakeClient{resp: okBody(t, []models.ServiceDetail{{Name: "beat", Contract: "systems.Heartbeat", Kind: "service"}})}
	var out bytes.Buffer
	require.NoError(t, getService(client, &out, "systems.Heartbeat"))

	require.Len(t, client.calls, 1)
	assert.Equal(t, "/toolkit/api/v1/services/systems.Heartbeat", client.calls[0].path)
	assert.Equal(t, "beat", client.calls[0].params["name"])
	assert.Contains(t, out.String(), "systems.Heartbeat")
}

func TestSetEnabledPaths(t *testing.T) {
	client := &fakeClient{resp: &rpc.HTTPResponse{StatusCode: 200}}
	require.NoError(t, setEnabled(client, "systems.Heartbeat", false))

	withName(t, "beat")
	require.NoError(t, setEnabled(client, "systems.Heartbeat", true))

	assert.Equal(t, "/toolkit/api/v1/services/systems.Heartbeat/disable", client.calls[0].path)
	assert.Equal(t, "/toolkit/api/v1/services/systems.Heartbeat/enable?name=beat", client.calls[1].path)
}

func TestRemoveServiceReportsAPIError(t *testing.T) {
	client := &fakeClient{resp: &rpc.HTTPResponse{StatusCode: 404, Code: "service.notexist", Error: "not found"}}
	err := removeService(client, "systems.Nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service.notexist")
	assert.Equal(t, "DELETE", client.calls[0].method)
	assert.Nil(t, client.calls[0].params)
}
