package runner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/brackets/b1/slides", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bracket":{"id":"b1","year":2024},"wrapped":{"bracket":{"chalkScore":{"shareId":"s2","data":{"percentile":72}}}}}`))
	})
	mux.HandleFunc("/v1/teams", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"uconn"},{"id":"purdue"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckExpectations(t *testing.T) {
	body := []byte(`{"bracket":{"id":"b1","year":2024},"list":[{"id":"a"},{"id":"b"}]}`)

	tests := []struct {
		name    string
		exp     Expectations
		status  int
		wantErr string
	}{
		{name: "defaults to 200", exp: Expectations{}, status: 200},
		{name: "status mismatch", exp: Expectations{Status: 404}, status: 200, wantErr: "expected status 404"},
		{name: "json match", exp: Expectations{JSON: map[string]any{"bracket.id": "b1", "bracket.year": 2024, "list.1.id": "b"}}, status: 200},
		{name: "json mismatch", exp: Expectations{JSON: map[string]any{"bracket.id": "b2"}}, status: 200, wantErr: "bracket.id: expected b2"},
		{name: "json missing", exp: Expectations{JSON: map[string]any{"group.id": "g1"}}, status: 200, wantErr: "group.id: missing"},
		{name: "present and absent", exp: Expectations{Present: []string{"list.0"}, Absent: []string{"group", "list.5"}}, status: 200},
		{name: "unexpected field", exp: Expectations{Absent: []string{"bracket"}}, status: 200, wantErr: "expected to be absent"},
		{name: "array len", exp: Expectations{ArrayLen: map[string]int{"list": 2}}, status: 200},
		{name: "array len mismatch", exp: Expectations{ArrayLen: map[string]int{"list": 3}}, status: 200, wantErr: "expected 3 elements"},
		{name: "not an array", exp: Expectations{ArrayLen: map[string]int{"bracket": 1}}, status: 200, wantErr: "not an array"},
		{name: "body contains", exp: Expectations{BodyContains: []string{`"id":"a"`}, BodyNotContains: []string{"error"}}, status: 200},
		{name: "body contains miss", exp: Expectations{BodyContains: []string{"winnerId"}}, status: 200, wantErr: "does not contain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkExpectations(tt.exp, tt.status, body)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunSuite(t *testing.T) {
	srv := testServer(t)
	r := NewRunner(srv.URL + "/")

	suite := TestSuite{
		Name: "sample",
		Steps: []TestStep{
			{Name: "slides", Path: "/v1/brackets/b1/slides", Expectations: Expectations{JSON: map[string]any{"wrapped.bracket.chalkScore.data.percentile": 72}}},
			{Name: "missing", Path: "/v1/brackets/b2/slides", Expectations: Expectations{Status: 200}},
			{Name: "teams", Path: "/v1/teams", Expectations: Expectations{ArrayLen: map[string]int{"": 2}}},
		},
	}

	result, err := r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (missing) failed")
	require.Len(t, result.Results, 3)
	assert.True(t, result.Results[0].Success)
	assert.False(t, result.Results[1].Success)
	assert.True(t, result.Results[2].Success)

	r.ErrorHandlingMode = ErrorHandlingExit
	result, err = r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Len(t, result.Results, 2)
}

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	write("a.json", `{"name":"A","steps":[{"path":"/health"}]}`)
	write("b.json", `{"name":"B","steps":[{"path":"/v1/teams"}]}`)
	write("inner.json", `{"name":"Inner","cases":["b.json"]}`)
	all := write("all.json", `{"name":"All","cases":["a.json","inner.json"]}`)

	jobs, err := LoadTestSuiteWithExpansion(all, dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "A", jobs[0].Name)
	assert.Equal(t, "B", jobs[1].Name)

	write("broken.json", `{"name":"Broken","cases":["missing.json"]}`)
	_, err = LoadTestSuiteWithExpansion(filepath.Join(dir, "broken.json"), dir)
	assert.ErrorContains(t, err, "missing.json")
}
