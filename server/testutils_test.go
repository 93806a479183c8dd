package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/remigerme/the-crew-solver/catalog"
	utils "github.com/remigerme/the-crew-solver/internal"
	"github.com/remigerme/the-crew-solver/protocol"
	"github.com/remigerme/the-crew-solver/store"
	"github.com/stretchr/testify/require"
)

// feasibleDeal is won whatever is played: player 0 takes both tricks.
var feasibleDeal = protocol.DealSpec{Players: []protocol.PlayerSpec{
	{Hand: []string{"trump:4", "blue:2"}, Tasks: []protocol.TaskSpec{{Kind: "win_cards", Cards: []string{"blue:1", "red:6"}}}},
	{Hand: []string{"blue:1", "red:6"}},
}}

// infeasibleDeal cannot avoid winning blue.
var infeasibleDeal = protocol.DealSpec{Players: []protocol.PlayerSpec{
	{Hand: []string{"trump:4"}, Tasks: []protocol.TaskSpec{{Kind: "win_trick_count", N: 0}}},
	{Hand: []string{"blue:1"}},
}}

func newTestServer(t *testing.T, opts Options) *SolveServer {
	t.Helper()
	logger, _ := utils.Logger()
	cat, err := catalog.Load()
	require.NoError(t, err)

	s := NewServer(logger, store.NewInMemoryJobStore(), cat, opts)
	t.Cleanup(func() {
		s.Shutdown(context.Background())
	})
	return s
}

func mustMakeJson(t *testing.T, input interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(input)
	utils.AssertNoError(t, err)

	return data
}

func newSolveRequest(data []byte) *http.Request {
	request, _ := http.NewRequest(http.MethodPost, "/solve", bytes.NewBuffer(data))
	return request
}

func newGetJobRequest(jobID string) *http.Request {
	request, _ := http.NewRequest(http.MethodGet, "/solve/"+jobID, nil)
	return request
}

func submit(t *testing.T, s *SolveServer, req protocol.SolveRequest) string {
	t.Helper()

	response := httptest.NewRecorder()
	s.ServeHTTP(response, newSolveRequest(mustMakeJson(t, req)))
	assertStatus(t, response.Code, http.StatusCreated)

	var got NewJobRes
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
	require.NotEmpty(t, got.JobID)
	return got.JobID
}

// waitForJob polls the job until it finishes.
func waitForJob(t *testing.T, s *SolveServer, jobID string) protocol.JobResponse {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for {
		response := httptest.NewRecorder()
		s.ServeHTTP(response, newGetJobRequest(jobID))
		assertStatus(t, response.Code, http.StatusOK)

		var got protocol.JobResponse
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &got))
		if got.Status.Finished() {
			return got
		}
		if time.Now().After(deadline) {
			t.Fatalf("job %s still %s", jobID, got.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// ASSERTIONS

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got status %d, want %d", got, want)
	}
}
