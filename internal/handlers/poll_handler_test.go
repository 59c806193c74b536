package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPoll(t *testing.T, env *testEnv, body map[string]any) map[string]any {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/polls", body)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	return decode(t, rec)
}

func TestCreatePoll(t *testing.T) {
	env := newTestEnv(t)

	created := createPoll(t, env, map[string]any{
		"question":  "Where should we eat tonight?",
		"options":   []string{"Chipotle", "Zingerman's"},
		"category":  "meal",
		"createdBy": "Sam",
	})

	assert.NotEmpty(t, created["shareCode"])
	assert.Equal(t, "Where should we eat tonight?", created["question"])
	assert.Equal(t, "meal", created["category"])
	assert.Equal(t, "Sam", created["createdBy"])
}

func TestCreatePollDefaults(t *testing.T) {
	env := newTestEnv(t)

	created := createPoll(t, env, map[string]any{
		"question": "Beach or hiking?",
		"options":  []string{"Beach", "Hiking"},
	})

	assert.Equal(t, "general", created["category"])
	assert.Equal(t, "Anonymous", created["createdBy"])
}

func TestCreatePollOptionBounds(t *testing.T) {
	env := newTestEnv(t)

	options := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("Option %d", i)
		}
		return out
	}

	cases := []struct {
		count int
		want  int
	}{
		{1, http.StatusBadRequest},
		{2, http.StatusCreated},
		{8, http.StatusCreated},
		{9, http.StatusBadRequest},
	}

	for _, tc := range cases {
		rec := env.do(t, http.MethodPost, "/api/polls", map[string]any{
			"question": "How many options?",
			"options":  options(tc.count),
		})
		assert.Equal(t, tc.want, rec.Code, "%d options", tc.count)
	}
}

func TestCreatePollRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]any{
		{"options": []string{"A", "B"}},
		{"question": strings.Repeat("q", 201), "options": []string{"A", "B"}},
		{"question": "Valid?", "options": []string{"A", strings.Repeat("o", 101)}},
		{"question": "Valid?", "options": []string{"A", ""}},
		{"question": "Valid?", "options": []string{"A", "B"}, "category": "sports"},
		{"question": "Valid?", "options": []string{"A", "B"}, "createdBy": strings.Repeat("n", 51)},
	}

	for i, body := range cases {
		rec := env.do(t, http.MethodPost, "/api/polls", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "case %d: %s", i, rec.Body.String())
	}
}

func TestGetPollFreshTallies(t *testing.T) {
	env := newTestEnv(t)

	created := createPoll(t, env, map[string]any{
		"question": "Spring break destination?",
		"options":  []string{"Miami", "Cancun", "Nashville"},
	})
	shareCode := created["shareCode"].(string)

	rec := env.do(t, http.MethodGet, "/api/polls/"+shareCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)

	assert.Equal(t, float64(0), body["totalVotes"])

	results := body["results"].([]any)
	require.Len(t, results, 3)
	for i, want := range []string{"Miami", "Cancun", "Nashville"} {
		entry := results[i].(map[string]any)
		assert.Equal(t, want, entry["option"])
		assert.Equal(t, float64(0), entry["votes"])
	}
}

func TestGetPollUnknownShareCode(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/polls/ffffffff", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCastVoteIndexBounds(t *testing.T) {
	env := newTestEnv(t)

	created := createPoll(t, env, map[string]any{
		"question": "When should we leave?",
		"options":  []string{"Friday", "Saturday"},
	})
	shareCode := created["shareCode"].(string)

	rec := env.do(t, http.MethodPost, "/api/polls/"+shareCode+"/vote", map[string]any{
		"optionIndex": 2,
		"voterName":   "Alex",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/polls/"+shareCode+"/vote", map[string]any{
		"optionIndex": 1,
		"voterName":   "Alex",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/polls/"+shareCode+"/vote", map[string]any{
		"voterName": "NoIndex",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCastVoteUnknownPoll(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/polls/ffffffff/vote", map[string]any{
		"optionIndex": 0,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCastVoteDuplicateVoter(t *testing.T) {
	env := newTestEnv(t)

	created := createPoll(t, env, map[string]any{
		"question": "Game night or movie night?",
		"options":  []string{"Games", "Movies"},
	})
	shareCode := created["shareCode"].(string)

	rec := env.do(t, http.MethodPost, "/api/polls/"+shareCode+"/vote", map[string]any{
		"optionIndex": 0,
		"voterName":   "Riley",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Second attempt conflicts even with a different option.
	rec = env.do(t, http.MethodPost, "/api/polls/"+shareCode+"/vote", map[string]any{
		"optionIndex": 1,
		"voterName":   "Riley",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_voted", decode(t, rec)["error"])

	rec = env.do(t, http.MethodGet, "/api/polls/"+shareCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["totalVotes"])
}

func TestCastVoteDistinctVotersSameOption(t *testing.T) {
	env := newTestEnv(t)

	created := createPoll(t, env, map[string]any{
		"question": "Hiking trail?",
		"options":  []string{"North loop", "South ridge"},
	})
	shareCode := created["shareCode"].(string)

	for _, voter := range []string{"Ana", "Ben"} {
		rec := env.do(t, http.MethodPost, "/api/polls/"+shareCode+"/vote", map[string]any{
			"optionIndex": 0,
			"voterName":   voter,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/polls/"+shareCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)

	assert.Equal(t, float64(2), body["totalVotes"])
	first := body["results"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(2), first["votes"])
}

func TestPollVotingScenario(t *testing.T) {
	env := newTestEnv(t)

	created := createPoll(t, env, map[string]any{
		"question":  "Where to eat?",
		"options":   []string{"A", "B"},
		"createdBy": "Sam",
	})
	shareCode := created["shareCode"].(string)

	rec := env.do(t, http.MethodPost, "/api/polls/"+shareCode+"/vote", map[string]any{
		"optionIndex": 0,
		"voterName":   "Sam",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	checkResults := func() {
		rec := env.do(t, http.MethodGet, "/api/polls/"+shareCode, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)

		assert.Equal(t, float64(1), body["totalVotes"])
		results := body["results"].([]any)
		a := results[0].(map[string]any)
		b := results[1].(map[string]any)
		assert.Equal(t, "A", a["option"])
		assert.Equal(t, float64(1), a["votes"])
		assert.Equal(t, "B", b["option"])
		assert.Equal(t, float64(0), b["votes"])
	}
	checkResults()

	rec = env.do(t, http.MethodPost, "/api/polls/"+shareCode+"/vote", map[string]any{
		"optionIndex": 1,
		"voterName":   "Sam",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	checkResults()
}
