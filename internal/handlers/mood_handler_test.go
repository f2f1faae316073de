package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-companion/internal/models"
	"ai-companion/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMoodHandler() *MoodHandler {
	return NewMoodHandler(repositories.NewMemoryMoodRepository(), log.New(&bytes.Buffer{}, "", 0))
}

func postMood(t *testing.T, handler *MoodHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/moods", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)
	return rec
}

func TestMoodHandler_Create(t *testing.T) {
	t.Run("stores a valid entry", func(t *testing.T) {
		handler := newMoodHandler()

		rec := postMood(t, handler, `{"userId":"u1","moodScore":4,"tags":["นอนหลับดี"],"note":"วันนี้โอเค"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var entry models.MoodEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, 4, entry.MoodScore)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("clamps scores into 1..5", func(t *testing.T) {
		handler := newMoodHandler()

		rec := postMood(t, handler, `{"userId":"u1","moodScore":9}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		var entry models.MoodEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
		assert.Equal(t, 5, entry.MoodScore)

		rec = postMood(t, handler, `{"userId":"u1","moodScore":-2}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
		assert.Equal(t, 1, entry.MoodScore)
	})

	t.Run("requires a user id", func(t *testing.T) {
		handler := newMoodHandler()
		rec := postMood(t, handler, `{"moodScore":3}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("truncates extra tags", func(t *testing.T) {
		handler := newMoodHandler()

		tags := make([]string, 25)
		for i := range tags {
			tags[i] = "tag"
		}
		payload, err := json.Marshal(map[string]interface{}{"userId": "u1", "moodScore": 3, "tags": tags})
		require.NoError(t, err)

		rec := postMood(t, handler, string(payload))
		require.Equal(t, http.StatusCreated, rec.Code)

		var entry models.MoodEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
		assert.Len(t, entry.Tags, 20)
	})

	t.Run("truncates an oversized note", func(t *testing.T) {
		handler := newMoodHandler()
		payload, err := json.Marshal(map[string]interface{}{
			// Thai runes: truncation must cut on rune boundaries, not bytes.
			"userId": "u1", "moodScore": 3, "note": strings.Repeat("วันนี้เหนื่อย ", 200),
		})
		require.NoError(t, err)

		rec := postMood(t, handler, string(payload))
		require.Equal(t, http.StatusCreated, rec.Code)

		var entry models.MoodEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
		assert.Len(t, []rune(entry.Note), 2000)
	})
}

func TestMoodHandler_List(t *testing.T) {
	handler := newMoodHandler()
	for i := 0; i < 3; i++ {
		rec := postMood(t, handler, `{"userId":"u1","moodScore":3}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	list := func(query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/moods"+query, nil)
		rec := httptest.NewRecorder()
		handler.List(rec, req)
		return rec
	}

	t.Run("returns the user's page", func(t *testing.T) {
		rec := list("?userId=u1&pageSize=2")
		require.Equal(t, http.StatusOK, rec.Code)

		var page models.MoodPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.EqualValues(t, 3, page.Total)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 1, page.Page)
	})

	t.Run("requires userId", func(t *testing.T) {
		rec := list("")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed time bounds", func(t *testing.T) {
		rec := list("?userId=u1&from=yesterday")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a non-positive page", func(t *testing.T) {
		rec := list("?userId=u1&page=0")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("caps pageSize at 100", func(t *testing.T) {
		rec := list("?userId=u1&pageSize=500")
		require.Equal(t, http.StatusOK, rec.Code)

		var page models.MoodPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, 100, page.PageSize)
	})
}
