// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package languagetool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glotcheck/glotcheck/annotation"
	"github.com/glotcheck/glotcheck/logger"
	"github.com/glotcheck/glotcheck/spancache"
)

const sampleResponse = `{
	"language": {
		"code": "en-US",
		"name": "English (US)",
		"detectedLanguage": {"code": "en-US", "confidence": 0.92}
	},
	"matches": [
		{
			"offset": 4,
			"length": 3,
			"message": "Possible spelling mistake found.",
			"shortMessage": "Spelling mistake",
			"rule": {"id": "MORFOLOGIK_RULE_EN_US", "category": {"id": "TYPOS", "name": "Possible Typo"}},
			"replacements": [{"value": "the"}, {"value": "ten"}]
		},
		{
			"offset": -1,
			"length": 3,
			"message": "bogus offset, must be dropped",
			"rule": {"id": "X", "category": {"id": "TYPOS"}},
			"replacements": []
		},
		{
			"offset": 10,
			"length": 0,
			"message": "zero length, must be dropped",
			"rule": {"id": "Y", "category": {"id": "GRAMMAR"}},
			"replacements": []
		}
	]
}`

func TestServiceCode(t *testing.T) {
	for in, want := range map[string]string{
		"en":    "en-US",
		"en-GB": "en-US",
		"ja":    "ja-JP",
		"it":    "it",
		"xx":    "auto",
		"":      "auto",
		"auto":  "auto",
	} {
		require.Equal(t, want, ServiceCode(in), "input %q", in)
	}
}

func TestCheck(t *testing.T) {
	t.Run("normalizes matches and language", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v2/check", r.URL.Path)
			require.NoError(t, r.ParseForm())
			require.Equal(t, "Teh cat", r.FormValue("text"))
			require.Equal(t, "en-US", r.FormValue("language"))
			require.Equal(t, "default", r.FormValue("level"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sampleResponse))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL}, nil, nil, logger.NewNop())
		resp, err := client.Check(context.Background(), "Teh cat", "en")
		require.NoError(t, err)

		require.Len(t, resp.Matches, 1)
		m := resp.Matches[0]
		require.Equal(t, 4, m.Offset)
		require.Equal(t, 3, m.Length)
		require.Equal(t, annotation.CategorySpelling, m.Category)
		require.Equal(t, annotation.SourceExternalService, m.Source)
		require.Equal(t, []string{"the", "ten"}, m.Replacements)
		require.Equal(t, "Spelling mistake", m.ShortMessage)

		require.NotNil(t, resp.Language)
		require.Equal(t, "en-US", resp.Language.Language)
		require.InDelta(t, 0.92, resp.Language.Confidence, 1e-9)
		require.True(t, resp.Language.Reliable)
	})

	t.Run("non-success status becomes ServiceError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL}, nil, nil, logger.NewNop())
		_, err := client.Check(context.Background(), "text", "en")
		require.Error(t, err)

		var serviceErr *ServiceError
		require.ErrorAs(t, err, &serviceErr)
		require.Equal(t, http.StatusTooManyRequests, serviceErr.StatusCode)
	})

	t.Run("repeated checks hit the cache", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sampleResponse))
		}))
		defer server.Close()

		cache := spancache.New[CheckResponse](16, time.Minute)
		client := New(Config{BaseURL: server.URL}, nil, cache, logger.NewNop())

		first, err := client.Check(context.Background(), "Teh cat", "en")
		require.NoError(t, err)
		second, err := client.Check(context.Background(), "Teh cat", "en")
		require.NoError(t, err)

		require.Equal(t, int64(1), calls.Load())
		require.Equal(t, first.Matches, second.Matches)

		// A different text misses the cache.
		_, err = client.Check(context.Background(), "another text", "en")
		require.NoError(t, err)
		require.Equal(t, int64(2), calls.Load())
	})

	t.Run("unreachable service returns an error", func(t *testing.T) {
		client := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, nil, nil, logger.NewNop())
		_, err := client.Check(context.Background(), "text", "en")
		require.Error(t, err)
	})
}

func TestDetectLanguage(t *testing.T) {
	t.Run("reads the detected language", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "auto", r.FormValue("language"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sampleResponse))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL}, nil, nil, logger.NewNop())
		res, err := client.DetectLanguage(context.Background(), "some text")
		require.NoError(t, err)
		require.Equal(t, "en-US", res.Language)
		require.True(t, res.Reliable)
	})

	t.Run("missing language is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"matches": []}`))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL}, nil, nil, logger.NewNop())
		_, err := client.DetectLanguage(context.Background(), "some text")
		require.Error(t, err)
	})
}

func TestWarmup(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"matches": [], "language": {"code": "en-US"}}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, nil, nil, logger.NewNop())
	client.Warmup(context.Background(), []string{"en", "ja", "it"})
	require.Equal(t, int64(3), calls.Load())
}
