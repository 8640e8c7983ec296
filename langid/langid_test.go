// Copyright (c) 2024-present Glotcheck Contributors. All Rights Reserved.
// See LICENSE.txt for license information.

package langid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glotcheck/glotcheck/logger"
)

var testSupported = []string{"en", "de", "fr", "es", "it", "ja", "zh", "ko", "ru", "ar", "th"}

type fakeRemote struct {
	result Result
	err    error
	calls  int
}

func (f *fakeRemote) DetectLanguage(_ context.Context, _ string) (Result, error) {
	f.calls++
	return f.result, f.err
}

func TestIdentifyUnicodeHeuristics(t *testing.T) {
	identifier := New(nil, testSupported, "en-US", logger.NewNop())

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "hiragana is japanese", text: "これはテストです", want: "ja"},
		{name: "kana wins over han", text: "私は学生です", want: "ja"},
		{name: "hangul is korean", text: "안녕하세요", want: "ko"},
		{name: "han without kana is chinese", text: "我是学生", want: "zh"},
		{name: "thai script", text: "สวัสดีครับ", want: "th"},
		{name: "arabic script", text: "مرحبا بالعالم", want: "ar"},
		{name: "cyrillic is russian", text: "привет мир", want: "ru"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := identifier.Identify(context.Background(), tc.text)
			require.Equal(t, tc.want, res.Language)
			require.Equal(t, SourceUnicodePattern, res.Source)
			require.True(t, res.Reliable)
			require.InDelta(t, 0.95, res.Confidence, 0.001)
		})
	}
}

func TestIdentifyStatistical(t *testing.T) {
	identifier := New(nil, testSupported, "en-US", logger.NewNop())

	res := identifier.Identify(context.Background(),
		"The quick brown fox jumps over the lazy dog and keeps on running through the quiet English countryside.")

	require.Equal(t, "en", res.Language)
	require.Equal(t, SourceStatistical, res.Source)
	require.Greater(t, res.Confidence, 0.0)
}

func TestIdentifyRemoteFallback(t *testing.T) {
	t.Run("remote result used when local steps are inconclusive", func(t *testing.T) {
		remote := &fakeRemote{result: Result{Language: "fr", Confidence: 0.8, Reliable: true}}
		identifier := New(remote, testSupported, "en-US", logger.NewNop())

		res := identifier.Identify(context.Background(), "1234")

		require.Equal(t, 1, remote.calls)
		require.Equal(t, "fr", res.Language)
		require.Equal(t, SourceRemote, res.Source)
	})

	t.Run("remote failure falls back to default", func(t *testing.T) {
		remote := &fakeRemote{err: errors.New("unreachable")}
		identifier := New(remote, testSupported, "en-US", logger.NewNop())

		res := identifier.Identify(context.Background(), "+++")

		require.Equal(t, "en-US", res.Language)
		require.False(t, res.Reliable)
	})
}

func TestIdentifyNeverFails(t *testing.T) {
	identifier := New(nil, testSupported, "en-US", logger.NewNop())

	for _, text := range []string{"", " ", "123", "!!!"} {
		res := identifier.Identify(context.Background(), text)
		require.Equal(t, "en-US", res.Language, "text %q", text)
		require.False(t, res.Reliable)
		require.Equal(t, SourceDefault, res.Source)
	}
}

func TestIdentifyUnsupportedCollapsesToDefault(t *testing.T) {
	// Thai script resolves to "th", which this instance doesn't support.
	identifier := New(nil, []string{"en", "ja"}, "en-US", logger.NewNop())

	res := identifier.Identify(context.Background(), "สวัสดี")

	require.Equal(t, "en-US", res.Language)
	require.False(t, res.Reliable)
	// The script detection was for Thai, not for the default language;
	// its confidence must not survive the collapse.
	require.Zero(t, res.Confidence)
}

func TestBase(t *testing.T) {
	require.Equal(t, "en", Base("en-US"))
	require.Equal(t, "en", Base("en"))
	require.Equal(t, "ja", Base("ja-JP"))
	require.Equal(t, "zh", Base("zh-CN"))
	require.Equal(t, "not a tag", Base("not a tag"))
}
