package anlz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustTag(t *testing.T, p Payload) *Tag {
	t.Helper()
	tag, err := NewTag(p)
	require.NoError(t, err)
	return tag
}

func roundTripTag(t *testing.T, p Payload) (*Tag, []byte) {
	t.Helper()
	b, err := mustTag(t, p).Encode()
	require.NoError(t, err)
	got, err := DecodeTag(b)
	require.NoError(t, err)
	return got, b
}

func buildFile(t *testing.T, payloads ...Payload) []byte {
	t.Helper()
	f := New()
	for _, p := range payloads {
		_, err := f.Add(p)
		require.NoError(t, err)
	}
	data, err := f.Build()
	require.NoError(t, err)
	return data
}
