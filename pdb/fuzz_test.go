package pdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func FuzzDecodePage(f *testing.F) {
	for _, rows := range [][]Row{genreRows(3), bulkyTracks(2), DefaultColumns(), DefaultHistory()} {
		page, _, err := EncodePage(dataHeader(rows[0].Table()), rows, DefaultPageSize)
		require.NoError(f, err)
		f.Add(page)
	}
	f.Fuzz(func(t *testing.T, b []byte) {
		p, err := DecodePage(b)
		if err != nil {
			return
		}
		for i, r := range p.Rows {
			_, _ = EncodeRow(r, i)
		}
	})
}

func FuzzDecodeString(f *testing.F) {
	for _, s := range []string{"", "Pop", "Büro", string(make([]byte, 200))} {
		b, err := EncodeString(s)
		require.NoError(f, err)
		f.Add(b)
	}
	f.Fuzz(func(t *testing.T, b []byte) {
		s, n, err := DecodeString(b, 0)
		if err != nil {
			return
		}
		require.LessOrEqual(t, n, len(b))
		enc, err := EncodeString(s)
		if err != nil {
			return
		}
		got, _, err := DecodeString(enc, 0)
		require.NoError(t, err)
		require.Equal(t, s, got)
	})
}
