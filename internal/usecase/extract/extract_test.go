package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/seqyank/internal/domain"
)

func ptr(n int) *int { return &n }

func TestExtract_FullRangeRoundTrip(t *testing.T) {
	body := strings.Repeat("ACGT", 40)
	seq := domain.ReassembledSequence{BaseIdentifier: "A", Body: body}

	got, err := Extract(seq, domain.NewRange(1, len(body)), 60)
	require.NoError(t, err)
	assert.Equal(t, Render(seq, 60), got)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	assert.Equal(t, ">A", lines[0])
	assert.Equal(t, body, strings.Join(lines[1:], ""))
	assert.Len(t, lines[1], 60)
}

func TestExtract_Window(t *testing.T) {
	seq := domain.RawRecord{Identifier: "B", Description: "desc", Body: "ABCDEFGHIJ"}

	got, err := Extract(seq, domain.NewRange(3, 7), 2)
	require.NoError(t, err)
	assert.Equal(t, ">B desc\nCD\nEF\nG\n", got)
}

func TestExtract_OpenSidesDefaultToBounds(t *testing.T) {
	seq := domain.RawRecord{Identifier: "B", Body: "ABCDEFGHIJ"}

	got, err := Extract(seq, domain.CoordRange{Begin: ptr(8)}, 60)
	require.NoError(t, err)
	assert.Equal(t, ">B\nHIJ\n", got)

	got, err = Extract(seq, domain.CoordRange{End: ptr(2)}, 60)
	require.NoError(t, err)
	assert.Equal(t, ">B\nAB\n", got)
}

func TestExtract_OutOfBounds(t *testing.T) {
	seq := domain.RawRecord{Identifier: "B", Body: "ABCDE"}

	for _, r := range []domain.CoordRange{
		domain.NewRange(0, 3),
		domain.NewRange(2, 6),
		domain.NewRange(4, 3),
		{Begin: ptr(9)},
	} {
		_, err := Extract(seq, r, 60)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindRangeOutOfBounds))
		assert.ErrorIs(t, err, domain.ErrRangeOutOfBounds)
	}
}

func TestMinus(t *testing.T) {
	seq := domain.RawRecord{Identifier: "B", Body: "AACG"}
	got, err := Extract(Minus(seq), domain.NewRange(1, 2), 60)
	require.NoError(t, err)
	assert.Equal(t, ">B\nCG\n", got)
}
