package listfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/seqyank/internal/domain"
)

func TestEncodeQuery(t *testing.T) {
	got := EncodeQuery([]domain.QualifiedID{{LogicalDB: "GBALL", Identifier: "AC1"}, {LogicalDB: "DOTSM", Identifier: "DT55"}})
	assert.Equal(t, "..\nGBALL:AC1\nDOTSM:DT55\n", got)
}

func TestEncodeRetrieval(t *testing.T) {
	b := 5
	got := EncodeRetrieval([]domain.ResolvedEntry{
		{LogicalDB: "GB_NEW", Identifier: "A_0"},
		{LogicalDB: "GBALL", Identifier: "B", Range: domain.NewRange(10, 20)},
		{LogicalDB: "GBALL", Identifier: "C", Range: domain.CoordRange{Begin: &b}},
	})
	assert.Equal(t, "..\nGB_NEW:A_0\nGBALL:B   Begin:10  End:20\nGBALL:C   Begin:5  End:\n", got)
}

func TestParseReport_ToleratesTrailingText(t *testing.T) {
	report := strings.Join([]string{
		"!!SEQUENCE_LIST 1.0",
		"names report of 2 sequences",
		"..",
		"GB_NEW:AC134402_0  Len: 150000  Mus musculus clone",
		"GB_NEW:AC134402_1  Len: 12345",
		"",
		"gball:B  ! standard copy",
	}, "\r\n")

	entries, err := ParseReport(strings.NewReader(report), "GB_NEW")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "AC134402_0", entries[0].Identifier)
	assert.Equal(t, "AC134402", entries[0].BaseIdentifier)
	assert.True(t, entries[0].Preferred)
	require.NotNil(t, entries[1].Ordinal)
	assert.Equal(t, 1, *entries[1].Ordinal)

	assert.Equal(t, "GBALL", entries[2].LogicalDB)
	assert.False(t, entries[2].Preferred)
	assert.False(t, entries[2].IsFragment())
}

func TestParseRetrieval_RoundTrip(t *testing.T) {
	in := []domain.ResolvedEntry{
		{LogicalDB: "GBALL", Identifier: "A_1"},
		{LogicalDB: "REFSEQALL", Identifier: "XM_006513314", Range: domain.NewRange(1, 99)},
	}

	out, err := ParseRetrieval(strings.NewReader(EncodeRetrieval(in)))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "A_1", out[0].Identifier)
	assert.True(t, out[0].Range.IsZero())
	assert.True(t, out[1].Range.Equal(domain.NewRange(1, 99)))
}

func TestParseRetrieval_OpenEndedRanges(t *testing.T) {
	b, e := 5, 500
	in := []domain.ResolvedEntry{
		{LogicalDB: "GBALL", Identifier: "B", Range: domain.CoordRange{End: &e}},
		{LogicalDB: "GBALL", Identifier: "C", Range: domain.CoordRange{Begin: &b}},
	}

	text := EncodeRetrieval(in)
	require.Equal(t, "..\nGBALL:B   Begin:  End:500\nGBALL:C   Begin:5  End:\n", text)

	out, err := ParseRetrieval(strings.NewReader(text))
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Nil(t, out[0].Range.Begin)
	require.NotNil(t, out[0].Range.End)
	assert.Equal(t, 500, *out[0].Range.End)

	require.NotNil(t, out[1].Range.Begin)
	assert.Equal(t, 5, *out[1].Range.Begin)
	assert.Nil(t, out[1].Range.End)
}

func TestParseQuery(t *testing.T) {
	ids, err := ParseQuery(strings.NewReader("..\nGBALL:A\nbogus line\nNIAMGI:H3-1\n"))
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, "NIAMGI:H3-1", ids[1].String())
}

func TestEncodeReport_ParsesBack(t *testing.T) {
	text := EncodeReport([]domain.AnnotationEntry{
		domain.NewAnnotationEntry("GB_NEW", "A_0", "GB_NEW"),
		domain.NewAnnotationEntry("GBALL", "B", "GB_NEW"),
	})
	assert.Equal(t, "..\nGB_NEW:A_0\nGBALL:B\n", text)

	got, err := ParseReport(strings.NewReader(text), "GB_NEW")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Preferred)
	assert.False(t, got[1].Preferred)
}
