package geometry

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/atlas/ingest/internal/logger"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

func testEncoder() *Encoder {
	return NewEncoder(logger.New("test"))
}

func decodeWKB(t *testing.T, data []byte) geom.T {
	t.Helper()
	g, err := wkb.Unmarshal(data)
	require.NoError(t, err)
	return g
}

func TestEncode_NilGeometry(t *testing.T) {
	assert.Nil(t, testEncoder().Encode(nil, "p-1"))
}

func TestEncode_EmptyGeometry(t *testing.T) {
	assert.Nil(t, testEncoder().Encode(geom.NewPolygon(geom.XY), "p-1"))
}

func TestEncode_CleanPolygon(t *testing.T) {
	p := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		square(geom.XY),
	})

	data := testEncoder().Encode(p, "p-1")
	require.NotNil(t, data)
	// little-endian byte order marker
	assert.Equal(t, byte(1), data[0])

	out := decodeWKB(t, data).(*geom.Polygon)
	assert.Equal(t, geom.XY, out.Layout())
	assert.Equal(t, p.Coords(), out.Coords())
}

// A 3-D exterior with one NaN vertex plus a 3-D hole comes out the other end
// as a closed 2-D polygon with the hole intact.
func TestEncode_CleansAndReduces(t *testing.T) {
	p := geom.NewPolygon(geom.XYZ).MustSetCoords([][]geom.Coord{
		{
			{0, 0, 5}, {10, 0, 5}, {math.NaN(), math.NaN(), 5},
			{10, 10, 5}, {0, 10, 5}, {0, 0, 5},
		},
		{
			{2, 2, 5}, {4, 2, 5}, {4, 4, 5}, {2, 4, 5}, {2, 2, 5},
		},
	})

	data := testEncoder().Encode(p, "p-1")
	require.NotNil(t, data)

	out := decodeWKB(t, data).(*geom.Polygon)
	assert.Equal(t, geom.XY, out.Layout())
	assert.Equal(t, 2, out.NumLinearRings())
	rings := out.Coords()
	assert.Len(t, rings[0], 5)
	assert.Equal(t, rings[0][0], rings[0][len(rings[0])-1])
}

func TestEncode_RepairsSelfIntersection(t *testing.T) {
	bowtie := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {1, 1}, {1, 0}, {0, 1}, {0, 0}},
	})

	data := testEncoder().Encode(bowtie, "p-1")
	require.NotNil(t, data)

	out := decodeWKB(t, data)
	assert.True(t, IsValid(out))
}

func TestEncode_RejectsUnsalvageable(t *testing.T) {
	// every vertex out of domain; cleaning leaves nothing to close
	p := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{500, 500}, {501, 500}, {501, 501}, {500, 500}},
	})

	assert.Nil(t, testEncoder().Encode(p, "p-1"))
}

func TestEncode_RejectsCollapsedPolygon(t *testing.T) {
	// zero-area spike; repair must not pass its linework through
	p := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {2, 2}, {2, 2}, {0, 0}},
	})

	assert.Nil(t, testEncoder().Encode(p, "p-1"))
}

func TestEncode_Deterministic(t *testing.T) {
	p := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		square(geom.XY),
	})

	e := testEncoder()
	first := e.Encode(p, "p-1")
	second := e.Encode(p, "p-1")
	assert.Equal(t, first, second)
}

func TestEncode_UsesLittleEndian(t *testing.T) {
	p := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		square(geom.XY),
	})

	data := testEncoder().Encode(p, "p-1")
	require.NotNil(t, data)

	want, err := wkb.Marshal(p, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, want, data)
}
