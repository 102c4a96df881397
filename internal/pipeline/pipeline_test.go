package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/paulmach/orb"
	check "gopkg.in/check.v1"

	"dotmap/internal/catalog"
	"dotmap/internal/dataset"
	"dotmap/internal/grid"
	"dotmap/internal/logger"
	"dotmap/internal/placer"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { check.TestingT(t) }

type PipelineSuite struct{}

var _ = check.Suite(&PipelineSuite{})

func (s *PipelineSuite) SetUpSuite(c *check.C) {
	logger.SetupWith("error", "text", io.Discard)
}

func box(minLng, minLat, maxLng, maxLat float64) orb.Ring {
	return orb.Ring{{minLng, minLat}, {maxLng, minLat}, {maxLng, maxLat}, {minLng, maxLat}, {minLng, minLat}}
}

func country(code string, g orb.Geometry) catalog.Record {
	return catalog.Record{Props: map[string]any{"ISO_A2": code}, Geometry: g}
}

func (s *PipelineSuite) TestLeftColumnCountry(c *check.C) {
	// 4x2 cell centres: lng -135,-45,45,135 and lat 45,-45.
	recs := []catalog.Record{country("AA", orb.Polygon{box(-170, -80, -100, 80)})}
	res, err := Run(context.Background(), recs, Options{Spec: grid.Spec{Cols: 4, Rows: 2}, Placements: []placer.Placement{}})
	c.Assert(err, check.IsNil)
	c.Assert(res.Dataset.Dots, check.DeepEquals, []dataset.Dot{{Col: 0, Row: 0, Code: "AA"}, {Col: 0, Row: 1, Code: "AA"}})
	c.Assert(res.AutoDots, check.Equals, 2)
	c.Assert(res.Placement.Added, check.HasLen, 0)
}

func (s *PipelineSuite) TestHoleExcludesCell(c *check.C) {
	// 2x2 cell centres: lng -90,90 and lat 45,-45; the hole surrounds (90,-45).
	recs := []catalog.Record{country("BB", orb.Polygon{box(-170, -85, 170, 85), box(60, -60, 120, -30)})}
	res, err := Run(context.Background(), recs, Options{Spec: grid.Spec{Cols: 2, Rows: 2}, Placements: []placer.Placement{}, Workers: 2})
	c.Assert(err, check.IsNil)
	c.Assert(res.Dataset.Dots, check.DeepEquals, []dataset.Dot{
		{Col: 0, Row: 0, Code: "BB"}, {Col: 1, Row: 0, Code: "BB"}, {Col: 0, Row: 1, Code: "BB"},
	})
}

func (s *PipelineSuite) TestPlacementAvoidsOccupiedCell(c *check.C) {
	spec := grid.Spec{Cols: 4, Rows: 2}
	recs := []catalog.Record{country("CC", orb.Polygon{box(-80, 10, -10, 80)})}
	lng, lat := spec.CellCenter(1, 0)
	res, err := Run(context.Background(), recs, Options{
		Spec:       spec,
		Placements: []placer.Placement{{Name: "tiny", Lng: lng, Lat: lat, Code: "MC"}},
		Offsets:    placer.NeighborOffsets,
	})
	c.Assert(err, check.IsNil)
	c.Assert(res.Dataset.Dots, check.DeepEquals, []dataset.Dot{{Col: 1, Row: 0, Code: "CC"}, {Col: 1, Row: 1, Code: "MC"}})
	c.Assert(res.Placement.Unplaced, check.HasLen, 0)
	c.Assert(res.Placement.Added[0].Shifted, check.Equals, true)
}

func (s *PipelineSuite) TestMalformedPlacementCodeDoesNotAbort(c *check.C) {
	spec := grid.Spec{Cols: 4, Rows: 2}
	lng, lat := spec.CellCenter(2, 0)
	res, err := Run(context.Background(), nil, Options{
		Spec: spec,
		Placements: []placer.Placement{
			{Name: "lower", Lng: lng, Lat: lat, Code: "va"},
			{Name: "junk", Lng: lng, Lat: lat, Code: "1x"},
		},
		Offsets: placer.NeighborOffsets,
	})
	c.Assert(err, check.IsNil)
	c.Assert(res.Dataset.Dots, check.DeepEquals, []dataset.Dot{{Col: 2, Row: 0, Code: "VA"}})
	c.Assert(res.Placement.Unplaced, check.HasLen, 1)
	c.Assert(res.Placement.Unplaced[0].Name, check.Equals, "junk")
}

func (s *PipelineSuite) TestCatalogStatsAndStages(c *check.C) {
	recs := []catalog.Record{
		country("AA", orb.Polygon{box(-170, -80, -100, 80)}),
		country("AA", orb.Polygon{box(100, -80, 170, 80)}),
		{Props: map[string]any{"ISO_A2": "-99"}, Geometry: orb.Polygon{box(0, 0, 10, 10)}},
	}
	res, err := Run(context.Background(), recs, Options{Spec: grid.Spec{Cols: 4, Rows: 2}, Placements: []placer.Placement{}})
	c.Assert(err, check.IsNil)
	c.Assert(res.CatalogStat.Duplicates, check.Equals, 1)
	c.Assert(res.CatalogStat.Skipped, check.Equals, 1)
	// The duplicate's eastern square is dropped, not merged.
	c.Assert(res.Dataset.Dots, check.HasLen, 2)
	for _, k := range []string{"catalog", "raster", "place"} {
		_, ok := res.Stages[k]
		c.Assert(ok, check.Equals, true, check.Commentf("stage %s", k))
	}
}

func (s *PipelineSuite) TestDefaultMicrostates(c *check.C) {
	res, err := Run(context.Background(), nil, Options{Spec: grid.Standard})
	c.Assert(err, check.IsNil)
	c.Assert(res.Placement.Added, check.HasLen, len(placer.Microstates))
	c.Assert(res.Dataset.Countries(), check.HasLen, len(placer.Microstates))
}

func (s *PipelineSuite) TestErrors(c *check.C) {
	_, err := Run(context.Background(), nil, Options{})
	c.Assert(err, check.ErrorMatches, ".*columns and rows must be positive.*")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, nil, Options{Spec: grid.Standard})
	c.Assert(err, check.ErrorMatches, ".*context canceled.*")
}
