package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"ISO_A2_EH": "NO", "ISO_A2": "-99", "NAME": "Norway"},
     "geometry": {"type": "MultiPolygon", "coordinates": [
        [[[5,58],[31,58],[31,71],[5,71],[5,58]]],
        [[[10,77],[30,77],[30,80],[10,80],[10,77]]]
     ]}},
    {"type": "Feature", "properties": {"ISO_A2": "LS", "NAME": "Lesotho"},
     "geometry": {"type": "Polygon", "coordinates": [[[27,-30.7],[29.5,-30.7],[29.5,-28.5],[27,-28.5],[27,-30.7]]]}},
    {"type": "Feature", "properties": {"ISO_A2": "-99", "ADM0_ISO": "KOS", "NAME": "Kosovo"},
     "geometry": {"type": "Point", "coordinates": [21, 42.6]}}
  ]
}`

func TestParse(t *testing.T) {
	recs, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "NO", recs[0].Props["ISO_A2_EH"])
	mp, ok := recs[0].Geometry.(orb.MultiPolygon)
	require.True(t, ok, "first geometry is %T", recs[0].Geometry)
	assert.Len(t, mp, 2)

	_, ok = recs[1].Geometry.(orb.Polygon)
	assert.True(t, ok, "second geometry is %T", recs[1].Geometry)
	_, ok = recs[2].Geometry.(orb.Point)
	assert.True(t, ok, "third geometry is %T", recs[2].Geometry)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`{"type":"FeatureCollection","features":[]}`))
	assert.True(t, errors.Is(err, ErrEmptyCollection), "err = %v", err)

	_, err = Parse([]byte(`{not json`))
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/countries.geojson" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	b, err := Fetch(context.Background(), srv.Client(), srv.URL+"/countries.geojson", 0)
	require.NoError(t, err)
	assert.Equal(t, sample, string(b))

	_, err = Fetch(context.Background(), nil, srv.URL+"/missing", time.Second)
	assert.ErrorContains(t, err, "status 404")
}

func TestFetchCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Fetch(ctx, srv.Client(), srv.URL, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadPrefersFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "countries.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	// The URL is unreachable; a file path must short-circuit the download.
	recs, err := Load(context.Background(), path, "http://127.0.0.1:1/never", time.Second)
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	_, err = Load(context.Background(), filepath.Join(dir, "missing.geojson"), "", time.Second)
	assert.Error(t, err)
}
