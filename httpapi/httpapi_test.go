package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cnosdb/tskv"
	"github.com/cnosdb/tskv/internal/base"
	"github.com/cnosdb/tskv/internal/flush"
	"github.com/cnosdb/tskv/internal/manifest"
)

func TestStatsHandlerReturnsFamilyShape(t *testing.T) {
	opts := (&tskv.Options{MaxMemCacheSize: 1 << 20, MaxImMemCacheNum: 4, TSMDir: "/t", DeltaDir: "/d"}).EnsureDefaults()
	v := manifest.NewVersion(1, "f", 2, 1<<20)
	tf := tskv.NewTseriesFamily(1, opts, v, flush.NewQueue())

	router := NewRouter(func(id base.TseriesFamilyID) (*tskv.TseriesFamily, bool) {
		if id == 1 {
			return tf, true
		}
		return nil, false
	})

	req := httptest.NewRequest(http.MethodGet, "/families/1/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats FamilyStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, base.TseriesFamilyID(1), stats.TfID)
}

func TestStatsHandlerNotFound(t *testing.T) {
	router := NewRouter(func(base.TseriesFamilyID) (*tskv.TseriesFamily, bool) { return nil, false })

	req := httptest.NewRequest(http.MethodGet, "/families/99/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulkStatsHandlerSkipsUnknownAndInvalidIDs(t *testing.T) {
	opts := (&tskv.Options{MaxMemCacheSize: 1 << 20, MaxImMemCacheNum: 4, TSMDir: "/t", DeltaDir: "/d"}).EnsureDefaults()
	v1 := manifest.NewVersion(1, "f", 2, 1<<20)
	v2 := manifest.NewVersion(2, "f", 2, 1<<20)
	tf1 := tskv.NewTseriesFamily(1, opts, v1, flush.NewQueue())
	tf2 := tskv.NewTseriesFamily(2, opts, v2, flush.NewQueue())

	router := NewRouter(func(id base.TseriesFamilyID) (*tskv.TseriesFamily, bool) {
		switch id {
		case 1:
			return tf1, true
		case 2:
			return tf2, true
		default:
			return nil, false
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/families/stats?ids=1,2,99,not-a-number", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats []FamilyStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, 2)

	ids := []base.TseriesFamilyID{stats[0].TfID, stats[1].TfID}
	require.ElementsMatch(t, []base.TseriesFamilyID{1, 2}, ids)
}
