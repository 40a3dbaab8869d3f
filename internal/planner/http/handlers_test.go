package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtnh-tools/planner-backend/internal/catalog"
	cdomain "github.com/gtnh-tools/planner-backend/internal/catalog/domain"
	"github.com/gtnh-tools/planner-backend/internal/planner/domain"
	"github.com/gtnh-tools/planner-backend/internal/planner/overclock"
	"github.com/gtnh-tools/planner-backend/internal/planner/service"
)

type loaderFunc func() (*catalog.Snapshot, error)

func (f loaderFunc) Load(_ context.Context) (*catalog.Snapshot, error) { return f() }

func testRouter(t *testing.T, loaded bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := catalog.NewProvider(loaderFunc(func() (*catalog.Snapshot, error) {
		recipes := []*cdomain.RecipeDefinition{
			{
				RID: "r_steel", MachineID: "furnace", BaseDurationTicks: 100, BaseEUT: 16, MinTier: "LV",
				ItemInputs:  []cdomain.ItemStack{{ID: "ore", Count: 1}},
				ItemOutputs: []cdomain.ItemOutput{{ID: "steel", Count: 1}},
			},
		}
		return catalog.Build("v1", recipes, catalog.Names{}), nil
	}))
	if loaded {
		_, err := provider.Refresh(context.Background())
		require.NoError(t, err)
	}

	planner := service.NewPlannerService(provider, nil, overclock.New(0.5, 4.0), 8, 4)

	r := gin.New()
	api := r.Group("/api/v1")
	NewHandler(planner).Register(api)
	return r
}

func postPlan(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/planner/graph", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPlanGraph_OK(t *testing.T) {
	r := testRouter(t, true)

	w := postPlan(r, `{"targets":[{"target_type":"item","target_id":"steel","target_rate_per_s":1.0}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var graph domain.PlanGraph
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &graph))
	assert.Equal(t, "v1", graph.Meta.SnapshotVersion)

	var found bool
	for _, n := range graph.Nodes {
		if n.ID == "recipe:r_steel@item:steel:0" {
			found = true
			require.NotNil(t, n.MachinesRequired)
			assert.Equal(t, 5, *n.MachinesRequired)
		}
	}
	assert.True(t, found)
}

func TestPlanGraph_DOTFormat(t *testing.T) {
	r := testRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/planner/graph?format=dot",
		strings.NewReader(`{"targets":[{"target_type":"item","target_id":"steel","target_rate_per_s":1.0}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "digraph plan")
	assert.Contains(t, w.Body.String(), "recipe:r_steel@item:steel:0")
}

func TestPlanGraph_ErrorMapping(t *testing.T) {
	t.Run("malformed body is 400", func(t *testing.T) {
		w := postPlan(testRouter(t, true), `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation failure is 400", func(t *testing.T) {
		w := postPlan(testRouter(t, true), `{"targets":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unresolvable target is 422", func(t *testing.T) {
		w := postPlan(testRouter(t, true), `{"targets":[{"target_type":"item","target_id":"nope","target_rate_per_s":1.0}]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("no snapshot is 503", func(t *testing.T) {
		w := postPlan(testRouter(t, false), `{"targets":[{"target_type":"item","target_id":"steel","target_rate_per_s":1.0}]}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
