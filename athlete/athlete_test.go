package athlete_test

import (
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/medalists/athlete"
	"github.com/rise-and-shine/medalists/crud"
	"github.com/rise-and-shine/medalists/crud/crudtest"
	"github.com/rise-and-shine/medalists/http/server"
	"github.com/rise-and-shine/medalists/http/server/middleware"
	"github.com/rise-and-shine/medalists/model"
	"github.com/rise-and-shine/medalists/repogen"
	"github.com/rise-and-shine/medalists/sorter"
)

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func resolveTeams(teams ...*model.Team) crudtest.Resolver {
	return func(p repogen.Payload) (repogen.Payload, error) {
		ref, ok := p["team"].(repogen.Payload)
		if !ok {
			return p, nil
		}

		for _, team := range teams {
			if team.NOC == ref["noc"] {
				out := maps.Clone(p)
				out["team"] = team
				return out, nil
			}
		}

		return nil, errx.New(
			"Team referenced by Athlete.team not found",
			errx.WithType(errx.T_Validation),
			errx.WithCode(repogen.CodeRelatedEntityNotFound),
			errx.WithFields(errx.M{"team": "Referenced entity does not exist"}),
		)
	}
}

func setup(t *testing.T) (*fiber.App, *crudtest.MemRepo[model.Athlete, athlete.CreateRequest]) {
	t.Helper()

	repo := crudtest.NewMemRepo[model.Athlete, athlete.CreateRequest](
		model.Athletes,
		func(a *model.Athlete, id int64) { a.ID = id },
		resolveTeams(
			&model.Team{ID: 1, Region: "France", NOC: "FRA"},
			&model.Team{ID: 2, Region: "Japan", NOC: "JPN"},
		),
	)
	svc := crud.NewService[model.Athlete, athlete.CreateRequest](&crudtest.Tx{}, repo, "Athlete")

	ew := server.ErrorWriter{StatusOverrides: crud.StatusOverrides()}
	srv := server.NewHTTPServer(server.Config{}, ew, []server.Middleware{middleware.NewErrorHandlerMW(ew)})
	srv.RegisterRouter(func(r fiber.Router) {
		athlete.RegisterRoutes(r.Group("/api/v1"), svc)
	})

	return srv.App(), repo
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decodeAs[T any](t *testing.T, raw []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

const rinerBody = `{"name":"Teddy Riner","sex":"M","height":204,"weight":140,"team":{"noc":"FRA"}}`

func TestCreateAndGet(t *testing.T) {
	app, _ := setup(t)

	status, raw := do(t, app, http.MethodPost, "/api/v1/athletes/", rinerBody)
	require.Equal(t, http.StatusCreated, status, string(raw))

	created := decodeAs[athlete.Response](t, raw)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Teddy Riner", created.Name)
	assert.Equal(t, "France", created.Team.Region)
	require.NotNil(t, created.Height)
	assert.Equal(t, 204, *created.Height)
	assert.Empty(t, created.Medals)

	status, raw = do(t, app, http.MethodGet, "/api/v1/athletes/1", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, created, decodeAs[athlete.Response](t, raw))
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "lowercase noc",
			body:       `{"name":"A","sex":"F","team":{"noc":"fra"}}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "team.noc",
		},
		{
			name:       "unknown sex",
			body:       `{"name":"A","sex":"X","team":{"noc":"FRA"}}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "sex",
		},
		{
			name:       "unknown team",
			body:       `{"name":"A","sex":"F","team":{"noc":"USA"}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   repogen.CodeRelatedEntityNotFound,
			wantField:  "team",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := setup(t)

			status, raw := do(t, app, http.MethodPost, "/api/v1/athletes/", tt.body)
			require.Equal(t, tt.wantStatus, status, string(raw))

			body := decodeAs[errorBody](t, raw)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body.Error.Code)
			}
			assert.Contains(t, body.Error.Fields, tt.wantField)
		})
	}
}

func TestGetMissing(t *testing.T) {
	app, _ := setup(t)

	status, raw := do(t, app, http.MethodGet, "/api/v1/athletes/7", "")
	require.Equal(t, http.StatusNotFound, status)

	body := decodeAs[errorBody](t, raw)
	assert.Equal(t, crud.CodeObjectNotFound, body.Error.Code)
	assert.Contains(t, body.Error.Message, "Athlete with ID 7 not found")
}

func TestUpdate(t *testing.T) {
	app, _ := setup(t)

	status, _ := do(t, app, http.MethodPut, "/api/v1/athletes/1", `{"weight":150}`)
	assert.Equal(t, http.StatusNoContent, status, "updating a missing athlete")

	status, _ = do(t, app, http.MethodPost, "/api/v1/athletes/", rinerBody)
	require.Equal(t, http.StatusCreated, status)

	status, raw := do(t, app, http.MethodPut, "/api/v1/athletes/1", `{"weight":150.5}`)
	require.Equal(t, http.StatusOK, status, string(raw))

	updated := decodeAs[athlete.Response](t, raw)
	require.NotNil(t, updated.Weight)
	assert.InDelta(t, 150.5, *updated.Weight, 0.001)
	assert.Equal(t, "Teddy Riner", updated.Name)
	require.NotNil(t, updated.Height)
	assert.Equal(t, 204, *updated.Height)
	assert.Equal(t, "FRA", updated.Team.NOC)

	status, raw = do(t, app, http.MethodPut, "/api/v1/athletes/1", `{"team":{"noc":"JPN"}}`)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "Japan", decodeAs[athlete.Response](t, raw).Team.Region)
}

func TestDelete(t *testing.T) {
	app, _ := setup(t)

	status, _ := do(t, app, http.MethodPost, "/api/v1/athletes/", rinerBody)
	require.Equal(t, http.StatusCreated, status)

	status, raw := do(t, app, http.MethodDelete, "/api/v1/athletes/1", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "Teddy Riner", decodeAs[athlete.Response](t, raw).Name)

	status, _ = do(t, app, http.MethodGet, "/api/v1/athletes/1", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, raw = do(t, app, http.MethodDelete, "/api/v1/athletes/1", "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, raw)
}

func TestInvalidID(t *testing.T) {
	app, _ := setup(t)

	status, _ := do(t, app, http.MethodGet, "/api/v1/athletes/0", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestList(t *testing.T) {
	app, repo := setup(t)

	for _, body := range []string{
		rinerBody,
		`{"name":"Kohei Uchimura","sex":"M","team":{"noc":"JPN"}}`,
	} {
		status, raw := do(t, app, http.MethodPost, "/api/v1/athletes/", body)
		require.Equal(t, http.StatusCreated, status, string(raw))
	}

	status, raw := do(t, app, http.MethodGet, "/api/v1/athletes/?name=riner&country=France&sort=height:desc&skip=5&limit=10", "")
	require.Equal(t, http.StatusOK, status, string(raw))

	list := decodeAs[athlete.ListResponse](t, raw)
	assert.Len(t, list.Results, 2)

	q := repo.LastQuery
	assert.Equal(t, 5, q.Skip)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, sorter.Make(sorter.Opt{F: "height", D: sorter.Desc}), q.Order)
	assert.Equal(t, []*repogen.Relation{model.AthleteTeam}, q.Joins)
	assert.Equal(t, []repogen.Filter{
		{Column: "name", Value: "riner", Comparison: repogen.ILike},
		{Column: "region", Value: "France", Comparison: repogen.Equal, Entity: model.AthleteTeam},
	}, q.Filters)
}

func TestListEmptyResults(t *testing.T) {
	app, _ := setup(t)

	status, raw := do(t, app, http.MethodGet, "/api/v1/athletes/", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"results":[]}`, string(raw))
}

func TestListRejectsBadSort(t *testing.T) {
	app, _ := setup(t)

	status, raw := do(t, app, http.MethodGet, "/api/v1/athletes/?sort=sex", "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, sorter.CodeInvalidSort, decodeAs[errorBody](t, raw).Error.Code)
}

func TestListQueryDefaults(t *testing.T) {
	q, err := athlete.ListQuery(athlete.ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, q.Filters)
	assert.Empty(t, q.Joins)
	assert.Equal(t, 0, q.Skip)
	assert.Equal(t, 50, q.Limit)
}
