package routes

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"ge-course-scraper/internal/controllers"
	"ge-course-scraper/internal/entity"
	"ge-course-scraper/internal/middleware"
	"ge-course-scraper/internal/repository"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func newTestServer(t *testing.T) (*httptest.Server, *repository.SnapshotRepository, *repository.DegreeRepository) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.EnsureSchema(context.Background(), db, repository.DialectSQLite))

	snapshots := repository.NewSnapshotRepository(db, repository.DialectSQLite)
	degrees := repository.NewDegreeRepository(db, repository.DialectSQLite)
	logic := controllers.NewLogicController(snapshots, degrees)
	mainController := controllers.NewMainController(logic, nil, nil)
	route := NewRoute(mux.NewRouter(), mainController, middleware.NewMiddleware())

	server := httptest.NewServer(route.Handler())
	t.Cleanup(server.Close)
	return server, snapshots, degrees
}

func getJSON[T any](t *testing.T, target string) (int, envelope[T]) {
	t.Helper()
	res, err := http.Get(target)
	require.NoError(t, err)
	defer res.Body.Close()
	var body envelope[T]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return res.StatusCode, body
}

func TestCoursesEndpoint(t *testing.T) {
	server, snapshots, _ := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, snapshots.InsertBatch(ctx, []entity.CourseRecord{
		{Code: "CSE 20 - 01", Category: "MF", SeatsAvailable: 3, SeatsTotal: 10, EnrollmentID: "1"},
		{Code: "ANTH 1 - 01", Category: "CC", SeatsAvailable: 0, SeatsTotal: 10, EnrollmentID: "2"},
	}))

	status, body := getJSON[[]entity.CourseRecord](t, server.URL+"/api/courses")
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body.Data, 2)

	status, body = getJSON[[]entity.CourseRecord](t, server.URL+"/api/courses?course=MF")
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "CSE 20 - 01", body.Data[0].Code)
	assert.Equal(t, 7, body.Data[0].Enrolled())

	status, _ = getJSON[[]entity.CourseRecord](t, server.URL+"/api/courses?course=BOGUS")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLastUpdateEndpoint(t *testing.T) {
	server, snapshots, _ := newTestServer(t)
	at := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, snapshots.SetLastRefreshed(context.Background(), at))

	status, body := getJSON[struct {
		LastUpdate time.Time `json:"last_update"`
	}](t, server.URL+"/api/last_update")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, at.Equal(body.Data.LastUpdate))
}

func TestDegreeEndpoints(t *testing.T) {
	server, _, degrees := newTestServer(t)
	degree := entity.Degree{
		Name: "Computer Science B.S.",
		URL:  "https://catalog.example.edu/cs-bs",
		CourseTypes: []entity.CourseTypeGroup{
			{Type: "Lower-Division Courses", Courses: []string{"CSE 20"}},
		},
	}
	require.NoError(t, degrees.ReplaceDegree(context.Background(), degree))

	status, names := getJSON[[]string](t, server.URL+"/api/degrees")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{degree.Name}, names.Data)

	status, got := getJSON[entity.Degree](t, server.URL+"/api/courses/"+url.PathEscape(degree.Name))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, degree, got.Data)

	status, _ = getJSON[entity.Degree](t, server.URL+"/api/courses/Unknown")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCategoriesEndpointAllowsCrossOrigin(t *testing.T) {
	server, _, _ := newTestServer(t)
	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/categories", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://planner.example.edu")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}
