package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open error: %v", err)
	}
	return gdb, mock
}

func performRequest(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchRoutesRequiresBothFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gdb, mock := newMockDB(t)

	r := gin.New()
	r.GET("/routes/search", SearchRoutes(gdb))

	for _, path := range []string{
		"/routes/search",
		"/routes/search?source=Hyderabad",
		"/routes/search?destination=Chennai",
		"/routes/search?source=%20%20&destination=Chennai",
	} {
		w := performRequest(r, "GET", path)
		assert.Equal(t, 400, w.Code, "path %s", path)
		assert.Contains(t, w.Body.String(), "Please enter both source and destination")
	}

	// The short-circuit must fire before any query runs
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected SQL: %v", err)
	}
}

func TestSearchRoutesMatchesSubstrings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "routes" WHERE LOWER\(source\) LIKE LOWER\(`).
		WithArgs("%vizag%", "%hyder%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_name", "source", "destination", "fare"}).
			AddRow(1, "Visakhapatnam to Hyderabad", "Visakhapatnam", "Hyderabad", 500.0))

	r := gin.New()
	r.GET("/routes/search", SearchRoutes(gdb))

	w := performRequest(r, "GET", "/routes/search?source=vizag&destination=hyder")
	require.Equal(t, 200, w.Code)

	var body struct {
		Routes []struct {
			RouteName string  `json:"routeName"`
			Fare      float64 `json:"fare"`
		} `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Routes, 1)
	assert.Equal(t, "Visakhapatnam to Hyderabad", body.Routes[0].RouteName)
	assert.Equal(t, 500.0, body.Routes[0].Fare)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchRoutesReportsNoMatches(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "routes" WHERE LOWER\(source\) LIKE LOWER\(`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	r := gin.New()
	r.GET("/routes/search", SearchRoutes(gdb))

	w := performRequest(r, "GET", "/routes/search?source=Pune&destination=Goa")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "No routes found from Pune to Goa")
}

func TestGetRouteScheduleUnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "routes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	r := gin.New()
	r.GET("/routes/:id/schedule", GetRouteSchedule(gdb))

	w := performRequest(r, "GET", "/routes/99/schedule")
	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Body.String(), "Route not found")
}

func TestGetRouteScheduleOrdersByDeparture(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "routes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_name"}).AddRow(3, "Vijayawada to Chennai"))
	mock.ExpectQuery(`SELECT \* FROM "schedules" WHERE route_id = \$1 AND status = \$2 .* ORDER BY departure_time ASC`).
		WithArgs(3, "Scheduled").
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_id", "route_id", "available_seats", "status"}).
			AddRow(10, 1, 3, 25, "Scheduled"))
	// Vehicle preload for the returned schedule
	mock.ExpectQuery(`SELECT \* FROM "vehicles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vehicle_number", "capacity"}).AddRow(1, "AP39Z9012", 25))

	r := gin.New()
	r.GET("/routes/:id/schedule", GetRouteSchedule(gdb))

	w := performRequest(r, "GET", "/routes/3/schedule")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Vijayawada to Chennai")
	assert.Contains(t, w.Body.String(), "AP39Z9012")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
