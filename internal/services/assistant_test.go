package services

import (
	"context"
	"testing"
	"time"

	"github.com/chachabrian/transitly-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssistantStore struct {
	routes    []models.Route
	schedules []models.Schedule
	logged    []models.VoiceCommand

	lastSource      string
	lastDestination string
}

func (f *fakeAssistantStore) FindRoutes(_ context.Context, source, destination string) ([]models.Route, error) {
	f.lastSource = source
	f.lastDestination = destination

	var matches []models.Route
	for _, r := range f.routes {
		if contains(r.Source, source) && contains(r.Destination, destination) {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

// contains mirrors the case-sensitive containment semantics of the store
func contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func (f *fakeAssistantStore) UpcomingSchedules(_ context.Context, limit int) ([]models.Schedule, error) {
	if len(f.schedules) > limit {
		return f.schedules[:limit], nil
	}
	return f.schedules, nil
}

func (f *fakeAssistantStore) LogCommand(_ context.Context, cmd *models.VoiceCommand) error {
	f.logged = append(f.logged, *cmd)
	return nil
}

func seededStore() *fakeAssistantStore {
	return &fakeAssistantStore{
		routes: []models.Route{
			{RouteName: "Visakhapatnam to Hyderabad", Source: "Visakhapatnam", Destination: "Hyderabad", Distance: 600, Duration: 480, Fare: 500},
			{RouteName: "Hyderabad to Vijayawada", Source: "Hyderabad", Destination: "Vijayawada", Distance: 275, Duration: 240, Fare: 300},
			{RouteName: "Vijayawada to Chennai", Source: "Vijayawada", Destination: "Chennai", Distance: 430, Duration: 360, Fare: 400},
		},
	}
}

func TestRouteQueryMentionsRouteNameAndFare(t *testing.T) {
	store := seededStore()
	a := NewAssistant(store, nil, nil)

	response := a.Respond(context.Background(), "route from Vijayawada to Chennai")

	assert.Contains(t, response, "Found 1 routes from Vijayawada to Chennai")
	assert.Contains(t, response, "Vijayawada to Chennai")
	assert.Contains(t, response, "400")
	assert.Equal(t, "Vijayawada", store.lastSource)
	assert.Equal(t, "Chennai", store.lastDestination)
}

func TestRouteQueryTitleCasesSpokenInput(t *testing.T) {
	store := seededStore()
	a := NewAssistant(store, nil, nil)

	// Recognition lowercases everything; lookup must still hit seeded rows
	response := a.Respond(context.Background(), "bus from hyderabad to vijayawada")

	assert.Contains(t, response, "Hyderabad to Vijayawada")
	assert.Equal(t, "Hyderabad", store.lastSource)
	assert.Equal(t, "Vijayawada", store.lastDestination)
}

func TestRouteQueryNoMatches(t *testing.T) {
	a := NewAssistant(&fakeAssistantStore{}, nil, nil)

	response := a.Respond(context.Background(), "train from Mumbai to Delhi")

	assert.Equal(t, "No routes found from Mumbai to Delhi", response)
}

func TestRouteQueryMalformedParsesAsEmptyQuery(t *testing.T) {
	store := seededStore()
	a := NewAssistant(store, nil, nil)

	// Keywords present but "to" never follows "from": parses as empty
	// source and destination. Every route contains the empty string, so
	// all seeded routes come back.
	response := a.Respond(context.Background(), "route to somewhere from")

	assert.Contains(t, response, "Found 3 routes from  to ")
}

func TestRouteQueryListsAtMostThreeRoutes(t *testing.T) {
	store := seededStore()
	store.routes = append(store.routes,
		models.Route{RouteName: "Visakhapatnam to Vijayawada", Source: "Visakhapatnam", Destination: "Vijayawada", Distance: 350, Duration: 300, Fare: 350},
	)
	// Empty query fields match every route
	a := NewAssistant(store, nil, nil)

	response := a.Respond(context.Background(), "route to x from")

	assert.Contains(t, response, "Found 4 routes")
	assert.NotContains(t, response, "Route Visakhapatnam to Vijayawada")
}

func TestRouteHintWithoutFromTo(t *testing.T) {
	a := NewAssistant(&fakeAssistantStore{}, nil, nil)

	response := a.Respond(context.Background(), "show me a bus")

	assert.Equal(t, "Please specify source and destination using 'from' and 'to'", response)
}

func TestScheduleQuery(t *testing.T) {
	dep := time.Date(2026, 8, 30, 6, 30, 0, 0, time.UTC)
	store := &fakeAssistantStore{
		schedules: []models.Schedule{
			{
				Vehicle:       models.Vehicle{VehicleNumber: "AP39Z1234"},
				Route:         models.Route{Source: "Visakhapatnam", Destination: "Hyderabad"},
				DepartureTime: dep,
			},
		},
	}
	a := NewAssistant(store, nil, nil)

	response := a.Respond(context.Background(), "what time is the next departure")

	assert.Contains(t, response, "Found 1 upcoming schedules")
	assert.Contains(t, response, "Vehicle AP39Z1234 departing at 06:30 from Visakhapatnam to Hyderabad")
}

func TestScheduleQueryNoneAvailable(t *testing.T) {
	a := NewAssistant(&fakeAssistantStore{}, nil, nil)

	response := a.Respond(context.Background(), "schedule")

	assert.Equal(t, "No schedules available", response)
}

func TestBookingAndHelpAndFallback(t *testing.T) {
	a := NewAssistant(&fakeAssistantStore{}, nil, nil)

	assert.Contains(t, a.Respond(context.Background(), "book a ticket please"),
		"To book a ticket, please specify the route and preferred time")
	assert.Contains(t, a.Respond(context.Background(), "help"),
		"I can help with routes, schedules, and booking tickets")
	assert.Contains(t, a.Respond(context.Background(), "what is the weather"),
		"I didn't understand that command")
}

func TestRuleOrderRouteBeatsSchedule(t *testing.T) {
	// "train ... time" carries both route and schedule keywords; the route
	// rules are evaluated first.
	a := NewAssistant(&fakeAssistantStore{}, nil, nil)

	response := a.Respond(context.Background(), "train time please")

	assert.Equal(t, "Please specify source and destination using 'from' and 'to'", response)
}

func TestProcessLogsCommand(t *testing.T) {
	store := seededStore()
	a := NewAssistant(store, nil, nil)
	userID := uint(7)

	response, err := a.Process(context.Background(), &userID, "route from Vijayawada to Chennai", 1.25)
	require.NoError(t, err)

	require.Len(t, store.logged, 1)
	logged := store.logged[0]
	assert.Equal(t, &userID, logged.UserID)
	assert.Equal(t, "route from Vijayawada to Chennai", logged.CommandText)
	assert.Equal(t, response, logged.ResponseText)
	assert.Equal(t, models.VoiceCommandStatusProcessed, logged.Status)
	// Recognition time is a floor; the response phase adds to it
	assert.GreaterOrEqual(t, logged.ProcessingTime, 1.25)
}

func TestProcessMeasuresTypedCommandTime(t *testing.T) {
	store := seededStore()
	a := NewAssistant(store, nil, nil)

	// No recognition phase: the stored time is purely the answering work,
	// which must still be a real measurement rather than zero.
	_, err := a.Process(context.Background(), nil, "help", 0)
	require.NoError(t, err)

	require.Len(t, store.logged, 1)
	assert.Greater(t, store.logged[0].ProcessingTime, 0.0)
}
