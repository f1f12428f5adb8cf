package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chachabrian/transitly-backend/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const (
	voiceRouteLimit    = 3
	voiceScheduleLimit = 3
)

// AssistantStore is the slice of persistence the assistant needs. Route
// matching is case-sensitive containment on source and destination, which is
// why parsed query fields are title-cased before lookup.
type AssistantStore interface {
	FindRoutes(ctx context.Context, source, destination string) ([]models.Route, error)
	UpcomingSchedules(ctx context.Context, limit int) ([]models.Schedule, error)
	LogCommand(ctx context.Context, cmd *models.VoiceCommand) error
}

type gormAssistantStore struct {
	db *gorm.DB
}

// NewAssistantStore returns the gorm-backed store used in production.
func NewAssistantStore(db *gorm.DB) AssistantStore {
	return &gormAssistantStore{db: db}
}

func (s *gormAssistantStore) FindRoutes(ctx context.Context, source, destination string) ([]models.Route, error) {
	var routes []models.Route
	err := s.db.WithContext(ctx).
		Where("source LIKE ?", "%"+source+"%").
		Where("destination LIKE ?", "%"+destination+"%").
		Find(&routes).Error
	return routes, err
}

func (s *gormAssistantStore) UpcomingSchedules(ctx context.Context, limit int) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := s.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Route").
		Where("status = ?", models.ScheduleStatusScheduled).
		Limit(limit).
		Find(&schedules).Error
	return schedules, err
}

func (s *gormAssistantStore) LogCommand(ctx context.Context, cmd *models.VoiceCommand) error {
	return s.db.WithContext(ctx).Create(cmd).Error
}

// Assistant answers transport queries phrased as free text. Classification
// is an ordered list of mutually exclusive rules over the lowercased
// command; the first matching rule produces the whole response.
type Assistant struct {
	store    AssistantStore
	speech   *SpeechClient
	playback *PlaybackPool
	rules    []intentRule
	titler   cases.Caser
}

type intentRule struct {
	name    string
	matches func(command string) bool
	respond func(ctx context.Context, a *Assistant, command string) string
}

func NewAssistant(store AssistantStore, speech *SpeechClient, playback *PlaybackPool) *Assistant {
	a := &Assistant{
		store:    store,
		speech:   speech,
		playback: playback,
		titler:   cases.Title(language.English),
	}
	a.rules = []intentRule{
		{
			name: "route_query",
			matches: func(command string) bool {
				return containsAny(command, "route", "bus", "train") &&
					strings.Contains(command, "from") && strings.Contains(command, "to")
			},
			respond: respondRouteQuery,
		},
		{
			name: "route_hint",
			matches: func(command string) bool {
				return containsAny(command, "route", "bus", "train")
			},
			respond: func(context.Context, *Assistant, string) string {
				return "Please specify source and destination using 'from' and 'to'"
			},
		},
		{
			name: "schedule",
			matches: func(command string) bool {
				return containsAny(command, "schedule", "time")
			},
			respond: respondSchedules,
		},
		{
			name: "booking",
			matches: func(command string) bool {
				return containsAny(command, "book", "ticket")
			},
			respond: func(context.Context, *Assistant, string) string {
				return "To book a ticket, please specify the route and preferred time. You can say 'book ticket from Mumbai to Delhi at 10 AM'"
			},
		},
		{
			name: "help",
			matches: func(command string) bool {
				return strings.Contains(command, "help")
			},
			respond: func(context.Context, *Assistant, string) string {
				return "I can help with routes, schedules, and booking tickets. " +
					"Try saying 'route from Mumbai to Delhi', 'show schedule', or 'book ticket'."
			},
		},
	}
	return a
}

// Speech exposes the recognition client for the listen endpoint.
func (a *Assistant) Speech() *SpeechClient {
	return a.speech
}

// Speak queues text for background synthesis and playback. Fire-and-forget:
// the caller gets no completion signal and failures are only logged.
func (a *Assistant) Speak(text string) bool {
	if a.playback == nil {
		return false
	}
	return a.playback.Enqueue(text)
}

// Respond classifies one command and produces the textual answer.
func (a *Assistant) Respond(ctx context.Context, command string) string {
	command = strings.ToLower(command)
	for _, rule := range a.rules {
		if rule.matches(command) {
			return rule.respond(ctx, a, command)
		}
	}
	return "I didn't understand that command. Please try asking about routes, schedules, or booking tickets."
}

// Process answers a command and appends it to the voice command log. The
// stored processing time is recognitionTime plus the measured time spent
// answering, so typed commands record a real duration too. Only recognized
// commands reach this point; recognition failures are reported to the
// caller and never logged.
func (a *Assistant) Process(ctx context.Context, userID *uint, command string, recognitionTime float64) (string, error) {
	start := time.Now()
	response := a.Respond(ctx, command)

	record := models.VoiceCommand{
		UserID:         userID,
		CommandText:    command,
		ResponseText:   response,
		Status:         models.VoiceCommandStatusProcessed,
		ProcessingTime: recognitionTime + time.Since(start).Seconds(),
	}
	if err := a.store.LogCommand(ctx, &record); err != nil {
		return "", fmt.Errorf("failed to log voice command: %w", err)
	}
	return response, nil
}

// routeQuery is the parsed form of a "route from X to Y" command. A command
// that carries the keywords but not the expected structure parses as
// Malformed with empty fields; those match no route, so the caller ends up
// with the ordinary "no routes found" answer rather than an error.
type routeQuery struct {
	Source      string
	Destination string
	Malformed   bool
}

func (a *Assistant) parseRouteQuery(command string) routeQuery {
	fromParts := strings.Split(command, "from")
	if len(fromParts) < 2 {
		return routeQuery{Malformed: true}
	}
	toParts := strings.Split(fromParts[1], "to")
	if len(toParts) < 2 {
		return routeQuery{Malformed: true}
	}
	return routeQuery{
		Source:      a.titler.String(strings.TrimSpace(toParts[0])),
		Destination: a.titler.String(strings.TrimSpace(toParts[1])),
	}
}

func respondRouteQuery(ctx context.Context, a *Assistant, command string) string {
	query := a.parseRouteQuery(command)

	routes, err := a.store.FindRoutes(ctx, query.Source, query.Destination)
	if err != nil {
		return "Sorry, I could not look up routes right now"
	}
	if len(routes) == 0 {
		return fmt.Sprintf("No routes found from %s to %s", query.Source, query.Destination)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d routes from %s to %s. ", len(routes), query.Source, query.Destination)
	for i, route := range routes {
		if i == voiceRouteLimit {
			break
		}
		fmt.Fprintf(&b, "Route %s, Distance: %v km, Duration: %d min, Fare: %v ₹. ",
			route.RouteName, route.Distance, route.Duration, route.Fare)
	}
	return b.String()
}

func respondSchedules(ctx context.Context, a *Assistant, _ string) string {
	schedules, err := a.store.UpcomingSchedules(ctx, voiceScheduleLimit)
	if err != nil {
		return "Sorry, I could not look up schedules right now"
	}
	if len(schedules) == 0 {
		return "No schedules available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d upcoming schedules. ", len(schedules))
	for _, schedule := range schedules {
		fmt.Fprintf(&b, "Vehicle %s departing at %s from %s to %s. ",
			schedule.Vehicle.VehicleNumber,
			schedule.DepartureTime.Format("15:04"),
			schedule.Route.Source,
			schedule.Route.Destination)
	}
	return b.String()
}

func containsAny(command string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(command, keyword) {
			return true
		}
	}
	return false
}
