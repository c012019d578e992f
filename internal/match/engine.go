package match

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/cuttr/internal/alerts"
	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/connection"
	"github.com/sudo-init-do/cuttr/internal/plant"
	"github.com/sudo-init-do/cuttr/internal/swipe"
)

type SwipeFinder interface {
	Find(ctx context.Context, swiperPlantID, swipedPlantID string) (*swipe.Swipe, error)
}

type PlantLookup interface {
	Get(ctx context.Context, id string) (plant.Plant, error)
}

type Connections interface {
	GetOrCreate(ctx context.Context, userA, userB string) (connection.Connection, bool, error)
}

type Store interface {
	// Create fails with a Conflict error when the plant pair already matched,
	// in either order.
	Create(ctx context.Context, m *connection.Match) error
	FindByPlants(ctx context.Context, plantA, plantB string) (*connection.Match, error)
}

type Notifier interface {
	Notify(ctx context.Context, n alerts.Notification)
}

// Broadcaster pushes live events to clients watching a connection.
type Broadcaster interface {
	Broadcast(connectionID, eventType string, data interface{})
}

// Event is emitted for every newly created match.
type Event struct {
	Match      connection.Match      `json:"match"`
	Connection connection.Connection `json:"connection"`
	Plant1     plant.Plant           `json:"plant1"`
	Plant2     plant.Plant           `json:"plant2"`
}

type Engine struct {
	swipes      SwipeFinder
	plants      PlantLookup
	connections Connections
	store       Store
	notifier    Notifier
	broadcaster Broadcaster
	now         func() time.Time
}

func NewEngine(swipes SwipeFinder, plants PlantLookup, connections Connections, store Store, notifier Notifier, broadcaster Broadcaster) *Engine {
	return &Engine{
		swipes:      swipes,
		plants:      plants,
		connections: connections,
		store:       store,
		notifier:    notifier,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

// OnSwipeRecorded creates a match when s is a like and the reciprocal like
// already exists. It returns nil when no new match was created.
func (e *Engine) OnSwipeRecorded(ctx context.Context, s swipe.Swipe) (*Event, error) {
	if !s.IsLike {
		return nil, nil
	}
	back, err := e.swipes.Find(ctx, s.SwipedPlantID, s.SwiperPlantID)
	if err != nil {
		return nil, err
	}
	if back == nil || !back.IsLike {
		return nil, nil
	}

	swiper, err := e.plants.Get(ctx, s.SwiperPlantID)
	if err != nil {
		return nil, err
	}
	swiped, err := e.plants.Get(ctx, s.SwipedPlantID)
	if err != nil {
		return nil, err
	}
	if swiper.UserID == swiped.UserID {
		return nil, nil
	}

	existing, err := e.store.FindByPlants(ctx, swiper.ID, swiped.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	conn, _, err := e.connections.GetOrCreate(ctx, swiper.UserID, swiped.UserID)
	if err != nil {
		return nil, err
	}

	// plant_id1 always sits on the connection's user1 side
	p1, p2 := swiper, swiped
	if conn.UserID1 != p1.UserID {
		p1, p2 = p2, p1
	}
	m := connection.Match{
		ID:           uuid.New().String(),
		PlantID1:     p1.ID,
		PlantID2:     p2.ID,
		ConnectionID: conn.ID,
		CreatedAt:    e.now().UTC(),
	}
	if err := e.store.Create(ctx, &m); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			// a concurrent request created it first
			return nil, nil
		}
		return nil, err
	}

	ev := &Event{Match: m, Connection: conn, Plant1: p1, Plant2: p2}
	log.Printf("[match] %s <-> %s matched in connection %s", p1.ID, p2.ID, conn.ID)
	e.announce(ctx, ev)
	return ev, nil
}

func (e *Engine) announce(ctx context.Context, ev *Event) {
	data := map[string]string{
		"match_id":      ev.Match.ID,
		"connection_id": ev.Connection.ID,
	}
	if e.notifier != nil {
		e.notifier.Notify(ctx, alerts.Notification{
			UserID:    ev.Plant1.UserID,
			Type:      alerts.TypeMatchNew,
			Title:     "It's a Match!",
			Body:      fmt.Sprintf("Your %s matched with %s.", ev.Plant1.SpeciesName, ev.Plant2.SpeciesName),
			Reference: ev.Connection.ID,
			Data:      data,
		})
		e.notifier.Notify(ctx, alerts.Notification{
			UserID:    ev.Plant2.UserID,
			Type:      alerts.TypeMatchNew,
			Title:     "It's a Match!",
			Body:      fmt.Sprintf("Your %s matched with %s.", ev.Plant2.SpeciesName, ev.Plant1.SpeciesName),
			Reference: ev.Connection.ID,
			Data:      data,
		})
	}
	if e.broadcaster != nil {
		e.broadcaster.Broadcast(ev.Connection.ID, "match_new", ev.Match)
	}
}
