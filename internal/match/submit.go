package match

import (
	"context"
	"log"
	"net/http"

	"github.com/sudo-init-do/cuttr/internal/apperr"
	"github.com/sudo-init-do/cuttr/internal/swipe"
)

type SwipeRequest struct {
	SwiperPlantID string `json:"swiper_plant_id"`
	SwipedPlantID string `json:"swiped_plant_id"`
	IsLike        bool   `json:"is_like"`
}

type Recorder interface {
	RecordSwipe(ctx context.Context, swiperPlantID, swipedPlantID string, isLike bool) (swipe.Swipe, error)
}

// MaxSwipeBatch caps a single submission.
const MaxSwipeBatch = 100

// SwipeResult is the outcome of one swipe in a batch.
type SwipeResult struct {
	SwiperPlantID string `json:"swiper_plant_id"`
	SwipedPlantID string `json:"swiped_plant_id"`
	Recorded      bool   `json:"recorded"`
	IsMatch       bool   `json:"is_match"`
	Match         *Event `json:"match,omitempty"`
	Error         string `json:"error,omitempty"`
	Kind          string `json:"kind,omitempty"`

	err error
}

func (r SwipeResult) Err() error { return r.err }

func (r *SwipeResult) fail(err error) {
	r.err = err
	r.Kind = apperr.KindOf(err).String()
	if apperr.Status(err) == http.StatusInternalServerError {
		log.Printf("[match][ERROR] swipe %s -> %s: %+v", r.SwiperPlantID, r.SwipedPlantID, err)
		r.Error = "an unexpected error occurred"
		return
	}
	r.Error = err.Error()
}

// Submit records a batch of swipes made by userID's plants and runs match
// detection after each one. Every item is processed on its own: a failing
// item is reported in its result and does not stop the rest, so a retried
// batch records what was missed and reports the duplicates as conflicts.
func (e *Engine) Submit(ctx context.Context, rec Recorder, userID string, reqs []SwipeRequest) ([]SwipeResult, error) {
	if len(reqs) == 0 {
		return nil, apperr.Validation("no swipes submitted")
	}
	if len(reqs) > MaxSwipeBatch {
		return nil, apperr.Validation("at most %d swipes per request", MaxSwipeBatch)
	}

	results := make([]SwipeResult, len(reqs))
	for i, r := range reqs {
		res := &results[i]
		res.SwiperPlantID, res.SwipedPlantID = r.SwiperPlantID, r.SwipedPlantID

		if err := e.checkSwipe(ctx, userID, r); err != nil {
			res.fail(err)
			continue
		}
		s, err := rec.RecordSwipe(ctx, r.SwiperPlantID, r.SwipedPlantID, r.IsLike)
		if err != nil {
			res.fail(err)
			continue
		}
		res.Recorded = true
		ev, err := e.OnSwipeRecorded(ctx, s)
		if err != nil {
			res.fail(err)
			continue
		}
		if ev != nil {
			res.IsMatch = true
			res.Match = ev
		}
	}
	return results, nil
}

// Matches collects the matches created by a batch.
func Matches(results []SwipeResult) []Event {
	events := []Event{}
	for _, r := range results {
		if r.Match != nil {
			events = append(events, *r.Match)
		}
	}
	return events
}

func (e *Engine) checkSwipe(ctx context.Context, userID string, r SwipeRequest) error {
	mine, err := e.plants.Get(ctx, r.SwiperPlantID)
	if err != nil {
		return err
	}
	if mine.UserID != userID {
		return apperr.Forbidden("plant %s is not owned by the current user", r.SwiperPlantID)
	}
	if mine.IsTraded {
		return apperr.Validation("plant %s has already been traded", r.SwiperPlantID)
	}
	theirs, err := e.plants.Get(ctx, r.SwipedPlantID)
	if err != nil {
		return err
	}
	if theirs.UserID == userID {
		return apperr.Validation("cannot swipe on your own plant")
	}
	return nil
}
