// Package lifecycle owns the borrow request state machine. It keeps each
// request's status consistent with its item's status and emits the
// notification events that transitions produce.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/apperr"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/policy"
	"github.com/erazemk/izposoja/internal/store"
)

// Engine applies lifecycle operations on behalf of a caller.
type Engine struct {
	store      Store
	dispatcher Dispatcher
	logger     *zap.Logger
}

// New returns an Engine.
func New(s Store, d Dispatcher, logger *zap.Logger) *Engine {
	return &Engine{store: s, dispatcher: d, logger: logger}
}

// RequestInput is what a borrower supplies when asking for an item.
type RequestInput struct {
	ItemID    string
	Message   string
	StartDate *time.Time
	EndDate   *time.Time
}

// RatingInput is what a party supplies when rating a completed exchange.
type RatingInput struct {
	RequestID string
	ToUserID  string
	Rating    int
	Comment   string
}

// CreateRequest files a pending request for an available item and marks
// the item requested.
func (e *Engine) CreateRequest(ctx context.Context, callerID string, in RequestInput) (*model.Request, error) {
	if in.ItemID == "" {
		return nil, apperr.Validation("item_id is required")
	}
	if in.StartDate != nil && in.EndDate != nil && in.StartDate.After(*in.EndDate) {
		return nil, apperr.Validation("start_date must not be after end_date")
	}

	var (
		req  *model.Request
		item *model.Item
	)
	err := e.store.Tx(ctx, func(s Store) error {
		var err error
		item, err = s.GetItem(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperr.NotFound("item not found")
		}
		if !policy.CanCreateRequest(callerID, item) {
			return apperr.Validation("cannot request your own item")
		}
		if item.Status != model.ItemAvailable {
			return apperr.InvalidTransition("item is %s", item.Status)
		}

		ok, err := s.TransitionItem(ctx, item.ID, model.ItemAvailable, model.ItemRequested)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidTransition("item is no longer available")
		}

		req, err = s.CreateRequest(ctx, store.NewRequest{
			ItemID:      item.ID,
			RequesterID: callerID,
			Message:     in.Message,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("request created",
		zap.String("request_id", req.ID),
		zap.String("item_id", item.ID),
		zap.String("caller", callerID),
	)

	// The transition is committed. Notifications outlive a caller that
	// has already gone away.
	e.dispatcher.Dispatch(context.WithoutCancel(ctx), model.Event{
		UserID:    item.OwnerID,
		Type:      model.NotifyRequestReceived,
		Title:     "New borrow request",
		Message:   fmt.Sprintf("%s wants to borrow %s", displayName(req.RequesterFirstName, req.RequesterLastName), item.Title),
		RelatedID: req.ID,
	})

	return req, nil
}

// UpdateStatus moves a request to target, applying the item side effect in
// the same transaction and notifying the requester afterwards.
func (e *Engine) UpdateStatus(ctx context.Context, callerID, requestID string, target model.RequestStatus) (*model.Request, error) {
	if !target.Valid() {
		return nil, apperr.Validation("unknown status %q", target)
	}

	var (
		req  *model.Request
		item *model.Item
		from model.RequestStatus
		ed   edge
	)
	err := e.store.Tx(ctx, func(s Store) error {
		var err error
		req, err = s.GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return apperr.NotFound("request not found")
		}
		item, err = s.GetItem(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperr.NotFound("item not found")
		}

		if !policy.CanUpdateRequestStatus(callerID, req, item) {
			return apperr.Unauthorized("not a party to this request")
		}
		if req.Status.Terminal() {
			return apperr.InvalidTransition("request is already %s", req.Status)
		}
		if !policy.CanTransition(callerID, req, item, target) {
			return apperr.Unauthorized("only the owner can %s a request", verb(target))
		}

		from = req.Status
		var ok bool
		ed, ok = transitions[step{from, target}]
		if !ok {
			return apperr.InvalidTransition("cannot move request from %s to %s", from, target)
		}

		ok, err = s.TransitionRequest(ctx, req.ID, from, target)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidTransition("request changed concurrently")
		}

		ok, err = s.TransitionItem(ctx, item.ID, ed.itemFrom, ed.itemTo)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidTransition("item is not %s", ed.itemFrom)
		}

		req, err = s.GetRequest(ctx, req.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("request status changed",
		zap.String("request_id", req.ID),
		zap.String("item_id", item.ID),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.String("caller", callerID),
	)

	if ed.notify != "" {
		e.dispatcher.Dispatch(context.WithoutCancel(ctx), statusEvent(ed.notify, req, item))
	}

	return req, nil
}

// CreateRating records one party's rating of the other after a completed
// exchange.
func (e *Engine) CreateRating(ctx context.Context, callerID string, in RatingInput) (*model.Rating, error) {
	if in.Rating < model.MinRating || in.Rating > model.MaxRating {
		return nil, apperr.Validation("rating must be between %d and %d", model.MinRating, model.MaxRating)
	}

	var (
		rating *model.Rating
		item   *model.Item
	)
	err := e.store.Tx(ctx, func(s Store) error {
		req, err := s.GetRequest(ctx, in.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return apperr.NotFound("request not found")
		}
		if req.Status != model.RequestCompleted {
			return apperr.Validation("only completed requests can be rated")
		}

		item, err = s.GetItem(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperr.NotFound("item not found")
		}
		if !policy.CanRate(callerID, req, item) {
			return apperr.Unauthorized("not a party to this request")
		}
		if in.ToUserID != policy.OtherParty(callerID, req, item) {
			return apperr.Validation("to_user_id must be the other party of the request")
		}

		rated, err := s.HasRating(ctx, req.ID, callerID)
		if err != nil {
			return err
		}
		if rated {
			return apperr.Conflict("request already rated")
		}

		rating, err = s.CreateRating(ctx, store.NewRating{
			RequestID:  req.ID,
			FromUserID: callerID,
			ToUserID:   in.ToUserID,
			Rating:     in.Rating,
			Comment:    in.Comment,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("rating created",
		zap.String("rating_id", rating.ID),
		zap.String("request_id", rating.RequestID),
		zap.String("caller", callerID),
	)

	e.dispatcher.Dispatch(context.WithoutCancel(ctx), model.Event{
		UserID:    rating.ToUserID,
		Type:      model.NotifyRatingReceived,
		Title:     "New rating",
		Message:   fmt.Sprintf("You received a %d-star rating for %s", rating.Rating, item.Title),
		RelatedID: rating.ID,
	})

	return rating, nil
}

// SetAvailability lets an owner take an idle item off the market or
// list it again. Items in an active exchange cannot be changed.
func (e *Engine) SetAvailability(ctx context.Context, callerID, itemID string, available bool) (*model.Item, error) {
	from, to := model.ItemAvailable, model.ItemUnavailable
	if available {
		from, to = to, from
	}

	var item *model.Item
	err := e.store.Tx(ctx, func(s Store) error {
		var err error
		item, err = s.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperr.NotFound("item not found")
		}
		if !policy.CanEditItem(callerID, item) {
			return apperr.Unauthorized("only the owner can change availability")
		}
		if item.Status == to {
			return nil
		}
		if item.Status != from {
			return apperr.InvalidTransition("item is %s", item.Status)
		}

		ok, err := s.TransitionItem(ctx, item.ID, from, to)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidTransition("item changed concurrently")
		}

		item, err = s.GetItem(ctx, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("item availability changed",
		zap.String("item_id", item.ID),
		zap.String("status", string(item.Status)),
		zap.String("caller", callerID),
	)
	return item, nil
}

func statusEvent(t model.NotificationType, req *model.Request, item *model.Item) model.Event {
	e := model.Event{UserID: req.RequesterID, Type: t, RelatedID: req.ID}
	switch t {
	case model.NotifyRequestApproved:
		e.Title = "Request approved"
		e.Message = fmt.Sprintf("Your request to borrow %s was approved", item.Title)
	case model.NotifyRequestDeclined:
		e.Title = "Request declined"
		e.Message = fmt.Sprintf("Your request to borrow %s was declined", item.Title)
	case model.NotifyItemReturned:
		e.Title = "Item returned"
		e.Message = fmt.Sprintf("The loan of %s is complete", item.Title)
	}
	return e
}

func verb(s model.RequestStatus) string {
	switch s {
	case model.RequestApproved:
		return "approve"
	case model.RequestDeclined:
		return "decline"
	}
	return "update"
}

func displayName(first, last string) string {
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		return "Someone"
	}
	return name
}
