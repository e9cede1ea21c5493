package usecases

import (
	"dream-journal/apperrors"
	"dream-journal/entities"
	"dream-journal/repositories"
)

// EventPublisher pushes entry-change events to a user's connected clients.
type EventPublisher interface {
	Publish(userID string, event any)
}

// DreamEvent is the payload broadcast on entry create/update/delete.
type DreamEvent struct {
	Action  string          `json:"action"`
	DreamID string          `json:"dream_id"`
	Data    *entities.Dream `json:"data,omitempty"`
}

// DreamUpdate carries the fields a client may change on an existing entry.
// Anything else in the request body is silently dropped.
type DreamUpdate struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Emotions    *[]string `json:"emotions"`
	Tags        *[]string `json:"tags"`
	Type        *string   `json:"type"`
	Lucid       *bool     `json:"lucid"`
	Rating      *int      `json:"rating"`
}

// PageInfo points at an adjacent page of a listing.
type PageInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination holds cursors for the surrounding pages; either side is omitted
// when the window touches that end of the result set.
type Pagination struct {
	Next *PageInfo `json:"next,omitempty"`
	Prev *PageInfo `json:"prev,omitempty"`
}

type DreamUseCase struct {
	Dreams repositories.DreamRepository
	Events EventPublisher
}

func NewDreamUseCase(dreams repositories.DreamRepository, events EventPublisher) *DreamUseCase {
	return &DreamUseCase{Dreams: dreams, Events: events}
}

// CreateDream validates and stores a new entry. The owner is always the
// authenticated caller, regardless of what the input carries.
func (uc *DreamUseCase) CreateDream(userID string, dream *entities.Dream) error {
	dream.ID = ""
	dream.UserID = userID

	if err := dream.Validate(); err != nil {
		return apperrors.Validation("%s", err.Error())
	}
	if err := uc.Dreams.Create(dream); err != nil {
		return err
	}

	uc.publish(userID, DreamEvent{Action: "created", DreamID: dream.ID, Data: dream})
	return nil
}

// GetDream looks an entry up scoped to its owner, so an entry belonging to
// someone else looks identical to a missing one.
func (uc *DreamUseCase) GetDream(id, userID string) (*entities.Dream, error) {
	dream, err := uc.Dreams.GetByIDForUser(id, userID)
	if err != nil {
		return nil, apperrors.NotFound("Dream not found with id of %s", id)
	}
	return dream, nil
}

// ListDreams returns one page of the caller's entries plus pagination cursors.
func (uc *DreamUseCase) ListDreams(userID string, q repositories.ListQuery) ([]entities.Dream, Pagination, error) {
	q.Normalize()

	dreams, total, err := uc.Dreams.List(userID, q)
	if err != nil {
		return nil, Pagination{}, err
	}

	var pagination Pagination
	start := (q.Page - 1) * q.Limit
	end := q.Page * q.Limit
	if int64(end) < total {
		pagination.Next = &PageInfo{Page: q.Page + 1, Limit: q.Limit}
	}
	if start > 0 {
		pagination.Prev = &PageInfo{Page: q.Page - 1, Limit: q.Limit}
	}
	return dreams, pagination, nil
}

// UpdateDream loads the entry unscoped, then checks ownership explicitly:
// a foreign entry yields 401 here, unlike GetDream which yields 404.
func (uc *DreamUseCase) UpdateDream(id, userID string, input DreamUpdate) (*entities.Dream, error) {
	dream, err := uc.Dreams.GetByID(id)
	if err != nil {
		return nil, apperrors.NotFound("Dream not found with id %s", id)
	}
	if dream.UserID != userID {
		return nil, apperrors.Unauthorized("Not authorized to update this dream")
	}

	if input.Title != nil {
		dream.Title = *input.Title
	}
	if input.Description != nil {
		dream.Description = *input.Description
	}
	if input.Emotions != nil {
		dream.Emotions = *input.Emotions
	}
	if input.Tags != nil {
		dream.Tags = *input.Tags
	}
	if input.Type != nil {
		dream.Type = *input.Type
	}
	if input.Lucid != nil {
		dream.Lucid = *input.Lucid
	}
	if input.Rating != nil {
		dream.Rating = input.Rating
	}

	if err := dream.Validate(); err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}
	if err := uc.Dreams.Update(dream); err != nil {
		return nil, err
	}

	uc.publish(userID, DreamEvent{Action: "updated", DreamID: dream.ID, Data: dream})
	return dream, nil
}

// DeleteDream uses the same ownership protocol as UpdateDream.
func (uc *DreamUseCase) DeleteDream(id, userID string) error {
	dream, err := uc.Dreams.GetByID(id)
	if err != nil {
		return apperrors.NotFound("Dream not found with id %s", id)
	}
	if dream.UserID != userID {
		return apperrors.Unauthorized("Not authorized to delete this dream")
	}
	if err := uc.Dreams.Delete(id); err != nil {
		return err
	}

	uc.publish(userID, DreamEvent{Action: "deleted", DreamID: id})
	return nil
}

// GetStats aggregates over all of the caller's entries.
func (uc *DreamUseCase) GetStats(userID string) (*repositories.DreamStats, error) {
	return uc.Dreams.Stats(userID)
}

func (uc *DreamUseCase) publish(userID string, event DreamEvent) {
	if uc.Events != nil {
		uc.Events.Publish(userID, event)
	}
}
