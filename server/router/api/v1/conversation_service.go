// Package v1 exposes the conversation history API consumed by the
// history-listing UI.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/ideasense/conversation"
	"github.com/hrygo/ideasense/store"
)

type ConversationService struct {
	store *store.Store
	// Regeneration rewrites a user's whole history; keep concurrency bounded.
	regenSemaphore *semaphore.Weighted
}

func NewConversationService(st *store.Store) *ConversationService {
	return &ConversationService{
		store:          st,
		regenSemaphore: semaphore.NewWeighted(2),
	}
}

func (s *ConversationService) Register(g *echo.Group) {
	g.POST("/users/:userId/conversations", s.SaveConversation)
	g.GET("/users/:userId/conversations", s.ListConversations)
	g.GET("/users/:userId/conversations/categories", s.ListCategories)
	g.DELETE("/users/:userId/conversations/:id", s.DeleteConversation)
	g.POST("/users/:userId/conversations/regenerate", s.RegenerateConversations)
	g.DELETE("/users/:userId/conversations", s.ClearConversations)
}

type saveConversationRequest struct {
	Messages []conversation.Message `json:"messages"`
}

type saveConversationResponse struct {
	// Saved is false when the transcript was below the minimum length
	// and no record was created. That case is a skip, not an error.
	Saved  bool                 `json:"saved"`
	Record *conversation.Record `json:"record,omitempty"`
}

func (s *ConversationService) SaveConversation(c echo.Context) error {
	var req saveConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	record, err := s.store.SaveConversation(c.Request().Context(), c.Param("userId"), req.Messages)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save conversation")
	}
	return c.JSON(http.StatusOK, saveConversationResponse{
		Saved:  record != nil,
		Record: record,
	})
}

// ListConversations serves the history list. `q` runs a free-text search;
// `category` filters by the chip set, with "All" (or absence) meaning the
// full list. Search wins when both are present.
func (s *ConversationService) ListConversations(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("userId")

	if q := c.QueryParam("q"); q != "" {
		return c.JSON(http.StatusOK, s.store.SearchConversations(ctx, userID, q))
	}
	return c.JSON(http.StatusOK, s.store.ListConversationsByCategory(ctx, userID, c.QueryParam("category")))
}

// ListCategories returns the fixed chip set the UI filters with.
func (s *ConversationService) ListCategories(c echo.Context) error {
	chips := []string{conversation.CategoryAll}
	for _, category := range conversation.Categories() {
		chips = append(chips, string(category))
	}
	return c.JSON(http.StatusOK, chips)
}

func (s *ConversationService) DeleteConversation(c echo.Context) error {
	list, err := s.store.DeleteConversation(c.Request().Context(), c.Param("userId"), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete conversation")
	}
	return c.JSON(http.StatusOK, list)
}

func (s *ConversationService) RegenerateConversations(c echo.Context) error {
	ctx := c.Request().Context()
	if err := s.regenSemaphore.Acquire(ctx, 1); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "regeneration unavailable")
	}
	defer s.regenSemaphore.Release(1)

	list, err := s.store.RegenerateConversationData(ctx, c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to regenerate conversation data")
	}
	return c.JSON(http.StatusOK, list)
}

func (s *ConversationService) ClearConversations(c echo.Context) error {
	if err := s.store.ClearConversations(c.Request().Context(), c.Param("userId")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear conversations")
	}
	return c.NoContent(http.StatusNoContent)
}
