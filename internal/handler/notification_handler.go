package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aceplace/internal/model"
	"aceplace/internal/service"
)

type NotificationHandler struct {
	dispatch *service.DispatchService
	notifs   *service.NotificationService
}

func NewNotificationHandler(dispatch *service.DispatchService, notifs *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		dispatch: dispatch,
		notifs:   notifs,
	}
}

// Create handles POST /notifications/create.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req struct {
		UserID string          `json:"user_id" binding:"required"`
		Key    string          `json:"key" binding:"required"`
		Data   json.RawMessage `json:"data"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	res, err := h.dispatch.Dispatch(c.Request.Context(), req.UserID, model.Key(req.Key), req.Data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidKey):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification key"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrDeliveryFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send notification e-mail"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create notification"})
		}
		return
	}

	switch res.Outcome {
	case service.OutcomeEmailSent:
		c.JSON(http.StatusCreated, gin.H{"msg": "Notification has been sent to e-mail"})
	case service.OutcomeStored:
		c.JSON(http.StatusCreated, gin.H{
			"msg": "Notification has been added to the database",
			"id":  res.Notification.ID,
		})
	case service.OutcomeEmailSentAndStored:
		c.JSON(http.StatusCreated, gin.H{
			"msg": "Notification has been sent to e-mail and been added to the database",
			"id":  res.Notification.ID,
		})
	case service.OutcomePartial:
		body := gin.H{"error": "notification partially delivered"}
		if res.EmailErr != nil {
			body["email_error"] = res.EmailErr.Error()
		}
		if res.StoreErr != nil {
			body["store_error"] = res.StoreErr.Error()
		}
		if res.Notification != nil {
			body["id"] = res.Notification.ID
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

// List handles GET /notifications/list with optional skip/limit query
// params. Paging applies only when both are present and numeric.
func (h *NotificationHandler) List(c *gin.Context) {
	skip := queryInt(c, "skip")
	limit := queryInt(c, "limit")

	res, err := h.notifs.List(c.Request.Context(), skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_count":  res.Total,
		"unread_count": res.Unread,
		"items":        res.Items,
	})
}

// Read handles POST /notifications/read.
func (h *NotificationHandler) Read(c *gin.Context) {
	var req struct {
		NotificationID string `json:"notification_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.notifs.MarkRead(c.Request.Context(), req.NotificationID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Notification has been read"})
}

func queryInt(c *gin.Context, name string) *int {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
