package notifications

import (
	"net/http"
	"strconv"

	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type NotificationController struct {
	Log                 *zap.Logger
	NotificationUsecase NotificationUsecase
}

func NewNotificationController(log *zap.Logger, notificationUsecase NotificationUsecase) *NotificationController {
	return &NotificationController{
		Log:                 log,
		NotificationUsecase: notificationUsecase,
	}
}

func (ctrl *NotificationController) GetUserNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil {
		limit = 0
	}

	notifications, err := ctrl.NotificationUsecase.GetUserNotifications(r.Context(), userID, limit)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, "Notifications retrieved", notifications)
}

func (ctrl *NotificationController) GetDeliveryStatistics(w http.ResponseWriter, r *http.Request) {
	statistics, err := ctrl.NotificationUsecase.GetDeliveryStatistics(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, "Delivery statistics retrieved", statistics)
}
