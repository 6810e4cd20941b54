package icu

import (
	"net/http"
	"strconv"

	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/exceptions"
	"vitalwatch-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ICUController struct {
	Log        *zap.Logger
	ICUUsecase ICUUsecase
}

func NewICUController(log *zap.Logger, icuUsecase ICUUsecase) *ICUController {
	return &ICUController{
		Log:        log,
		ICUUsecase: icuUsecase,
	}
}

func (ctrl *ICUController) GetRecordByDataID(w http.ResponseWriter, r *http.Request) {
	dataID := chi.URLParam(r, "dataId")

	record, err := ctrl.ICUUsecase.GetRecordByDataID(r.Context(), dataID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if record == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrResourceNotFound())
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, "Record retrieved", record)
}

func (ctrl *ICUController) GetUserHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	limit := parseLimit(r)

	records, err := ctrl.ICUUsecase.GetUserHistory(r.Context(), userID, limit)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, "History retrieved", records)
}

func (ctrl *ICUController) GetUserStatistics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	statistics, err := ctrl.ICUUsecase.GetUserStatistics(r.Context(), userID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, "Statistics retrieved", statistics)
}

func (ctrl *ICUController) ListCriticalRecords(w http.ResponseWriter, r *http.Request) {
	records, err := ctrl.ICUUsecase.ListCriticalRecords(r.Context(), parseLimit(r))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, "Critical records retrieved", records)
}

func parseLimit(r *http.Request) int64 {
	limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil {
		return 0
	}
	return limit
}
