package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopee_dash_v1_202608/internal/api/dto"
	"shopee_dash_v1_202608/internal/service"
	"shopee_dash_v1_202608/internal/task"
)

// SyncController 同步控制器
type SyncController struct {
	syncTask *task.OrderSyncTask
}

// NewSyncController 创建同步控制器
func NewSyncController(syncTask *task.OrderSyncTask) *SyncController {
	return &SyncController{syncTask: syncTask}
}

// ==================== 手动触发 ====================

// AutoSync 手动触发一轮全店订单同步，阻塞到整轮结束
// GET /api/auto-sync
// 可选参数 time_range_field / start_time / end_time 覆盖默认 24 小时窗口
func (c *SyncController) AutoSync(ctx *gin.Context) {
	var req dto.SyncOrdersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.SyncErrorResponse{Success: false, Error: err.Error()})
		return
	}

	var (
		summary map[string]string
		err     error
	)
	if req.StartTime > 0 && req.EndTime > 0 {
		field := req.TimeRangeField
		if field == "" {
			field = service.TimeRangeCreate
		}
		summary, err = c.syncTask.Run(ctx, field, req.StartTime, req.EndTime)
	} else {
		summary, err = c.syncTask.RunOnce(ctx)
	}

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.SyncErrorResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.SyncResponse{
		Success: true,
		Message: "Sync completed",
		Summary: summary,
	})
}

// ==================== 同步状态 ====================

// Status 最近一轮同步状态
// GET /api/sync/status
func (c *SyncController) Status(ctx *gin.Context) {
	status := task.LastStatus()
	if status == nil {
		ctx.JSON(http.StatusOK, dto.SyncStatusResponse{})
		return
	}

	resp := dto.SyncStatusResponse{
		Running:   status.Running,
		LastRunAt: &status.LastRunAt,
		Summary:   status.Summary,
	}
	if status.TimeRangeField != "" {
		resp.LastWindow = &dto.SyncWindow{
			TimeRangeField: status.TimeRangeField,
			StartTime:      status.StartTime,
			EndTime:        status.EndTime,
		}
	}
	ctx.JSON(http.StatusOK, resp)
}
