package handler

import (
	"net/http"
	"strconv"

	"github.com/TIANLI0/InpaintKit/model"
	"github.com/TIANLI0/InpaintKit/patchmatch"
	"github.com/gin-gonic/gin"
)

// Plan 预览给定尺寸下的金字塔层数，不调用后端
func (h *InpaintHandler) Plan(c *gin.Context) {
	defaults := h.inpainter.Defaults()

	width, err1 := strconv.Atoi(c.Query("width"))
	height, err2 := strconv.Atoi(c.Query("height"))
	patchSize, err3 := strconv.Atoi(c.DefaultQuery("patch_size", strconv.Itoa(defaults.PatchSize)))
	levels, err4 := strconv.Atoi(c.DefaultQuery("pyramid_levels", strconv.Itoa(defaults.PyramidLevels)))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || width <= 0 || height <= 0 || patchSize < 1 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "width/height/patch_size/pyramid_levels 参数无效",
		})
		return
	}

	plan, err := patchmatch.PlanPyramid(width, height, patchSize, levels)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "无法规划金字塔",
			Error:   err.Error(),
		})
		return
	}

	sizes := make([]model.PyramidDim, plan.Levels)
	for level := range sizes {
		w, h := patchmatch.LevelSize(width, height, level)
		sizes[level] = model.PyramidDim{Level: level, Width: w, Height: h}
	}

	c.JSON(http.StatusOK, model.PyramidPlan{
		Width:     width,
		Height:    height,
		PatchSize: patchSize,
		MaxLevels: plan.MaxLevels,
		Levels:    plan.Levels,
		Sizes:     sizes,
	})
}

// Backend 返回计算后端状态
func (h *InpaintHandler) Backend(c *gin.Context) {
	status := h.inpainter.BackendStatus()
	code := http.StatusOK
	if !status.Available {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
