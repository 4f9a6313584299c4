package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/TIANLI0/InpaintKit/config"
	"github.com/TIANLI0/InpaintKit/model"
	"github.com/TIANLI0/InpaintKit/patchmatch"
	"github.com/TIANLI0/InpaintKit/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Inpainter 执行补全任务
type Inpainter interface {
	ProcessFiles(ctx context.Context, imagePath, maskPath, key string, opts patchmatch.Options) (*model.InpaintResult, error)
	Defaults() patchmatch.Options
	BackendStatus() model.BackendStatus
}

// ResultCache 补全结果缓存，未命中时返回 nil, nil
type ResultCache interface {
	GetInpaintResult(ctx context.Context, key string) (*model.InpaintResult, error)
	SetInpaintResult(ctx context.Context, key string, result *model.InpaintResult) error
}

type InpaintHandler struct {
	cfg       *config.Config
	cache     ResultCache
	inpainter Inpainter
}

func NewInpaintHandler(cfg *config.Config, cache ResultCache, inpainter Inpainter) *InpaintHandler {
	return &InpaintHandler{
		cfg:       cfg,
		cache:     cache,
		inpainter: inpainter,
	}
}

// Inpaint 处理图像与掩码上传并补全空洞
func (h *InpaintHandler) Inpaint(c *gin.Context) {
	opts, err := parseOptions(c, h.inpainter.Defaults())
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "参数错误",
			Error:   err.Error(),
		})
		return
	}

	imagePath, imageMD5, ok := h.saveUpload(c, "image")
	if !ok {
		return
	}
	defer h.cleanup(imagePath)

	maskPath, maskMD5, ok := h.saveUpload(c, "mask")
	if !ok {
		return
	}
	defer h.cleanup(maskPath)

	key := cacheKey(imageMD5, maskMD5, opts)
	utils.Logger.Info("inpaint request",
		zap.String("image_md5", imageMD5),
		zap.String("mask_md5", maskMD5),
		zap.String("key", key))

	// 检查缓存（带参数区分）
	ctx := c.Request.Context()
	cached, err := h.cache.GetInpaintResult(ctx, key)
	if err != nil {
		utils.Logger.Warn("failed to get cache", zap.Error(err))
	}
	if cached != nil {
		utils.Logger.Info("cache hit", zap.String("key", key))
		c.JSON(http.StatusOK, model.InpaintResponse{
			Success: true,
			Message: "处理成功（来自缓存）",
			Data:    cached,
		})
		return
	}

	result, err := h.inpainter.ProcessFiles(ctx, imagePath, maskPath, key, opts)
	if err != nil {
		utils.Logger.Error("failed to inpaint image", zap.String("key", key), zap.Error(err))
		status, message := classify(err)
		c.JSON(status, model.ErrorResponse{
			Success: false,
			Message: message,
			Error:   err.Error(),
		})
		return
	}

	// 保存到缓存
	if err := h.cache.SetInpaintResult(ctx, key, result); err != nil {
		utils.Logger.Warn("failed to set cache", zap.Error(err))
	}

	c.JSON(http.StatusOK, model.InpaintResponse{
		Success: true,
		Message: "处理成功",
		Data:    result,
	})
}

// GetByKey 根据缓存键获取补全结果
func (h *InpaintHandler) GetByKey(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "key参数缺失",
		})
		return
	}

	result, err := h.cache.GetInpaintResult(c.Request.Context(), key)
	if err != nil {
		utils.Logger.Error("failed to get inpaint result", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "查询失败",
			Error:   err.Error(),
		})
		return
	}

	if result == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Message: "未找到该补全结果",
		})
		return
	}

	c.JSON(http.StatusOK, model.InpaintResponse{
		Success: true,
		Message: "查询成功",
		Data:    result,
	})
}

// saveUpload 校验并保存上传文件，失败时已写出响应
func (h *InpaintHandler) saveUpload(c *gin.Context, field string) (string, string, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("请上传%s文件", field),
			Error:   err.Error(),
		})
		return "", "", false
	}

	// 验证文件大小
	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: fmt.Sprintf("文件大小超过限制 (%d MB)", h.cfg.Upload.MaxSize/(1024*1024)),
		})
		return "", "", false
	}

	// 验证文件类型
	if !h.isAllowedType(file) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Message: "不支持的文件类型，仅支持 JPEG/PNG/BMP/TIFF/WebP",
		})
		return "", "", false
	}

	savePath := filepath.Join(h.cfg.Upload.UploadDir, utils.TempName(field, filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		utils.Logger.Error("failed to save file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "保存文件失败",
			Error:   err.Error(),
		})
		return "", "", false
	}

	md5, err := utils.FileMD5(savePath)
	if err != nil {
		h.cleanup(savePath)
		utils.Logger.Error("failed to calculate md5", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Message: "计算文件哈希失败",
			Error:   err.Error(),
		})
		return "", "", false
	}

	return savePath, md5, true
}

// cleanup 确保文件在处理完成后被删除（如果配置启用）
func (h *InpaintHandler) cleanup(path string) {
	if !h.cfg.Upload.CleanupTempFiles {
		return
	}
	if err := os.Remove(path); err != nil {
		utils.Logger.Warn("failed to delete temp file",
			zap.String("file", path),
			zap.Error(err))
	} else {
		utils.Logger.Debug("temp file deleted",
			zap.String("file", path))
	}
}

func (h *InpaintHandler) isAllowedType(file *multipart.FileHeader) bool {
	contentType := file.Header.Get("Content-Type")
	for _, allowed := range h.cfg.Upload.AllowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

// classify 将错误映射为HTTP状态码与提示
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrQueueFull):
		return http.StatusServiceUnavailable, "处理队列已满，请稍后重试"
	case errors.Is(err, patchmatch.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, "计算后端不可用"
	case patchmatch.IsInputError(err):
		return http.StatusBadRequest, "输入无效"
	default:
		return http.StatusInternalServerError, "图片处理失败"
	}
}

// parseOptions 在默认参数上应用表单中出现的字段
func parseOptions(c *gin.Context, opts patchmatch.Options) (patchmatch.Options, error) {
	var err error
	parseFloat := func(field string, dst *float32) {
		if v, ok := c.GetPostForm(field); ok && err == nil {
			var f float64
			if f, err = strconv.ParseFloat(v, 32); err != nil {
				err = fmt.Errorf("bad %s argument '%s'", field, v)
				return
			}
			*dst = float32(f)
		}
	}
	parseInt := func(field string, dst *int) {
		if v, ok := c.GetPostForm(field); ok && err == nil {
			var n int
			if n, err = strconv.Atoi(v); err != nil {
				err = fmt.Errorf("bad %s argument '%s'", field, v)
				return
			}
			*dst = n
		}
	}

	parseFloat("weight", &opts.MaskImportance)
	parseFloat("uniformity", &opts.Uniformity)
	parseInt("patch_size", &opts.PatchSize)
	parseInt("pyramid_levels", &opts.PyramidLevels)
	parseInt("search_vote_iters", &opts.SearchVoteIters)
	parseInt("patch_match_iters", &opts.PatchMatchIters)
	parseInt("stop_threshold", &opts.StopThreshold)
	if err != nil {
		return opts, err
	}

	if v, ok := c.GetPostForm("extra_pass_3x3"); ok {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return opts, fmt.Errorf("bad extra_pass_3x3 argument '%s'", v)
		}
		opts.Extra3x3Pass = b
	}
	if v, ok := c.GetPostForm("vote_mode"); ok {
		mode, perr := patchmatch.ParseVoteMode(v)
		if perr != nil {
			return opts, perr
		}
		opts.VoteMode = mode
	}

	return opts, opts.Validate()
}

// cacheKey 图像、掩码与参数共同决定结果
func cacheKey(imageMD5, maskMD5 string, opts patchmatch.Options) string {
	return utils.CombineMD5(imageMD5, maskMD5, fmt.Sprintf("%+v", opts))
}
