package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-activity-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	CodeOK           = 0
	CodeRateLimited  = 4029
	CodeInternal     = 5000
	messageOK        = "ok"
	messageInternal  = "系统繁忙，请稍后再试"
	messageRateLimit = "请求过于频繁，请稍后再试"
)

type apiError struct {
	code    int
	status  int
	message string
}

// errorTable maps each domain error to its envelope code, HTTP status and
// user-facing message. Ordered by kind: validation, not found, conflict,
// authorization, capacity.
var errorTable = []struct {
	err error
	api apiError
}{
	{domain.ErrInvalidArgument, apiError{1001, http.StatusBadRequest, "参数错误"}},
	{domain.ErrActivityNotClaimable, apiError{1002, http.StatusUnprocessableEntity, "活动未开始或已结束"}},
	{domain.ErrActivityTypeMismatch, apiError{1003, http.StatusUnprocessableEntity, "活动类型不支持该操作"}},
	{domain.ErrGroupConfigMissing, apiError{1004, http.StatusUnprocessableEntity, "拼团配置缺失"}},
	{domain.ErrCouponOwnerMismatch, apiError{1005, http.StatusUnprocessableEntity, "券码不属于该用户"}},
	{domain.ErrCrossStoreNotAllowed, apiError{1006, http.StatusUnprocessableEntity, "不支持跨门店参团"}},

	{domain.ErrActivityNotFound, apiError{1101, http.StatusNotFound, "活动不存在"}},
	{domain.ErrCouponNotFound, apiError{1102, http.StatusNotFound, "优惠券不存在"}},
	{domain.ErrCodeNotFound, apiError{1103, http.StatusNotFound, "券码不存在"}},
	{domain.ErrInstanceNotFound, apiError{1104, http.StatusNotFound, "拼团不存在"}},
	{domain.ErrRedemptionNotFound, apiError{1105, http.StatusNotFound, "核销记录不存在"}},
	{domain.ErrUserNotFound, apiError{1106, http.StatusNotFound, "用户不存在"}},

	{domain.ErrAlreadyRedeemed, apiError{2001, http.StatusConflict, "券码已使用或已过期"}},
	{domain.ErrCodeNotActive, apiError{2002, http.StatusConflict, "券码已使用或已过期"}},
	{domain.ErrCouponExpired, apiError{2003, http.StatusConflict, "券码已使用或已过期"}},
	{domain.ErrAlreadyMember, apiError{2004, http.StatusConflict, "您已参加该拼团"}},
	{domain.ErrAlreadyReserved, apiError{2005, http.StatusConflict, "您已预约过该活动"}},
	{domain.ErrInstanceExpired, apiError{2006, http.StatusConflict, "拼团已结束"}},
	{domain.ErrInstanceClosed, apiError{2007, http.StatusConflict, "拼团已结束"}},
	{domain.ErrRedemptionAlreadyCanceled, apiError{2008, http.StatusConflict, "核销已撤销"}},

	{domain.ErrStaffUnauthorized, apiError{3001, http.StatusForbidden, "无核销权限"}},
	{domain.ErrStoreUnauthorized, apiError{3002, http.StatusForbidden, "无该门店核销权限"}},
	{domain.ErrStoreNotInActivity, apiError{3003, http.StatusForbidden, "该门店未参与此活动"}},

	{domain.ErrLimitExceeded, apiError{4001, http.StatusConflict, "已达领取上限"}},
	{domain.ErrSoldOut, apiError{4002, http.StatusConflict, "已售罄"}},
}

func lookupError(err error) apiError {
	for _, entry := range errorTable {
		if errors.Is(err, entry.err) {
			return entry.api
		}
	}
	return apiError{CodeInternal, http.StatusInternalServerError, messageInternal}
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, response.Envelope{Code: CodeOK, Message: messageOK, Data: data})
}

func respondError(c *gin.Context, err error) {
	api := lookupError(err)
	if api.code == CodeInternal {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err.Error())
	}
	c.AbortWithStatusJSON(api.status, response.Envelope{Code: api.code, Message: api.message})
}

func respondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, response.Envelope{Code: 1001, Message: "参数错误: " + err.Error()})
}

// RateLimitedResponse is the envelope returned when the limiter rejects a call.
func RateLimitedResponse() response.Envelope {
	return response.Envelope{Code: CodeRateLimited, Message: messageRateLimit}
}
