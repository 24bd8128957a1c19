package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// 市场板块选项，顺序即下拉框顺序
const (
	SegmentIndia   = "Indian Stock Market"
	SegmentUS      = "US Stock Market"
	SegmentBitcoin = "Bitcoin"
	SegmentAll     = "All"
)

// Segments 返回全部可选板块
func Segments() []string {
	return []string{SegmentIndia, SegmentUS, SegmentBitcoin, SegmentAll}
}

// 滑块取值范围
const (
	RecentDaysMin = 1
	RecentDaysMax = 90
	PastDaysMin   = 15
	PastDaysMax   = 800
)

// ErrInvalidRequest 请求参数不合法
var ErrInvalidRequest = errors.New("invalid recommend request")

var validate = validator.New(validator.WithRequiredStructEnabled())

// RecommendRequest 选股表单输入
type RecommendRequest struct {
	Segment    string `json:"segment" default:"Indian Stock Market" validate:"required,oneof='Indian Stock Market' 'US Stock Market' 'Bitcoin' 'All'"`
	RecentDays int    `json:"recent_days" default:"1" validate:"min=1,max=90"`
	PastDays   int    `json:"past_days" default:"30" validate:"min=15,max=800"`
}

// NewRecommendRequest 返回带默认值的请求
func NewRecommendRequest() RecommendRequest {
	var r RecommendRequest
	_ = defaults.Set(&r)
	return r
}

// ApplyDefaults 填充零值字段
func (r *RecommendRequest) ApplyDefaults() error {
	return defaults.Set(r)
}

// Validate 校验板块与天数范围
func (r RecommendRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Query 新闻检索关键词，即小写的板块名
func (r RecommendRequest) Query() string {
	return strings.ToLower(r.Segment)
}
