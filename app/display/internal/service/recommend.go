package service

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	nethttp "net/http"
	"strconv"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/russross/blackfriday/v2"

	"github.com/iWorld-y/market_radar/app/display/internal/domain"
	"github.com/iWorld-y/market_radar/app/display/internal/repo"
	"github.com/iWorld-y/market_radar/app/display/internal/usecase"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

//go:embed assets/*
var assets embed.FS

var indexTmpl = template.Must(template.ParseFS(assets, "assets/index.html"))

const pipelineFailure = "Failed to fetch news or generate recommendations. Please try again later."

// ModelName 展示在页面上的模型名
type ModelName string

type RecommendService struct {
	uc        *usecase.RecommendUseCase
	modelName ModelName
	log       *log.Helper
}

func NewRecommendService(uc *usecase.RecommendUseCase, modelName ModelName, logger log.Logger) *RecommendService {
	return &RecommendService{
		uc:        uc,
		modelName: modelName,
		log:       log.NewHelper(logger),
	}
}

// RegisterHTTPServer 注册页面与 JSON 接口
func (s *RecommendService) RegisterHTTPServer(srv *http.Server) {
	srv.HandleFunc("/", s.Index)
	srv.HandleFunc("/recommend", s.Submit)

	r := srv.Route("/")
	r.POST("/api/recommend", s.APIRecommend)
	r.GET("/api/history", s.APIHistory)
}

type pageResult struct {
	NewsContext string
	Picks       template.HTML
}

type pageData struct {
	ModelName ModelName
	Segments  []string
	RecentMin int
	RecentMax int
	PastMin   int
	PastMax   int
	Form      model.RecommendRequest
	Error     string
	Result    *pageResult
}

func (s *RecommendService) page(form model.RecommendRequest) pageData {
	return pageData{
		ModelName: s.modelName,
		Segments:  model.Segments(),
		RecentMin: model.RecentDaysMin,
		RecentMax: model.RecentDaysMax,
		PastMin:   model.PastDaysMin,
		PastMax:   model.PastDaysMax,
		Form:      form,
	}
}

// Index 渲染默认表单
func (s *RecommendService) Index(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		nethttp.NotFound(w, r)
		return
	}
	s.render(w, nethttp.StatusOK, s.page(model.NewRecommendRequest()))
}

// Submit 处理表单提交，参数错误返回 400，流水线失败返回 502
func (s *RecommendService) Submit(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodPost {
		w.Header().Set("Allow", nethttp.MethodPost)
		nethttp.Error(w, "method not allowed", nethttp.StatusMethodNotAllowed)
		return
	}

	req, err := parseForm(r)
	if err != nil {
		data := s.page(req)
		data.Error = err.Error()
		s.render(w, nethttp.StatusBadRequest, data)
		return
	}

	rec, err := s.uc.Recommend(r.Context(), req)
	if err != nil {
		data := s.page(req)
		if errors.Is(err, model.ErrInvalidRequest) {
			data.Error = err.Error()
			s.render(w, nethttp.StatusBadRequest, data)
			return
		}
		s.log.Errorf("recommend failed: %v", err)
		data.Error = pipelineFailure
		s.render(w, nethttp.StatusBadGateway, data)
		return
	}

	data := s.page(req)
	data.Result = &pageResult{
		NewsContext: rec.NewsContext,
		Picks:       renderMarkdown(rec.Picks),
	}
	s.render(w, nethttp.StatusOK, data)
}

func (s *RecommendService) render(w nethttp.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		s.log.Errorf("render page failed: %v", err)
		nethttp.Error(w, "internal error", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// parseForm 缺省字段使用默认值，非整数或越界视为非法请求
func parseForm(r *nethttp.Request) (model.RecommendRequest, error) {
	req := model.NewRecommendRequest()
	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err)
	}

	if v := r.PostForm.Get("segment"); v != "" {
		req.Segment = v
	}
	for name, dst := range map[string]*int{"recent_days": &req.RecentDays, "past_days": &req.PastDays} {
		v := r.PostForm.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: %s must be an integer", model.ErrInvalidRequest, name)
		}
		*dst = n
	}

	return req, req.Validate()
}

// renderMarkdown 模型输出按 Markdown 渲染，内嵌 HTML 直接丢弃
func renderMarkdown(src string) template.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML,
	})
	return template.HTML(blackfriday.Run([]byte(src), blackfriday.WithRenderer(renderer)))
}

// APIRecommend POST /api/recommend，JSON 请求体中缺省字段使用默认值
func (s *RecommendService) APIRecommend(ctx http.Context) error {
	req := model.NewRecommendRequest()
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	rec, err := s.uc.Recommend(ctx, req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidRequest) {
			return kerrors.BadRequest("INVALID_REQUEST", err.Error())
		}
		s.log.Errorf("recommend failed: %v", err)
		return kerrors.New(nethttp.StatusBadGateway, "PIPELINE_FAILED", pipelineFailure)
	}

	return ctx.JSON(nethttp.StatusOK, &domain.Recommendation{
		Segment:     rec.Request.Segment,
		RecentDays:  rec.Request.RecentDays,
		PastDays:    rec.Request.PastDays,
		NewsContext: rec.NewsContext,
		Picks:       rec.Picks,
		ModelUsed:   rec.ModelUsed,
		CreatedAt:   rec.CreatedAt.Format("2006-01-02 15:04:05"),
	})
}

type historyReply struct {
	Items []*domain.Recommendation `json:"items"`
	Total int                      `json:"total"`
}

// APIHistory GET /api/history?page=&page_size=
func (s *RecommendService) APIHistory(ctx http.Context) error {
	q := ctx.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize < 1 {
		pageSize = 10
	}

	list, total, err := s.uc.History(ctx, page, pageSize)
	if err != nil {
		if errors.Is(err, repo.ErrNoStore) {
			return kerrors.ServiceUnavailable("HISTORY_DISABLED", err.Error())
		}
		return err
	}
	if list == nil {
		list = []*domain.Recommendation{}
	}
	return ctx.JSON(nethttp.StatusOK, &historyReply{Items: list, Total: total})
}
