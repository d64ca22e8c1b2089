package service

import (
	"context"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/product_radar/app/display/internal/biz"
)

// ResearchRequest POST /api/research 请求体，未知字段忽略
type ResearchRequest struct {
	Topic string `json:"topic"`
}

type ResearchService struct {
	uc  *biz.ResearchUseCase
	log *log.Helper
}

func NewResearchService(uc *biz.ResearchUseCase, logger log.Logger) *ResearchService {
	return &ResearchService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

// Research 处理 POST /api/research
func (s *ResearchService) Research(ctx http.Context) error {
	var in ResearchRequest
	if err := ctx.Bind(&in); err != nil {
		s.log.WithContext(ctx).Warnf("bind research request failed: %v", err)
		return kerrors.BadRequest(biz.ReasonTopicRequired, biz.MsgTopicRequired)
	}

	h := ctx.Middleware(func(c context.Context, req any) (any, error) {
		return s.uc.Research(c, req.(*ResearchRequest).Topic)
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(200, out)
}

// Healthz 处理 GET /healthz
func (s *ResearchService) Healthz(ctx http.Context) error {
	return ctx.Result(200, map[string]string{"status": "ok"})
}
