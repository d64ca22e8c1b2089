package server

import (
	nethttp "net/http"
	"time"

	"github.com/bytedance/sonic"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/rs/cors"

	"github.com/iWorld-y/product_radar/app/display/internal/conf"
	"github.com/iWorld-y/product_radar/app/display/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.ResearchService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		http.Filter(cors.AllowAll().Handler),
		http.ErrorEncoder(errorEncoder),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			}
		}
	}

	srv := http.NewServer(opts...)
	r := srv.Route("/")
	r.POST("/api/research", s.Research)
	r.GET("/healthz", s.Healthz)
	return srv
}

// errorEncoder 错误响应统一为 {"message": ...}
func errorEncoder(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	se := kerrors.FromError(err)
	msg := se.Message
	if se.Reason == "" && se.Code >= 500 {
		msg = "服务内部错误"
	}
	body, mErr := sonic.Marshal(map[string]string{"message": msg})
	if mErr != nil {
		w.WriteHeader(nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(int(se.Code))
	_, _ = w.Write(body)
}
