package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/oxtoacart/bpool"
	"gopkg.in/mgo.v2/bson"

	"absenceio/config"
	"absenceio/def"
	"absenceio/log"
	"absenceio/restapi/restmodel"
	"absenceio/server/middlewares"
	"absenceio/server/model"
	"absenceio/storage"
	"absenceio/utils"
)

// HttpServer is a stand-in for the absence.io query API backed by MongoDB.
type HttpServer struct {
	config  config.Config
	store   def.Storager
	engine  *gin.Engine
	buffers *bpool.BufferPool
	srv     *http.Server
}

func New(config config.Config, store def.Storager) *HttpServer {
	srv := &HttpServer{
		config:  config,
		store:   store,
		buffers: bpool.NewBufferPool(64),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), accessLog)
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, model.NormalRes{Code: model.OK, Message: "ok"})
	})

	api := engine.Group(def.APIPrefix)
	api.Use(middlewares.RequireHawk(utils.HawkCredentials{ID: config.Hawk.ID, Key: config.Hawk.Key}, utils.DefaultHawkSkew))
	api.POST("/:endpoint", srv.query)

	srv.engine = engine
	srv.srv = &http.Server{Addr: config.Listen, Handler: engine}
	return srv
}

func (srv *HttpServer) Handler() http.Handler {
	return srv.engine
}

// Start serves until Shutdown is called or the listener fails.
func (srv *HttpServer) Start() error {
	log.Infof("Initiating server listening at [%s]", srv.config.Listen)
	if err := srv.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (srv *HttpServer) Shutdown(ctx context.Context) error {
	return srv.srv.Shutdown(ctx)
}

func (srv *HttpServer) query(ctx *gin.Context) {
	def.ServeRequestCount.Inc(1)
	endpoint := ctx.Param("endpoint")

	var raw []byte
	if cached, ok := ctx.Get(middlewares.BodyKey); ok {
		raw = cached.([]byte)
	} else {
		var err error
		if raw, err = ctx.GetRawData(); err != nil {
			srv.paramError(ctx, err)
			return
		}
	}

	var body model.QueryBody
	if err := json.Unmarshal(raw, &body); err != nil {
		srv.paramError(ctx, fmt.Errorf("decode body: %w", err))
		return
	}
	if body.Skip < 0 || body.Limit < 0 {
		srv.paramError(ctx, fmt.Errorf("skip %d and limit %d must not be negative", body.Skip, body.Limit))
		return
	}
	limit := body.Limit
	if limit == 0 {
		limit = def.DefaultLimit
	}

	query := bson.D{}
	if body.Filter != nil {
		resolved, err := storage.Resolve(ctx.Request.Context(), srv.store, body.Filter)
		if err != nil {
			srv.serverError(ctx, err)
			return
		}
		query = resolved
	}
	log.Debugf("query %s: %v skip=%d limit=%d", endpoint, query, body.Skip, limit)

	docs, total, err := srv.store.Find(ctx.Request.Context(), endpoint, query, body.Skip, limit)
	if err != nil {
		srv.serverError(ctx, err)
		return
	}

	envelope := model.QueryEnvelope{
		Data:       make([]json.RawMessage, 0, len(docs)),
		Count:      len(docs),
		Limit:      limit,
		Skip:       body.Skip,
		TotalCount: total,
	}
	for _, doc := range docs {
		b, err := json.Marshal(render(doc))
		if err != nil {
			srv.serverError(ctx, err)
			return
		}
		envelope.Data = append(envelope.Data, b)
	}

	buf := srv.buffers.Get()
	defer srv.buffers.Put(buf)
	if err := json.NewEncoder(buf).Encode(envelope); err != nil {
		srv.serverError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

func (srv *HttpServer) paramError(ctx *gin.Context, err error) {
	def.ServeParamErrCount.Inc(1)
	log.Warnf("%s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
	ctx.AbortWithStatusJSON(http.StatusBadRequest, model.NormalRes{Code: model.PARAM_ERROR, Message: err.Error()})
}

func (srv *HttpServer) serverError(ctx *gin.Context, err error) {
	def.ServeRequestErrCount.Inc(1)
	log.Errorf("%s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)
	ctx.AbortWithStatusJSON(http.StatusInternalServerError, model.NormalRes{Code: model.ERROR, Message: err.Error()})
}

// render turns a stored document into its wire form: timestamps use the
// backend layout and object ids their hex string.
func render(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]interface{}, len(t))
		for k, x := range t {
			out[k] = render(x)
		}
		return out
	case map[string]interface{}:
		return render(bson.M(t))
	case bson.D:
		return render(t.Map())
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = render(x)
		}
		return out
	case time.Time:
		return t.UTC().Format(restmodel.TimestampLayout)
	case bson.ObjectId:
		return t.Hex()
	}
	return v
}

func accessLog(ctx *gin.Context) {
	start := time.Now()
	ctx.Next()
	log.Debugf("%s %s %d %s", ctx.Request.Method, ctx.Request.URL.Path, ctx.Writer.Status(), time.Since(start))
}
