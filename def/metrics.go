package def

import (
	"github.com/rcrowley/go-metrics"
)

var (
	QueryEncodeTime  = metrics.NewRegisteredGaugeFloat64("query.encode.time", metrics.DefaultRegistry)
	QueryRequestTime = metrics.NewRegisteredGaugeFloat64("query.request.time", metrics.DefaultRegistry)

	QueryRequestCount    = metrics.NewRegisteredCounter("query.request", metrics.DefaultRegistry)
	QueryRequestOkCount  = metrics.NewRegisteredCounter("query.request.ok", metrics.DefaultRegistry)
	QueryRequestErrCount = metrics.NewRegisteredCounter("query.request.error", metrics.DefaultRegistry)

	OutputRecordCount = metrics.NewRegisteredCounter("output.record", metrics.DefaultRegistry)

	ServeRequestCount    = metrics.NewRegisteredCounter("serve.request", metrics.DefaultRegistry)
	ServeRequestErrCount = metrics.NewRegisteredCounter("serve.request.error", metrics.DefaultRegistry)
	ServeParamErrCount   = metrics.NewRegisteredCounter("serve.request.params.error", metrics.DefaultRegistry)
	DBErrCount           = metrics.NewRegisteredCounter("db.error", metrics.DefaultRegistry)
)
