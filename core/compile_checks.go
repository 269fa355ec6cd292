package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ MoneyModule       = (*Service)(nil)
	_ CallbackBridge    = (*Service)(nil)
	_ SessionDirectory  = emptyDirectory{}
	_ MetricsRecorder   = NopMetricsRecorder{}
	_ ObjectPaidHandler = ObjectPaidFunc(nil)

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
