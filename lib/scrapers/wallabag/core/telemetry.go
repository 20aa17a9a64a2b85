package core

import (
	"pocheclient/lib/restyutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("pocheclient.lib.scrapers.wallabag.core")
var meter = otel.Meter("pocheclient.lib.scrapers.wallabag.core")

var reloginCounter, _ = meter.Int64Counter(
	"wallabag.relogins",
	metric.WithDescription("Number of times an expired session was re-authenticated."),
)
var loginFailureCounter, _ = meter.Int64Counter(
	"wallabag.login_failures",
	metric.WithDescription("Number of login attempts answered with the login form again."),
)

var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
