package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/stridezone/storefront/internal/constants"
)

var Tracer = otel.Tracer(constants.AppStorefront)
