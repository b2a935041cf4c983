// Package analyzers bundles the three risk analyzer endpoints (water zone,
// HOA restrictions, solar contract OCR) into one HTTP module.
package analyzers

import (
	"leadrouter_backend/internal/analyzers/hoa"
	"leadrouter_backend/internal/analyzers/solar"
	"leadrouter_backend/internal/analyzers/water"
	apphttp "leadrouter_backend/internal/http"
)

// Module is the analyzers module implementing http.Module.
type Module struct {
	water *water.Handler
	hoa   *hoa.Handler
	solar *solar.Handler
}

// NewModule creates the analyzers module from its three handlers.
func NewModule(waterHandler *water.Handler, hoaHandler *hoa.Handler, solarHandler *solar.Handler) *Module {
	return &Module{water: waterHandler, hoa: hoaHandler, solar: solarHandler}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analyzers"
}

// RegisterRoutes mounts the analyzer endpoints under /api/v1/analyzers.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/analyzers")
	m.water.RegisterRoutes(group)
	m.hoa.RegisterRoutes(group)
	m.solar.RegisterRoutes(group)
}
