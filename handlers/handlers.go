package handlers

import (
	"app/forecast"
	"app/store"
)

// Package-level collaborators, set once at startup.
var (
	dataStore store.Store
	engine    *forecast.Engine
)

// Configure wires the handlers to their store and forecast engine.
func Configure(st store.Store, e *forecast.Engine) {
	dataStore = st
	engine = e
}
