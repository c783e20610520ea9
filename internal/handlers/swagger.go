package handlers

// @title URL Event Pipeline
// @version 1.0
// @description Development server for the URL event collector and enricher

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @tag.name collector
// @tag.description Event collection, tracking pixel and tracker script

// @tag.name enrichment
// @tag.description Record enrichment

// @tag.name events
// @tag.description Events written to the local sink
