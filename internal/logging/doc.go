// Package logging configures zerolog for listmembers and carries loggers and
// trace IDs through context.
//
// Every command gets a trace ID (a ULID) at startup; TraceHook stamps it on
// any event logged with .Ctx(ctx). Component loggers add a "component" field
// so log lines from the TUI, pagination controller and data sources can be
// told apart.
package logging
