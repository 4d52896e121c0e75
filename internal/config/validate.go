package config

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap/zapcore"

	"cine/internal/records"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config, e.g. "storage.chunk_size".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var knownStorageKinds = map[string]bool{"sqlite": true, "postgres": true, "mssql": true, "mysql": true}

// Validate lints c without mutating it.
func Validate(c Config) []Issue {
	var issues []Issue
	issues = append(issues, validateStorage(c.Storage)...)
	issues = append(issues, validateRuntime(c.Runtime)...)
	issues = append(issues, validateImport(c.Import)...)
	issues = append(issues, validateMetrics(c.Metrics)...)
	issues = append(issues, validateLog(c.Log)...)
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	kind := strings.TrimSpace(s.Kind)
	switch {
	case kind == "":
		issues = append(issues, Issue{SeverityError, "storage.kind", "storage.kind must not be empty"})
	case !knownStorageKinds[kind]:
		issues = append(issues, Issue{SeverityError, "storage.kind",
			fmt.Sprintf("unknown storage kind %q; use sqlite, postgres, mssql or mysql", kind)})
	case kind != "sqlite" && strings.TrimSpace(s.DSN) == "":
		issues = append(issues, Issue{SeverityError, "storage.dsn", kind + " storage requires a DSN"})
	case kind == "sqlite" && strings.TrimSpace(s.DSN) == "":
		issues = append(issues, Issue{SeverityWarning, "storage.dsn",
			"no DSN: data goes to an in-memory database and is lost on exit"})
	}

	if s.ChunkSize <= 0 {
		issues = append(issues, Issue{SeverityError, "storage.chunk_size", "chunk_size must be > 0"})
	} else if s.ChunkSize > 1_000_000 {
		issues = append(issues, Issue{SeverityWarning, "storage.chunk_size",
			fmt.Sprintf("chunk_size %d holds a very large transaction in memory", s.ChunkSize)})
	}
	return issues
}

func validateRuntime(r Runtime) []Issue {
	if r.ChannelBuffer < 0 {
		return []Issue{{SeverityError, "runtime.channel_buffer", "channel_buffer must be >= 0"}}
	}
	return nil
}

func validateImport(im Import) []Issue {
	var issues []Issue
	seen := map[records.Entity]bool{}
	for i, s := range im.Entities {
		path := fmt.Sprintf("import.entities[%d]", i)
		e, err := records.ParseEntity(s)
		if err != nil {
			issues = append(issues, Issue{SeverityError, path, err.Error()})
			continue
		}
		if seen[e] {
			issues = append(issues, Issue{SeverityWarning, path, fmt.Sprintf("%s listed twice", e)})
		}
		seen[e] = true
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue
	switch m.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{SeverityError, "metrics.pushgateway_url", "pushgateway backend requires pushgateway_url"})
		} else if u, err := url.Parse(m.PushgatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
			issues = append(issues, Issue{SeverityError, "metrics.pushgateway_url",
				fmt.Sprintf("pushgateway_url %q is not an absolute URL", m.PushgatewayURL)})
		}
		if strings.TrimSpace(m.Job) == "" {
			issues = append(issues, Issue{SeverityError, "metrics.job", "job must not be empty; it groups pushed metrics"})
		}
	case "datadog":
		if strings.TrimSpace(m.DogStatsDAddr) == "" {
			issues = append(issues, Issue{SeverityError, "metrics.dogstatsd_addr", "datadog backend requires dogstatsd_addr"})
		}
	default:
		issues = append(issues, Issue{SeverityError, "metrics.backend",
			fmt.Sprintf("unknown metrics backend %q; use none, pushgateway or datadog", m.Backend)})
	}
	for i, tag := range m.Tags {
		if !strings.Contains(tag, ":") {
			issues = append(issues, Issue{SeverityWarning, fmt.Sprintf("metrics.tags[%d]", i),
				fmt.Sprintf("tag %q is not key:value", tag)})
		}
	}
	return issues
}

func validateLog(l Log) []Issue {
	var issues []Issue
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		issues = append(issues, Issue{SeverityError, "log.level", err.Error()})
	}
	switch l.Format {
	case "console", "json":
	default:
		issues = append(issues, Issue{SeverityError, "log.format",
			fmt.Sprintf("unknown log format %q; use console or json", l.Format)})
	}
	return issues
}
