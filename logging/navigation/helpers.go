package navigation

import (
	"context"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging"
)

const (
	// EventGraphBuilt is emitted after a collision map has been turned into a navigation graph.
	EventGraphBuilt logging.EventType = "navigation.graph_built"
	// EventGraphRejected is emitted when a build request carries an unusable collision map.
	EventGraphRejected logging.EventType = "navigation.graph_rejected"
	// EventPathFound is emitted when a query produced a route.
	EventPathFound logging.EventType = "navigation.path_found"
	// EventPathNotFound is emitted when the search exhausted its frontier or step budget.
	EventPathNotFound logging.EventType = "navigation.path_not_found"
	// EventQueryRejected is emitted when a query endpoint cannot be resolved to a cell.
	EventQueryRejected logging.EventType = "navigation.query_rejected"
)

// GraphBuiltPayload summarises a freshly built graph.
type GraphBuiltPayload struct {
	Width       int   `json:"width"`
	Height      int   `json:"height"`
	JumpHeight  int   `json:"jumpHeight"`
	BodyHeight  int   `json:"bodyHeight"`
	Navigable   int   `json:"navigable"`
	RunLinks    int   `json:"runLinks"`
	FallLinks   int   `json:"fallLinks"`
	JumpLinks   int   `json:"jumpLinks"`
	DurationMic int64 `json:"durationMicros"`
}

// GraphBuilt publishes the summary of a successful build.
func GraphBuilt(ctx context.Context, pub logging.Publisher, payload GraphBuiltPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGraphBuilt,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNavigation,
		Payload:  payload,
		Extra:    extra,
	})
}

// GraphRejectedPayload carries the validation failure.
type GraphRejectedPayload struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Tiles  int    `json:"tiles"`
	Reason string `json:"reason"`
}

func GraphRejected(ctx context.Context, pub logging.Publisher, payload GraphRejectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGraphRejected,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNavigation,
		Payload:  payload,
		Extra:    extra,
	})
}

// PathPayload describes one query outcome. Cost and Waypoints are zero when
// no route was found.
type PathPayload struct {
	StartX    int     `json:"startX"`
	StartZ    int     `json:"startZ"`
	GoalX     int     `json:"goalX"`
	GoalZ     int     `json:"goalZ"`
	Waypoints int     `json:"waypoints"`
	Cost      float64 `json:"cost"`
	Expanded  int     `json:"expanded"`
	Reason    string  `json:"reason,omitempty"`
}

func PathFound(ctx context.Context, pub logging.Publisher, queryID uint64, payload PathPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPathFound,
		QueryID:  queryID,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryNavigation,
		Payload:  payload,
		Extra:    extra,
	})
}

func PathNotFound(ctx context.Context, pub logging.Publisher, queryID uint64, payload PathPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPathNotFound,
		QueryID:  queryID,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNavigation,
		Payload:  payload,
		Extra:    extra,
	})
}

// QueryRejected is published before any search runs, so Expanded is always zero.
func QueryRejected(ctx context.Context, pub logging.Publisher, queryID uint64, payload PathPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventQueryRejected,
		QueryID:  queryID,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNavigation,
		Payload:  payload,
		Extra:    extra,
	})
}
