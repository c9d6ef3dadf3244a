package proto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navgrid"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navsystem"
)

const (
	// Version tracks the wire-protocol revision expected by clients.
	Version = 1
)

// Client message type identifiers.
const (
	TypeBuild     = "build"
	TypePath      = "path"
	TypeClear     = "clear"
	TypeHeartbeat = "heartbeat"
)

// Server message type identifiers.
const (
	TypeGraph   = "graph"
	TypeCleared = "cleared"
	TypeError   = "error"
)

// Encoding selects the frame format. Text frames carry JSON and binary frames
// carry msgpack; both use the json field names.
type Encoding uint8

const (
	EncodingJSON Encoding = iota
	EncodingMsgpack
)

var (
	ErrUnsupportedVersion = errors.New("proto: unsupported client protocol version")
	ErrMissingPayload     = errors.New("proto: message payload missing")
)

// ClientMessage captures an inbound message. Build is set for "build",
// Query for "path".
type ClientMessage struct {
	Ver    int           `json:"ver,omitempty"`
	Type   string        `json:"type" jsonschema:"enum=build,enum=path,enum=clear,enum=heartbeat"`
	Seq    uint64        `json:"seq,omitempty"`
	SentAt int64         `json:"sentAt,omitempty"`
	Build  *BuildRequest `json:"build,omitempty"`
	Query  *PathQuery    `json:"query,omitempty"`
}

// BuildRequest describes the collision map of one agent. Tiles is the flat
// bottom-row-first buffer; Rows is an ASCII alternative listed top row first.
// Exactly one of them is used, Tiles taking precedence.
type BuildRequest struct {
	JumpHeight int      `json:"jumpHeight"`
	BodyHeight int      `json:"bodyHeight"`
	Width      int      `json:"width,omitempty"`
	Height     int      `json:"height,omitempty"`
	Tiles      []int    `json:"tiles,omitempty"`
	Rows       []string `json:"rows,omitempty"`
}

// PathQuery holds world-space endpoints.
type PathQuery struct {
	Start Vec2 `json:"start"`
	Goal  Vec2 `json:"goal"`
}

type Vec2 struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type GridPoint struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// GraphMessage acknowledges a build with the resulting graph summary.
type GraphMessage struct {
	Ver   int        `json:"ver"`
	Type  string     `json:"type"`
	Seq   uint64     `json:"seq,omitempty"`
	Stats GraphStats `json:"stats"`
}

type GraphStats struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	Cells      int `json:"cells"`
	Navigable  int `json:"navigable"`
	RunLinks   int `json:"runLinks"`
	FallLinks  int `json:"fallLinks"`
	JumpLinks  int `json:"jumpLinks"`
	JumpHeight int `json:"jumpHeight"`
	BodyHeight int `json:"bodyHeight"`
}

// PathMessage answers a path query. Anchor and Waypoints are omitted when
// Found is false.
type PathMessage struct {
	Ver       int        `json:"ver"`
	Type      string     `json:"type"`
	Seq       uint64     `json:"seq,omitempty"`
	Found     bool       `json:"found"`
	Reason    string     `json:"reason,omitempty"`
	Anchor    *Vec3      `json:"anchor,omitempty"`
	Cost      float64    `json:"cost,omitempty"`
	Expanded  int        `json:"expanded"`
	Waypoints []Waypoint `json:"waypoints,omitempty"`
}

type Waypoint struct {
	X     int         `json:"x"`
	Z     int         `json:"z"`
	Cost  float64     `json:"cost"`
	Edge  string      `json:"edge"`
	Cells []GridPoint `json:"cells,omitempty"`
	// Curve holds the two apex anchors of a jump.
	Curve []GridPoint `json:"curve,omitempty"`
}

type ClearedMessage struct {
	Ver  int    `json:"ver"`
	Type string `json:"type"`
	Seq  uint64 `json:"seq,omitempty"`
}

type HeartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
}

type ErrorMessage struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	Seq    uint64 `json:"seq,omitempty"`
	Reason string `json:"reason"`
}

// DecodeClientMessage converts a raw frame into a structured message and
// checks that the payload required by its type is present.
func DecodeClientMessage(payload []byte, enc Encoding) (ClientMessage, error) {
	var msg ClientMessage
	if err := Unmarshal(payload, enc, &msg); err != nil {
		return msg, err
	}
	if msg.Ver == 0 {
		msg.Ver = Version
	}
	if msg.Ver != Version {
		return msg, fmt.Errorf("%w: %d", ErrUnsupportedVersion, msg.Ver)
	}
	switch msg.Type {
	case TypeBuild:
		if msg.Build == nil {
			return msg, fmt.Errorf("%w: build", ErrMissingPayload)
		}
	case TypePath:
		if msg.Query == nil {
			return msg, fmt.Errorf("%w: query", ErrMissingPayload)
		}
	}
	return msg, nil
}

// Marshal renders any protocol message in the requested encoding.
func Marshal(msg any, enc Encoding) ([]byte, error) {
	if enc == EncodingMsgpack {
		var buf bytes.Buffer
		encoder := msgpack.NewEncoder(&buf)
		encoder.SetCustomStructTag("json")
		if err := encoder.Encode(msg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return json.Marshal(msg)
}

func Unmarshal(data []byte, enc Encoding, out any) error {
	if enc == EncodingMsgpack {
		decoder := msgpack.NewDecoder(bytes.NewReader(data))
		decoder.SetCustomStructTag("json")
		return decoder.Decode(out)
	}
	return json.Unmarshal(data, out)
}

// CollisionMap converts the request into grid inputs.
func (r BuildRequest) CollisionMap() (navgrid.CollisionMap, navgrid.Params, error) {
	params := navgrid.Params{JumpHeight: r.JumpHeight, BodyHeight: r.BodyHeight}
	if len(r.Tiles) == 0 && len(r.Rows) > 0 {
		m, err := navgrid.ParseRows(r.Rows)
		if err != nil {
			return navgrid.CollisionMap{}, params, err
		}
		return m, params, nil
	}
	m := navgrid.CollisionMap{Width: r.Width, Height: r.Height, Tiles: make([]byte, len(r.Tiles))}
	for i, tile := range r.Tiles {
		if tile != int(navgrid.TileOpen) && tile != int(navgrid.TileSolid) {
			return navgrid.CollisionMap{}, params, fmt.Errorf("%w: %d at index %d", navgrid.ErrInvalidTile, tile, i)
		}
		m.Tiles[i] = byte(tile)
	}
	return m, params, nil
}

func NewGraphMessage(seq uint64, stats navgrid.Stats) GraphMessage {
	return GraphMessage{
		Ver:  Version,
		Type: TypeGraph,
		Seq:  seq,
		Stats: GraphStats{
			Width:      stats.Width,
			Height:     stats.Height,
			Cells:      stats.Width * stats.Height,
			Navigable:  stats.Navigable,
			RunLinks:   stats.RunLinks,
			FallLinks:  stats.FallLinks,
			JumpLinks:  stats.JumpLinks,
			JumpHeight: stats.JumpHeight,
			BodyHeight: stats.BodyHeight,
		},
	}
}

// NewPathMessage renders the outcome of System.FindPath.
func NewPathMessage(seq uint64, anchor navsystem.Vec3, found bool, sys *navsystem.System) PathMessage {
	msg := PathMessage{Ver: Version, Type: TypePath, Seq: seq, Found: found}
	if sys != nil {
		msg.Expanded = sys.Expanded()
	}
	if !found {
		if sys != nil {
			msg.Reason = sys.LastReason()
		}
		return msg
	}
	msg.Anchor = &Vec3{X: anchor.X, Y: anchor.Y, Z: anchor.Z}
	path := sys.Path()
	msg.Waypoints = make([]Waypoint, 0, len(path))
	for _, wp := range path {
		msg.Waypoints = append(msg.Waypoints, Waypoint{
			X:     wp.X,
			Z:     wp.Z,
			Cost:  wp.Cost,
			Edge:  wp.Edge.String(),
			Cells: gridPoints(wp.Cells),
			Curve: gridPoints(wp.CurveAnchors),
		})
	}
	if len(path) > 0 {
		msg.Cost = path[len(path)-1].Cost
	}
	return msg
}

func NewErrorMessage(seq uint64, reason string) ErrorMessage {
	return ErrorMessage{Ver: Version, Type: TypeError, Seq: seq, Reason: reason}
}

func NewClearedMessage(seq uint64) ClearedMessage {
	return ClearedMessage{Ver: Version, Type: TypeCleared, Seq: seq}
}

func gridPoints(points []navgrid.Point) []GridPoint {
	if len(points) == 0 {
		return nil
	}
	out := make([]GridPoint, len(points))
	for i, p := range points {
		out[i] = GridPoint{X: p.X, Z: p.Z}
	}
	return out
}

func (v Vec2) World() navsystem.Vec2 {
	return navsystem.Vec2{X: v.X, Z: v.Z}
}
