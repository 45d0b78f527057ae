package httpapi

import (
	"encoding/json"
	"fmt"
	"image/color"
	"log/slog"
	"net/http"

	"github.com/kelindar/uopath/pathfind"
	"github.com/kelindar/uopath/world"
)

// Server is the HTTP/JSON facade over a world.Model, grounded on
// original_source's http/server.rs ApiHandler.
type Server struct {
	model *world.Model
	log   *slog.Logger
	pool  *workerPool
	mux   *http.ServeMux
}

// NewServer wires handlers onto a fresh ServeMux. poolSize bounds the
// number of concurrent TracePath/RenderArea requests.
func NewServer(model *world.Model, log *slog.Logger, poolSize int) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{model: model, log: log, pool: newWorkerPool(poolSize), mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/", s.handleRequest)
	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Error("request parsing failed", "err", err)
		writeJSON(w, errorResponse(fmt.Errorf("failed to parse request body: %w", err)))
		return
	}

	switch req.Kind {
	case "world_save":
		writeJSON(w, s.handleWorldSave(req))
	case "world_load":
		writeJSON(w, s.handleWorldLoad(req))
	case "world_clear":
		writeJSON(w, s.handleWorldClear())
	case "items_add":
		writeJSON(w, s.handleItemsAdd(req))
	case "items_del":
		writeJSON(w, s.handleItemsDel(req))
	case "query":
		writeJSON(w, s.handleQuery(req))
	case "trace_path":
		s.handleTracePathAsync(w, req)
	case "render_area":
		s.handleRenderAreaAsync(w, req)
	default:
		writeJSON(w, errorResponse(fmt.Errorf("unknown request kind %q", req.Kind)))
	}
}

func writeJSON(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleWorldSave(req Request) Response {
	s.log.Info("world_save", "file", req.FileName)
	if err := s.model.Save(req.FileName); err != nil {
		return errorResponse(err)
	}
	return Response{Kind: "success"}
}

func (s *Server) handleWorldLoad(req Request) Response {
	s.log.Info("world_load", "file", req.FileName)
	if err := s.model.Load(req.FileName); err != nil {
		return errorResponse(err)
	}
	return Response{Kind: "success"}
}

func (s *Server) handleWorldClear() Response {
	s.log.Info("world_clear")
	s.model.ClearState()
	return Response{Kind: "success"}
}

func (s *Server) handleItemsAdd(req Request) Response {
	for _, it := range req.Items {
		if err := s.model.InsertItem(it.toModel()); err != nil {
			s.log.Error("items_add failed", "serial", it.Serial, "err", err)
			return errorResponse(err)
		}
	}
	return Response{Kind: "success"}
}

func (s *Server) handleItemsDel(req Request) Response {
	for _, serial := range req.Serials {
		s.model.DeleteItem(serial)
	}
	return Response{Kind: "success"}
}

func (s *Server) handleQuery(req Request) Response {
	worldID, left, top, right, bottom, err := areaFields(req)
	if err != nil {
		return errorResponse(err)
	}

	items, err := s.model.Query(worldID, left, top, right, bottom)
	if err != nil {
		return errorResponse(err)
	}

	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = itemFromModel(it)
	}
	return Response{Kind: "query_reply", Items: out}
}

func areaFields(req Request) (worldID uint8, left, top, right, bottom int, err error) {
	if req.World == nil {
		return 0, 0, 0, 0, 0, fmt.Errorf("missing world")
	}
	worldID = *req.World
	if req.Left != nil {
		left = *req.Left
	}
	if req.Top != nil {
		top = *req.Top
	}
	if req.Right != nil {
		right = *req.Right
	}
	if req.Bottom != nil {
		bottom = *req.Bottom
	}
	return worldID, left, top, right, bottom, nil
}

func (s *Server) handleTracePathAsync(w http.ResponseWriter, req Request) {
	result := make(chan Response, 1)
	s.pool.run(func() { result <- s.handleTracePath(req) })
	writeJSON(w, <-result)
}

func (s *Server) handleTracePath(req Request) Response {
	if req.World == nil || req.SX == nil || req.SY == nil || req.SZ == nil ||
		req.DX == nil || req.DY == nil || req.DZ == nil {
		return errorResponse(fmt.Errorf("trace_path: missing required field"))
	}

	dw := s.model.World(*req.World)
	if dw == nil {
		return errorResponse(fmt.Errorf("trace_path: world %d not present", *req.World))
	}

	dims := dw.Dimensions()
	opts := req.Options.resolve(dims.WidthTiles, dims.HeightTiles)

	oracle := pathfind.NewOracle(dw, opts.Walkable, opts.Ignore)
	points, err := pathfind.TraceAStar(oracle, *req.SX, *req.SY, int8(*req.SZ), 0, *req.DX, *req.DY, int8(*req.DZ), opts)
	if err != nil {
		s.log.Error("trace_path failed", "err", err)
		return errorResponse(err)
	}

	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = pointFromPathfind(p)
	}
	return Response{Kind: "trace_reply", Points: out}
}

func (s *Server) handleRenderAreaAsync(w http.ResponseWriter, req Request) {
	result := make(chan struct {
		png []byte
		err error
	}, 1)
	s.pool.run(func() {
		png, err := s.handleRenderArea(req)
		result <- struct {
			png []byte
			err error
		}{png, err}
	})
	r := <-result
	if r.err != nil {
		writeJSON(w, errorResponse(r.err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(r.png)
}

func (s *Server) handleRenderArea(req Request) ([]byte, error) {
	worldID, left, top, right, bottom, err := areaFields(req)
	if err != nil {
		return nil, err
	}
	if right == left && bottom == top {
		if dw := s.model.World(worldID); dw != nil {
			dims := dw.Dimensions()
			right, bottom = dims.WidthTiles, dims.HeightTiles
		}
	}

	var drawColor *color.RGBA
	if req.Color != nil {
		c := *req.Color
		drawColor = &color.RGBA{R: uint8(c & 0xFF), G: uint8((c >> 8) & 0xFF), B: uint8((c >> 16) & 0xFF), A: 255}
	}

	return renderArea(s.model, worldID, left, top, right, bottom, drawColor, req.Points)
}
