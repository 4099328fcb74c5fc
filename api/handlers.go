package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/lookbusy1344/arm-lifter/arm32"
	"github.com/lookbusy1344/arm-lifter/cfgviz"
	"github.com/lookbusy1344/arm-lifter/config"
	"github.com/lookbusy1344/arm-lifter/ir"
)

// handleCreateSession handles POST /api/v1/session: allocate a session and,
// if the body carries an instruction batch, store it (SetBatch doesn't
// translate anything by itself; a caller still has to POST .../lift).
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.sessions.CreateSession()
	if err != nil {
		if err == ErrTooManySessions {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create session: %v", err))
		return
	}

	if len(req.Instructions) > 0 {
		insts, err := ToInstructionInfos(req.Instructions)
		if err != nil {
			_ = s.sessions.DestroySession(session.ID)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		session.Job.SetBatch(insts, req.Edges, req.Root)
	}

	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
		Count:     session.Job.InstructionCount(),
	})
}

// handleListSessions handles GET /api/v1/session.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.sessions.ListSessions()
	resp := SessionListResponse{Sessions: make([]SessionSummary, len(sessions))}
	for i, sess := range sessions {
		resp.Sessions[i] = SessionSummary{
			SessionID:        sess.ID,
			CreatedAt:        sess.CreatedAt,
			InstructionCount: sess.Job.InstructionCount(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetSessionStatus handles GET /api/v1/session/{id}.
func (s *Server) handleGetSessionStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, SessionSummary{
		SessionID:        session.ID,
		CreatedAt:        session.CreatedAt,
		InstructionCount: session.Job.InstructionCount(),
	})
}

// handleDestroySession handles DELETE /api/v1/session/{id}.
func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "session destroyed"})
}

// handleSetBatch handles POST /api/v1/session/{id}/batch: replace the
// session's instruction batch, edges, and root without lifting it yet.
func (s *Server) handleSetBatch(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req BatchRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	insts, err := ToInstructionInfos(req.Instructions)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session.Job.SetBatch(insts, req.Edges, req.Root)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "batch stored"})
}

// handleLift handles POST /api/v1/session/{id}/lift: translate every
// instruction in the session's batch, lay out the resulting CFG, and
// broadcast the layout to anyone subscribed over WebSocket.
func (s *Server) handleLift(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req LiftRequest
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	modeName := req.Mode
	if modeName == "" {
		modeName = s.cfg.Lift.DefaultMode
	}
	mode := ir.ModeARM
	if modeName == "Thumb" {
		mode = ir.ModeThumb
	} else if modeName != "" && modeName != "ARM" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid mode %q", modeName))
		return
	}

	session.Job.SetStrict(s.cfg.Lift.StrictUnpredictable)

	// Stream per-instruction translation summaries to any "log" subscriber
	// while the batch lifts.
	diag := NewEventWriter(s.broadcaster, sessionID, "diagnostic")
	session.Job.AttachTrace(arm32.NewLiftTrace(diag))
	defer session.Job.AttachTrace(nil)

	layout, err := session.Job.Lift(mode, s.layoutOpts())
	diag.Flush()
	if err != nil {
		debugLog("lift session %s failed: %v", sessionID, err)
		s.broadcaster.BroadcastLiftError(sessionID, err.Error(), nil)
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("lift failed: %v", err))
		return
	}
	debugLog("lift session %s: %d instructions, %d nodes", sessionID, session.Job.InstructionCount(), len(layout.Nodes))

	s.broadcaster.BroadcastLayout(sessionID, map[string]interface{}{"layout": layout})

	writeJSON(w, http.StatusOK, LiftResponse{
		Layout:           *layout,
		InstructionCount: session.Job.InstructionCount(),
	})
}

// handleGetLayout handles GET /api/v1/session/{id}/layout: the last layout
// computed by a prior lift, or 404 if lift hasn't run yet.
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	layout := session.Job.Layout()
	if layout == nil {
		writeError(w, http.StatusNotFound, "no layout computed yet; POST .../lift first")
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

// handleGetIR handles GET /api/v1/session/{id}/ir/{address}: the statement
// sequence emitted for one address in the last lift.
func (s *Server) handleGetIR(w http.ResponseWriter, r *http.Request, sessionID string, addressText string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	address, err := strconv.ParseUint(addressText, 0, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}

	stmts, ok := session.Job.IR(address)
	if !ok {
		writeError(w, http.StatusNotFound, "no IR for that address; POST .../lift first")
		return
	}
	writeJSON(w, http.StatusOK, wireIR(address, stmts))
}

// handleGetConfig handles GET /api/v1/config.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg)
}

// handleUpdateConfig handles PUT /api/v1/config: replace the in-memory
// lift/cfg/api policy and persist it.
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var updated config.Config
	if err := readJSON(r, &updated); err != nil {
		writeError(w, http.StatusBadRequest, "invalid config body")
		return
	}
	*s.cfg = updated
	if err := s.cfg.Save(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save config: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, s.cfg)
}

// ToInstructionInfos converts a batch's wire instructions, failing on the
// first invalid one and naming its index.
func ToInstructionInfos(wire []WireInstruction) ([]arm32.InstructionInfo, error) {
	insts := make([]arm32.InstructionInfo, len(wire))
	for i := range wire {
		inst, err := wire[i].ToInstructionInfo()
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		insts[i] = inst
	}
	return insts, nil
}

// layoutOpts builds cfgviz.LayoutOptions from the server's loaded config,
// taking rank/node spacing from cfgviz's own defaults since config.Config's
// [cfg] section only covers per-glyph metrics, not graph spacing.
func (s *Server) layoutOpts() cfgviz.LayoutOptions {
	opts := cfgviz.DefaultLayoutOptions()
	opts.CharWidth = s.cfg.CFG.CharWidth
	opts.LineHeight = s.cfg.CFG.LineHeight
	opts.Padding = s.cfg.CFG.Padding
	return opts
}
