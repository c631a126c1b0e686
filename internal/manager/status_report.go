package manager

import (
	"time"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/aliyansajid/aiforge/internal/common/fsutil"
	"github.com/aliyansajid/aiforge/pkg/types"
)

const mb = 1024 * 1024

// Status assembles the operational snapshot served by GET /status.
func (s *Session) Status() types.StatusResponse {
	s.mu.RLock()
	st := s.st
	lastErr := s.lastErr
	loads := s.loadsTotal
	started := s.startTime
	s.mu.RUnlock()

	resp := types.StatusResponse{
		Loaded:         st != nil,
		LoadsTotal:     loads,
		UptimeSeconds:  int64(time.Since(started).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
	if st != nil {
		resp.Framework = string(st.framework)
		resp.ModelID = st.modelID
		resp.Strategy = st.strategy
	}
	if lastErr != nil {
		resp.LastError = lastErr.Error()
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.HostMemUsedMB = vm.Used / mb
		resp.HostMemTotalMB = vm.Total / mb
	}
	return resp
}

// Info returns model metadata for GET /info. The second return is false
// while no model is loaded.
func (s *Session) Info() (types.InfoResponse, bool) {
	st := s.snapshot()
	if st == nil {
		return types.InfoResponse{}, false
	}
	resp := types.InfoResponse{
		ModelID:   st.modelID,
		Framework: string(st.framework),
		Status:    "ready",
	}
	if st.man != nil {
		resp.Name = st.man.Name
		resp.Version = st.man.Version
		resp.Description = st.man.Description
		resp.Author = st.man.Author
		resp.Tags = st.man.Tags
	}
	return resp, true
}

// Debug returns the failure-inspection report for GET /debug. The file
// listing is taken live so the report reflects the directory as it is now,
// not as it was when the load ran.
func (s *Session) Debug() types.DebugResponse {
	s.mu.RLock()
	st := s.st
	lastErr := s.lastErr
	trace := s.lastTrace
	dir := s.lastDir
	s.mu.RUnlock()

	resp := types.DebugResponse{
		Loaded:   st != nil,
		ModelDir: dir,
		Trace:    trace,
	}
	if lastErr != nil {
		resp.LastError = lastErr.Error()
	}
	if dir != "" {
		resp.Files = fsutil.ListFiles(dir)
	}
	return resp
}
