package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/remigerme/the-crew-solver/catalog"
	"github.com/remigerme/the-crew-solver/protocol"
	"github.com/remigerme/the-crew-solver/solver"
	"github.com/remigerme/the-crew-solver/store"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Options tunes the searches run by the server
type Options struct {
	Workers       int
	ProgressEvery int
	JobTimeout    time.Duration
}

type NewJobRes struct {
	JobID  string             `json:"job_id"`
	Status protocol.JobStatus `json:"status"`
}

// SolveServer runs solve jobs submitted over HTTP
type SolveServer struct {
	store     store.JobStore
	catalog   *catalog.Catalog
	logger    *logrus.Logger
	opts      Options
	logWriter *io.PipeWriter

	jobs   sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	http.Server
}

func unknownJobIDMsg(unknownID string) string {
	return fmt.Sprintf("unknown job ID '%s'", unknownID)
}

// NewServer creates a new SolveServer
func NewServer(logger *logrus.Logger, st store.JobStore, cat *catalog.Catalog, opts Options) *SolveServer {
	s := &SolveServer{
		store:     st,
		catalog:   cat,
		logger:    logger,
		opts:      opts,
		logWriter: logger.WriterLevel(logrus.InfoLevel),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	router := http.NewServeMux()
	router.Handle("/health", http.HandlerFunc(s.HandleHealth))
	router.Handle("/catalog", http.HandlerFunc(s.HandleCatalog))
	router.Handle("/solve", http.HandlerFunc(s.HandleNewJob))
	router.Handle("/solve/", http.HandlerFunc(s.HandleFindJob))
	router.Handle("/ws", http.HandlerFunc(s.HandleWS))

	var h http.Handler = router
	h = handlers.LoggingHandler(s.logWriter, h)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(logger))(h)
	s.Handler = h

	return s
}

// ServeHTTP serves http
func (s *SolveServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler.ServeHTTP(w, r)
}

// Shutdown stops accepting requests, cancels running jobs and waits for them to record their outcome.
func (s *SolveServer) Shutdown(ctx context.Context) error {
	err := s.Server.Shutdown(ctx)
	s.cancel()
	s.jobs.Wait()
	s.logWriter.Close()
	return err
}

func (s *SolveServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *SolveServer) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, s.catalog.Entries())
}

// HandleNewJob validates a deal and starts searching it in the background
func (s *SolveServer) HandleNewJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var data protocol.SolveRequest
	err := json.NewDecoder(r.Body).Decode(&data)
	defer r.Body.Close()
	if err != nil {
		s.writeParseError(err, w)
		return
	}

	if data.Mode == "" {
		data.Mode = protocol.ModeSolve
	}
	if !data.Mode.Valid() {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("unknown mode '%s'", data.Mode))
		return
	}

	deal, err := data.Deal.State()
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	job := s.store.AddJob(data.Mode, deal)
	s.jobs.Add(1)
	go s.run(job)

	s.writeJSON(w, http.StatusCreated, NewJobRes{JobID: job.ID, Status: job.Status})
}

func (s *SolveServer) HandleFindJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/solve/")
	if jobID == "" {
		writeText(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job, err := s.store.FindJob(jobID)
	if err != nil {
		writeText(w, http.StatusNotFound, unknownJobIDMsg(jobID))
		return
	}

	s.writeJSON(w, http.StatusOK, job.Response())
}

// HandleWS streams the progress of a job until it finishes, then sends its final state.
func (s *SolveServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	vals, ok := query["job_id"]
	if !ok || len(vals) != 1 {
		writeText(w, http.StatusBadRequest, "missing job ID")
		return
	}
	jobID := vals[0]

	updates, release, err := s.store.Subscribe(jobID)
	if err != nil {
		writeText(w, http.StatusNotFound, unknownJobIDMsg(jobID))
		return
	}
	defer release()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("could not upgrade to websocket")
		return
	}
	defer conn.Close()

	log := s.logger.WithField("job_id", jobID)
	for stats := range updates {
		msg := protocol.ProgressMessage{
			JobID:   jobID,
			Command: protocol.Progress,
			Status:  protocol.JobRunning,
			Stats:   stats,
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.WithError(err).Debug("progress client went away")
			return
		}
	}

	job, err := s.store.FindJob(jobID)
	if err != nil {
		log.WithError(err).Error("job vanished")
		return
	}
	final := protocol.ProgressMessage{
		JobID:   jobID,
		Command: protocol.Finished,
		Status:  job.Status,
		Stats:   job.Stats,
	}
	if job.Status == protocol.JobFailed {
		final.Command = protocol.Error
		final.Error = job.Err
	}
	if err := conn.WriteJSON(final); err != nil {
		log.WithError(err).Debug("progress client went away")
		return
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *SolveServer) run(job store.Job) {
	defer s.jobs.Done()

	log := s.logger.WithFields(logrus.Fields{"job_id": job.ID, "mode": job.Mode})
	if err := s.store.StartJob(job.ID); err != nil {
		log.WithError(err).Error("could not start job")
		return
	}

	ctx := s.ctx
	if s.opts.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.JobTimeout)
		defer cancel()
	}

	sv := solver.New(log, solver.Options{
		Workers:       s.opts.Workers,
		ProgressEvery: s.opts.ProgressEvery,
		OnProgress: func(st solver.Stats) {
			if err := s.store.ReportProgress(job.ID, wireStats(st)); err != nil {
				log.WithError(err).Debug("progress dropped")
			}
		},
	})

	var out store.Outcome
	switch job.Mode {
	case protocol.ModeStats:
		start := time.Now()
		stats, err := sv.Stats(ctx, job.Deal)
		out = store.Outcome{Stats: wireStats(stats), Elapsed: time.Since(start), Err: err}
	default:
		res, err := sv.Solve(ctx, job.Deal)
		out = store.Outcome{Stats: wireStats(res.Stats), Solution: res.Solution, Elapsed: res.Elapsed, Err: err}
	}
	if errors.Is(out.Err, context.DeadlineExceeded) {
		out.Err = fmt.Errorf("search timed out after %s", s.opts.JobTimeout)
	}

	if err := s.store.FinishJob(job.ID, out); err != nil {
		log.WithError(err).Error("could not record job outcome")
		return
	}
	if out.Err != nil {
		log.WithError(out.Err).Warn("job failed")
		return
	}
	log.WithField("nodes", out.Stats.Nodes).Info("job finished")
}

func wireStats(st solver.Stats) protocol.Stats {
	return protocol.Stats{Done: st.Done, Failed: st.Failed, Unknown: st.Unknown, Nodes: st.Nodes}
}

func (s *SolveServer) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		s.logger.WithError(err).Error("could not encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Add("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}

func (s *SolveServer) writeParseError(err error, w http.ResponseWriter) {
	if err == io.EOF {
		writeText(w, http.StatusBadRequest, "Missing body")
		return
	}
	s.logger.WithError(err).Debug("could not parse request")
	writeText(w, http.StatusBadRequest, fmt.Sprintf("could not parse request: %v", err))
}
