package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/sessionware/internal/adapters/http/dto"
	"github.com/jsamuelsen/sessionware/internal/session"
)

// commitWriter intercepts the response so the session commit can run
// before the first byte reaches the client. Headers are still mutable at
// that point, which is the only place the committed values can go.
//
// Once a commit fails the original response is unsendable: flushing it
// would tell the client its state was saved. The writer replaces it with
// an error envelope and swallows everything the handler writes after.
type commitWriter struct {
	gin.ResponseWriter

	gctx      *gin.Context
	finalizer *session.Finalizer
	cell      *session.Lazy
	logger    *slog.Logger

	finalized bool
	failed    bool
}

// WriteHeader only records the status on gin's writer; nothing reaches the
// wire until the first Write/WriteHeaderNow/Flush. The commit must not run
// here: a handler may set its status and mutate the session afterwards, and
// those mutations still belong in the commit.
func (w *commitWriter) WriteHeader(code int) {
	if w.failed {
		return
	}

	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) WriteHeaderNow() {
	w.finalize()
	if w.failed {
		return
	}

	w.ResponseWriter.WriteHeaderNow()
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.finalize()
	if w.failed {
		// Report success so handlers keep behaving as if they owned the
		// response; the envelope already went out.
		return len(b), nil
	}

	return w.ResponseWriter.Write(b)
}

func (w *commitWriter) WriteString(s string) (int, error) {
	w.finalize()
	if w.failed {
		return len(s), nil
	}

	return w.ResponseWriter.WriteString(s)
}

func (w *commitWriter) Flush() {
	w.finalize()
	if w.failed {
		return
	}

	w.ResponseWriter.Flush()
}

// finalizePending commits a still-unflushed response. Handlers that only
// set a status, or none at all, never touch the writer; gin flushes for
// them after the chain returns, so the commit has to happen here.
func (w *commitWriter) finalizePending() {
	w.finalize()
}

// finalize runs the session commit exactly once, immediately before the
// response is sealed. An aborted request gets no commit: the handler
// never produced a response to finalize, and the collaborator call would
// only fail against a dead context.
func (w *commitWriter) finalize() {
	if w.finalized {
		return
	}
	w.finalized = true

	ctx := w.gctx.Request.Context()
	if ctx.Err() != nil {
		return
	}

	committed, err := w.finalizer.Finalize(ctx, w.cell, w.Header())
	if err != nil {
		w.failed = true
		w.writeCommitFailure(ctx, err)

		return
	}

	if committed {
		w.logger.Log(ctx, slog.LevelDebug, "session committed")
	}
}

// writeCommitFailure discards the handler's response and sends the commit
// error envelope in its place, writing through the wrapped writer so the
// intercepts above stay out of the way.
func (w *commitWriter) writeCommitFailure(ctx context.Context, err error) {
	w.logger.ErrorContext(ctx, "session commit failed",
		slog.String("error", err.Error()),
	)

	header := w.ResponseWriter.Header()
	for key := range header {
		delete(header, key)
	}
	header.Set("Content-Type", "application/json; charset=utf-8")

	resp := dto.NewErrorResponse(dto.ErrorCodeSessionCommitFailed, "Session state could not be saved")
	if requestID := GetRequestID(w.gctx); requestID != "" {
		resp.TraceID = requestID
	}

	body, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		w.ResponseWriter.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.ResponseWriter.WriteHeader(http.StatusInternalServerError)

	if _, writeErr := w.ResponseWriter.Write(body); writeErr != nil {
		w.logger.ErrorContext(ctx, "writing commit failure response",
			slog.String("error", writeErr.Error()),
		)
	}
}
