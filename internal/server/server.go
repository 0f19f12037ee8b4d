package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/render"
	"github.com/tartampluch/life-in-weeks/internal/ui"
)

// Server serves the life calendar page, its JSON API and the downloads.
// Every request recomputes the calendar from its query; nothing is stored.
type Server struct {
	Bind string
	Port string
	// Lang is used when neither the query nor Accept-Language picks a language.
	Lang string

	calc *engine.Calculator
	tr   *ui.Translator
}

// NewServer creates a new instance of the server.
func NewServer(bind, port string, calc *engine.Calculator, tr *ui.Translator) *Server {
	if bind == "" {
		bind = config.DefaultBindAddr
	}
	if calc == nil {
		calc = engine.NewCalculator(nil)
	}
	if tr == nil {
		tr = ui.NewTranslator()
	}
	return &Server{Bind: bind, Port: port, Lang: config.DefaultLanguage, calc: calc, tr: tr}
}

// ValidatePort checks that port is a usable TCP port number.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(config.ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrPortNumber, err)
	}
	if n < config.MinPort || n > config.MaxPort {
		return fmt.Errorf("%s: %d", config.ErrPortRange, n)
	}
	return nil
}

// Handler builds the router. GET routes also answer HEAD; other methods on
// a known route get 405 with an Allow header.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	r.Use(middleware.Timeout(config.HandlerTimeout))

	r.MethodNotAllowed(methodNotAllowed)

	r.Get(config.RouteRoot, s.handlePage)
	r.Get(config.RouteGrid, s.handleGrid)
	r.Get(config.RouteCell, s.handleCell)
	r.Route(config.RouteExport, func(er chi.Router) {
		er.Get(config.RoutePNG, s.handlePNG)
		er.Get(config.RouteICS, s.handleICS)
	})
	r.Get(config.RouteHealthz, handleHealthz)

	return r
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := ValidatePort(s.Port); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(s.Bind, s.Port),
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyBind, s.Bind,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc := s.locale(r)

	form := ui.PageForm{
		Birthdate: q.Get(config.QueryBirthdate),
		Lifespan:  q.Get(config.QueryLifespan),
		PastColor: q.Get(config.QueryColor),
	}
	// A first visit gets a calendar for the default inputs.
	if !q.Has(config.QueryBirthdate) && !q.Has(config.QueryLifespan) {
		form.Birthdate = engine.DefaultBirthdate(s.calc.Clock.Now()).Format(config.DateFormatFullDash)
		form.Lifespan = strconv.Itoa(config.DefaultLifespanYears)
	}

	status := http.StatusOK
	lc, err := s.calculate(form)
	view := ui.NewPageView(lc, loc, form)
	if err != nil {
		if !errors.Is(err, engine.ErrInvalidInput) {
			internalError(w, r, err)
			return
		}
		logBadRequest(r, err)
		status = http.StatusBadRequest
		view.Error = ui.ErrorMessage(loc, err)
	}
	view.Mobile = isMobile(r.UserAgent())

	var buf bytes.Buffer
	if err := ui.RenderPage(&buf, view); err != nil {
		internalError(w, r, err)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeHTML)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	writeBody(w, buf.Bytes())
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	lc, ok := s.calendarOrError(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, lc)
}

// cellResponse is the click payload plus its localized tooltip.
type cellResponse struct {
	Cell    engine.CellInfo `json:"cell"`
	Tooltip ui.Tooltip      `json:"tooltip"`
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	lc, ok := s.calendarOrError(w, r)
	if !ok {
		return
	}

	loc := s.locale(r)
	key, err := cellKey(r)
	if err == nil {
		var info engine.CellInfo
		if info, err = lc.Cell(key); err == nil {
			writeJSON(w, r, http.StatusOK, cellResponse{Cell: info, Tooltip: ui.CellTooltip(loc, info)})
			return
		}
	}

	logBadRequest(r, err)
	writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: ui.ErrorMessage(loc, err)})
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	lc, ok := s.calendarOrError(w, r)
	if !ok {
		return
	}

	data, err := render.PNG(lc, render.PNGOptions{PastColor: lc.PastColor})
	if err != nil {
		internalError(w, r, err)
		return
	}
	serveDownload(w, r, data, config.MimePNG, render.ExportFilename(lc.LifespanYears, config.ExtPNG))
}

func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	lc, ok := s.calendarOrError(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	opts := ui.ICSOptions(s.locale(r), r.URL.Query().Get(config.QueryName))
	if err := render.WriteICS(&buf, lc, opts); err != nil {
		internalError(w, r, err)
		return
	}
	serveDownload(w, r, buf.Bytes(), config.MimeTextCalendar, render.ExportFilename(lc.LifespanYears, config.ExtICS))
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	writeBody(w, []byte(config.HTTPMsgOK))
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(config.HeaderAllow, config.AllowedMethods)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (s *Server) locale(r *http.Request) *ui.Locale {
	return s.tr.Locale(r.URL.Query().Get(config.QueryLang), r.Header.Get(config.HeaderAcceptLanguage), s.Lang)
}

// calculate validates the form values and generates a calendar.
func (s *Server) calculate(form ui.PageForm) (*engine.LifeCalendar, error) {
	in, err := engine.ParseInput(form.Birthdate, form.Lifespan, form.PastColor)
	if err != nil {
		return nil, err
	}
	if in.PastColor, err = render.HexColor(in.PastColor); err != nil {
		return nil, err
	}
	return s.calc.Calculate(in)
}

// calendarOrError answers 400 with a localized JSON error for invalid input.
func (s *Server) calendarOrError(w http.ResponseWriter, r *http.Request) (*engine.LifeCalendar, bool) {
	q := r.URL.Query()
	lc, err := s.calculate(ui.PageForm{
		Birthdate: q.Get(config.QueryBirthdate),
		Lifespan:  q.Get(config.QueryLifespan),
		PastColor: q.Get(config.QueryColor),
	})
	if err == nil {
		return lc, true
	}
	if !errors.Is(err, engine.ErrInvalidInput) {
		internalError(w, r, err)
		return nil, false
	}

	logBadRequest(r, err)
	writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: ui.ErrorMessage(s.locale(r), err)})
	return nil, false
}

func cellKey(r *http.Request) (engine.CellKey, error) {
	q := r.URL.Query()
	yearIndex, errY := strconv.Atoi(q.Get(config.QueryYearIndex))
	column, errC := strconv.Atoi(q.Get(config.QueryColumn))
	if err := errors.Join(errY, errC); err != nil {
		return engine.CellKey{}, fmt.Errorf("%w: %w: %w", engine.ErrInvalidInput, engine.ErrCellOutOfGrid, err)
	}
	return engine.CellKey{YearIndex: yearIndex, Column: column}, nil
}

func isMobile(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, hint := range config.MobileUserAgentHints {
		if strings.Contains(ua, hint) {
			return true
		}
	}
	return false
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	writeBody(w, data)
}

// serveDownload writes an attachment with a content-hash ETag and answers
// 304 when the client already holds the same bytes.
func serveDownload(w http.ResponseWriter, r *http.Request, data []byte, mime, filename string) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	w.Header().Set(config.HeaderContentType, mime)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, etag)
	w.Header().Set(config.HeaderContentDisposition, fmt.Sprintf(config.FormatAttachment, filename))

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if r.Method == http.MethodHead {
		return
	}

	slog.Debug(config.MsgExportDone,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyFile, filename,
		config.LogKeySizeBytes, len(data),
	)
	writeBody(w, data)
}

func writeBody(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error(config.HTTPMsgInternalErr,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyPath, r.URL.Path,
		config.LogKeyRequestID, middleware.GetReqID(r.Context()),
		config.LogKeyError, err,
	)
	http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
}

func logBadRequest(r *http.Request, err error) {
	slog.Debug(config.MsgBadRequest,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyPath, r.URL.Path,
		config.LogKeyRequestID, middleware.GetReqID(r.Context()),
		config.LogKeyError, err,
	)
}

// requestLogger logs every request once it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug(config.MsgRequest,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyMethod, r.Method,
			config.LogKeyPath, r.URL.Path,
			config.LogKeyStatus, ww.Status(),
			config.LogKeySizeBytes, ww.BytesWritten(),
			config.LogKeyRequestID, middleware.GetReqID(r.Context()),
			config.LogKeyDuration, time.Since(start).Milliseconds(),
		)
	})
}
