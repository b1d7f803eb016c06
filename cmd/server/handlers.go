package main

import (
    "context"
    "crypto/subtle"
    "encoding/json"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/gorilla/mux"
    "github.com/gorilla/schema"
    "github.com/sirupsen/logrus"

    "quoteapi/internal/quote"
)

const nowJSTLayout = "2006-01-02 15:04:05"

var jst = time.FixedZone("JST", 9*60*60)

var queryDecoder = func() *schema.Decoder {
    d := schema.NewDecoder()
    d.IgnoreUnknownKeys(true)
    return d
}()

type quotesResponse struct {
    Quotes []quote.Result `json:"quotes"`
}

type priceResponse struct {
    Symbol string   `json:"symbol"`
    Price  *float64 `json:"price"`
}

type healthResponse struct {
    OK     bool   `json:"ok"`
    NowJST string `json:"now_jst"`
}

type errorResponse struct {
    Error string `json:"error"`
}

type batchParams struct {
    Symbols []string `schema:"symbols"`
}

type quoteParams struct {
    Symbol string `schema:"symbol"`
}

type server struct {
    svc        *quote.Service
    apiKey     string
    maxSymbols int
    timeout    time.Duration
    now        func() time.Time
    log        logrus.FieldLogger
}

func (s *server) routes() http.Handler {
    r := mux.NewRouter()
    r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
        writeError(w, http.StatusNotFound, "not found")
    })
    r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
        writeError(w, http.StatusMethodNotAllowed, "method not allowed")
    })

    r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
    r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
    r.Handle("/batch_quotes", s.requireAPIKey(http.HandlerFunc(s.handleBatchQuotes))).Methods(http.MethodGet)
    r.Handle("/quote", s.requireAPIKey(http.HandlerFunc(s.handleQuote))).Methods(http.MethodGet)

    return withRequestID(withAccessLog(s.log, withJSONHeaders(withGzip(recoverPanic(s.log, r)))))
}

// requireAPIKey rejects the request before any upstream work when x-api-key
// does not match the configured secret.
func (s *server) requireAPIKey(next http.Handler) http.Handler {
    want := []byte(s.apiKey)
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        got := []byte(r.Header.Get("x-api-key"))
        if subtle.ConstantTimeCompare(got, want) != 1 {
            writeError(w, http.StatusUnauthorized, quote.ErrUnauthorized.Error())
            return
        }
        next.ServeHTTP(w, r)
    })
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
    writeJSON(w, http.StatusOK, healthResponse{OK: true, NowJST: s.now().In(jst).Format(nowJSTLayout)})
}

func (s *server) handleBatchQuotes(w http.ResponseWriter, r *http.Request) {
    var p batchParams
    if err := queryDecoder.Decode(&p, r.URL.Query()); err != nil {
        writeError(w, http.StatusBadRequest, "invalid query: "+err.Error())
        return
    }
    symbols := splitSymbols(p.Symbols)
    if len(symbols) == 0 {
        writeError(w, http.StatusBadRequest, "missing symbols query param")
        return
    }
    if len(symbols) > s.maxSymbols {
        writeError(w, http.StatusBadRequest, "too many symbols")
        return
    }

    ctx, cancel := s.requestContext(r)
    defer cancel()
    writeJSON(w, http.StatusOK, quotesResponse{Quotes: s.svc.Batch(ctx, symbols)})
}

func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
    var p quoteParams
    if err := queryDecoder.Decode(&p, r.URL.Query()); err != nil {
        writeError(w, http.StatusBadRequest, "invalid query: "+err.Error())
        return
    }
    symbol := strings.ToUpper(strings.TrimSpace(p.Symbol))
    if symbol == "" {
        writeError(w, http.StatusBadRequest, "missing symbol query param")
        return
    }

    ctx, cancel := s.requestContext(r)
    defer cancel()
    q, err := s.svc.Latest(ctx, symbol)
    var up *quote.UpstreamError
    switch {
    case errors.Is(err, quote.ErrNoData):
        writeError(w, http.StatusNotFound, quote.ErrNoData.Error())
        return
    case errors.As(err, &up):
        s.log.WithError(err).WithField("symbol", symbol).Warn("upstream fault")
        writeError(w, http.StatusBadGateway, err.Error())
        return
    case err != nil:
        writeError(w, http.StatusInternalServerError, quote.ErrInternal.Error())
        return
    }
    if q.Close == nil {
        writeError(w, http.StatusNotFound, quote.ErrNoData.Error())
        return
    }
    writeJSON(w, http.StatusOK, priceResponse{Symbol: symbol, Price: q.Close})
}

func (s *server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
    if s.timeout <= 0 {
        return context.WithCancel(r.Context())
    }
    return context.WithTimeout(r.Context(), s.timeout)
}

// splitSymbols flattens repeated and comma-separated values, dropping blanks.
func splitSymbols(values []string) []string {
    out := make([]string, 0, len(values))
    for _, v := range values {
        for _, part := range strings.Split(v, ",") {
            part = strings.TrimSpace(part)
            if part != "" { out = append(out, part) }
        }
    }
    return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.WriteHeader(status)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
    writeJSON(w, status, errorResponse{Error: msg})
}
