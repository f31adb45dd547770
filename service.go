// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"namegen/common"
	"namegen/config"
	"namegen/filters"
	"namegen/language"
	"namegen/morpho"
	"namegen/name"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// langReloadDebounce protects against event storms when language data
// files are rewritten (editors typically produce several events per
// save).
const langReloadDebounce = 2 * time.Second

type inflectionRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Kind     string `json:"kind"`
}

type batchInflectionRequest struct {
	Names []inflectionRequest `json:"names"`
}

type inflectionResponse struct {
	Name     string   `json:"name"`
	Language string   `json:"language"`
	Kind     string   `json:"kind"`
	Matched  bool     `json:"matched"`
	TimedOut bool     `json:"timedOut"`
	Records  []string `json:"records"`
}

type batchInflectionResponse struct {
	JobID   string               `json:"jobId"`
	Results []inflectionResponse `json:"results"`
}

// inflectionActions handles the HTTP API. The language data is held
// behind an atomic pointer so the watchdog can swap it without
// interrupting requests in flight.
type inflectionActions struct {
	conf     *config.Configuration
	lang     atomic.Pointer[language.Language]
	analyzer morpho.Analyzer
	filter   *filters.NamesFilter
}

func (a *inflectionActions) pipeline() *Pipeline {
	lang := a.lang.Load()
	return NewPipeline(
		lang,
		a.analyzer,
		a.filter,
		createGenerators(a.conf),
		&a.conf.Matching,
	)
}

func (a *inflectionActions) inflectOne(ctx context.Context, req inflectionRequest) (inflectionResponse, error) {
	if req.Name == "" {
		return inflectionResponse{}, fmt.Errorf("missing name")
	}
	if req.Kind == "" {
		return inflectionResponse{}, fmt.Errorf("missing kind")
	}
	kind, err := common.ParseNameKind(req.Kind)
	if err != nil {
		return inflectionResponse{}, err
	}
	rec := name.Name{Text: req.Name, Language: req.Language, Kind: kind}
	res, err := a.pipeline().Process(ctx, rec)
	if err != nil {
		return inflectionResponse{}, err
	}
	ans := inflectionResponse{
		Name:     req.Name,
		Language: req.Language,
		Kind:     kind.String(),
		Matched:  res.Matched,
		TimedOut: res.TimedOut,
		Records:  res.Lines,
	}
	if ans.Records == nil {
		ans.Records = []string{}
	}
	return ans, nil
}

func (a *inflectionActions) HandleInflect(ctx *gin.Context) {
	req := inflectionRequest{
		Name:     ctx.Query("name"),
		Language: ctx.Query("lang"),
		Kind:     ctx.Query("kind"),
	}
	ans, err := a.inflectOne(ctx.Request.Context(), req)
	if err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer, uniresp.NewActionError(err.Error()), http.StatusBadRequest)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

func (a *inflectionActions) HandleInflectBatch(ctx *gin.Context) {
	var req batchInflectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		uniresp.WriteJSONErrorResponse(
			ctx.Writer, uniresp.NewActionError(err.Error()), http.StatusBadRequest)
		return
	}
	ans := batchInflectionResponse{
		JobID:   uuid.New().String(),
		Results: make([]inflectionResponse, 0, len(req.Names)),
	}
	for _, item := range req.Names {
		res, err := a.inflectOne(ctx.Request.Context(), item)
		if err != nil {
			uniresp.WriteJSONErrorResponse(
				ctx.Writer, uniresp.NewActionError(err.Error()), http.StatusBadRequest)
			return
		}
		ans.Results = append(ans.Results, res)
	}
	log.Debug().
		Str("jobId", ans.JobID).
		Int("names", len(req.Names)).
		Msg("processed batch inflection request")
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

func (a *inflectionActions) HandleVersion(ctx *gin.Context) {
	uniresp.WriteJSONResponse(ctx.Writer, versionInfo)
}

// reloadLanguage loads the language data anew and swaps it in. A
// failed load keeps the current data.
func (a *inflectionActions) reloadLanguage() {
	lang, err := language.Load(&a.conf.Language)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload language data, keeping the current one")
		return
	}
	a.lang.Store(lang)
	log.Info().Str("language", lang.Code).Msg("reloaded language data")
}

// watchLanguageData reloads the language data whenever a file in the
// language directory changes.
func (a *inflectionActions) watchLanguageData(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error().Err(err).Msg("failed to create language data watcher")
		return
	}
	defer watcher.Close()
	dirs := []string{
		a.conf.Language.Directory,
		filepath.Join(a.conf.Language.Directory, "grammars"),
	}
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			log.Error().Err(err).Str("dir", d).Msg("failed to watch language data directory")
			return
		}
	}
	log.Info().Strs("dirs", dirs).Msg("watching language data for changes")
	var pending *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}
			log.Debug().Str("file", evt.Name).Msg("language data change detected")
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(langReloadDebounce, a.reloadLanguage)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("language data watcher error")
		}
	}
}

func rateLimitMiddleware(limitPerSec float64, burst int) gin.HandlerFunc {
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limitPerSec), burst)
	return func(ctx *gin.Context) {
		if !limiter.Allow() {
			uniresp.WriteJSONErrorResponse(
				ctx.Writer,
				uniresp.NewActionError("request rate limit exceeded"),
				http.StatusTooManyRequests,
			)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// runService is the `server' action: it exposes the inflection
// pipeline as a JSON HTTP API.
func runService(conf *config.Configuration) {
	syscallChan := make(chan os.Signal, 1)
	signal.Notify(syscallChan, os.Interrupt)
	signal.Notify(syscallChan, syscall.SIGTERM)
	signal.Notify(syscallChan, syscall.SIGINT)
	exitEvent := make(chan os.Signal)

	lang, err := language.Load(&conf.Language)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load language data")
	}
	actions := &inflectionActions{
		conf:     conf,
		analyzer: createAnalyzer(conf),
		filter:   filters.NewNamesFilter(&conf.Filters),
	}
	actions.lang.Store(lang)

	watchCtx, stopWatching := context.WithCancel(context.Background())
	defer stopWatching()
	if conf.WatchGrammars {
		go actions.watchLanguageData(watchCtx)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.GinMiddleware())
	engine.Use(uniresp.AlwaysJSONContentType())
	if conf.ServerRateLimitPerSec > 0 {
		engine.Use(rateLimitMiddleware(conf.ServerRateLimitPerSec, conf.ServerRateLimitBurst))
	}
	engine.NoMethod(uniresp.NoMethodHandler)
	engine.NoRoute(uniresp.NotFoundHandler)

	engine.GET("/inflect", actions.HandleInflect)
	engine.POST("/inflect", actions.HandleInflectBatch)
	engine.GET("/version", actions.HandleVersion)

	go func() {
		for evt := range syscallChan {
			log.Warn().Str("signalName", evt.String()).Msg("received OS signal")
			if evt == syscall.SIGTERM || evt == syscall.SIGINT {
				exitEvent <- evt
			}
		}
		close(exitEvent)
	}()

	log.Info().Msgf("starting to listen at %s:%d", conf.ServerHost, conf.ServerPort)

	srv := &http.Server{
		Handler:      engine,
		Addr:         fmt.Sprintf("%s:%d", conf.ServerHost, conf.ServerPort),
		WriteTimeout: time.Duration(conf.ServerWriteTimeoutSecs) * time.Second,
		ReadTimeout:  time.Duration(conf.ServerReadTimeoutSecs) * time.Second,
	}

	go func() {
		err := srv.ListenAndServe()
		if err != nil {
			log.Error().Err(err).Msg("")
		}
		syscallChan <- syscall.SIGTERM
	}()

	<-exitEvent
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown request error")
	}
}
