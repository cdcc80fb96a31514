package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"lintang/navigatorx/pkg/datastructure"
	"lintang/navigatorx/pkg/server"
	"lintang/navigatorx/pkg/server/service"
	"lintang/navigatorx/pkg/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type NavigationService interface {
	ShortestPath(ctx context.Context, srcLat, srcLon float64,
		dstLat float64, dstLon float64) (service.Route, error)
	UnitsPerDegree() float64
}

type NavigationHandler struct {
	svc          NavigationService
	promeMetrics *Metrics
	validate     *validator.Validate
	trans        ut.Translator
}

func NavigatorRouter(r chi.Router, svc NavigationService, m *Metrics) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &NavigationHandler{svc: svc, promeMetrics: m, validate: validate, trans: trans}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/shortest-path", handler.shortestPath)
			r.Get("/hello", handler.Hello)
		})
	})
}

// ShortestPathRequest coordinates are in graph units, the same ones the line protocol carries.
//
//	@Description	request body of the shortest path query between 2 points
type ShortestPathRequest struct {
	SrcLat *float64 `json:"src_lat" validate:"required"`
	SrcLon *float64 `json:"src_lon" validate:"required"`
	DstLat *float64 `json:"dst_lat" validate:"required"`
	DstLon *float64 `json:"dst_lon" validate:"required"`
}

func (s *ShortestPathRequest) Bind(r *http.Request) error {
	return nil
}

// ShortestPathResponse model info
//
//	@Description	response body of the shortest path query between 2 points
type ShortestPathResponse struct {
	Path       string                     `json:"path"`
	Cost       float64                    `json:"cost"`
	DistanceKm float64                    `json:"distance_km"`
	Found      bool                       `json:"found"`
	Vertices   []datastructure.VertexID   `json:"vertices"`
	Route      []datastructure.Coordinate `json:"route,omitempty"`
}

func NewShortestPathResponse(route service.Route, unitsPerDegree float64) *ShortestPathResponse {
	return &ShortestPathResponse{
		Path:       datastructure.RenderPath(route.Coordinates, unitsPerDegree),
		Cost:       util.RoundFloat(route.Cost, 2),
		DistanceKm: util.RoundFloat(route.DistanceKm, 3),
		Found:      route.Found,
		Vertices:   route.Vertices,
		Route:      route.Coordinates,
	}
}

// shortestPath
//
//	@Summary		shortest path between 2 points of the road network.
//	@Description	least cost path between the road network vertices closest to the source and the destination. Coordinates are in graph units.
//	@Tags			navigations
//	@Param			body	body	ShortestPathRequest	true	"source and destination coordinates"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/shortest-path [post]
//	@Success		200	{object}	ShortestPathResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) shortestPath(w http.ResponseWriter, r *http.Request) {
	data := &ShortestPathRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if err := h.validate.Struct(*data); err != nil {
		vv := translateError(err, h.trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	route, err := h.svc.ShortestPath(r.Context(), *data.SrcLat, *data.SrcLon, *data.DstLat, *data.DstLon)
	h.promeMetrics.SPQueryCount.WithLabelValues(strconv.FormatBool(err == nil)).Inc()
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewShortestPathResponse(route, h.svc.UnitsPerDegree()))
}

// Hello
//
//	@Summary		liveness check
//	@Description	liveness check of the navigation api
//	@Tags			navigations
//	@Produce		application/json
//	@Router			/navigations/hello [get]
//	@Success		200	{string}	string
func (h *NavigationHandler) Hello(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, "Hello, World!")
}

type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	code := getStatusCode(err)
	switch code {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusConflict:
		statusText = "Resource conflict."
	case http.StatusBadRequest:
		statusText = "Bad request."
	default:
		statusText = "Error."
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: code,
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch server.CodeOf(err) {
	case server.ErrNotFound:
		return http.StatusNotFound
	case server.ErrConflict:
		return http.StatusConflict
	case server.ErrBadParamInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}
