package preview

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"bulletin-bot/internal/domain"
	httpinfra "bulletin-bot/internal/infra/http"
	"bulletin-bot/internal/usecase/schedule"
)

const dateLayout = "2006-01-02"

// RotationLoader возвращает актуальный список еженедельной ротации.
type RotationLoader func() ([]string, error)

// Handler отдаёт только для чтения то, что будет отправлено в заданный день.
type Handler struct {
	resolver domain.PlanResolver
	rotation RotationLoader
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

// NewHandler создаёт обработчики предпросмотра. rotation может быть nil.
func NewHandler(resolver domain.PlanResolver, rotation RotationLoader, loc *time.Location, log zerolog.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{resolver: resolver, rotation: rotation, loc: loc, now: time.Now, log: log}
}

// Routes регистрирует маршруты в r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/schedule", h.schedule)
		r.Get("/weekly", h.weekly)
	})
}

type failureView struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type scheduleView struct {
	Date       string                    `json:"date"`
	Deliveries []domain.ResolvedDelivery `json:"deliveries"`
	Failures   []failureView             `json:"failures"`
}

type weeklyView struct {
	Date    string `json:"date"`
	Week    int    `json:"week"`
	Message string `json:"message"`
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	day, err := h.date(r)
	if err != nil {
		httpinfra.WriteError(w, http.StatusBadRequest, err)
		return
	}
	plan, err := h.resolver.Resolve(day)
	if err != nil {
		h.log.Error().Err(err).Str("request_id", httpinfra.RequestID(r)).Msg("предпросмотр расписания")
		httpinfra.WriteError(w, http.StatusInternalServerError, errors.New("хранилище сообщений недоступно"))
		return
	}
	view := scheduleView{
		Date:       day.Format(dateLayout),
		Deliveries: plan.Deliveries,
		Failures:   make([]failureView, 0, len(plan.Failures)),
	}
	if view.Deliveries == nil {
		view.Deliveries = []domain.ResolvedDelivery{}
	}
	for _, f := range plan.Failures {
		view.Failures = append(view.Failures, failureView{Path: f.Path, Error: f.Err.Error()})
	}
	httpinfra.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) weekly(w http.ResponseWriter, r *http.Request) {
	day, err := h.date(r)
	if err != nil {
		httpinfra.WriteError(w, http.StatusBadRequest, err)
		return
	}
	if h.rotation == nil {
		httpinfra.WriteError(w, http.StatusNotFound, domain.ErrEmptyRotation)
		return
	}
	messages, err := h.rotation()
	if err != nil {
		h.log.Error().Err(err).Msg("чтение ротации")
		httpinfra.WriteError(w, http.StatusInternalServerError, errors.New("ротация недоступна"))
		return
	}
	msg, err := schedule.ResolveWeekly(day, messages)
	if errors.Is(err, domain.ErrEmptyRotation) {
		httpinfra.WriteError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		httpinfra.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, weeklyView{
		Date:    day.Format(dateLayout),
		Week:    schedule.WeekNumber(day),
		Message: msg,
	})
}

// date читает ?date=YYYY-MM-DD, по умолчанию сегодня в настроенной зоне.
func (h *Handler) date(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return schedule.Today(h.now(), h.loc), nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, h.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date должен быть в формате YYYY-MM-DD: %q", raw)
	}
	return day, nil
}
