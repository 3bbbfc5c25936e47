package dashboard

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"manometer-backend/internal/model"
	"manometer-backend/internal/store"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// displayDateLayout matches the pt-BR short date shown in the list.
const displayDateLayout = "02/01/2006"

// Handler serves the server-rendered dashboard.
type Handler struct {
	src  Source
	log  *zap.Logger
	now  func() time.Time
	tmpl *template.Template
}

// NewHandler parses the embedded templates and returns a dashboard handler.
func NewHandler(src Source, log *zap.Logger) *Handler {
	tmpl := template.Must(template.New("dashboard").
		Funcs(template.FuncMap{"bucketLabel": Bucket.Label}).
		ParseFS(templateFS, "templates/*.tmpl"))

	return &Handler{src: src, log: log, now: time.Now, tmpl: tmpl}
}

// Register mounts the dashboard routes.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET("/dashboard", h.Show)
	r.POST("/dashboard/gauges", h.AddGauge)
}

type gaugeRow struct {
	SerialNumber string
	Manufacturer string
	Location     string
	Validity     string
	Bucket       Bucket
}

type pageData struct {
	Tab     Tab
	Error   string
	Summary Summary
	Query   string
	Rows    []gaugeRow
	Form    map[string]string
	Year    int
}

// Show renders the view selected by the tab query parameter.
func (h *Handler) Show(c *gin.Context) {
	m := NewModel(h.src)
	m.SetTab(ParseTab(c.Query("tab")))

	if err := m.Load(c.Request.Context()); err != nil {
		h.log.Error("dashboard: failed to load gauges", zap.Error(err))
	}
	h.render(c, http.StatusOK, m, c.Query("q"), nil)
}

// AddGauge handles the add form.
func (h *Handler) AddGauge(c *gin.Context) {
	m := NewModel(h.src)
	m.SetTab(TabAdd)

	form := map[string]string{}
	for _, name := range formFieldNames {
		form[name] = c.PostForm(name)
	}

	fields, err := fieldsFromForm(form)
	if err == nil {
		err = m.Add(c.Request.Context(), fields)
	} else {
		m.SetError(MsgAddFailed)
	}
	if err != nil {
		h.log.Warn("dashboard: failed to add gauge", zap.Error(err))
		// Keep the list usable behind the banner.
		banner := m.Error()
		_ = m.Load(c.Request.Context())
		m.SetError(banner)
		m.SetTab(TabAdd)
		h.render(c, statusFor(err), m, "", form)
		return
	}

	c.Redirect(http.StatusSeeOther, "/dashboard?tab="+string(TabSummary))
}

func (h *Handler) render(c *gin.Context, status int, m *Model, query string, form map[string]string) {
	now := h.now()

	rows := make([]gaugeRow, 0, len(m.Gauges()))
	for _, g := range m.Search(query) {
		validity := ""
		if !g.ValidityDate.IsZero() {
			validity = g.ValidityDate.Format(displayDateLayout)
		}
		rows = append(rows, gaugeRow{
			SerialNumber: g.SerialNumber,
			Manufacturer: g.Manufacturer,
			Location:     g.Location,
			Validity:     validity,
			Bucket:       Classify(g, now),
		})
	}

	if form == nil {
		form = map[string]string{"status": string(model.StatusActive)}
	}

	data := pageData{
		Tab:     m.Tab(),
		Error:   m.Error(),
		Summary: m.Summary(now),
		Query:   query,
		Rows:    rows,
		Form:    form,
		Year:    now.Year(),
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := h.tmpl.ExecuteTemplate(c.Writer, "page", data); err != nil {
		h.log.Error("dashboard: render failed", zap.Error(err))
	}
}

var formFieldNames = []string{
	"serialNumber", "manufacturer", "model", "measurementRange", "precision",
	"location", "validityDate", "nextInspection", "status", "observations",
}

// fieldsFromForm maps the add form onto GaugeFields. Blank inputs are
// treated as not supplied.
func fieldsFromForm(form map[string]string) (model.GaugeFields, error) {
	var f model.GaugeFields

	str := func(name string) *string {
		v := strings.TrimSpace(form[name])
		if v == "" {
			return nil
		}
		return &v
	}
	date := func(name string) (*model.Date, error) {
		v := strings.TrimSpace(form[name])
		if v == "" {
			return nil, nil
		}
		d, err := model.ParseDate(v)
		if err != nil {
			return nil, &store.ValidationError{Field: name, Message: err.Error()}
		}
		return &d, nil
	}

	f.SerialNumber = str("serialNumber")
	f.Manufacturer = str("manufacturer")
	f.Model = str("model")
	f.MeasurementRange = str("measurementRange")
	f.Precision = str("precision")
	f.Location = str("location")
	f.Observations = str("observations")
	if s := str("status"); s != nil {
		status := model.Status(*s)
		f.Status = &status
	}

	var err error
	if f.ValidityDate, err = date("validityDate"); err != nil {
		return f, err
	}
	if f.NextInspection, err = date("nextInspection"); err != nil {
		return f, err
	}
	return f, nil
}

func statusFor(err error) int {
	var vErr *store.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
