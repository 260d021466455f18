package handlers

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/adamjdecaria/cs50wproject1/internal/middleware"
	"github.com/adamjdecaria/cs50wproject1/internal/session"
	"github.com/adamjdecaria/cs50wproject1/models"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// Имена страниц.
const (
	pageLogin    = "login.html"
	pageRegister = "register.html"
	pageSearch   = "search.html"
	pageResults  = "results.html"
	pageBook     = "book.html"
	pageError    = "error.html"
)

var pageNames = []string{pageLogin, pageRegister, pageSearch, pageResults, pageBook, pageError}

// PageData - данные для отрисовки любой страницы.
type PageData struct {
	Username string
	Flashes  []string
	Message  string
	Notice   string
	Books    []models.Book
	Detail   *models.BookDetail
	Scores   []int
}

// Renderer отрисовывает страницы из встроенных шаблонов.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer разбирает все шаблоны. Ошибка означает поломку сборки.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("ошибка разбора шаблона %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render выполняет шаблон в буфер и только затем пишет ответ,
// чтобы ошибка шаблона не оставила половину страницы.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data PageData) {
	tmpl, ok := rd.pages[page]
	if !ok {
		log.Errorf("[Renderer] Неизвестная страница %s", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Errorf("[Renderer] Ошибка отрисовки %s: %v", page, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warnf("[Renderer] Ошибка записи ответа %s: %v", page, err)
	}
}

// SessionManager сохраняет и сбрасывает сессии браузера.
type SessionManager interface {
	Save(ctx context.Context, w http.ResponseWriter, s *session.Session) error
	Reset(ctx context.Context, s *session.Session) (*session.Session, error)
}

// pages объединяет отрисовку и работу с сессией, общие для HTML-обработчиков.
type pages struct {
	views    *Renderer
	sessions SessionManager
}

// render забирает flash-сообщения сессии в страницу. Если сообщения были,
// сессия сохраняется до записи тела, чтобы они не показались повторно.
func (p pages) render(w http.ResponseWriter, r *http.Request, sess *session.Session, status int, page string, data PageData) {
	if sess != nil {
		data.Username = sess.Username
		if flashes := sess.PopFlashes(); len(flashes) > 0 {
			data.Flashes = flashes
			p.save(w, r, sess)
		}
	}
	if page == pageBook && data.Scores == nil {
		data.Scores = scoreOptions()
	}
	p.views.Render(w, status, page, data)
}

// fail отрисовывает страницу ошибки со статусом, соответствующим err.
func (p pages) fail(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	status, message := describeError(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("[Handlers] %s %s: %v", r.Method, r.URL.Path, err)
	} else {
		log.Printf("[Handlers] %s %s: %v", r.Method, r.URL.Path, err)
	}
	p.render(w, r, sess, status, pageError, PageData{Message: message})
}

// relogin сбрасывает сессию и отправляет на главную с просьбой войти.
func (p pages) relogin(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	fresh, err := p.sessions.Reset(r.Context(), sess)
	if err != nil {
		p.fail(w, r, nil, err)
		return
	}
	fresh.AddFlash(middleware.LoginRequiredMessage)
	p.save(w, r, fresh)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p pages) save(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := p.sessions.Save(r.Context(), w, sess); err != nil {
		log.Warnf("[Handlers] Не удалось сохранить сессию: %v", err)
	}
}

func scoreOptions() []int {
	scores := make([]int, 0, models.MaxScore-models.MinScore+1)
	for s := models.MinScore; s <= models.MaxScore; s++ {
		scores = append(scores, s)
	}
	return scores
}
