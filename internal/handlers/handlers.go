package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yusukebe/url-shortener/internal/app"
	"github.com/yusukebe/url-shortener/internal/middleware"
	"github.com/yusukebe/url-shortener/internal/render"
	"github.com/yusukebe/url-shortener/storage"
)

type Handler struct {
	App *app.App
}

func (handler Handler) constructShortURL(key string, r *http.Request) *url.URL {
	// Мы возвращаем короткую ссылку используя настройки базового URL сервиса
	// В случае его отстуствия используем имя хоста, с которым был совершен запрос
	baseURLScheme, baseURLHost, baseURLPath := "http", r.Host, "/"
	if handler.App.Config.BaseURL != nil {
		if handler.App.Config.BaseURL.Scheme != "" {
			baseURLScheme = handler.App.Config.BaseURL.Scheme
		}
		if handler.App.Config.BaseURL.Host != "" {
			baseURLHost = handler.App.Config.BaseURL.Host
		}
		if handler.App.Config.BaseURL.Path != "" {
			baseURLPath = handler.App.Config.BaseURL.Path
		}
	}
	shortURLPath := strings.TrimRight(baseURLPath, "/") + "/" + key
	return &url.URL{
		Scheme: baseURLScheme,
		Host:   baseURLHost,
		Path:   shortURLPath,
	}
}

// validateTargetURL проверяет, что пользователь прислал в форме абсолютный URL.
// Никаких ограничений на схему или хост сверх этого не накладывается
func validateTargetURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("please provide a url to shorten")
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("please provide a valid absolute url")
	}
	return raw, nil
}

// IndexPage отображает главную страницу сервиса с формой для сокращения ссылки
func (handler Handler) IndexPage(w http.ResponseWriter, r *http.Request) {
	csrfToken, _ := r.Context().Value(middleware.CSRFTokenContextKey).(string)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Page(w, "URL Shortener", "index.gohtml", IndexPage{CSRFToken: csrfToken}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CreateShortLink принимает из формы произвольный URL и создает для него "короткую" версию,
// при переходе по которой пользователь попадет на оригинальный "длинный" URL
// В случае успеха возвращает страницу с готовой короткой ссылкой
// В случае невалидного URL в форме вернет страницу с ошибкой и ссылкой на главную
func (handler Handler) CreateShortLink(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	longURL, err := validateTargetURL(r.PostFormValue("url"))
	// Ошибка валидации отдается дружелюбной страницей, а не сырым текстом ошибки,
	// при этом до хранилища запрос не доходит
	if err != nil {
		if renderErr := render.Page(w, "Error", "error.gohtml", ErrorPage{Message: err.Error()}); renderErr != nil {
			http.Error(w, renderErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	key, err := handler.App.Registry.Create(r.Context(), longURL)
	// Ошибка создания ссылки (включая исчерпание ключей) - это 500,
	// но пользователю мы отдаем такую же дружелюбную страницу, как и при валидации
	if err != nil {
		log.Printf("unable to shorten %s due to %s\n", longURL, err)
		w.WriteHeader(http.StatusInternalServerError)
		if renderErr := render.Page(w, "Error", "error.gohtml", ErrorPage{Message: "unable to shorten the url, please try again later"}); renderErr != nil {
			log.Printf("unable to render error page due to %s\n", renderErr)
		}
		return
	}

	shortURL := handler.constructShortURL(key, r)
	if err := render.Page(w, "Created", "created.gohtml", CreatedPage{ShortURL: shortURL.String()}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ExpandShortLink перенаправляет пользователя, перешедшего по короткой ссылке,
// на оригинальный "длинный" URL с кодом 302
// Для неизвестного сервису ключа пользователь отправляется на главную страницу
func (handler Handler) ExpandShortLink(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	target, err := handler.App.Registry.Resolve(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrLinkNotFound) {
			// Неизвестный ключ - не ошибка, просто предлагаем создать новую ссылку
			http.Redirect(w, r, "/", http.StatusFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}
