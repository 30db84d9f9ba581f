package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yusukebe/url-shortener/internal/app"
	"github.com/yusukebe/url-shortener/internal/handlers"
	"github.com/yusukebe/url-shortener/internal/middleware"
)

func New(theApp *app.App) chi.Router {
	handler := &handlers.Handler{
		App: theApp,
	}
	csrf := middleware.WithCSRFProtection(theApp.Config.BaseURL, theApp.SecretKey)
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.GzipSupport)
	router.Route("/", func(r chi.Router) {
		r.With(csrf).Get("/", handler.IndexPage)
		r.With(csrf).Post("/create", handler.CreateShortLink)
		// "create" сам подходит под шаблон ключа, поэтому GET /create
		// уходит не сюда, а в ExpandShortLink как неизвестный ключ
		// ключ короткой ссылки - ровно шесть символов из нижнего регистра,
		// все остальные пути до хранилища не доходят
		r.Get("/{key:[0-9a-z]{6}}", handler.ExpandShortLink)
	})
	return router
}
