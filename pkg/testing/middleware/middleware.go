package middleware

import (
	"net/http"
	"net/http/httptest"
)

// RequestWithMiddleware прогоняет запрос через мидлварь
// с заданным финальным обработчиком и возвращает записанный ответ
func RequestWithMiddleware(
	handlerFunc func(http.ResponseWriter, *http.Request),
	middlewareFunc func(handler http.Handler) http.Handler,
	req *http.Request,
) *httptest.ResponseRecorder {
	mw := middlewareFunc(http.HandlerFunc(handlerFunc))
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	return rec
}
