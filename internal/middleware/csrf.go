package middleware

import (
	"context"
	"crypto/hmac"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/yusukebe/url-shortener/pkg/security/token"
)

type contextKey int

const CSRFTokenContextKey contextKey = 0

const CSRFCookieName = "csrftoken"
const CSRFFieldName = "csrf_token"
const CSRFCookieExpiration = time.Hour * 24

var ErrOriginMismatch = errors.New("request origin does not match the site origin")
var ErrMissingToken = errors.New("request carries no valid csrf token")
var ErrTokenMismatch = errors.New("form token does not match the cookie token")

// WithCSRFProtection возвращает функцию-мидлварь, защищающую формы от межсайтовой подделки запросов.
// Безопасным методам мидлварь лишь выдает подписанный секретным ключом токен
// в куке и кладет его в контекст запроса, чтобы обработчик мог встроить его в форму.
// Для POST-запросов проверяются заголовок Origin (при его наличии)
// и совпадение токена из формы с токеном из куки
func WithCSRFProtection(baseURL *url.URL, secretKey []byte) func(http.Handler) http.Handler {
	sealer := token.NewSealer(secretKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				formToken, err := ensureTokenCookie(w, r, sealer)
				if err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				ctx := context.WithValue(r.Context(), CSRFTokenContextKey, formToken)
				next.ServeHTTP(w, r.WithContext(ctx))
			default:
				if err := rejectForgedRequest(r, baseURL, sealer); err != nil {
					log.Printf("rejected cross-site request to %s due to %v\n", r.URL.Path, err)
					http.Error(w, "cross-site request rejected", http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
			}
		})
	}
}

// ensureTokenCookie перевыпускает токен-куку, если у посетителя ее еще нет
// или принесенный им токен не проходит проверку подписи
func ensureTokenCookie(w http.ResponseWriter, r *http.Request, sealer *token.Sealer) (string, error) {
	cookie, err := r.Cookie(CSRFCookieName)
	if err == nil && sealer.Verify(cookie.Value) {
		return cookie.Value, nil
	}
	issued, err := sealer.Issue()
	if err != nil {
		log.Printf("unable to issue csrf token due to %v\n", err)
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    issued,
		Path:     "/",
		Expires:  time.Now().Add(CSRFCookieExpiration),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return issued, nil
}

func rejectForgedRequest(r *http.Request, baseURL *url.URL, sealer *token.Sealer) error {
	// Сначала сверяем Origin, чтобы чужой сайт не смог даже дернуть валидацию формы.
	// Запросы без Origin и Referer (например, curl) пропускаем до проверки токена
	if origin := requestOrigin(r); origin != "" && origin != expectedOrigin(baseURL, r) {
		return ErrOriginMismatch
	}
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || !sealer.Verify(cookie.Value) {
		return ErrMissingToken
	}
	formToken := r.PostFormValue(CSRFFieldName)
	if !hmac.Equal([]byte(formToken), []byte(cookie.Value)) {
		return ErrTokenMismatch
	}
	return nil
}

// requestOrigin определяет сайт, с которого была отправлена форма,
// по заголовку Origin или, в случае его отсутствия, по Referer
func requestOrigin(r *http.Request) string {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = r.Header.Get("Referer")
	}
	if origin == "" {
		return ""
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// expectedOrigin вычисляет ожидаемый origin сайта из настроек базового URL,
// а при их отсутствии - из хоста, с которым был совершен запрос
func expectedOrigin(baseURL *url.URL, r *http.Request) string {
	if baseURL != nil && baseURL.Host != "" {
		scheme := baseURL.Scheme
		if scheme == "" {
			scheme = "http"
		}
		return scheme + "://" + baseURL.Host
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
