package handlers

type IndexPage struct {
	CSRFToken string // одноразовый токен, встраиваемый в форму скрытым полем
}

type CreatedPage struct {
	ShortURL string // абсолютная короткая ссылка, готовая к использованию
}

type ErrorPage struct {
	Message string
}
