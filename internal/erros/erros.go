package erros

import (
	"errors"
	"net/http"
)

var (
	// ErrValidacao indica entrada malformada (campo obrigatório ausente,
	// lista de signatários vazia, signatário duplicado).
	ErrValidacao = errors.New("dados inválidos")

	// ErrNaoEncontrado indica envelope, registro, item ou signatário inexistente.
	ErrNaoEncontrado = errors.New("não encontrado")

	// ErrTransicaoInvalida indica ação tentada a partir de um estado terminal
	// ou incompatível com a transição pedida.
	ErrTransicaoInvalida = errors.New("transição inválida")

	// ErrExpirado indica ação tentada após o prazo de validade do envelope.
	ErrExpirado = errors.New("expirado")
)

// EhValidacao verifica se o erro é de validação.
func EhValidacao(err error) bool {
	return errors.Is(err, ErrValidacao)
}

// EhNaoEncontrado verifica se o erro é de recurso inexistente.
func EhNaoEncontrado(err error) bool {
	return errors.Is(err, ErrNaoEncontrado)
}

// StatusHTTP mapeia o tipo do erro para o status HTTP correspondente.
func StatusHTTP(err error) int {
	switch {
	case errors.Is(err, ErrValidacao):
		return http.StatusBadRequest
	case errors.Is(err, ErrNaoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, ErrTransicaoInvalida):
		return http.StatusConflict
	case errors.Is(err, ErrExpirado):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
