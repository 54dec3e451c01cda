package auth

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret      []byte
	carregaSegredo sync.Once
)

func segredo() ([]byte, error) {
	carregaSegredo.Do(func() {
		jwtSecret = []byte(os.Getenv("JWT_SECRET"))
	})
	if len(jwtSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET não definida")
	}
	return jwtSecret, nil
}

// Principal é quem está agindo na requisição. O motor confia nesses dados;
// quem autentica é o provedor de identidade que emitiu o token.
type Principal struct {
	ID     string `json:"usuarioId"`
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Perfil string `json:"perfil"` // client | lawyer | witness | admin
}

type Claims struct {
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Perfil string `json:"perfil"`
	jwt.RegisteredClaims
}

// GerarToken gera um JWT com validade de 24h para o principal informado.
func GerarToken(p Principal) (string, error) {
	chave, err := segredo()
	if err != nil {
		return "", err
	}
	claims := &Claims{
		Nome:   p.Nome,
		Email:  p.Email,
		Perfil: p.Perfil,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(chave)
}

// ValidarToken valida o token e devolve o principal correspondente.
func ValidarToken(tokenStr string) (*Principal, error) {
	chave, err := segredo()
	if err != nil {
		return nil, err
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return chave, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token inválido ou expirado: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("não foi possível extrair claims")
	}
	return &Principal{
		ID:     claims.Subject,
		Nome:   claims.Nome,
		Email:  claims.Email,
		Perfil: claims.Perfil,
	}, nil
}
