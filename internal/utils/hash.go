package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ImpressaoDigital gera a impressão digital (fingerprint) de um conteúdo.
// O valor é tratado como token opaco pelo restante do sistema.
func ImpressaoDigital(dados []byte) string {
	soma := blake2b.Sum256(dados)
	return hex.EncodeToString(soma[:])
}
