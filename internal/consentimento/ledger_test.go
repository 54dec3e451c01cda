package consentimento

import (
	"testing"
	"time"

	"github.com/NexoJuridico/api-assinatura/internal/auditoria"
	"github.com/NexoJuridico/api-assinatura/internal/erros"
	"github.com/stretchr/testify/require"
)

func prepararLedger(t *testing.T) (*Ledger, *auditoria.SinkMemoria) {
	t.Helper()
	sink := auditoria.NovoSinkMemoria()
	l := NovoLedger(NovoStoreMemoria(), sink)
	agora := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	l.Agora = func() time.Time { return agora }
	return l, sink
}

func aceitePadrao() AceiteDTO {
	return AceiteDTO{
		UsuarioID:  "u-ana",
		Nome:       "Ana Souza",
		Email:      "ana@exemplo.com",
		Versao:     "2.1",
		Finalidade: FinalidadeConsentimentoLGPD,
		IP:         "10.0.0.7",
		UserAgent:  "Mozilla/5.0",
		Itens: []NovoItemDTO{
			{Tag: "tratamento-dados", Descricao: "Tratamento de dados pessoais", Obrigatorio: true},
			{Tag: "comunicacao-email", Descricao: "Comunicações por e-mail", Obrigatorio: false},
		},
	}
}

func TestRegistrarAceiteValidacao(t *testing.T) {
	l, _ := prepararLedger(t)

	dto := aceitePadrao()
	dto.UsuarioID = ""
	_, err := l.RegistrarAceite(dto, "op")
	require.ErrorIs(t, err, erros.ErrValidacao)

	dto = aceitePadrao()
	dto.Finalidade = "finalidade-desconhecida"
	_, err = l.RegistrarAceite(dto, "op")
	require.ErrorIs(t, err, erros.ErrValidacao)

	dto = aceitePadrao()
	dto.Itens = nil
	_, err = l.RegistrarAceite(dto, "op")
	require.ErrorIs(t, err, erros.ErrValidacao)
}

func TestRegistrarAceiteEListar(t *testing.T) {
	l, _ := prepararLedger(t)

	reg, err := l.RegistrarAceite(aceitePadrao(), "u-ana")
	require.NoError(t, err)
	require.Equal(t, StatusAceito, reg.Status)
	require.NotEmpty(t, reg.Hash)
	require.Equal(t, reg.AceitoEm.Add(365*24*time.Hour), reg.ExpiraEm)

	lista, err := l.ListarPorUsuario("u-ana", "")
	require.NoError(t, err)
	require.Len(t, lista, 1)
	require.Equal(t, reg.ID, lista[0].ID)
	require.Len(t, lista[0].Itens, 2)
	for _, it := range lista[0].Itens {
		require.True(t, it.Aceito)
		require.NotNil(t, it.AceitoEm)
		require.True(t, it.AceitoEm.Equal(reg.AceitoEm))
	}
}

func TestAceiteNaoMutaRegistroAnterior(t *testing.T) {
	l, _ := prepararLedger(t)

	primeiro, err := l.RegistrarAceite(aceitePadrao(), "u-ana")
	require.NoError(t, err)

	// revoga um item do primeiro e registra um aceite novo
	_, err = l.RevogarItem(primeiro.ID, primeiro.Itens[1].ID, "u-ana")
	require.NoError(t, err)
	segundo, err := l.RegistrarAceite(aceitePadrao(), "u-ana")
	require.NoError(t, err)
	require.NotEqual(t, primeiro.ID, segundo.ID)

	lista, err := l.ListarPorUsuario("u-ana", FinalidadeConsentimentoLGPD)
	require.NoError(t, err)
	require.Len(t, lista, 2)
	// o registro antigo segue com o item revogado; o novo nasce limpo
	require.NotNil(t, lista[0].Itens[1].RevogadoEm)
	for _, it := range lista[1].Itens {
		require.Nil(t, it.RevogadoEm)
	}
}

func TestListarPorUsuarioComFinalidade(t *testing.T) {
	l, _ := prepararLedger(t)

	_, err := l.RegistrarAceite(aceitePadrao(), "u-ana")
	require.NoError(t, err)
	outro := aceitePadrao()
	outro.Finalidade = FinalidadeTermosDeUso
	_, err = l.RegistrarAceite(outro, "u-ana")
	require.NoError(t, err)

	lista, err := l.ListarPorUsuario("u-ana", FinalidadeTermosDeUso)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	require.Equal(t, FinalidadeTermosDeUso, lista[0].Finalidade)
}

func TestListarUsuarioSemRegistros(t *testing.T) {
	l, _ := prepararLedger(t)
	lista, err := l.ListarPorUsuario("u-ninguem", "")
	require.NoError(t, err)
	require.Empty(t, lista)
}

func TestRevogarItemOpcional(t *testing.T) {
	l, _ := prepararLedger(t)
	reg, _ := l.RegistrarAceite(aceitePadrao(), "u-ana")

	atualizado, err := l.RevogarItem(reg.ID, reg.Itens[1].ID, "u-ana")
	require.NoError(t, err)
	require.False(t, atualizado.Itens[1].Aceito)
	require.NotNil(t, atualizado.Itens[1].RevogadoEm)

	// não alcança o outro item nem o status do registro
	require.True(t, atualizado.Itens[0].Aceito)
	require.Nil(t, atualizado.Itens[0].RevogadoEm)
	require.Equal(t, StatusAceito, atualizado.Status)
	require.Nil(t, atualizado.RevogadoEm)
}

func TestRevogarUltimoObrigatorioRevogaRegistro(t *testing.T) {
	l, _ := prepararLedger(t)
	reg, _ := l.RegistrarAceite(aceitePadrao(), "u-ana")

	atualizado, err := l.RevogarItem(reg.ID, reg.Itens[0].ID, "u-ana")
	require.NoError(t, err)
	require.Equal(t, StatusRevogado, atualizado.Status)
	require.NotNil(t, atualizado.RevogadoEm)
	// o item opcional continua aceito
	require.True(t, atualizado.Itens[1].Aceito)
}

func TestRevogarItemInexistente(t *testing.T) {
	l, _ := prepararLedger(t)
	reg, _ := l.RegistrarAceite(aceitePadrao(), "u-ana")

	_, err := l.RevogarItem(reg.ID, "item-fantasma", "u-ana")
	require.ErrorIs(t, err, erros.ErrNaoEncontrado)

	_, err = l.RevogarItem("registro-fantasma", reg.Itens[0].ID, "u-ana")
	require.ErrorIs(t, err, erros.ErrNaoEncontrado)

	// registro intacto após a falha
	lista, err := l.ListarPorUsuario("u-ana", "")
	require.NoError(t, err)
	for _, it := range lista[0].Itens {
		require.True(t, it.Aceito)
		require.Nil(t, it.RevogadoEm)
	}
	require.Equal(t, StatusAceito, lista[0].Status)
}

func TestRevogarItemDuasVezesEhNoOp(t *testing.T) {
	l, sink := prepararLedger(t)
	reg, _ := l.RegistrarAceite(aceitePadrao(), "u-ana")

	primeiro, err := l.RevogarItem(reg.ID, reg.Itens[1].ID, "u-ana")
	require.NoError(t, err)
	carimbo := primeiro.Itens[1].RevogadoEm

	segundo, err := l.RevogarItem(reg.ID, reg.Itens[1].ID, "u-ana")
	require.NoError(t, err)
	require.True(t, segundo.Itens[1].RevogadoEm.Equal(*carimbo))

	// aceite + uma revogação; o no-op não emite evento
	require.Len(t, sink.Eventos(), 2)
}

func TestAuditoriaDoLedger(t *testing.T) {
	l, sink := prepararLedger(t)
	reg, err := l.RegistrarAceite(aceitePadrao(), "u-ana")
	require.NoError(t, err)
	_, err = l.RevogarItem(reg.ID, reg.Itens[0].ID, "u-ana")
	require.NoError(t, err)

	eventos := sink.Eventos()
	require.Len(t, eventos, 2)
	require.Equal(t, auditoria.AcaoConsentimentoAceito, eventos[0].Acao)
	require.Equal(t, auditoria.AcaoConsentimentoRevogado, eventos[1].Acao)
	require.Equal(t, reg.ID, eventos[0].EntidadeID)
}
