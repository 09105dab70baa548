package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talent-match/internal/nlp"
	"github.com/jonathan/talent-match/internal/types"
)

const joaoResume = "João Pereira\nCargo atual: Engenheiro de Software\n5 anos de experiência\nHabilidades: Python, SQL, Docker\njoao@example.com"

func TestExtract_ShortResume(t *testing.T) {
	f := NewExtractor(nil, nil).Extract(joaoResume)

	assert.Equal(t, "João Pereira", f.Name)
	assert.Equal(t, "Engenheiro de Software", f.CurrentPosition)
	require.NotNil(t, f.YearsExperience)
	assert.Equal(t, 5, *f.YearsExperience)
	assert.Subset(t, f.Skills, []string{"Python", "SQL", "Docker"})
	assert.Equal(t, "joao@example.com", f.Email)
	assert.Nil(t, f.Age)
	assert.Contains(t, f.Summary, "João Pereira")
	assert.Contains(t, f.Summary, "Competências: Python, SQL, Docker")
}

func TestExtract_FullResume(t *testing.T) {
	text := `MARIA DA SILVA
Desenvolvedora Backend
Belo Horizonte - MG | (31) 98765-4321 | maria.silva@mail.com
32 anos

Resumo
Mais de 8 anos de experiência com sistemas distribuídos.

Experiência Profissional
Acme Tecnologia Ltda. 2019 - atual
Banco Central do Brasil 2015 - 2019

Formação Acadêmica
Universidade Federal de Minas Gerais

Skills
Go; Kubernetes; PostgreSQL
Docker`

	f, entities := NewExtractor(nil, nil).ExtractWithEntities(text)

	assert.Equal(t, "MARIA DA SILVA", f.Name)
	assert.Equal(t, "(31) 98765-4321", f.Phone)
	assert.Equal(t, "maria.silva@mail.com", f.Email)
	require.NotNil(t, f.Age)
	assert.Equal(t, 32, *f.Age)
	require.NotNil(t, f.YearsExperience)
	assert.Equal(t, 8, *f.YearsExperience)
	assert.Equal(t, "Belo Horizonte - MG", f.Location)
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL", "Docker"}, f.Skills)
	assert.Contains(t, f.Employers, "Acme Tecnologia Ltda")
	assert.Contains(t, f.Employers, "Universidade Federal de Minas Gerais")
	assert.NotEmpty(t, entities)
}

func TestExtract_EmptyText(t *testing.T) {
	f := NewExtractor(nil, nil).Extract("")
	assert.True(t, f.Empty())
	assert.Equal(t, "Candidato.", f.Summary)
}

func TestNameStrategies(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "first line", text: "Maria Silva\nDesenvolvedora", want: "Maria Silva"},
		{name: "section header skipped", text: "Formação Acadêmica\nMaria Silva", want: "Maria Silva"},
		{name: "connector allowed", text: "Ana Paula dos Santos\nAnalista", want: "Ana Paula dos Santos"},
		{name: "all caps", text: "CARLOS ALBERTO\nGerente", want: "CARLOS ALBERTO"},
		{name: "single token line rejected", text: "Curriculum\nPedro Souza", want: "Pedro Souza"},
		{name: "curriculum vitae header skipped", text: "Curriculum Vitae\nPedro Souza\npedro@x.com", want: "Pedro Souza"},
		{name: "curriculo header skipped", text: "Currículo Profissional\nPedro Souza", want: "Pedro Souza"},
		{name: "personal data header skipped", text: "Dados Pessoais\nPedro Souza\npedro@x.com", want: "Pedro Souza"},
		{name: "personal information header skipped", text: "Informações Pessoais\nPedro Souza", want: "Pedro Souza"},
		{name: "header word inside a name is kept", text: "Vitaemar Souza\nAnalista", want: "Vitaemar Souza"},
		{name: "fallback line without digits", text: "1\n2\n3\n4\n5\n6\n7\n8\nlucas ferreira", want: "lucas ferreira"},
		{name: "nothing usable", text: "123\n456", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewExtractor(nil, nil).Extract(tt.text).Name)
		})
	}
}

func TestSummaryNeverUsesSectionHeader(t *testing.T) {
	f := NewExtractor(nil, nil).Extract("Curriculum Vitae\npedro@x.com")
	assert.NotEqual(t, "Curriculum Vitae", f.Name)
	assert.NotContains(t, f.Summary, "Curriculum Vitae")
}

func TestNameNeverSectionHeader(t *testing.T) {
	f := NewExtractor(nil, nil).Extract("Formação Acadêmica\nBacharelado em Computação 2015")
	assert.NotEqual(t, "Formação Acadêmica", f.Name)
}

type stubRecognizer []nlp.Entity

func (s stubRecognizer) Recognize(string) []nlp.Entity { return s }

func TestNameFromEntities(t *testing.T) {
	rec := stubRecognizer{
		{Text: "Acme", Label: nlp.LabelOrganization},
		{Text: "Renata Lima", Label: nlp.LabelPerson},
	}
	f := NewExtractor(rec, nil).Extract("desenvolvedora na acme desde 2019, 3 anos")
	assert.Equal(t, "Renata Lima", f.Name)
	assert.Equal(t, []string{"Acme"}, f.Employers)
}

func TestFindAge(t *testing.T) {
	tests := []struct {
		text string
		want *int
	}{
		{"Idade: 29", types.IntPtr(29)},
		{"brasileiro, 41 anos, casado", types.IntPtr(41)},
		{"10 anos de experiência", nil},
		{"12 anos de experiência, 35 anos", types.IntPtr(35)},
		{"sem idade", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, findAge(tt.text), tt.text)
	}
}

func TestFindYearsExperience(t *testing.T) {
	tests := []struct {
		text string
		want *int
	}{
		{"5 anos de experiência", types.IntPtr(5)},
		{"10+ anos de experiencia em dados", types.IntPtr(10)},
		{"3 anos de atuação", types.IntPtr(3)},
		{"Experiência de 7 anos em vendas", types.IntPtr(7)},
		{"6 years of experience", types.IntPtr(6)},
		{"experiente", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, findYearsExperience(tt.text), tt.text)
	}
}

func TestFindCurrentPosition(t *testing.T) {
	assert.Equal(t, "Tech Lead", findCurrentPosition("Posição atual: Tech Lead\nOutro"))
	assert.Equal(t, "Analista", findCurrentPosition("Atualmente em: Analista."))
	assert.Equal(t, "", findCurrentPosition("Sem cargo"))
}

func TestFindPhone(t *testing.T) {
	assert.Equal(t, "(11) 91234-5678", findPhone("Tel: (11) 91234-5678"))
	assert.Equal(t, "+55 21 3456-7890", findPhone("fone +55 21 3456-7890"))
	assert.Equal(t, "", findPhone("sem telefone"))
}

func TestFindSkills(t *testing.T) {
	text := "Competências\n• Liderança\n• Scrum\n• Scrum\n\nIdiomas\nInglês"
	assert.Equal(t, []string{"Liderança", "Scrum"}, findSkills(text))
	assert.Nil(t, findSkills("nenhuma seção"))
}

func TestFindLocation(t *testing.T) {
	assert.Equal(t, "São Paulo - SP", findLocation("Endereço: São Paulo/SP", nil))
	assert.Equal(t, "Recife", findLocation("Moro em Recife há 5 anos", nil))
	assert.Equal(t, "", findLocation("Remoto - XX", nil))
	assert.Equal(t, "Lisboa", findLocation("remoto",
		[]nlp.Entity{{Text: "RJ", Label: nlp.LabelLocation}, {Text: "Lisboa", Label: nlp.LabelLocation}}))
}

func TestCountSections(t *testing.T) {
	text := "Nome Sobrenome\nExperiência Profissional\nEmpresa A\nEmpresa B\nFormação\nUFMG\nHabilidades\nGo"
	history, formation := CountSections(text)
	assert.Equal(t, 2, history)
	assert.Equal(t, 1, formation)
}
