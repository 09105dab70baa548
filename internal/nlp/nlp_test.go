package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "formacao academica", Fold("Formação Acadêmica"))
	assert.Equal(t, "sao paulo", Fold("SÃO PAULO"))
	assert.Equal(t, "", Fold(""))
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		hay, needle string
		want        bool
	}{
		{"mora em natal, rn", "natal", true},
		{"natalidade", "natal", false},
		{"python e sql", "sql", true},
		{"mysql", "sql", false},
		{"anything", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContainsWord(tt.hay, tt.needle), "%q in %q", tt.needle, tt.hay)
	}
}

func TestFindCity(t *testing.T) {
	city, ok := FindCity("Endereço: Rua X, 100 - Belo Horizonte/MG")
	assert.True(t, ok)
	assert.Equal(t, "Belo Horizonte", city)

	city, ok = FindCity("Atualmente em SAO PAULO")
	assert.True(t, ok)
	assert.Equal(t, "São Paulo", city)

	_, ok = FindCity("Remoto")
	assert.False(t, ok)
}

func TestRuleRecognizer(t *testing.T) {
	r := NewRuleRecognizer()

	tests := []struct {
		name string
		text string
		want []Entity
		not  []Entity
	}{
		{
			name: "person name line",
			text: "Maria Silva\nDesenvolvedora Backend",
			want: []Entity{{Text: "Maria Silva", Label: LabelPerson}},
		},
		{
			name: "connectors kept inside names",
			text: "Ana Paula dos Santos",
			want: []Entity{{Text: "Ana Paula dos Santos", Label: LabelPerson}},
		},
		{
			name: "section headers are not people",
			text: "Formação Acadêmica\nExperiência Profissional",
			not: []Entity{
				{Text: "Formação Acadêmica", Label: LabelPerson},
				{Text: "Experiência Profissional", Label: LabelPerson},
			},
		},
		{
			name: "organisation markers",
			text: "2019 - 2023 Acme Tecnologia Ltda. Desenvolvedor",
			want: []Entity{{Text: "Acme Tecnologia Ltda", Label: LabelOrganization}},
		},
		{
			name: "labelled employer",
			text: "Empresa: Nubank",
			want: []Entity{{Text: "Nubank", Label: LabelOrganization}},
		},
		{
			name: "job title is not an organisation",
			text: "Cargo atual: Engenheiro de Software",
			not:  []Entity{{Text: "Engenheiro de Software", Label: LabelOrganization}},
		},
		{
			name: "places",
			text: "Mora em Porto Alegre, Rio Grande do Sul",
			want: []Entity{
				{Text: "Porto Alegre", Label: LabelLocation},
				{Text: "Rio Grande do Sul", Label: LabelLocation},
			},
		},
		{
			name: "lone all-caps word",
			text: "JOAO\nHabilidades: Go",
			want: []Entity{{Text: "JOAO", Label: LabelPerson}},
		},
		{
			name: "technologies are not people",
			text: "Python Django\nSQL",
			not: []Entity{
				{Text: "Python Django", Label: LabelPerson},
				{Text: "SQL", Label: LabelPerson},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Recognize(tt.text)
			for _, e := range tt.want {
				assert.Contains(t, got, e)
			}
			for _, e := range tt.not {
				assert.NotContains(t, got, e)
			}
		})
	}
}

func TestRecognizeDeduplicates(t *testing.T) {
	got := NewRuleRecognizer().Recognize("Maria Silva\nMaria Silva")
	assert.Equal(t, []string{"Maria Silva"}, Entities(got, LabelPerson))
}
