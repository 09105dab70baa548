package nlp

import "strings"

// MajorCities is the fixed list of Brazilian cities recognised as locations,
// checked in order.
var MajorCities = []string{
	"São Paulo", "Rio de Janeiro", "Belo Horizonte", "Brasília", "Salvador",
	"Fortaleza", "Curitiba", "Manaus", "Recife", "Porto Alegre", "Belém",
	"Goiânia", "Guarulhos", "Campinas", "São Luís", "Maceió", "Natal",
	"Teresina", "João Pessoa", "Florianópolis", "Vitória", "Santos", "Niterói",
	"Uberlândia", "Ribeirão Preto", "Sorocaba", "Joinville", "Londrina",
	"Campo Grande", "Cuiabá", "Aracaju", "Porto Velho", "Macapá", "Boa Vista",
	"Palmas", "Rio Branco", "São José dos Campos", "Osasco", "Santo André",
	"São Bernardo do Campo", "Contagem", "Juiz de Fora", "Feira de Santana",
	"Caxias do Sul", "Blumenau", "Maringá",
}

// States maps Brazilian state abbreviations to their names.
var States = map[string]string{
	"AC": "Acre", "AL": "Alagoas", "AP": "Amapá", "AM": "Amazonas", "BA": "Bahia",
	"CE": "Ceará", "DF": "Distrito Federal", "ES": "Espírito Santo", "GO": "Goiás",
	"MA": "Maranhão", "MT": "Mato Grosso", "MS": "Mato Grosso do Sul",
	"MG": "Minas Gerais", "PA": "Pará", "PB": "Paraíba", "PR": "Paraná",
	"PE": "Pernambuco", "PI": "Piauí", "RJ": "Rio de Janeiro",
	"RN": "Rio Grande do Norte", "RS": "Rio Grande do Sul", "RO": "Rondônia",
	"RR": "Roraima", "SC": "Santa Catarina", "SP": "São Paulo", "SE": "Sergipe",
	"TO": "Tocantins",
}

var countries = []string{"Brasil", "Brazil", "Portugal", "Argentina", "Estados Unidos", "Canadá"}

var places = buildPlaces()

func buildPlaces() map[string]bool {
	m := make(map[string]bool, len(MajorCities)+len(States)+len(countries))
	for _, c := range MajorCities {
		m[Fold(c)] = true
	}
	for _, s := range States {
		m[Fold(s)] = true
	}
	for _, c := range countries {
		m[Fold(c)] = true
	}
	return m
}

// IsPlace reports whether name is a known city, state or country.
func IsPlace(name string) bool {
	return places[Fold(strings.TrimSpace(name))]
}

// FindCity returns the first city of MajorCities mentioned in text.
func FindCity(text string) (string, bool) {
	folded := Fold(text)
	for _, city := range MajorCities {
		if ContainsWord(folded, Fold(city)) {
			return city, true
		}
	}
	return "", false
}
