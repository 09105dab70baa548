package nlp

// SectionKeywords are résumé section headers, folded. A line carrying one is
// a header, never a person's name.
var SectionKeywords = []string{
	"habilidades", "formacao", "experiencia", "experiencias", "objetivo", "objetivos",
	"competencias", "qualificacoes", "resumo", "perfil", "contato", "contatos",
	"idiomas", "cursos", "certificacoes", "certificados", "tecnologias", "ferramentas",
	"conhecimentos", "projetos", "academica", "profissional", "profissionais",
	"informacoes", "dados pessoais", "curriculo", "curriculum", "vitae",
	"skills", "education", "experience", "summary", "languages", "projects",
	"technologies", "stack", "frameworks", "linguagens",
}

// TechKeywords are technology names that show up capitalized in résumés and
// must not be mistaken for a person's name.
var TechKeywords = []string{
	"python", "java", "javascript", "typescript", "react", "node", "node.js", "nodejs",
	"angular", "vue", "django", "flask", "spring", "golang", "go", "rust", "kotlin",
	"swift", "php", "laravel", "ruby", "rails", "sql", "mysql", "postgresql", "postgres",
	"mongodb", "redis", "docker", "kubernetes", "aws", "azure", "gcp", "linux", "git",
	"html", "css", "c#", ".net", "dotnet", "c++", "excel", "power bi", "tableau",
	"scrum", "kanban", "jira", "figma", "terraform", "graphql", "rest", "api",
}

var months = []string{
	"janeiro", "fevereiro", "marco", "abril", "maio", "junho", "julho", "agosto",
	"setembro", "outubro", "novembro", "dezembro",
	"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez",
}

// personStopwords never appear inside a person entity.
var personStopwords = append(append([]string{
	"nome", "cargo", "atual", "atualmente", "endereco", "telefone", "celular", "email",
	"e-mail", "linkedin", "github", "portfolio", "brasileiro", "brasileira", "solteiro",
	"solteira", "casado", "casada", "rua", "avenida", "av", "bairro", "cep", "idade",
	"anos", "desenvolvedor", "desenvolvedora", "engenheiro", "engenheira", "analista",
	"gerente", "coordenador", "coordenadora", "estagiario", "estagiaria", "senior",
	"pleno", "junior", "tech", "lead", "developer", "engineer", "manager", "presente",
	"atual", "ingles", "espanhol", "portugues", "fluente", "avancado", "intermediario",
	"basico", "bacharelado", "graduacao", "pos", "mba", "mestrado", "doutorado",
}, months...), TechKeywords...)

var connectors = map[string]bool{
	"da": true, "de": true, "do": true, "das": true, "dos": true, "e": true,
	"di": true, "du": true, "del": true, "van": true, "von": true,
}

// orgMarkers identify organisations, folded with dots and slashes removed.
var orgMarkers = map[string]bool{
	"ltda": true, "sa": true, "inc": true, "corp": true, "corporation": true,
	"company": true, "llc": true, "ltd": true, "eireli": true, "gmbh": true,
	"tecnologia": true, "tecnologias": true, "technologies": true, "technology": true,
	"consultoria": true, "consulting": true, "sistemas": true, "software": true,
	"solucoes": true, "solutions": true, "banco": true, "bank": true,
	"universidade": true, "university": true, "faculdade": true, "instituto": true,
	"institute": true, "grupo": true, "group": true, "servicos": true, "services": true,
	"labs": true, "industria": true, "comercio": true, "telecom": true,
	"seguros": true, "holding": true, "hospital": true,
	"escola": true, "fundacao": true, "associacao": true, "cooperativa": true,
}

// jobTitles open position names such as "Engenheiro de Software", which
// would otherwise read as an organisation.
var jobTitles = map[string]bool{
	"engenheiro": true, "engenheira": true, "desenvolvedor": true, "desenvolvedora": true,
	"analista": true, "gerente": true, "coordenador": true, "coordenadora": true,
	"arquiteto": true, "arquiteta": true, "consultor": true, "consultora": true,
	"estagiario": true, "estagiaria": true, "tecnico": true, "tecnica": true,
	"engineer": true, "developer": true, "manager": true, "analyst": true,
	"engenharia": true, "bacharelado": true, "graduacao": true, "curso": true,
}

// orgLabels introduce an employer name on the rest of the line.
var orgLabels = []string{"empresa:", "empregador:", "company:", "employer:", "organizacao:"}
