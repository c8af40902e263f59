package types

// Profile es el payload de perfil de una identidad.
// Solo uno de Student/Alumni está presente según el rol; Extra admite
// atributos opcionales sin romper el esquema.
type Profile struct {
	Student *StudentProfile   `json:"student,omitempty"`
	Alumni  *AlumniProfile    `json:"alumni,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`
}

// StudentProfile atributos de un estudiante.
type StudentProfile struct {
	Degree    string   `json:"degree"`
	Year      int      `json:"year,omitempty"`
	Interests []string `json:"interests,omitempty"`
	// CVRef referencia opaca a un blob externo.
	CVRef string `json:"cv_ref,omitempty"`
}

// AlumniProfile atributos de un mentor.
type AlumniProfile struct {
	Company        string   `json:"company"`
	JobTitle       string   `json:"job_title,omitempty"`
	GraduationYear int      `json:"graduation_year,omitempty"`
	Skills         []string `json:"skills,omitempty"`
}

// MatchesRole verifica que el perfil sea coherente con el rol.
// Un perfil vacío es válido para cualquier rol.
func (p Profile) MatchesRole(r Role) bool {
	switch r {
	case RoleStudent:
		return p.Alumni == nil
	case RoleAlumni:
		return p.Student == nil
	case RoleAdmin:
		return p.Student == nil && p.Alumni == nil
	}
	return false
}

// MatchReasons explica por qué un admin emparejó a estudiante y mentor.
type MatchReasons struct {
	SharedSkills []string          `json:"shared_skills,omitempty"`
	Summary      string            `json:"summary,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}
