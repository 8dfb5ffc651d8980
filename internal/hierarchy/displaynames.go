package hierarchy

// NameForm selects the singular or plural label variant.
type NameForm string

const (
	Singular NameForm = "singular"
	Plural   NameForm = "plural"
)

// LevelNames is one level's label pair. Empty strings mean "no override".
type LevelNames struct {
	Singular string `json:"singular,omitempty"`
	Plural   string `json:"plural,omitempty"`
}

// DisplayNames is a per-organization overlay of level labels.
// Absent levels fall back to the defaults.
type DisplayNames struct {
	Organization *LevelNames `json:"organization,omitempty"`
	Company      *LevelNames `json:"company,omitempty"`
	Team         *LevelNames `json:"team,omitempty"`
	Project      *LevelNames `json:"project,omitempty"`
}

var defaultNames = map[NodeType]LevelNames{
	NodeOrganization: {Singular: "Organization", Plural: "Organizations"},
	NodeCompany:      {Singular: "Company", Plural: "Companies"},
	NodeTeam:         {Singular: "Team", Plural: "Teams"},
	NodeProject:      {Singular: "Project", Plural: "Projects"},
}

func (d *DisplayNames) level(level NodeType) *LevelNames {
	if d == nil {
		return nil
	}
	switch level {
	case NodeOrganization:
		return d.Organization
	case NodeCompany:
		return d.Company
	case NodeTeam:
		return d.Team
	case NodeProject:
		return d.Project
	default:
		return nil
	}
}

// ResolveName returns the label for a hierarchy level, preferring the overlay
// and falling back to the default table. It is total: an unknown level comes
// back as the level string itself rather than an error, because it runs on
// every render path.
func ResolveName(level NodeType, form NameForm, overlay *DisplayNames) string {
	if ln := overlay.level(level); ln != nil {
		switch form {
		case Plural:
			if ln.Plural != "" {
				return ln.Plural
			}
		default:
			if ln.Singular != "" {
				return ln.Singular
			}
		}
	}

	def, ok := defaultNames[level]
	if !ok {
		return string(level)
	}
	if form == Plural {
		return def.Plural
	}
	return def.Singular
}
