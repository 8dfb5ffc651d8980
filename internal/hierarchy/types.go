package hierarchy

// AccountType controls how the active company is derived for an organization.
type AccountType string

const (
	AccountTypeStandard   AccountType = "STANDARD"
	AccountTypeEnterprise AccountType = "ENTERPRISE"
)

// NodeType identifies a level in the hierarchy.
type NodeType string

const (
	NodeOrganization NodeType = "organization"
	NodeCompany      NodeType = "company"
	NodeTeam         NodeType = "team"
	NodeProject      NodeType = "project"
)

// Organization is the root of one tree in the portfolio forest.
// DisplayNames, when present, overrides the default level labels for
// everything rendered in this organization's context.
type Organization struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	AccountType      AccountType   `json:"accountType,omitempty"`
	DefaultCompanyID string        `json:"defaultCompanyId,omitempty"`
	DisplayNames     *DisplayNames `json:"hierarchyDisplayNames,omitempty"`
	Companies        []*Company    `json:"companies"`
}

type Company struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Teams []*Team `json:"teams"`
}

type Team struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Projects []*Project `json:"projects"`
}

// Project carries descriptive fields the client passes through untouched.
type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	RepoURL     string  `json:"repoUrl,omitempty"`
	RiskScore   float64 `json:"riskScore,omitempty"`
}

// Item is a partial update record for any node. Pointer fields distinguish
// "not present" from a zero value, mirroring a sparse JSON body.
type Item struct {
	ID               string       `json:"id"`
	Type             NodeType     `json:"type"`
	Name             *string      `json:"name,omitempty"`
	AccountType      *AccountType `json:"accountType,omitempty"`
	DefaultCompanyID *string      `json:"defaultCompanyId,omitempty"`
	Description      *string      `json:"description,omitempty"`
	RepoURL          *string      `json:"repoUrl,omitempty"`
	RiskScore        *float64     `json:"riskScore,omitempty"`
}

// Selected identifies the node shown in a detail view. Any level is valid.
type Selected struct {
	Type NodeType
	ID   string
	Name string
}

// Ancestry is the chain of containing nodes for a target id. Entries past
// the matched level are nil.
type Ancestry struct {
	Organization *Organization
	Company      *Company
	Team         *Team
	Project      *Project
}
