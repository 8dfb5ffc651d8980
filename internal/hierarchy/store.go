package hierarchy

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// API is the slice of the Campground REST client the store depends on.
// Implemented by internal/api.Client; tests supply fakes.
type API interface {
	FetchHierarchy(ctx context.Context) ([]*Organization, error)
	UpdateOrganization(ctx context.Context, id string, update OrganizationUpdate) (*Organization, error)
}

// OrganizationUpdate is a sparse PUT body for an organization. Nil fields are
// omitted from the request.
type OrganizationUpdate struct {
	Name             *string       `json:"name,omitempty"`
	AccountType      *AccountType  `json:"accountType,omitempty"`
	DefaultCompanyID *string       `json:"defaultCompanyId,omitempty"`
	DisplayNames     *DisplayNames `json:"hierarchyDisplayNames,omitempty"`
}

// Node is implemented by all four hierarchy levels so structural mutations
// can take any of them.
type Node interface {
	NodeID() string
	NodeType() NodeType
	NodeName() string
}

func (o *Organization) NodeID() string { return o.ID }
func (o *Organization) NodeType() NodeType { return NodeOrganization }
func (o *Organization) NodeName() string { return o.Name }

func (c *Company) NodeID() string { return c.ID }
func (c *Company) NodeType() NodeType { return NodeCompany }
func (c *Company) NodeName() string { return c.Name }

func (t *Team) NodeID() string { return t.ID }
func (t *Team) NodeType() NodeType { return NodeTeam }
func (t *Team) NodeName() string { return t.Name }

func (p *Project) NodeID() string { return p.ID }
func (p *Project) NodeType() NodeType { return NodeProject }
func (p *Project) NodeName() string { return p.Name }

// Store is the single source of truth for the portfolio forest and the active
// selection path. All mutations go through named operations; reads return
// data under a read lock. Structural mutations that cannot find their target
// are silent no-ops: the local cache is optimistic and tolerates being
// momentarily behind the server.
type Store struct {
	mu     sync.RWMutex
	api    API
	logger zerolog.Logger

	orgs  []*Organization
	index map[string]Ancestry // id -> containing chain, rebuilt on structural change

	activeOrg     *Organization
	activeCompany *Company
	selected      *Selected

	lastErr string
}

// NewStore creates an empty store backed by the given API client.
func NewStore(api API, logger zerolog.Logger) *Store {
	return &Store{
		api:    api,
		logger: logger,
		index:  map[string]Ancestry{},
	}
}

// Load replaces the whole forest from GET /api/v1/hierarchy. On failure the
// previous forest is left untouched and the error is recorded and returned.
// Load never changes which organization is active; it only re-resolves the
// existing selection into the fresh tree by id so pointers don't dangle.
// Callers wanting an initial selection call SetInitialActive afterwards.
func (s *Store) Load(ctx context.Context) error {
	orgs, err := s.api.FetchHierarchy(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		return fmt.Errorf("fetch hierarchy: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orgs = orgs
	s.lastErr = ""
	s.reindex()
	s.reanchorSelection()

	s.logger.Debug().Int("organizations", len(orgs)).Msg("hierarchy loaded")
	return nil
}

// SetInitialActive derives a default selection: the first organization, with
// its active company per the account-type rule. It never overrides an
// existing explicit selection and is a no-op on an empty forest.
func (s *Store) SetInitialActive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeOrg != nil || len(s.orgs) == 0 {
		return
	}
	s.setActiveOrgLocked(s.orgs[0])
}

// SetActiveOrganization activates org and derives the active company:
// STANDARD organizations resolve their defaultCompanyId (falling back to the
// first company), ENTERPRISE organizations start at the first company. The
// selected item becomes the organization.
func (s *Store) SetActiveOrganization(org *Organization) {
	if org == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Prefer the store's own node for this id so later in-place updates are
	// visible through the selection.
	if chain, ok := s.index[org.ID]; ok && chain.Organization != nil && chain.Company == nil {
		org = chain.Organization
	}
	s.setActiveOrgLocked(org)
}

func (s *Store) setActiveOrgLocked(org *Organization) {
	s.activeOrg = org
	s.activeCompany = deriveActiveCompany(org)
	s.selected = &Selected{Type: NodeOrganization, ID: org.ID, Name: org.Name}
}

func deriveActiveCompany(org *Organization) *Company {
	if org == nil || len(org.Companies) == 0 {
		return nil
	}
	if org.AccountType == AccountTypeStandard && org.DefaultCompanyID != "" {
		for _, c := range org.Companies {
			if c.ID == org.DefaultCompanyID {
				return c
			}
		}
	}
	return org.Companies[0]
}

// SetActiveCompany activates company and selects it. Membership in the
// active organization is the caller's responsibility; the store does not
// re-validate it on this path.
func (s *Store) SetActiveCompany(company *Company) {
	if company == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if chain, ok := s.index[company.ID]; ok && chain.Company != nil && chain.Team == nil {
		company = chain.Company
	}
	s.activeCompany = company
	s.selected = &Selected{Type: NodeCompany, ID: company.ID, Name: company.Name}
}

// AddItem appends node under the parent with id parentID. An empty parentID
// appends an *Organization at the root. The insertion is a no-op when the
// parent is missing or the node type does not fit under it. Because the
// active selection shares pointers with the forest, an insertion under the
// active company is visible without a refetch.
func (s *Store) AddItem(node Node, parentID string) {
	if node == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch n := node.(type) {
	case *Organization:
		if parentID != "" {
			return
		}
		s.orgs = append(s.orgs, n)
	case *Company:
		chain, ok := s.index[parentID]
		if !ok || chain.Company != nil {
			return
		}
		chain.Organization.Companies = append(chain.Organization.Companies, n)
	case *Team:
		chain, ok := s.index[parentID]
		if !ok || chain.Company == nil || chain.Team != nil {
			return
		}
		chain.Company.Teams = append(chain.Company.Teams, n)
	case *Project:
		chain, ok := s.index[parentID]
		if !ok || chain.Team == nil || chain.Project != nil {
			return
		}
		chain.Team.Projects = append(chain.Team.Projects, n)
	default:
		return
	}

	s.reindex()
}

// RemoveItem splices out the first node matching both id and type. Removing
// an id that is not present is a no-op, never an error: the server may have
// already told another client to remove it.
func (s *Store) RemoveItem(id string, typ NodeType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain, ok := s.index[id]
	if !ok {
		return
	}

	switch typ {
	case NodeOrganization:
		if chain.Company != nil {
			return
		}
		s.orgs = spliceOrg(s.orgs, id)
	case NodeCompany:
		if chain.Company == nil || chain.Team != nil {
			return
		}
		chain.Organization.Companies = spliceCompany(chain.Organization.Companies, id)
	case NodeTeam:
		if chain.Team == nil || chain.Project != nil {
			return
		}
		chain.Company.Teams = spliceTeam(chain.Company.Teams, id)
	case NodeProject:
		if chain.Project == nil {
			return
		}
		chain.Team.Projects = spliceProject(chain.Team.Projects, id)
	default:
		return
	}

	s.reindex()
}

func spliceOrg(list []*Organization, id string) []*Organization {
	for i, n := range list {
		if n.ID == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func spliceCompany(list []*Company, id string) []*Company {
	for i, n := range list {
		if n.ID == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func spliceTeam(list []*Team, id string) []*Team {
	for i, n := range list {
		if n.ID == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func spliceProject(list []*Project, id string) []*Project {
	for i, n := range list {
		if n.ID == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

// UpdateItem shallow-merges the present fields of item into the node with the
// same id. The merge propagates into the selected item and the active
// references automatically because they share the node pointer; the selected
// item's cached name is refreshed explicitly. An accountType change on the
// active organization re-derives the active company when the organization
// became STANDARD, since its default company now wins. Unknown ids are a
// silent no-op.
func (s *Store) UpdateItem(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chain, ok := s.index[item.ID]
	if !ok {
		return
	}

	var name *string
	switch {
	case chain.Project != nil:
		p := chain.Project
		mergeString(&p.Name, item.Name)
		mergeString(&p.Description, item.Description)
		mergeString(&p.RepoURL, item.RepoURL)
		if item.RiskScore != nil {
			p.RiskScore = *item.RiskScore
		}
		name = &p.Name
	case chain.Team != nil:
		mergeString(&chain.Team.Name, item.Name)
		name = &chain.Team.Name
	case chain.Company != nil:
		mergeString(&chain.Company.Name, item.Name)
		name = &chain.Company.Name
	default:
		org := chain.Organization
		mergeString(&org.Name, item.Name)
		if item.DefaultCompanyID != nil {
			org.DefaultCompanyID = *item.DefaultCompanyID
		}
		if item.AccountType != nil {
			org.AccountType = *item.AccountType
			if s.activeOrg != nil && s.activeOrg.ID == org.ID && *item.AccountType == AccountTypeStandard {
				s.activeCompany = deriveActiveCompany(org)
			}
		}
		name = &org.Name
	}

	if s.selected != nil && s.selected.ID == item.ID {
		s.selected.Name = *name
	}
}

func mergeString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// SetActiveFromPath reconciles a browser-style deep link ("/teams/t1",
// "/projects/p1") with the cached forest, activating the owning organization
// and company. Paths that don't match the two recognised shapes are ignored.
// An id the cache doesn't know yet (stale cache right after a create in
// another session) falls back to the default initial selection instead of
// leaving the selection empty.
func (s *Store) SetActiveFromPath(pathname string) {
	_, id, ok := ParsePath(pathname)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chain, found := s.index[id]
	if !found || chain.Company == nil {
		if s.activeOrg == nil && len(s.orgs) > 0 {
			s.setActiveOrgLocked(s.orgs[0])
		}
		return
	}

	s.activeOrg = chain.Organization
	s.activeCompany = chain.Company
}

// RefreshActiveCompany re-reads the active company out of the active
// organization's company list by id, picking up nested mutations such as a
// team added under it. When either side is unset, or the id is gone from the
// list, the current reference is left as is.
func (s *Store) RefreshActiveCompany() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeOrg == nil || s.activeCompany == nil {
		return
	}
	for _, c := range s.activeOrg.Companies {
		if c.ID == s.activeCompany.ID {
			s.activeCompany = c
			return
		}
	}
}

// DisplayName resolves a hierarchy level label through the active
// organization's overlay. Safe on every render path: it never fails.
func (s *Store) DisplayName(level NodeType, form NameForm) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var overlay *DisplayNames
	if s.activeOrg != nil {
		overlay = s.activeOrg.DisplayNames
	}
	return ResolveName(level, form, overlay)
}

// UpdateDisplayNames PUTs a new label overlay for an organization and merges
// the server's response into the cached entry (and the active organization
// when it is the same node).
func (s *Store) UpdateDisplayNames(ctx context.Context, orgID string, names DisplayNames) error {
	updated, err := s.api.UpdateOrganization(ctx, orgID, OrganizationUpdate{DisplayNames: &names})
	if err != nil {
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		return fmt.Errorf("update display names: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chain, ok := s.index[orgID]
	if !ok || chain.Company != nil {
		return nil
	}

	org := chain.Organization
	org.Name = updated.Name
	org.DisplayNames = updated.DisplayNames
	if updated.AccountType != "" {
		org.AccountType = updated.AccountType
	}
	if updated.DefaultCompanyID != "" {
		org.DefaultCompanyID = updated.DefaultCompanyID
	}
	s.lastErr = ""
	return nil
}

// Organizations returns the forest. Callers must treat it as read-only.
func (s *Store) Organizations() []*Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orgs
}

func (s *Store) ActiveOrganization() *Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeOrg
}

func (s *Store) ActiveCompany() *Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeCompany
}

func (s *Store) Selected() *Selected {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	sel := *s.selected
	return &sel
}

// Err returns the message of the last failed API call, empty after a success.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Ancestry resolves the containing chain for id out of the cached forest.
func (s *Store) Ancestry(id string) (Ancestry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chain, ok := s.index[id]
	return chain, ok
}

// reindex rebuilds the id index. Must be called with the write lock held
// after any structural change. The forest is UI-scale, so a full rebuild is
// cheaper to reason about than incremental maintenance.
func (s *Store) reindex() {
	idx := make(map[string]Ancestry, len(s.index))
	for _, org := range s.orgs {
		if _, dup := idx[org.ID]; !dup {
			idx[org.ID] = Ancestry{Organization: org}
		}
		for _, company := range org.Companies {
			if _, dup := idx[company.ID]; !dup {
				idx[company.ID] = Ancestry{Organization: org, Company: company}
			}
			for _, team := range company.Teams {
				if _, dup := idx[team.ID]; !dup {
					idx[team.ID] = Ancestry{Organization: org, Company: company, Team: team}
				}
				for _, project := range team.Projects {
					if _, dup := idx[project.ID]; !dup {
						idx[project.ID] = Ancestry{Organization: org, Company: company, Team: team, Project: project}
					}
				}
			}
		}
	}
	s.index = idx
}

// reanchorSelection re-resolves the active selection into a freshly loaded
// forest by id. The active company survives a refresh by identity; when its
// id is gone (or the organization type demands it) the account-type rule
// re-derives it. A vanished organization clears the selection entirely.
func (s *Store) reanchorSelection() {
	if s.activeOrg == nil {
		return
	}

	chain, ok := s.index[s.activeOrg.ID]
	if !ok || chain.Company != nil {
		s.activeOrg = nil
		s.activeCompany = nil
		s.selected = nil
		return
	}
	s.activeOrg = chain.Organization

	if s.activeCompany != nil {
		for _, c := range s.activeOrg.Companies {
			if c.ID == s.activeCompany.ID {
				s.activeCompany = c
				return
			}
		}
	}
	s.activeCompany = deriveActiveCompany(s.activeOrg)
}
