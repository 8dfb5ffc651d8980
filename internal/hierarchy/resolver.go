package hierarchy

import "strings"

// Ancestry resolution assumes entity ids are unique across the whole forest,
// not just within one level. The server issues UUIDs, so the first structural
// match at any level is taken as the answer. If that assumption ever breaks,
// resolution returns whichever match the depth-first walk reaches first; the
// tests pin this down so a change in walk order is caught.

// FindAncestry walks the forest depth-first and returns the chain of nodes
// containing id, stopping at the first match at any level. The second return
// is false when the id is not present in the forest.
func FindAncestry(orgs []*Organization, id string) (Ancestry, bool) {
	for _, org := range orgs {
		if org.ID == id {
			return Ancestry{Organization: org}, true
		}
		for _, company := range org.Companies {
			if company.ID == id {
				return Ancestry{Organization: org, Company: company}, true
			}
			for _, team := range company.Teams {
				if team.ID == id {
					return Ancestry{Organization: org, Company: company, Team: team}, true
				}
				for _, project := range team.Projects {
					if project.ID == id {
						return Ancestry{
							Organization: org,
							Company:      company,
							Team:         team,
							Project:      project,
						}, true
					}
				}
			}
		}
	}
	return Ancestry{}, false
}

// ParsePath extracts the node kind and id from a browser-style pathname such
// as "/teams/t1" or "/projects/p1". Only those two prefixes participate in
// deep-link resolution; anything else reports ok == false.
func ParsePath(pathname string) (kind NodeType, id string, ok bool) {
	parts := strings.Split(strings.Trim(pathname, "/"), "/")
	if len(parts) < 2 || parts[1] == "" {
		return "", "", false
	}

	switch parts[0] {
	case "teams":
		return NodeTeam, parts[1], true
	case "projects":
		return NodeProject, parts[1], true
	default:
		return "", "", false
	}
}
