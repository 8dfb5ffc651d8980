package commands

import (
	"context"
	"fmt"

	"github.com/campground/campground/internal/hierarchy"
)

type TreeCmd struct{}

func (t *TreeCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}
	warnExpiredToken(e.sess)

	if err := e.loadTree(ctx); err != nil {
		return err
	}

	activeOrg := e.tree.ActiveOrganization()
	activeCompany := e.tree.ActiveCompany()

	for _, org := range e.tree.Organizations() {
		marker := " "
		if activeOrg != nil && activeOrg.ID == org.ID {
			marker = "*"
		}
		fmt.Printf("%s %s: %s (%s) [%s]\n",
			marker, e.tree.DisplayName(hierarchy.NodeOrganization, hierarchy.Singular),
			org.Name, org.ID, org.AccountType)

		for _, company := range org.Companies {
			marker = " "
			if activeCompany != nil && activeCompany.ID == company.ID {
				marker = "*"
			}
			fmt.Printf("  %s %s: %s (%s)\n",
				marker, e.tree.DisplayName(hierarchy.NodeCompany, hierarchy.Singular),
				company.Name, company.ID)

			for _, team := range company.Teams {
				fmt.Printf("      %s: %s (%s)\n",
					e.tree.DisplayName(hierarchy.NodeTeam, hierarchy.Singular),
					team.Name, team.ID)

				for _, project := range team.Projects {
					fmt.Printf("        %s: %s (%s)\n",
						e.tree.DisplayName(hierarchy.NodeProject, hierarchy.Singular),
						project.Name, project.ID)
				}
			}
		}
	}

	return e.saveSelection()
}
