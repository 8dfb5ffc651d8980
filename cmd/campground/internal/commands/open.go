package commands

import (
	"context"
	"fmt"

	"github.com/campground/campground/internal/hierarchy"
)

type OpenCmd struct {
	Path string `arg:"" help:"Deep link path, e.g. /projects/p1 or /teams/t1"`
}

func (o *OpenCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	if err := e.loadTree(ctx); err != nil {
		return err
	}

	_, id, ok := hierarchy.ParsePath(o.Path)
	if !ok {
		return fmt.Errorf("path %q is not a resolvable deep link", o.Path)
	}

	e.tree.SetActiveFromPath(o.Path)

	chain, found := hierarchy.FindAncestry(e.tree.Organizations(), id)
	if !found {
		fmt.Printf("Id %q not in the cached hierarchy, fell back to the default selection\n", id)
	} else {
		fmt.Printf("%s: %s (%s)\n",
			e.tree.DisplayName(hierarchy.NodeOrganization, hierarchy.Singular),
			chain.Organization.Name, chain.Organization.ID)
		if chain.Company != nil {
			fmt.Printf("  %s: %s (%s)\n",
				e.tree.DisplayName(hierarchy.NodeCompany, hierarchy.Singular),
				chain.Company.Name, chain.Company.ID)
		}
		if chain.Team != nil {
			fmt.Printf("    %s: %s (%s)\n",
				e.tree.DisplayName(hierarchy.NodeTeam, hierarchy.Singular),
				chain.Team.Name, chain.Team.ID)
		}
		if chain.Project != nil {
			fmt.Printf("      %s: %s (%s)\n",
				e.tree.DisplayName(hierarchy.NodeProject, hierarchy.Singular),
				chain.Project.Name, chain.Project.ID)
		}
	}

	return e.saveSelection()
}
