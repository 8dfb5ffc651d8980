package commands

import (
	"context"
	"fmt"
)

type UseCmd struct {
	Kind string `arg:"" enum:"organization,org,company" help:"What to activate: organization or company"`
	ID   string `arg:"" help:"Entity id"`
}

func (u *UseCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	if err := e.loadTree(ctx); err != nil {
		return err
	}

	chain, ok := e.tree.Ancestry(u.ID)
	if !ok {
		return fmt.Errorf("id %q not found in the hierarchy", u.ID)
	}

	switch u.Kind {
	case "organization", "org":
		if chain.Company != nil {
			return fmt.Errorf("id %q is not an organization", u.ID)
		}
		e.tree.SetActiveOrganization(chain.Organization)
	case "company":
		if chain.Company == nil || chain.Team != nil {
			return fmt.Errorf("id %q is not a company", u.ID)
		}
		e.tree.SetActiveOrganization(chain.Organization)
		e.tree.SetActiveCompany(chain.Company)
	}

	if err := e.saveSelection(); err != nil {
		return err
	}

	org := e.tree.ActiveOrganization()
	fmt.Printf("Active organization: %s (%s)\n", org.Name, org.ID)
	if company := e.tree.ActiveCompany(); company != nil {
		fmt.Printf("Active company: %s (%s)\n", company.Name, company.ID)
	}

	return nil
}
