package commands

import (
	"context"
	"fmt"

	"github.com/campground/campground/internal/hierarchy"
)

type RenameCmd struct {
	Level    string `arg:"" enum:"organization,company,team,project" help:"Hierarchy level to relabel"`
	Singular string `arg:"" help:"Singular label"`
	Plural   string `arg:"" help:"Plural label"`
}

func (r *RenameCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := setup(globals)
	if err != nil {
		return err
	}

	if err := e.loadTree(ctx); err != nil {
		return err
	}

	org := e.tree.ActiveOrganization()
	if org == nil {
		return fmt.Errorf("no active organization, run use first")
	}

	names := hierarchy.DisplayNames{}
	if org.DisplayNames != nil {
		names = *org.DisplayNames
	}

	pair := &hierarchy.LevelNames{Singular: r.Singular, Plural: r.Plural}
	switch hierarchy.NodeType(r.Level) {
	case hierarchy.NodeOrganization:
		names.Organization = pair
	case hierarchy.NodeCompany:
		names.Company = pair
	case hierarchy.NodeTeam:
		names.Team = pair
	case hierarchy.NodeProject:
		names.Project = pair
	}

	if err := e.tree.UpdateDisplayNames(ctx, org.ID, names); err != nil {
		return err
	}

	fmt.Printf("%s now shows as %q / %q in %s\n",
		r.Level, r.Singular, r.Plural, org.Name)
	return nil
}
