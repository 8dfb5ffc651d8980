package hierarchy

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestResolveName(t *testing.T) {
	t.Run("defaults cover every level and form", func(t *testing.T) {
		cases := map[NodeType][2]string{
			NodeOrganization: {"Organization", "Organizations"},
			NodeCompany:      {"Company", "Companies"},
			NodeTeam:         {"Team", "Teams"},
			NodeProject:      {"Project", "Projects"},
		}
		for level, want := range cases {
			require.Equal(t, want[0], ResolveName(level, Singular, nil))
			require.Equal(t, want[1], ResolveName(level, Plural, nil))
		}
	})

	t.Run("overlay wins when present", func(t *testing.T) {
		overlay := &DisplayNames{
			Team: &LevelNames{Singular: "Squad", Plural: "Squads"},
		}
		require.Equal(t, "Squad", ResolveName(NodeTeam, Singular, overlay))
		require.Equal(t, "Squads", ResolveName(NodeTeam, Plural, overlay))
		require.Equal(t, "Company", ResolveName(NodeCompany, Singular, overlay),
			"levels without an override keep the default")
	})

	t.Run("empty override strings fall through to defaults", func(t *testing.T) {
		overlay := &DisplayNames{
			Company: &LevelNames{Singular: "Division"},
		}
		require.Equal(t, "Division", ResolveName(NodeCompany, Singular, overlay))
		require.Equal(t, "Companies", ResolveName(NodeCompany, Plural, overlay))
	})

	t.Run("unknown level returns the level itself", func(t *testing.T) {
		require.Equal(t, "galaxy", ResolveName(NodeType("galaxy"), Singular, nil))
		require.Equal(t, "galaxy", ResolveName(NodeType("galaxy"), Plural, &DisplayNames{}))
	})

	t.Run("unknown form behaves as singular", func(t *testing.T) {
		require.Equal(t, "Team", ResolveName(NodeTeam, NameForm("dual"), nil))
	})
}

func TestStoreDisplayName(t *testing.T) {
	t.Run("no active organization uses defaults", func(t *testing.T) {
		st := NewStore(&fakeAPI{}, zerolog.Nop())
		require.Equal(t, "Projects", st.DisplayName(NodeProject, Plural))
	})

	t.Run("active organization overlay applies", func(t *testing.T) {
		forest := testForest()
		forest[0].DisplayNames = &DisplayNames{
			Project: &LevelNames{Singular: "App", Plural: "Apps"},
		}
		st, _ := loadedStore(t, forest)
		st.SetActiveOrganization(st.Organizations()[0])
		require.Equal(t, "Apps", st.DisplayName(NodeProject, Plural))
	})
}
